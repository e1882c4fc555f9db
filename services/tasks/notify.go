// File: services/tasks/notify.go
package tasks

import (
	"encoding/json"

	"ravmarket/models"

	"github.com/hibiken/asynq"
)

const TypeNotifyDispatch = "notify:dispatch"

// Periodic sweep task types. The scheduler enqueues these on a fixed cadence;
// payloads are empty.
const (
	TypeBidSweep       = "bid:sweep"
	TypeEscrowSweep    = "escrow:sweep"
	TypeTravelReqSweep = "travelreq:sweep"
)

// NewNotifyTask wraps a notification payload for the async dispatch queue.
func NewNotifyTask(payload models.NotificationPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotifyDispatch, b), nil
}
