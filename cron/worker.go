// File: cron/worker.go
package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ravmarket/config"
	"ravmarket/models"
	"ravmarket/services/bidding"
	"ravmarket/services/escrow"
	"ravmarket/services/tasks"
	"ravmarket/services/travelreq"
	"ravmarket/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SweepServices groups the engines the background worker drives.
type SweepServices struct {
	Bidding       bidding.BiddingService
	Escrow        escrow.EscrowService
	TravelRequest travelreq.TravelRequestService
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient returns the enqueue-side asynq client.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// InitSweepWorker runs the async worker and its periodic scheduler in the
// background: stale-bid expiry, escrow timeout handling plus payout release,
// travel-request expiry, and notification dispatch.
func InitSweepWorker(svcs SweepServices) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBidSweep, handleBidSweep(svcs.Bidding))
	mux.HandleFunc(tasks.TypeEscrowSweep, handleEscrowSweep(svcs.Escrow))
	mux.HandleFunc(tasks.TypeTravelReqSweep, handleTravelReqSweep(svcs.TravelRequest))
	mux.HandleFunc(tasks.TypeNotifyDispatch, handleNotifyDispatch)

	go monitorRedisConnection()
	go runScheduler()

	// Start async worker with retry logic.
	go func() {
		log.Println("[SweepWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// runScheduler enqueues the periodic sweep tasks on their configured cadence.
func runScheduler() {
	scheduler := asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{})

	entries := map[string]string{
		tasks.TypeBidSweep:       config.AppConfig.BidSweepEvery,
		tasks.TypeEscrowSweep:    config.AppConfig.EscrowSweepEvery,
		tasks.TypeTravelReqSweep: config.AppConfig.BidSweepEvery,
	}
	for taskType, cronspec := range entries {
		if _, err := scheduler.Register(cronspec, asynq.NewTask(taskType, nil)); err != nil {
			log.Printf("[SweepWorker] Failed to register %s: %v", taskType, err)
		}
	}

	if err := scheduler.Run(); err != nil {
		log.Printf("[SweepWorker] Scheduler stopped: %v", err)
	}
}

func handleBidSweep(svc bidding.BiddingService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		_, err := svc.SweepExpiredBids(ctx, time.Now())
		return err
	}
}

func handleEscrowSweep(svc escrow.EscrowService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		now := time.Now()
		if _, err := svc.SweepTimeouts(ctx, now); err != nil {
			return err
		}
		_, err := svc.ReleaseEligible(ctx, now)
		return err
	}
}

func handleTravelReqSweep(svc travelreq.TravelRequestService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		_, err := svc.SweepExpiredRequests(ctx, time.Now())
		return err
	}
}

// handleNotifyDispatch delivers a queued notification. Delivery channels
// (push, email) hang off here; for now the event is logged as the audit
// trail.
func handleNotifyDispatch(ctx context.Context, task *asynq.Task) error {
	var p models.NotificationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[NotifyDispatch] Invalid payload: %v", err)
		return err
	}

	utils.GetLogger().Info("Notification dispatched",
		zap.String("user_id", p.UserID),
		zap.String("type", string(p.Type)),
		zap.Any("data", p.Data))
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SweepWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
