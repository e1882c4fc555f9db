// File: handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"ravmarket/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// respondError maps engine fault types onto HTTP status codes. Anything not
// in the taxonomy is a 500.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *utils.ValidationError
		stateErr      *utils.InvalidStateTransitionError
		deadlineErr   *utils.DeadlineExpiredError
		extensionErr  *utils.ExtensionLimitExceededError
		concurrentErr *utils.ConcurrentModificationError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", validationErr.Message)
	case errors.As(err, &stateErr):
		utils.JSONError(c, http.StatusConflict, "Invalid state", stateErr.Error())
	case errors.As(err, &deadlineErr):
		utils.JSONError(c, http.StatusGone, "Deadline expired", deadlineErr.Error())
	case errors.As(err, &extensionErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Extension limit reached", extensionErr.Error())
	case errors.As(err, &concurrentErr):
		utils.JSONError(c, http.StatusConflict, "Conflicting update", concurrentErr.Error())
	case errors.Is(err, mongo.ErrNoDocuments):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
