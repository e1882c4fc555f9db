// File: handlers/cancellation.go
package handlers

import (
	"net/http"

	"ravmarket/middleware"
	"ravmarket/services/cancellation"
	"ravmarket/utils"

	"github.com/gin-gonic/gin"
)

// PreviewRefundHandler quotes the refund a cancellation would yield right
// now, without changing anything.
func PreviewRefundHandler(svc cancellation.CancellationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		preview, err := svc.PreviewRefund(c.Request.Context(), c.Param("bookingID"), middleware.CallerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, preview)
	}
}

// CancelBookingHandler cancels a confirmed booking.
func CancelBookingHandler(svc cancellation.CancellationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Reason string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}

		record, err := svc.CancelBooking(c.Request.Context(), c.Param("bookingID"), middleware.CallerID(c), input.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
