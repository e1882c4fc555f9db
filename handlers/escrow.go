// File: handlers/escrow.go
package handlers

import (
	"net/http"

	"ravmarket/middleware"
	"ravmarket/services/escrow"
	"ravmarket/utils"

	"github.com/gin-gonic/gin"
)

// GetConfirmationHandler returns one escrow confirmation.
func GetConfirmationHandler(svc escrow.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		esc, err := svc.GetConfirmation(c.Request.Context(), c.Param("confirmationID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, esc)
	}
}

// ListPendingConfirmationsHandler returns the caller's open owner gates.
func ListPendingConfirmationsHandler(svc escrow.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		pending, err := svc.ListPendingForOwner(c.Request.Context(), middleware.CallerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"confirmations": pending})
	}
}

// ConfirmBookingHandler is the owner accepting inside the window.
func ConfirmBookingHandler(svc escrow.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		esc, err := svc.Confirm(c.Request.Context(), c.Param("confirmationID"), middleware.CallerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, esc)
	}
}

// DeclineBookingHandler is the owner backing out; the renter is made whole.
func DeclineBookingHandler(svc escrow.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Reason string `json:"reason"`
		}
		_ = c.ShouldBindJSON(&input)

		if err := svc.Decline(c.Request.Context(), c.Param("confirmationID"), middleware.CallerID(c), input.Reason); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "declined"})
	}
}

// RequestExtensionHandler pushes the confirmation deadline out once.
func RequestExtensionHandler(svc escrow.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		esc, err := svc.RequestExtension(c.Request.Context(), c.Param("confirmationID"), middleware.CallerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, esc)
	}
}

// CountdownHandler reports the live countdown on the owner gate.
func CountdownHandler(svc escrow.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cd, err := svc.CountdownFor(c.Request.Context(), c.Param("confirmationID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cd)
	}
}

// SubmitResortConfirmationHandler records the owner's booking-transfer
// evidence.
func SubmitResortConfirmationHandler(svc escrow.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ConfirmationNumber string `json:"confirmation_number" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}

		if err := svc.SubmitResortConfirmation(c.Request.Context(), c.Param("confirmationID"), middleware.CallerID(c), input.ConfirmationNumber); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "submitted"})
	}
}

// VerifyResortConfirmationHandler is the back-office verification step.
func VerifyResortConfirmationHandler(svc escrow.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.VerifyResortConfirmation(c.Request.Context(), c.Param("confirmationID")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "verified"})
	}
}
