// File: handlers/travelreq.go
package handlers

import (
	"net/http"

	"ravmarket/middleware"
	"ravmarket/services/travelreq"
	"ravmarket/utils"

	"github.com/gin-gonic/gin"
)

// OpenTravelRequestHandler posts a traveler's trip request.
func OpenTravelRequestHandler(svc travelreq.TravelRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input travelreq.OpenRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}

		req, err := svc.OpenRequest(c.Request.Context(), middleware.CallerID(c), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, req)
	}
}

// GetTravelRequestHandler returns one travel request.
func GetTravelRequestHandler(svc travelreq.TravelRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := svc.GetRequest(c.Request.Context(), c.Param("requestID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// ListOpenTravelRequestsHandler returns the requests owners can propose on.
func ListOpenTravelRequestsHandler(svc travelreq.TravelRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqs, err := svc.ListOpenRequests(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": reqs})
	}
}

// SubmitProposalHandler is an owner answering a travel request.
func SubmitProposalHandler(svc travelreq.TravelRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input travelreq.SubmitProposalInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}

		p, err := svc.SubmitProposal(c.Request.Context(), middleware.CallerID(c), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// ListProposalsHandler returns every proposal on a request.
func ListProposalsHandler(svc travelreq.TravelRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		proposals, err := svc.ListProposals(c.Request.Context(), c.Param("requestID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"proposals": proposals})
	}
}

// AcceptProposalHandler fulfills the request and returns the auto-created
// listing.
func AcceptProposalHandler(svc travelreq.TravelRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := svc.AcceptProposal(c.Request.Context(), c.Param("proposalID"), middleware.CallerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}

// RejectProposalHandler declines a single proposal.
func RejectProposalHandler(svc travelreq.TravelRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RejectProposal(c.Request.Context(), c.Param("proposalID"), middleware.CallerID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "rejected"})
	}
}

// WithdrawProposalHandler lets an owner pull their pending proposal.
func WithdrawProposalHandler(svc travelreq.TravelRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.WithdrawProposal(c.Request.Context(), c.Param("proposalID"), middleware.CallerID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "withdrawn"})
	}
}
