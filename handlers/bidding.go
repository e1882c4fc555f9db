// File: handlers/bidding.go
package handlers

import (
	"net/http"

	"ravmarket/middleware"
	"ravmarket/models"
	"ravmarket/services/bidding"
	"ravmarket/utils"

	"github.com/gin-gonic/gin"
)

// OpenForBiddingHandler flips an active listing into bidding mode.
func OpenForBiddingHandler(svc bidding.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg models.BiddingConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}

		listing, err := svc.OpenListingForBidding(c.Request.Context(), c.Param("listingID"), middleware.CallerID(c), cfg)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}

// SubmitBidHandler places a bid on a listing.
func SubmitBidHandler(svc bidding.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bidding.SubmitBidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}

		bid, err := svc.SubmitBid(c.Request.Context(), middleware.CallerID(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, bid)
	}
}

// ListListingBidsHandler returns every bid on a listing.
func ListListingBidsHandler(svc bidding.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bids, err := svc.ListBidsForListing(c.Request.Context(), c.Param("listingID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bids": bids})
	}
}

// ListMyBidsHandler returns the caller's bids across listings.
func ListMyBidsHandler(svc bidding.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bids, err := svc.ListMyBids(c.Request.Context(), middleware.CallerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bids": bids})
	}
}

// AcceptBidHandler resolves the auction in favour of one bid.
func AcceptBidHandler(svc bidding.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := svc.AcceptBid(c.Request.Context(), c.Param("bidID"), middleware.CallerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}

// RejectBidHandler declines a single bid.
func RejectBidHandler(svc bidding.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RejectBid(c.Request.Context(), c.Param("bidID"), middleware.CallerID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "rejected"})
	}
}

// CounterOfferHandler annotates a pending bid with the owner's suggestion.
func CounterOfferHandler(svc bidding.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Amount  float64 `json:"amount" binding:"required"`
			Message string  `json:"message"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}

		bid, err := svc.IssueCounterOffer(c.Request.Context(), c.Param("bidID"), middleware.CallerID(c), input.Amount, input.Message)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bid)
	}
}

// WithdrawBidHandler lets a bidder retract their pending bid.
func WithdrawBidHandler(svc bidding.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.WithdrawBid(c.Request.Context(), c.Param("bidID"), middleware.CallerID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "withdrawn"})
	}
}
