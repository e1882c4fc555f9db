// File: routes/routes.go
package routes

import (
	"net/http"
	"time"

	listingRepo "ravmarket/database/repository/listing"
	"ravmarket/handlers"
	"ravmarket/middleware"
	"ravmarket/services/bidding"
	"ravmarket/services/cancellation"
	"ravmarket/services/escrow"
	"ravmarket/services/fairvalue"
	"ravmarket/services/travelreq"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ServiceBundle groups the engines the HTTP surface exposes.
type ServiceBundle struct {
	Listings      listingRepo.ListingRepository
	Bidding       bidding.BiddingService
	Escrow        escrow.EscrowService
	Cancellation  cancellation.CancellationService
	FairValue     fairvalue.FairValueService
	TravelRequest travelreq.TravelRequestService

	MarkupPct      float64
	RequestsPerMin int
}

// RegisterListingRoutes registers listing and bidding endpoints.
func RegisterListingRoutes(r *gin.Engine, sb *ServiceBundle) {
	api := r.Group("/api/listings")
	{
		// Fair value is public: prospective renters check it before bidding.
		api.GET("/:listingID/fair-value", handlers.FairValueHandler(sb.FairValue))
		api.GET("/:listingID", handlers.GetListingHandler(sb.Listings))
		api.GET("/:listingID/bids", handlers.ListListingBidsHandler(sb.Bidding))

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", handlers.CreateListingHandler(sb.Listings, sb.MarkupPct))
		protected.POST("/:listingID/open-bidding", handlers.OpenForBiddingHandler(sb.Bidding))
	}
}

// RegisterBidRoutes registers the bid negotiation endpoints.
func RegisterBidRoutes(r *gin.Engine, sb *ServiceBundle) {
	api := r.Group("/api/bids")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.SubmitBidHandler(sb.Bidding))
		api.GET("/mine", handlers.ListMyBidsHandler(sb.Bidding))
		api.POST("/:bidID/accept", handlers.AcceptBidHandler(sb.Bidding))
		api.POST("/:bidID/reject", handlers.RejectBidHandler(sb.Bidding))
		api.POST("/:bidID/counter", handlers.CounterOfferHandler(sb.Bidding))
		api.POST("/:bidID/withdraw", handlers.WithdrawBidHandler(sb.Bidding))
	}
}

// RegisterEscrowRoutes registers the escrow confirmation endpoints.
func RegisterEscrowRoutes(r *gin.Engine, sb *ServiceBundle) {
	api := r.Group("/api/confirmations")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/pending", handlers.ListPendingConfirmationsHandler(sb.Escrow))
		api.GET("/:confirmationID", handlers.GetConfirmationHandler(sb.Escrow))
		api.GET("/:confirmationID/countdown", handlers.CountdownHandler(sb.Escrow))
		api.POST("/:confirmationID/confirm", handlers.ConfirmBookingHandler(sb.Escrow))
		api.POST("/:confirmationID/decline", handlers.DeclineBookingHandler(sb.Escrow))
		api.POST("/:confirmationID/extend", handlers.RequestExtensionHandler(sb.Escrow))
		api.POST("/:confirmationID/resort-confirmation", handlers.SubmitResortConfirmationHandler(sb.Escrow))
		api.POST("/:confirmationID/verify", handlers.VerifyResortConfirmationHandler(sb.Escrow))
	}
}

// RegisterBookingRoutes registers the cancellation endpoints.
func RegisterBookingRoutes(r *gin.Engine, sb *ServiceBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:bookingID/refund-preview", handlers.PreviewRefundHandler(sb.Cancellation))
		api.POST("/:bookingID/cancel", handlers.CancelBookingHandler(sb.Cancellation))
	}
}

// RegisterTravelRequestRoutes registers the reverse-marketplace endpoints.
func RegisterTravelRequestRoutes(r *gin.Engine, sb *ServiceBundle) {
	api := r.Group("/api/travel-requests")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", handlers.OpenTravelRequestHandler(sb.TravelRequest))
		api.GET("/open", handlers.ListOpenTravelRequestsHandler(sb.TravelRequest))
		api.GET("/:requestID", handlers.GetTravelRequestHandler(sb.TravelRequest))
		api.GET("/:requestID/proposals", handlers.ListProposalsHandler(sb.TravelRequest))
		api.POST("/proposals", handlers.SubmitProposalHandler(sb.TravelRequest))
		api.POST("/proposals/:proposalID/accept", handlers.AcceptProposalHandler(sb.TravelRequest))
		api.POST("/proposals/:proposalID/reject", handlers.RejectProposalHandler(sb.TravelRequest))
		api.POST("/proposals/:proposalID/withdraw", handlers.WithdrawProposalHandler(sb.TravelRequest))
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "ravmarket is up"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, sb *ServiceBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(sb.RequestsPerMin))

	RegisterHealthRoute(r)
	RegisterListingRoutes(r, sb)
	RegisterBidRoutes(r, sb)
	RegisterEscrowRoutes(r, sb)
	RegisterBookingRoutes(r, sb)
	RegisterTravelRequestRoutes(r, sb)
}
