// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ravmarket/config"
	"ravmarket/cron"
	"ravmarket/database"
	bidRepoPkg "ravmarket/database/repository/bid"
	bookingRepoPkg "ravmarket/database/repository/booking"
	cancellationRepoPkg "ravmarket/database/repository/cancellation"
	escrowRepoPkg "ravmarket/database/repository/escrow"
	listingRepoPkg "ravmarket/database/repository/listing"
	travelreqRepoPkg "ravmarket/database/repository/travelreq"
	"ravmarket/routes"
	"ravmarket/services/bidding"
	"ravmarket/services/cancellation"
	"ravmarket/services/escrow"
	"ravmarket/services/fairvalue"
	"ravmarket/services/notification"
	"ravmarket/services/payment"
	"ravmarket/services/travelreq"
	"ravmarket/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	listingRepo := listingRepoPkg.NewMongoListingRepo()
	bidRepo := bidRepoPkg.NewMongoBidRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	escrowRepo := escrowRepoPkg.NewMongoEscrowRepo()
	cancellationRepo := cancellationRepoPkg.NewMongoCancellationRepo()
	travelReqRepo := travelreqRepoPkg.NewMongoTravelRequestRepo()

	// collaborators.
	clock := utils.RealClock{}
	queueClient := cron.NewQueueClient()
	notifier := notification.NewDefaultNotificationService(queueClient)
	paymentService := payment.NewStripePaymentService()

	// engines.
	biddingService := bidding.NewDefaultBiddingService(listingRepo, bidRepo, bookingRepo, notifier, clock)
	escrowService := escrow.NewDefaultEscrowService(escrowRepo, bookingRepo, listingRepo, paymentService, notifier, clock)
	cancellationService := cancellation.NewDefaultCancellationService(
		bookingRepo, listingRepo, escrowRepo, cancellationRepo, paymentService, notifier, clock)
	fairValueService := fairvalue.NewDefaultFairValueService(listingRepo, bidRepo, utils.GetCacheClient(), clock)
	travelRequestService := travelreq.NewDefaultTravelRequestService(travelReqRepo, listingRepo, notifier, clock)

	// Background sweeps: stale bids, owner-gate timeouts, payout release,
	// expired travel requests, notification dispatch.
	cron.InitSweepWorker(cron.SweepServices{
		Bidding:       biddingService,
		Escrow:        escrowService,
		TravelRequest: travelRequestService,
	})

	routes.RegisterRoutes(router, &routes.ServiceBundle{
		Listings:       listingRepo,
		Bidding:        biddingService,
		Escrow:         escrowService,
		Cancellation:   cancellationService,
		FairValue:      fairValueService,
		TravelRequest:  travelRequestService,
		MarkupPct:      config.AppConfig.CommissionRatePct,
		RequestsPerMin: config.AppConfig.MaxRequestsPerMin,
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
