// server/cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"reeutil-tradein-api-server/config"
	"reeutil-tradein-api-server/internal/api/routes"
	"reeutil-tradein-api-server/internal/clients/notify"
	"reeutil-tradein-api-server/internal/clients/payout"
	"reeutil-tradein-api-server/internal/clients/quote"
	"reeutil-tradein-api-server/internal/database"
	"reeutil-tradein-api-server/internal/delivery"
	"reeutil-tradein-api-server/internal/inspection"
	"reeutil-tradein-api-server/internal/intake"
	"reeutil-tradein-api-server/internal/s3"
	"reeutil-tradein-api-server/internal/socket"
	"reeutil-tradein-api-server/internal/store/mongostore"
	"reeutil-tradein-api-server/internal/valuation"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	client, db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		log.Fatalf("Could not seed admin user: %v", err)
	}

	// Stores.
	confirmationStore := mongostore.NewConfirmationStore(db)
	kitStore := mongostore.NewKitStore(db)
	deliveryStore := mongostore.NewDeliveryStore(db)
	inspectionStore := mongostore.NewInspectionStore(db)
	quoteStore := mongostore.NewQuoteStore(db)

	// Outbound collaborators, all bounded by the upstream timeout.
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout()}
	notifyClient := notify.NewClient(cfg.Notify.Bases, httpClient)
	quoteClient := quote.NewClient(cfg.Upstream.QuoteBase, httpClient)
	payoutClient := payout.NewClient(cfg.Upstream.PayoutBase, httpClient)

	// Local quotes resolve without a network hop; the upstream client covers
	// the rest.
	quoteProviders := inspection.ProviderChain{
		valuation.NewStoreProvider(quoteStore),
		quoteClient,
	}

	wsHub := socket.NewHub()

	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Could not create S3 uploader: %v", err)
		}
	} else {
		log.Println("S3 bucket not configured, photo uploads disabled")
	}

	// Services.
	valuationSvc := valuation.NewService(quoteStore)
	intakeSvc := intake.NewService(confirmationStore, kitStore, quoteProviders, notifyClient, cfg.Notify.EstDeliveryDays, cfg.UpstreamTimeout())
	deliverySvc := delivery.NewService(confirmationStore, deliveryStore, inspectionStore, wsHub)
	inspectionSvc := inspection.NewService(inspectionStore, deliveryStore, confirmationStore, quoteProviders, quoteClient, notifyClient, payoutClient)

	router := routes.SetupRouter(cfg, db, valuationSvc, intakeSvc, deliverySvc, inspectionSvc, s3Uploader, wsHub)

	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
