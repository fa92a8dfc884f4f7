package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"adventure-backend/config"
	"adventure-backend/controllers"
	"adventure-backend/events"
	"adventure-backend/payments"
	"adventure-backend/repository"
	"adventure-backend/routes"
	"adventure-backend/services"
	"adventure-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	khaltiKey := os.Getenv("KHALTI_SECRET_KEY")
	if khaltiKey == "" {
		log.Fatal("KHALTI_SECRET_KEY environment variable is not set. Cannot initialize payment gateway.")
	}
	if os.Getenv("JWT_SECRET_KEY") == "" {
		log.Fatal("JWT_SECRET_KEY environment variable is not set. Cannot issue tokens.")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	log.Println("Database connection established and migrations applied.")

	redisClient := config.ConnectRedis()

	// Optional event bus; booking events are best effort without it.
	var publisher services.EventPublisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		pub, err := events.NewPublisher(url, utils.EnvOrDefault("RABBITMQ_EXCHANGE", "bookings"))
		if err != nil {
			log.Printf("warning: rabbitmq unavailable, events disabled: %v", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	gateway := payments.NewKhaltiClient(
		utils.EnvOrDefault("KHALTI_BASE_URL", payments.DefaultKhaltiBaseURL),
		khaltiKey,
	)

	bookingStore := repository.NewBookingStore(db)
	catalog := repository.NewAdventureCatalog(db)

	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)
	adventureService := services.NewAdventureService(db, redisClient)
	bookingService := services.NewBookingService(bookingStore, catalog, gateway, publisher)
	guideRequestService := services.NewGuideRequestService(db)
	backofficeService := services.NewBackofficeService(db)

	router := routes.SetupRouter(routes.Controllers{
		Auth:         controllers.NewAuthController(authService),
		Profile:      controllers.NewProfileController(userService),
		Adventure:    controllers.NewAdventureController(adventureService, backofficeService),
		Booking:      controllers.NewBookingController(bookingService, os.Getenv("ALLOWED_PAYMENT_REDIRECT_URLS")),
		GuideRequest: controllers.NewGuideRequestController(guideRequestService, backofficeService),
		Backoffice:   controllers.NewBackofficeController(backofficeService, userService),
		Upload:       controllers.NewUploadController(),
	}, userService)

	addr := ":" + utils.EnvOrDefault("PORT", "8080")

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
