package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuely/config"
	"venuely/internal/database"
	"venuely/internal/router"
	"venuely/pkg/attachment"
	"venuely/pkg/payment"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)

	store, err := attachment.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.Fatalf("attachment store: %v", err)
	}

	var gateway payment.Provider
	if cfg.Gateway.BaseURL != "" {
		gateway = payment.NewGatewayProvider(cfg.Gateway.BaseURL, cfg.Gateway.Email, cfg.Gateway.Password)
	} else {
		log.Printf("no payment gateway configured; using stub provider")
		gateway = &payment.StubProvider{}
	}

	engine, bookingSvc := router.Setup(cfg, db, store, gateway)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go bookingSvc.RunCompletionSweeper(sweepCtx, cfg.Booking.SweepInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
