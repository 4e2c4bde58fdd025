package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"summercamp/auth"
	"summercamp/cache"
	"summercamp/config"
	"summercamp/database"
	"summercamp/enrollment"
	"summercamp/payment"
	"summercamp/server"
	"summercamp/utils"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the reconcile scheduler",
	RunE:  runServe,
}

// openDatabase loads config, connects and migrates. Every command starts here.
func openDatabase() (*config.Config, *database.DbInstance, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return cfg, db, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := enrollment.Options{
		MaxAttempts: cfg.SeatUpdateAttempts,
		LockTTL:     cfg.PaymentLockTTL,
	}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		opts.Guard = cache.NewRedisGuard(client)
		log.Println("Payment submissions are guarded through redis")
	}

	store := enrollment.NewGormStore(db.Db)
	scheduler, err := utils.InitializeReconcileScheduler(ctx, enrollment.NewReconciler(store, 100, 10), cfg.ReconcileSchedule)
	if err != nil {
		return err
	}
	defer func() { <-scheduler.Stop().Done() }()

	app := server.New(server.Deps{
		Config:      cfg,
		DB:          db.Db,
		Tokens:      auth.NewTokenService(cfg.JWTKey, cfg.TokenTTL),
		Gateway:     payment.NewStripeGateway(cfg.StripeAPIURL, cfg.StripeSecretKey, cfg.GatewayTimeout),
		Coordinator: enrollment.NewCoordinator(store, opts),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server is running on port %s", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	return app.ShutdownWithTimeout(10 * time.Second)
}
