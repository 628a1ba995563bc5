package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/server"
	"github.com/platefeed/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if cfg.DBDriver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Redis is optional: without it the API runs without rate limiting.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" || cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Redis unavailable, continuing without rate limiting: %v", err)
			redisClient = nil
		}
	}

	images, err := buildImageStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	srv := server.New(cfg, db, images, redisClient)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func buildImageStore(cfg *config.Config) (service.ImageStore, error) {
	if cfg.S3Bucket != "" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return service.NewS3ImageStore(s3cfg), nil
	}
	return service.NewLocalImageStore(cfg.MediaDir)
}
