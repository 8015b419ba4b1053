package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shahwaizSattar/mern-blog/internal/api"
	"github.com/shahwaizSattar/mern-blog/internal/api/handlers"
	"github.com/shahwaizSattar/mern-blog/internal/api/middleware"
	"github.com/shahwaizSattar/mern-blog/internal/config"
	"github.com/shahwaizSattar/mern-blog/internal/media"
	"github.com/shahwaizSattar/mern-blog/internal/repositories"
	"github.com/shahwaizSattar/mern-blog/internal/token"
)

// @title Blog API
// @version 1.0
// @description REST API for a small blogging application.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := repositories.Connect(cfg.DBURL)
	if err != nil {
		log.Fatalf("Database startup failed: %v", err)
	}
	log.Println("Successfully connected to database")

	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	tokens := token.New(cfg.JWTSecret, cfg.TokenTTL)

	var store media.Store
	var uploadsDir string
	if cfg.R2.BucketName != "" {
		s3Store, err := media.NewS3Store(cfg.R2)
		if err != nil {
			log.Fatalf("R2 startup failed: %v", err)
		}
		store = s3Store
		log.Println("Using R2 media storage")
	} else {
		diskStore, err := media.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("Upload directory setup failed: %v", err)
		}
		store = diskStore
		uploadsDir = diskStore.Dir()
		log.Println("Using local media storage in", uploadsDir)
	}

	handler := api.SetupRouter(cfg, api.RouterDeps{
		Auth:       handlers.NewAuthHandler(userRepo, tokens),
		Posts:      handlers.NewPostHandler(postRepo, store),
		Users:      handlers.NewUserHandler(userRepo, store),
		Guard:      middleware.New(tokens),
		UploadsDir: uploadsDir,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting blog server on port: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
