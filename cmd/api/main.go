package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/wrapped/internal/adapters/auth"
	"github.com/ewilliams-labs/wrapped/internal/adapters/rest"
	"github.com/ewilliams-labs/wrapped/internal/adapters/spotify"
	"github.com/ewilliams-labs/wrapped/internal/adapters/sqlite"
	"github.com/ewilliams-labs/wrapped/internal/config"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
	"github.com/ewilliams-labs/wrapped/internal/core/services"
	"github.com/ewilliams-labs/wrapped/internal/worker"
)

func main() {
	// 1. Configuration (.env + Environment Variables), crash early if invalid
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid configuration:\n%v", err)
	}

	// 2. Initialize "Driven" Adapters
	// -- Dataset store
	var repo ports.DatasetRepository
	switch cfg.StorageDriver {
	case "sqlite":
		dbAdapter, err := sqlite.NewAdapter(cfg.StoragePath)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize database: %v", err)
		}
		defer dbAdapter.Close()
		repo = dbAdapter
	default:
		log.Fatalf("Unknown storage driver: %s", cfg.StorageDriver)
	}

	// -- Feature estimation for tracks the API has no features for
	var estimator ports.FeatureEstimator
	if cfg.FeaturesFallback == config.FallbackPreview {
		pool := worker.NewPool(cfg.WorkerQueueSize)
		pool.Start(cfg.WorkerCount)
		defer pool.Stop()
		estimator = pool
		log.Printf("worker: %d workers estimating missing audio features", cfg.WorkerCount)
	}

	// 3. Initialize Core Logic
	plan := services.DefaultPlan()
	plan.TopTracksLimit = cfg.TopTracksLimit
	plan.PlaylistID = cfg.GlobalTopPlaylistID
	plan.PlaylistLimit = cfg.PlaylistLimit
	svc := services.NewOrchestrator(repo, estimator, plan)

	// 4. Initialize "Driving" Adapter
	authenticator := auth.New(auth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		APIBaseURL:   cfg.APIBaseURL,
	})
	newProvider := func(hc *http.Client) ports.SpotifyProvider {
		return spotify.NewClient(hc, cfg.APIBaseURL)
	}

	// A pre-issued token starts the session without the browser round trip.
	if cfg.AccessToken != "" {
		login, err := authenticator.StaticLogin(context.Background(), cfg.AccessToken)
		if err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		if _, err := svc.StartSession(context.Background(), login.User, newProvider(login.HTTPClient)); err != nil {
			log.Fatalf("FATAL: failed to build dataset: %v", err)
		}
	}

	handler := rest.NewHandler(svc, authenticator, newProvider)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎧 Wrapped API is running on %s", cfg.HTTPAddr)
	log.Printf("   Log in at http://localhost%s/login", cfg.HTTPAddr)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
		if err := svc.EndSession(shutdownCtx); err != nil && err != services.ErrNoSession {
			log.Printf("WARN: failed to end session: %v", err)
		}
	}
}
