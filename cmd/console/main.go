package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/arq-console/internal/application"
	appconsole "github.com/bryanwahyu/arq-console/internal/application/console"
	"github.com/bryanwahyu/arq-console/internal/config"
	backendclient "github.com/bryanwahyu/arq-console/internal/infra/backend"
	"github.com/bryanwahyu/arq-console/internal/infra/httpserver"
	"github.com/bryanwahyu/arq-console/internal/middleware"
	"github.com/bryanwahyu/arq-console/internal/render"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// init backend client
	client := backendclient.New(cfg.Backend.BaseURL, cfg.RequestTimeout(), cfg.SubmitTimeout())

	// init tracker + service
	tracker := appconsole.NewTracker(client, cfg.PollInterval(), logger)
	svc := &appconsole.Service{
		Backend: client,
		Prober:  client,
		Tracker: tracker,
		Clock:   application.SystemClock{},
		Logger:  logger,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"backend": &middleware.BackendHealthChecker{Backend: client},
	}))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(svc, render.New()))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("console listening on %s (backend %s)", addr, cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
