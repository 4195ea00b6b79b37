package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-builder/internal/course"
	"course-builder/internal/gateway"
	"course-builder/internal/platform/config"
	"course-builder/internal/platform/logger"
	"course-builder/internal/platform/metrics"
	"course-builder/internal/youtube"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	apiKey := config.GetEnv("YOUTUBE_API_KEY", "")
	curriculumFile := config.GetEnv("CURRICULUM_FILE", "")

	log := logger.New(logLevel, logFormat)
	met := metrics.New()

	gw := gateway.New(gateway.Config{
		RequestsPerWindow: config.GetEnvInt("GATEWAY_REQUESTS_PER_MINUTE", gateway.DefaultRequestsPerWindow),
		Window:            gateway.DefaultWindow,
		MinInterval:       config.GetEnvDuration("GATEWAY_MIN_INTERVAL", gateway.DefaultMinInterval),
	}, log, met)

	yt := youtube.New(youtube.Config{
		APIKey:     apiKey,
		BaseURL:    config.GetEnv("YOUTUBE_API_BASE_URL", youtube.DefaultBaseURL),
		MaxResults: config.GetEnvInt("YOUTUBE_MAX_RESULTS", youtube.DefaultMaxResults),
		Timeout:    config.GetEnvDuration("YOUTUBE_HTTP_TIMEOUT", youtube.DefaultTimeout),
		Retry: gateway.Options{
			Delay:             config.GetEnvDuration("GATEWAY_RETRY_DELAY", time.Second),
			MaxRetries:        config.GetEnvInt("GATEWAY_MAX_RETRIES", 3),
			BackoffMultiplier: config.GetEnvFloat("GATEWAY_BACKOFF_MULTIPLIER", 2),
		},
	}, gw)
	if !yt.Configured() {
		log.Warn("YOUTUBE_API_KEY not set, course requests will return no videos")
	}

	curricula := course.DefaultCurricula()
	if curriculumFile != "" {
		loaded, err := course.LoadCurricula(curriculumFile)
		if err != nil {
			log.Error("curriculum file", "error", err)
			os.Exit(1)
		}
		curricula = loaded
	}

	svc := course.NewService(yt, curricula, log)
	h := course.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Method(http.MethodGet, "/metrics", met.Handler())
	r.Get("/healthz", h.Healthz)
	r.Post("/api/course", h.GenerateCourse)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"youtube_configured", yt.Configured(),
		"curriculum_tracks", len(curricula.Tracks),
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
