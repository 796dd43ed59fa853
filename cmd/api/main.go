package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/qsketch/qsketch/internal/config"
	"github.com/qsketch/qsketch/internal/handlers"
	"github.com/qsketch/qsketch/internal/simulation"
	"github.com/qsketch/qsketch/internal/workspace"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	configPath := os.Getenv("QSKETCH_CONFIG")
	if configPath == "" {
		configPath = "qsketch.toml"
	}

	cfg, err := config.Load(configPath, logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// Assemble the runner with the configured backends
	runner := simulation.NewRunner(logger)
	if cfg.Local.Enabled {
		runner.Register(simulation.NewLocalBackend(cfg.Local.MaxQubits))
	}
	if cfg.Remote.Enabled {
		remote, err := simulation.NewRemoteBackend(&simulation.AerConfig{
			BaseURL:      cfg.Remote.BaseURL,
			APIKey:       cfg.Remote.APIKey,
			DeviceName:   cfg.Remote.DeviceName,
			MaxQubits:    cfg.Remote.MaxQubits,
			PollInterval: time.Duration(cfg.Remote.PollingSeconds) * time.Second,
		})
		if err != nil {
			logger.Fatal("failed to create remote backend", zap.Error(err))
		}
		runner.Register(remote)
	}
	if len(runner.Backends()) == 0 {
		logger.Fatal("no simulation backend enabled")
	}

	ws := workspace.NewManager(logger)
	circuitHandler := handlers.NewCircuitHandler(ws, runner, cfg.Run)

	mux := http.NewServeMux()

	mux.HandleFunc("/", handlers.HomeHandler)
	mux.HandleFunc("/health", handlers.HealthHandler)
	mux.HandleFunc("/api/v1/gates", handlers.GateCatalogHandler)

	mux.HandleFunc("/api/v1/circuits", circuitHandler.CircuitsHandler)
	mux.HandleFunc("/api/v1/circuits/load", circuitHandler.LoadHandler)
	mux.HandleFunc("/api/v1/circuits/", circuitHandler.CircuitByIDHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.Strings("backends", runner.Backends()),
	)
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
