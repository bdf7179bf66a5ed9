package main

import (
	"log"
	"net/http"
	"time"

	"animal-shelter/internal/adapters/auth/sessiond"
	"animal-shelter/internal/config"
	"animal-shelter/internal/platform/logger"
	"animal-shelter/internal/ports/auth"
	"animal-shelter/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	appLog := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var verifier auth.AuthVerifier // nil => modo dev (headers X-Debug-*)
	if cfg.AuthBaseURL != "" {
		v, err := sessiond.NewVerifier(sessiond.Config{BaseURL: cfg.AuthBaseURL})
		if err != nil {
			log.Fatalf("auth verifier error: %v", err)
		}
		verifier = v
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Log:          appLog,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.Info("starting server", map[string]any{"addr": cfg.Addr()})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
