package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"medication-tracker/internal/adapters/auth/jwt"
	"medication-tracker/internal/platform/logger"
	"medication-tracker/internal/platform/metrics"
	"medication-tracker/internal/ports/auth"
	"medication-tracker/internal/router"
)

func main() {
	// .env es opcional; en deploy las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Sin JWT_SECRET queda el modo dev (X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		v, err := jwt.NewVerifier(secret)
		if err != nil {
			log.Error("invalid jwt config", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = v
	} else {
		log.Warn("JWT_SECRET not set, running in dev auth mode", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       log,
		Metrics:      metrics.NewCoreMetrics(),
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
