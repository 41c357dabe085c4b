package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/spa-storefront/api/responses"
	"github.com/angelmondragon/spa-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Spa-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the cart storage backend answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Spa-Env", cfg.App.Env)
		if storage != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := storage.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage not ready").
					WithDetails(map[string]any{"backend": cfg.Storage.Backend}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "storage": cfg.Storage.Backend})
	}
}
