package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/ordering-engine/api/responses"
	"github.com/angelmondragon/ordering-engine/pkg/config"
	pkgerrors "github.com/angelmondragon/ordering-engine/pkg/errors"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
	"github.com/angelmondragon/ordering-engine/pkg/redis"
)

const (
	envHeader         = "X-Ordering-Env"
	readyCheckTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the catalog is loaded and redis, when
// configured, answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, catalogItems int, redisPinger redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		checks := map[string]string{"catalog": "ok"}
		if catalogItems == 0 {
			checks["catalog"] = "empty"
		}
		if redisPinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
			defer cancel()
			if err := redisPinger.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").
					WithDetails(map[string]string{"redis": "unavailable"}))
				return
			}
			checks["redis"] = "ok"
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
