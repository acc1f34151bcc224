package controllers

import (
	"context"
	"net/http"

	"github.com/tumblera/tumblera-backend/api/responses"
	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/db"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/redis"
)

const envHeader = "X-Tumblera-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the backing stores. Nil pingers are
// skipped so partial deployments (worker without redis, tests) stay green.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := []struct {
			name string
			ping ctxPinger
		}{
			{"database", dbP},
			{"redis", redisP},
		}

		for _, check := range checks {
			if check.ping == nil {
				continue
			}
			if err := check.ping.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

type ctxPinger interface {
	Ping(ctx context.Context) error
}
