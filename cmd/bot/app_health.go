package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/verifier/pkg/dataaccess/connection"
	"github.com/alexliesenfeld/health"
)

func (a *App) healthCheck() Controller {
	opts := []health.CheckerOption{
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1 * time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2 * time.Second),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.s.GatewayBot(); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout:        3 * time.Second,
			StatusListener: a.checkStatusListener("Discord API"),
		}),
	}

	if a.redis != nil {
		opts = append(opts, health.WithCheck(health.Check{
			Name: "Redis",
			Check: func(ctx context.Context) error {
				return connection.PingRedis(ctx, a.redis)
			},
			Timeout:        2 * time.Second,
			StatusListener: a.checkStatusListener("Redis"),
		}))
	}

	if a.mongo != nil {
		opts = append(opts, health.WithCheck(health.Check{
			Name: "MongoDB",
			Check: func(ctx context.Context) error {
				return connection.PingMongo(ctx, a.mongo)
			},
			Timeout:        2 * time.Second,
			StatusListener: a.checkStatusListener("MongoDB"),
		}))
	}

	return Controller(health.NewHandler(health.NewChecker(opts...)))
}

func (a *App) checkStatusListener(component string) func(ctx context.Context, name string, state health.CheckState) {
	return func(ctx context.Context, name string, state health.CheckState) {
		a.Info(component+" health check status changed",
			slog.String("name", name),
			slog.String("state", string(state.Status)),
		)
	}
}
