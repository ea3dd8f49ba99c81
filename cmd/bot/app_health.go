package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	dbMonitoring "github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess/monitoring"
	"github.com/alexliesenfeld/health"
	"github.com/prometheus/client_golang/prometheus"
)

func (a *App) healthCheck() http.HandlerFunc {
	checker := health.NewChecker(
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1*time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2*time.Second),

		// Monitor the health of the store.
		health.WithCheck(health.Check{
			Name: "Store",
			Check: func(ctx context.Context) error {
				backend := a.store.Backend()

				// Create a new timer to measure the latency of the check.
				t := prometheus.NewTimer(dbMonitoring.StoreLatency.WithLabelValues("health_check", "ping", backend, "-"))
				defer t.ObserveDuration()
				dbMonitoring.StoreTotalRequests.WithLabelValues("health_check", "ping", backend, "-").Inc()

				if err := a.store.Ping(ctx); err != nil {
					return fmt.Errorf("failed to ping %s store: %w", backend, err)
				}
				return nil
			},
			Timeout: 2 * time.Second,
			StatusListener: func(ctx context.Context, name string, state health.CheckState) {
				a.Info("Store health check status changed",
					slog.String("name", name),
					slog.String("state", string(state.Status)),
				)
			},
		}),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.dg.GatewayBot(); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout: 3 * time.Second,
			StatusListener: func(ctx context.Context, name string, state health.CheckState) {
				a.Info("Discord API health check status changed",
					slog.String("name", name),
					slog.String("state", string(state.Status)),
				)
			},
		}),
	)

	return health.NewHandler(checker).ServeHTTP
}
