package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/balance"
)

type Endpoints struct {
	DB *sql.DB
	// Realtime is the row change listener, a *pq.Listener in production.
	Realtime Pinger
}

type Pinger interface {
	Ping() error
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: func(ctx context.Context) error {
				if endpoints.DB == nil {
					return fmt.Errorf("database is not initialized")
				}
				return endpoints.DB.PingContext(ctx)
			},
		},
		{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}

	if endpoints.Realtime != nil {
		checks = append(checks, health.Config{
			Name:      "realtime",
			Timeout:   time.Second,
			SkipOnErr: true,
			Check: func(ctx context.Context) error {
				if err := endpoints.Realtime.Ping(); err != nil {
					return fmt.Errorf("row change listener is disconnected: %w", err)
				}
				return nil
			},
		})
	}

	// without a key there is nothing to probe; checkout will fail on its own
	if cfg.Stripe.APIKey != "" {
		checks = append(checks, health.Config{
			Name:      "stripe",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check: func(ctx context.Context) error {
				params := &stripe.BalanceParams{
					Params: stripe.Params{
						Context: ctx,
					},
				}
				if _, err := balance.Get(params); err != nil {
					return fmt.Errorf("failed to connect to stripe: %w", err)
				}
				return nil
			},
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "munera-platform",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
