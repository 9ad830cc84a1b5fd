package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dukerupert/shopery/internal/jobs"
	"github.com/dukerupert/shopery/internal/repository"
	"github.com/dukerupert/shopery/internal/worker"
)

// runWorker subscribes to notification subjects and sweeps expired rows on
// CLEANUP_INTERVAL until interrupted. Without NATS only the sweep runs.
func runWorker(ctx context.Context, _ *cli.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	pool, err := a.openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := a.connectNATS()
	if err != nil {
		return err
	}
	if conn != nil {
		defer conn.Drain()
	}

	mailer, err := a.mailer()
	if err != nil {
		return err
	}

	w := worker.NewWorker(conn, mailer, repository.NewStore(pool), a.metrics, worker.Config{
		CleanupInterval: a.cfg.CleanupInterval,
	}, a.logger)

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("worker failed: %w", err)
	}
	a.logger.Info().Msg("Worker stopped")
	return nil
}

func runCleanup(ctx context.Context, _ *cli.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	pool, err := a.openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	result, err := jobs.RunCleanup(ctx, repository.NewStore(pool), time.Now(), a.metrics, a.logger)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d expired guest carts and %d expired sessions\n", result.GuestCartsDeleted, result.SessionsDeleted)
	return nil
}
