package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "shopery",
		Usage: "Shopery storefront API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run migrations and serve the HTTP API",
				Action: serve,
			},
			{
				Name:      "migrate",
				Usage:     "Run database migrations",
				ArgsUsage: "[up|down|status]",
				Action: func(ctx context.Context, c *cli.Command) error {
					command := c.Args().First()
					if command == "" {
						command = "up"
					}
					return migrate(ctx, command)
				},
			},
			{
				Name:   "worker",
				Usage:  "Deliver queued notifications and sweep expired carts and sessions",
				Action: runWorker,
			},
			{
				Name:   "cleanup",
				Usage:  "Delete expired guest carts and sessions once",
				Action: runCleanup,
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("shopery failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
