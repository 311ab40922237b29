package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Kitchen-Backend/cmd/config"
	migration "Kitchen-Backend/cmd/database/migrate"
	"Kitchen-Backend/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "kitchen",
		Usage: "recipe management API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML configuration file",
				Sources: cli.EnvVars("KITCHEN_CONFIG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			utils.LoadConfig(cmd.String("config"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "migrate the database and start the HTTP server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "skip-migrate",
						Usage: "start without running migrations",
					},
				},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply the database schema and exit",
				Action: migrate,
			},
		},
		DefaultCommand: "serve",
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatalf("kitchen: %v", err)
	}
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	return migration.Migrate(db.WithContext(ctx))
}

func serve(ctx context.Context, cmd *cli.Command) error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if !cmd.Bool("skip-migrate") {
		if err := migration.Migrate(db.WithContext(ctx)); err != nil {
			return err
		}
	}

	app, err := config.NewApp(db)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorw("shutdown failed", "error", err)
		}
	}()

	return app.Listen(fmt.Sprintf(":%s", utils.GetConfig("APP_PORT")))
}
