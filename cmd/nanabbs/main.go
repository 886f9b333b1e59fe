package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/logger"
	"github.com/itchan-dev/nanabbs/internal/router"
	"github.com/itchan-dev/nanabbs/internal/setup"
)

const (
	version         = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	app := &cli.App{
		Name:    "nanabbs",
		Usage:   "anonymous thread board",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config_folder",
				Aliases: []string{"c"},
				Usage:   "path to folder with public.yaml and private.yaml",
				Value:   "config",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) *config.Config {
	cfg := config.MustLoad(c.String("config_folder"))
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)
	return cfg
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "apply the schema before serving",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := loadConfig(c)
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			deps, err := setup.SetupDependencies(ctx, cfg, logger.Log)
			if err != nil {
				return err
			}
			defer deps.Close()

			if c.Bool("migrate") {
				if err := setup.Migrate(ctx, cfg, deps.Storage); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:         cfg.Public.HTTP.Addr,
				Handler:      router.New(deps),
				ReadTimeout:  cfg.Public.HTTP.ReadTimeout,
				WriteTimeout: cfg.Public.HTTP.WriteTimeout,
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Log.Info("server started", "addr", srv.Addr, "driver", cfg.Public.Storage.Driver)
				serveErr <- srv.ListenAndServe()
			}()

			select {
			case err := <-serveErr:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the database schema",
		Action: func(c *cli.Context) error {
			cfg := loadConfig(c)
			store, err := setup.OpenStorage(c.Context, cfg)
			if err != nil {
				return err
			}
			defer store.Cleanup()

			if err := setup.Migrate(c.Context, cfg, store); err != nil {
				return err
			}
			logger.Log.Info("schema applied", "driver", cfg.Public.Storage.Driver)
			return nil
		},
	}
}
