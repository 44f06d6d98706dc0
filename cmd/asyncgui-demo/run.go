package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/clock"
	"github.com/b97tsk/asyncgui/dispatch"
	asyncprom "github.com/b97tsk/asyncgui/observability/prometheus"
	"github.com/b97tsk/asyncgui/thread"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the demo scenario",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "asyncgui.yaml",
				Usage:   "Clock configuration file (YAML); a missing file means defaults",
			},
			&cli.DurationFlag{
				Name:  "frame-interval",
				Usage: "Override frame_interval from the configuration",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address, e.g. :9090",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: 2,
				Usage: "Number of background workers",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log debug messages",
			},
		},

		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	cfg, err := clock.LoadConfigFile(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	if c.IsSet("frame-interval") {
		cfg.FrameInterval = c.Duration("frame-interval")
		if err := cfg.Validate(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}
	if c.Int("workers") < 1 {
		return cli.Exit("workers must be at least 1", 1)
	}

	logger := asyncgui.NewStdLogger(log.New(os.Stderr, "", log.LstdFlags), c.Bool("verbose"))

	reg := prom.NewRegistry()
	exporter, err := asyncprom.NewMetricsExporter("asyncgui", reg, asyncprom.ExporterOptions{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	poller, err := asyncprom.NewPoolPoller("asyncgui", reg, time.Second)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := c.String("metrics-addr"); addr != "" {
		srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", asyncgui.F("error", err))
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", asyncgui.F("addr", addr))
	}

	pool := thread.NewPool(c.Int("workers"), logger)
	defer pool.Close()

	poller.AddPool("workers", pool)
	poller.Start(ctx)
	defer poller.Stop()

	app := &demo{
		clk:    clock.New(cfg, clock.WithLogger(logger)),
		d:      dispatch.New(),
		pool:   pool,
		logger: logger,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	root := asyncgui.NewTask(func(co *asyncgui.Coroutine) (any, error) {
		defer cancel()
		return app.main(co)
	},
		asyncgui.WithName("demo"),
		asyncgui.WithObserver(asyncgui.Observers(asyncgui.LogObserver{Logger: logger}, exporter)),
	)
	asyncgui.Start(root)

	if err := app.clk.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	if !root.Finished() {
		logger.Info("interrupted")
		root.Cancel()
	}
	if err := root.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "✓ Finished in %d frames\n", app.clk.Frame())

	return nil
}
