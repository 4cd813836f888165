package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	wterrors "github.com/vango-dev/wtree/internal/errors"
	"github.com/vango-dev/wtree/pkg/dom"
	"github.com/vango-dev/wtree/pkg/inspect"
)

func inspectCmd(opts *globalOptions) *cobra.Command {
	var (
		addr     string
		counters int
		tick     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the inspector for a live demo tree",
		Long: `Mount the demo tree and serve the inspector:

  GET /nodes        live nodes as JSON
  GET /nodes/{id}   one live node
  GET /events       websocket stream of lifecycle events
  GET /metrics      Prometheus metrics
  GET /healthz      liveness

With --tick the demo counters are incremented periodically so the
event stream shows activity.

Examples:
  wtree inspect
  wtree inspect --addr=:7070 --tick=1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspector.Addr = addr
			}
			return runInspect(newPlayground(cfg, os.Stderr), counters, tick)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from wtree.json)")
	cmd.Flags().IntVarP(&counters, "counters", "n", 3, "Number of counter children")
	cmd.Flags().DurationVar(&tick, "tick", 0, "Increment a counter at this interval")

	return cmd
}

func runInspect(rt *playground, counters int, tick time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := mountDemo(ctx, rt, dom.NewDocument(), counters)
	if err != nil {
		return err
	}
	defer app.Destroy()

	if tick > 0 {
		go func() {
			ticker := time.NewTicker(tick)
			defer ticker.Stop()
			for i := 0; ; i++ {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := increment(ctx, app, i); err != nil {
						rt.logger.Error("increment failed", "error", err)
					}
				}
			}
		}()
	}

	srv := inspect.New(rt.collector, inspect.Config{
		Gatherer:   rt.registry,
		Registerer: rt.registry,
		Logger:     rt.logger,
	})
	success("Inspector on http://%s", rt.cfg.Inspector.Addr)
	if err := srv.ListenAndServe(ctx, rt.cfg.Inspector.Addr); err != nil {
		return wterrors.New("W012").WithDetail(rt.cfg.Inspector.Addr).Wrap(err)
	}
	return nil
}
