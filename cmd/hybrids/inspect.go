package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hybrids/pkg/fixture"
	"github.com/vango-dev/hybrids/pkg/inspect"
)

func inspectCmd(opts *globalOptions) *cobra.Command {
	var (
		addr  string
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect <scenario.yaml>",
		Short: "Serve the inspector while running a scenario",
		Long: `Serve the inspector for a scenario file.

The inspector exposes /metrics, /healthz, /tree and a websocket stream of
notifications at /events. Steps run one by one, --delay apart, and the
server keeps running until interrupted.

Examples:
  hybrids inspect testdata/cascade.yaml
  hybrids inspect --addr :8080 --delay 1s testdata/cascade.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts, os.Stderr)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Inspector.Addr
			}

			s, err := e.session(args[0])
			if err != nil {
				return err
			}
			srv := inspect.New(s.Runtime().ID(),
				inspect.WithGatherer(e.registry),
				inspect.WithLogger(e.logger),
			)
			for _, h := range s.Hosts() {
				srv.Watch(h, s.ID(h))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe(ctx, addr) }()
			success("Inspector on http://%s", addr)

			if err := runSteps(ctx, s, srv, delay); err != nil {
				stop()
				<-errc
				return err
			}
			return <-errc
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Pause between steps")

	return cmd
}

// runSteps runs the steps of s, publishing a tree snapshot after each.
func runSteps(ctx context.Context, s *fixture.Session, srv *inspect.Server, delay time.Duration) error {
	if err := publishTree(s, srv); err != nil {
		return err
	}
	for i := range s.Steps() {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
		}
		if err := s.RunStep(i); err != nil {
			return err
		}
		s.Runtime().Settle()
		if err := publishTree(s, srv); err != nil {
			return err
		}
	}
	return nil
}

func publishTree(s *fixture.Session, srv *inspect.Server) error {
	var b strings.Builder
	if err := s.WriteTree(&b); err != nil {
		return err
	}
	srv.SetTree(b.String())
	return nil
}
