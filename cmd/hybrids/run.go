package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hybrids/pkg/fixture"
)

func runCmd(opts *globalOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scenario files",
		Long: `Run scenario files and print every @invalidate notification.

Each file is mounted in a fresh runtime. The command stops at the first
failing step and reports its location.

Examples:
  hybrids run testdata/cascade.yaml
  hybrids run --quiet scenarios/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts, os.Stderr)
			if err != nil {
				return err
			}
			for _, path := range args {
				if err := runScenario(e, path, quiet); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary")

	return cmd
}

func runScenario(e *env, path string, quiet bool) error {
	s, err := e.session(path)
	if err != nil {
		return err
	}
	if !quiet {
		for _, ev := range s.Events() {
			info("%s", ev)
		}
		s.OnEvent(func(ev fixture.Event) {
			info("%s", ev)
		})
	}

	res, err := s.Run()
	if err != nil {
		return err
	}
	success("%s: %d steps, %d notifications", path, res.Steps, len(res.Events))
	if e.cfg.Metrics.Enabled && !quiet {
		families, err := e.registry.Gather()
		if err != nil {
			return err
		}
		for _, f := range families {
			for _, m := range f.GetMetric() {
				if c := m.GetCounter(); c != nil {
					info("%s %g", f.GetName(), c.GetValue())
				}
			}
		}
	}
	return nil
}
