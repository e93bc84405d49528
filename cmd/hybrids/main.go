package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	herrors "github.com/vango-dev/hybrids/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "hybrids",
		Short: "Run and inspect reactive element scenarios",
		Long: `hybrids runs scenario files against the reactive element core.

A scenario declares element definitions, a tree and a list of steps.
The CLI mounts the tree, resolves parent links, runs the steps and
reports every @invalidate notification. Features include:

  • Parent links by tag, definition or predicate, through shadow roots
  • Lazy computed properties with batched invalidation
  • Prometheus metrics and OpenTelemetry spans per flush
  • A websocket inspector streaming notifications`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configDir, "config", "C", ".", "Directory holding hybrids.json, .yaml or .toml")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	// Add commands
	rootCmd.AddCommand(
		runCmd(&opts),
		treeCmd(&opts),
		inspectCmd(&opts),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		herrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
