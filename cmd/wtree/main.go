package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	wterrors "github.com/vango-dev/wtree/internal/errors"
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
		Use:   "wtree",
		Short: "Component lifecycle core playground",
		Long: `wtree drives a tree of stateful components through their lifecycle:
start, render, mount, update, detach and destroy.

The demo command mounts a sample tree and prints the resulting
document. The inspect command serves the live node set, a
lifecycle event stream and Prometheus metrics over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: wtree.json in the project root)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		demoCmd(&opts),
		inspectCmd(&opts),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var werr *wterrors.Error
		if errors.As(err, &werr) {
			fmt.Fprint(os.Stderr, werr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
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
