// Command almanac serves and reads a periodic magazine content tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/almanac/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "almanac",
		Short: "Serve and read a monthly magazine",
		Long: `Almanac serves a periodic magazine from a content tree of
monthly editions, each with a config, an optional theme and a set of
column bodies.

The same views the web reader uses can be resolved as JSON or read
directly in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to almanac.json (default ./almanac.json)")
	f.StringVar(&opts.contentDir, "content", "", "Content tree directory (overrides content.dir)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	cmd.AddCommand(
		serveCmd(opts),
		initCmd(),
		editionsCmd(opts),
		resolveCmd(opts),
		readCmd(opts),
		versionCmd(),
	)
	return cmd
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", fmt.Sprintf(format, args...))
}

// info prints an indented info line.
func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fmt.Sprintf(format, args...))
}
