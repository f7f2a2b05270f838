package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pp20",
		Short: "Pack and unpack PP20 compressed files",
		Long: `pp20 packs files into the PP20 format and unpacks them again.

Packed files can be decompressed in place; pack and info report the
safety margin an in-place decruncher needs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	flags.String("log-format", defaultLogFormat, "Log format: text, json")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")

	cmd.AddCommand(newPackCmd(), newUnpackCmd(), newInfoCmd())
	return cmd
}

// readLogger builds the logger selected by the persistent logging flags.
func readLogger(cmd *cobra.Command) (*slog.Logger, error) {
	flags := cmd.Flags()
	level, _ := flags.GetString("log-level")
	format, _ := flags.GetString("log-format")
	verbose, _ := flags.GetBool("verbose")

	if _, ok := parseLogLevel(level); !ok {
		return nil, fmt.Errorf("invalid --log-level %q: must be one of debug, info, warn, error", level)
	}
	switch strings.ToLower(format) {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid --log-format %q: must be text or json", format)
	}
	if verbose {
		level = "debug"
	}

	return buildLogger(cmd.ErrOrStderr(), level, format), nil
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, _ := parseLogLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}
