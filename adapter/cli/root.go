// Package cli contains the cobra command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/callsheethq/callsheet/pkg/observability"
)

var (
	verbose bool
	logger  *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "callsheet",
	Short: "callsheet - video production task management",
	Long: `callsheet keeps video productions on schedule: it tracks tasks
across shoots, edits, and reviews, and its priority engine ranks
what the crew should tackle next.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := observability.WithCorrelationID(cmd.Context(), uuid.New().String())
		cmd.SetContext(ctx)
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", observability.CorrelationIDFromContext(ctx),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", observability.CorrelationIDFromContext(cmd.Context()),
		)
	},
}

// SetLogger installs the logger used by the command tree.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Execute runs the root command with the given base context.
func Execute(ctx context.Context) {
	startedAt := time.Now()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("command failed",
				"error", err,
				"duration_ms", time.Since(startedAt).Milliseconds(),
			)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// AddCommand registers a subcommand on the root.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
