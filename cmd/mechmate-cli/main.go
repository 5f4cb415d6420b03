// Package main provides the mechmate CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Jeyavarman-2005/mechmate/internal/app"
	"github.com/Jeyavarman-2005/mechmate/internal/config"
	"github.com/Jeyavarman-2005/mechmate/internal/observability"
)

var (
	cfgFile    string
	outputJSON bool
	noColor    bool

	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "mechmate",
	Short: "Conversational queries over a machine maintenance log",
	Long: `mechmate answers natural language questions about a machine maintenance
spreadsheet: latest repairs, technicians, repair times, production loss,
recurring issues and more.

The log source is configurable: a Google Sheet, a CSV export, SQLite or
Postgres. All commands support --json for automation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logFormat := "console"
		if outputJSON {
			logFormat = "json"
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       cfg.Observability.LogLevel,
			Format:      logFormat,
			ServiceName: "mechmate-cli",
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newRecordsCmd())
	rootCmd.AddCommand(newWarmCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp() (*app.App, error) {
	return app.New(cfg, logger)
}

func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
