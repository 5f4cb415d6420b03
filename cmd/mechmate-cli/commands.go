package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Jeyavarman-2005/mechmate/internal/engine"
)

var version = "dev"

// newAskCmd creates the ask subcommand.
func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question about the maintenance log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			ui := NewUI(outputJSON, noColor)

			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, cancel := commandContext(2 * time.Minute)
			defer cancel()

			stop := ui.Spinner("thinking...")
			ans, err := application.Answerer.Answer(ctx, question)
			stop()
			if err != nil {
				return fmt.Errorf("answer: %w", err)
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(ans)
			}
			ui.Answer(ans.Text)
			ui.Info("intent: %s (source: %s)", ans.Intent, ans.Source)
			return nil
		},
	}
}

// newChatCmd creates the interactive chat subcommand.
func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive question and answer session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(false, noColor)

			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			ui.Info("mechmate ready. Ask about machines, repairs and technicians. Type 'exit' to quit.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					break
				}

				ctx, cancel := commandContext(2 * time.Minute)
				stop := ui.Spinner("thinking...")
				ans, err := application.Answerer.Answer(ctx, question)
				stop()
				cancel()
				if err != nil {
					ui.Error("%v", err)
					continue
				}
				ui.Answer(ans.Text)
			}
			return scanner.Err()
		},
	}
}

// newRecordsCmd creates the records subcommand.
func newRecordsCmd() *cobra.Command {
	var machineID string
	var limit int

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List parsed maintenance log records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON, noColor)

			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, cancel := commandContext(2 * time.Minute)
			defer cancel()

			stop := ui.Spinner("fetching records...")
			records, err := application.Snapshot.Records(ctx)
			stop()
			if err != nil {
				return fmt.Errorf("fetch records: %w", err)
			}

			rs := engine.RecordSet(records)
			if machineID != "" {
				rs = rs.ForMachine(machineID, "")
			}
			if limit > 0 && limit < len(rs) {
				rs = rs[:limit]
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(rs)
			}
			var f engine.Formatter
			for _, rec := range rs {
				fmt.Println(f.Record(rec))
			}
			ui.Success("%d record(s)", len(rs))
			return nil
		},
	}
	cmd.Flags().StringVar(&machineID, "machine", "", "filter by machine ID, e.g. MM001")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum records to print (0 for all)")
	return cmd
}

// newWarmCmd creates the warm subcommand.
func newWarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Preload the snapshot and embedding caches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON, noColor)

			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, cancel := commandContext(5 * time.Minute)
			defer cancel()

			stages := 2
			bar := progressbar.NewOptions(stages,
				progressbar.OptionSetDescription("warming"),
				progressbar.OptionSetVisibility(!outputJSON && !noColor),
			)
			count, err := application.Answerer.Warm(ctx, func(stage string) {
				_ = bar.Add(1)
			})
			_ = bar.Finish()
			if err != nil {
				return fmt.Errorf("warm: %w", err)
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string]int{"records": count})
			}
			fmt.Println()
			ui.Success("snapshot warmed with %d record(s)", count)
			return nil
		},
	}
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			}
			fmt.Printf("mechmate %s\n", version)
			return nil
		},
	}
}
