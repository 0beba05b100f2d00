package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pottingshed/verdant/internal/config"
	"github.com/pottingshed/verdant/internal/notify"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the garden's event output",
	Long: `Without flags, prints the most recent events from the sqlite
journal. With --follow, tails the JSONL event stream and prints each
notification as it is written by a running daemon.`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().BoolP("follow", "f", false, "tail the JSONL event stream")
	eventsCmd.Flags().IntP("limit", "n", 20, "number of journaled events to show")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	follow, _ := cmd.Flags().GetBool("follow")
	if follow {
		return followStream(cmd, cfg.StreamPath)
	}
	return dumpJournal(cmd, cfg.JournalPath)
}

func followStream(cmd *cobra.Command, path string) error {
	if path == "" {
		return fmt.Errorf("events: no stream path configured")
	}

	follower, err := notify.NewFollower(path)
	if err != nil {
		return err
	}
	if err := follower.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			follower.Stop()
			return nil
		case line, ok := <-follower.Lines:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, line)
		}
	}
}

func dumpJournal(cmd *cobra.Command, path string) error {
	if path == "" {
		return fmt.Errorf("events: no journal path configured")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	journal, err := notify.NewJournal(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer journal.Close()

	entries, err := journal.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		reason := ""
		if e.Event.Reason != "" {
			reason = fmt.Sprintf(" (%s)", e.Event.Reason)
		}
		fmt.Fprintf(out, "%s  %-6s %-6s %s @ %s%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Dest, e.Event.Action, e.Event.ObjectID, e.Event.SlotID, reason)
	}
	return nil
}
