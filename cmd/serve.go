package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pottingshed/verdant/internal/catalog"
	"github.com/pottingshed/verdant/internal/command"
	"github.com/pottingshed/verdant/internal/config"
	"github.com/pottingshed/verdant/internal/garden"
	"github.com/pottingshed/verdant/internal/notify"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the garden placement daemon",
	Long: `Starts the placement engine, the idle monitor, the notification
dispatcher, and the MCP command server. The daemon runs until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8474, "port for the MCP command server")
	serveCmd.Flags().Int("idle-timeout-ms", 300000, "idle interval before the garden resets to defaults")
	serveCmd.Flags().String("catalog", "", "catalog TOML file (default: built-in catalog)")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("idle_timeout_ms", serveCmd.Flags().Lookup("idle-timeout-ms"))
	_ = viper.BindPFlag("catalog_path", serveCmd.Flags().Lookup("catalog"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	// Notification sinks: JSONL stream for followers, sqlite journal for
	// polling consumers.
	var sinks notify.Multi
	var stream *notify.Stream
	if cfg.StreamPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.StreamPath), 0o755); err != nil {
			return fmt.Errorf("creating stream directory: %w", err)
		}
		stream, err = notify.NewStream(cfg.StreamPath)
		if err != nil {
			return err
		}
		defer stream.Close()
		sinks = append(sinks, stream)
	}
	var journal *notify.Journal
	if cfg.JournalPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.JournalPath), 0o755); err != nil {
			return fmt.Errorf("creating journal directory: %w", err)
		}
		journal, err = notify.NewJournal(ctx, cfg.JournalPath)
		if err != nil {
			return err
		}
		defer journal.Close()
		sinks = append(sinks, journal)
	}

	dispatcher := notify.NewDispatcher(sinks, cfg.QueueSize, nil)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	engine := garden.NewEngine(garden.Config{
		Catalog: cat,
		Emitter: dispatcher,
	})
	monitor := garden.NewIdleMonitor(cfg.IdleTimeout(), engine.HandleIdle)
	engine.BindIdleMonitor(monitor)
	defer monitor.Stop()

	if cfg.SeedOnStart {
		if _, err := engine.Reinitialize(); err != nil {
			return err
		}
	} else {
		// No seed mutation, so start the idle countdown by hand.
		monitor.Touch()
	}

	srv := command.NewServer(engine, cfg.Port)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "verdant: command server listening on %s\n", srv.Addr())

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "verdant: shutting down")
	return srv.Stop(context.Background())
}
