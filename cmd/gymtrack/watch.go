package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/avanian/gymtrack/internal/watch"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the database file for external changes",
	Long: `Watch the database file and log every out-of-band change: the sync
service replacing it, in-place writes, or removal.

The watcher only observes. An open database handle keeps reading the old
content after an external replace, so commands should be re-run (they
reopen the file) rather than expecting live updates.

Events go to stderr, and to a size-rotated log file with --log-file.

Example usage:
  gymtrack watch
  gymtrack watch --log-file ~/.local/state/gymtrack/watch.log`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("log-file", "", "also append events to this rotated log file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := resolveDatabasePath()
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "[watch] ", log.LstdFlags)
	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		logger.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}

	w, err := watch.New()
	if err != nil {
		return err
	}
	if err := w.Start(path); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Printf("Watching %s\nPress Ctrl+C to stop...\n", path)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopping watcher...")
			return w.Stop()
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op == watch.OpRemoved {
				logger.Printf("%s %s", ev.Op, ev.Path)
				continue
			}
			logger.Printf("%s %s (%d bytes, modified %s)",
				ev.Op, ev.Path, ev.Size, ev.ModTime.Format("15:04:05"))
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Printf("watch error: %v", err)
		}
	}
}
