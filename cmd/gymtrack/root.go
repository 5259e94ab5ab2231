package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avanian/gymtrack/internal/locate"
	"github.com/avanian/gymtrack/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gymtrack",
	Short: "Local-first workout tracker",
	Long: `gymtrack manages a single-file SQLite workout database: the A/B/C
session rotation, the daily challenge counter, the workout plans and
their edit history, and the statistics derived from all of it.

The database lives in the sync container's Documents directory when one
is configured, so a file-level sync service can replicate it between
machines. Without a sync container it lives in the local documents
directory.

Configuration is read from ~/.config/gymtrack/config.yaml, GYMTRACK_*
environment variables, and flags, in increasing priority.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "explicit database path (skips location resolution)")
	flags.String("sync-dir", "", "sync container directory (database lives in its Documents/)")
	flags.String("documents-dir", "", "local documents directory used without a sync container")
	flags.String("app-support-dir", "", "legacy application support directory checked for relocation")
	flags.Bool("verbose", false, "log location resolution and migration progress")

	viper.SetEnvPrefix("GYMTRACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"db", "sync-dir", "documents-dir", "app-support-dir", "verbose"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "gymtrack"))
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	_ = viper.ReadInConfig() // optional
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func verboseLogger() *log.Logger {
	if !viper.GetBool("verbose") {
		return nil
	}
	return log.New(os.Stderr, "[gymtrack] ", log.LstdFlags)
}

// resolveDatabasePath decides where the database lives this run:
// explicit --db wins, otherwise the canonical location with a one-time
// relocation from the legacy path, falling back to the legacy path when
// relocation cannot complete.
func resolveDatabasePath() (string, error) {
	if db := viper.GetString("db"); db != "" {
		return db, nil
	}

	logger := verboseLogger()

	documentsDir := viper.GetString("documents-dir")
	if documentsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		documentsDir = filepath.Join(home, "Documents", "GymTrack")
	}

	canonical, err := locate.Resolve(viper.GetString("sync-dir"), documentsDir)
	if err != nil {
		return "", err
	}

	appSupportDir := viper.GetString("app-support-dir")
	if appSupportDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			appSupportDir = dir
		}
	}
	if appSupportDir == "" {
		return canonical, nil
	}

	legacy := locate.LegacyPath(appSupportDir)
	moved, err := locate.Relocate(legacy, canonical, locate.FlockCoordinator{})
	if err != nil {
		// Keep working from wherever the file is; relocation retries
		// on the next launch.
		path := locate.FallbackPath(canonical, legacy)
		if logger != nil {
			logger.Printf("relocation failed (%v), using %s", err, path)
		}
		return path, nil
	}
	if moved && logger != nil {
		logger.Printf("relocated database %s -> %s", legacy, canonical)
	}
	return canonical, nil
}

func openStore() (*store.Store, error) {
	path, err := resolveDatabasePath()
	if err != nil {
		return nil, err
	}
	return store.Open(path, store.Options{
		Coordinator: locate.FlockCoordinator{},
		Logger:      verboseLogger(),
	})
}

var backupDone bool

// backupDatabase copies the database file aside before the first
// mutation of the process. Subsequent calls are no-ops.
func backupDatabase(path string) error {
	if backupDone {
		return nil
	}
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open database for backup: %w", err)
	}
	defer src.Close()

	bak := path + ".bak." + time.Now().Format("20060102-150405")
	dst, err := os.Create(bak)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	fmt.Printf("Backup: %s\n", bak)
	backupDone = true
	return nil
}

// today returns the current calendar date in the schema's encoding.
func today() string {
	return time.Now().Format(store.DateFormat)
}
