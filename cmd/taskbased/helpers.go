// Shared helpers for taskbased CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/taskbase/internal/service"
	"github.com/mesh-intelligence/taskbase/pkg/sqlite"
	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// newLogger builds a JSON slog logger at the configured level.
func newLogger() *slog.Logger {
	var level slog.Level
	switch configLogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// attachStore resolves the data directory, creates a SQLite store, and
// attaches it. The caller must defer store.Detach().
func attachStore() (types.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	store := sqlite.NewStore()
	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}

	return store, nil
}

// attachService attaches a store and wraps it in a Service. The caller
// must defer store.Detach().
func attachService() (*service.Service, types.Store, error) {
	store, err := attachStore()
	if err != nil {
		return nil, nil, err
	}
	return service.New(store, newLogger()), store, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// fatalSys prints the error and exits with the system error code.
func fatalSys(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, err)
	os.Exit(exitSysError)
}

// fatalUser prints the error and exits with the user error code.
func fatalUser(prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, err)
	os.Exit(exitUserError)
}
