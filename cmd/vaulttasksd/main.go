// Command vaulttasksd runs a stdio JSON-RPC daemon over a directory of
// Markdown notes, so editor plugins or alternate frontends can drive the
// vault-tasks engine without linking Go.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/vaulttasks/vaulttasks/internal/config"
	"github.com/vaulttasks/vaulttasks/internal/core"
	"github.com/vaulttasks/vaulttasks/internal/db"
	"github.com/vaulttasks/vaulttasks/internal/history"
	"github.com/vaulttasks/vaulttasks/internal/logging"
	"github.com/vaulttasks/vaulttasks/internal/server"
	"github.com/vaulttasks/vaulttasks/internal/watch"
)

func main() {
	fs := pflag.NewFlagSet("vaulttasksd", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, _, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log level error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(level)

	var recorder core.EditRecorder
	conn, err := db.Open(cfg.HistoryDBPath)
	if err != nil {
		slog.Warn("daemon: history disabled, could not open database", "error", err)
	} else if store, err := history.Open(conn); err != nil {
		slog.Warn("daemon: history disabled, migration failed", "error", err)
	} else {
		recorder = store
	}

	state := server.NewState(cfg.Core, recorder)

	if err := state.Reindex(); err != nil {
		slog.Error("daemon: initial vault scan failed", "error", err)
	} else {
		slog.Info("daemon: vault scan complete", "vault_paths", cfg.Core.VaultPaths)
	}

	stopWatch := make(chan struct{})
	if len(cfg.Core.VaultPaths) > 0 {
		w, err := watch.New(cfg.Core.VaultPaths, 0, func() {
			if err := state.Reindex(); err != nil {
				slog.Warn("daemon: rescan after vault change failed", "error", err)
			}
		})
		if err != nil {
			slog.Warn("daemon: vault watch disabled", "error", err)
		} else {
			go w.Run(stopWatch)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		close(stopWatch)
	}()

	if err := server.Run(state); err != nil {
		slog.Error("daemon: server error", "error", err)
		os.Exit(1)
	}
}
