package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-pick-live/auth"
	"github.com/danielhkuo/quickly-pick-live/cliparse"
	"github.com/danielhkuo/quickly-pick-live/poll"
	"github.com/danielhkuo/quickly-pick-live/router"
	"github.com/danielhkuo/quickly-pick-live/session"
	"github.com/danielhkuo/quickly-pick-live/store"
)

func main() {
	var err error

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the response ledger
	ledger, err := store.OpenLedger(cfg.LedgerBackend, cfg.DataDir, cfg.DatabaseURL)
	if err != nil {
		slog.Error("ledger open failed", "backend", cfg.LedgerBackend, "error", err)
		os.Exit(1)
	}

	stores, err := store.Open(cfg.DataDir, ledger)
	if err != nil {
		slog.Error("store open failed", "data_dir", cfg.DataDir, "error", err)
		_ = ledger.Close()
		os.Exit(1)
	}
	defer stores.Close()

	// Replace the question table with the script, if one was given
	if cfg.ScriptPath != "" {
		script, err := store.LoadScript(cfg.ScriptPath)
		if err != nil {
			slog.Error("script load failed", "path", cfg.ScriptPath, "error", err)
			os.Exit(1)
		}
		if err := stores.Questions.PersistAll(script.ToQuestions()); err != nil {
			slog.Error("question table write failed", "error", err)
			os.Exit(1)
		}
		slog.Info("question script loaded", "path", cfg.ScriptPath, "questions", stores.Questions.Count())
	}

	if cfg.ResetOnStart {
		if _, err := stores.ResetOnce(); err != nil {
			slog.Error("startup reset failed", "error", err)
			os.Exit(1)
		}
	}

	stats, err := stores.Ledger.Stats()
	if err != nil {
		slog.Error("ledger stats failed", "error", err)
		os.Exit(1)
	}
	slog.Info("stores ready",
		"data_dir", cfg.DataDir,
		"backend", cfg.LedgerBackend,
		"questions", stores.Questions.Count(),
		"active", stores.Pointer.Read(),
		"responses", stats.Records,
		"ledger_size", humanize.Bytes(uint64(stats.Bytes)),
	)

	sessions := session.NewStore(cfg.SessionTTL)
	engine := poll.NewEngine(stores, sessions, poll.Options{
		MinActiveOrdinal: cfg.MinActiveOrdinal,
		DuplicatePolicy:  cfg.DuplicatePolicy,
	})

	// Drop idle sessions in the background
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepSessions(sweepCtx, sessions, sweepInterval(cfg.SessionTTL))

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(engine, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "tls", cfg.TLSEnabled(), "presenter_key", auth.KeyFingerprint(cfg.PresenterKey))
	if cfg.TLSEnabled() {
		err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

func sweepSessions(ctx context.Context, sessions *session.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				slog.Info("expired sessions removed", "count", n, "remaining", sessions.Len())
			}
		}
	}
}
