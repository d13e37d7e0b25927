package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const (
	shutdownTimeout  = 5 * time.Second
	snapshotMaxAge   = 30 * 24 * time.Hour
	pruneSnapshotsAt = time.Hour
)

func setupLogging(level string) zerolog.Logger {
	var lvl zerolog.Level
	switch strings.ToUpper(level) {
	case "TRACE":
		lvl = zerolog.TraceLevel
	case "DEBUG":
		lvl = zerolog.DebugLevel
	case "WARN":
		lvl = zerolog.WarnLevel
	case "ERROR":
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

func main() {
	configDir := flag.String("config", ".", "Directory containing spacewars.yaml")
	flag.Parse()

	cfg, err := LoadConfig(*configDir)
	if err != nil {
		l := setupLogging("info")
		l.Fatal().Err(err).Msg("load config")
	}
	log := setupLogging(cfg.LogLevel)

	db, err := OpenDB(cfg.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()

	tuning, err := NewTuningStore(cfg.TuningFile, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.TuningFile).Msg("load tuning")
	}

	tokens, err := NewTokens(cfg.TokenSecret, cfg.TokenTTL, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("token setup")
	}

	metrics, err := NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("metrics setup")
	}

	events := NewEventLog(db, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := tuning.Watch(ctx); err != nil {
			log.Warn().Err(err).Msg("tuning hot reload disabled")
		}
	}()
	go pruneSnapshots(ctx, db, log)

	hub := NewHub(cfg, tuning, GameDeps{
		Config:  cfg,
		DB:      db,
		Tokens:  tokens,
		Events:  events,
		Metrics: metrics,
		Log:     log,
	})
	go hub.Run()

	server := &http.Server{Addr: cfg.Addr, Handler: SetupRoutes(hub, cfg.ClientDir)}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("client", cfg.ClientDir).Int("tickRate", cfg.TickRate).Msg("server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	hub.sessions.StopAll()
	events.Stop()
	if n := events.Dropped(); n > 0 {
		log.Warn().Int("dropped", n).Msg("event log dropped events")
	}
}

// pruneSnapshots deletes paused levels nobody resumed
func pruneSnapshots(ctx context.Context, db *DB, log zerolog.Logger) {
	ticker := time.NewTicker(pruneSnapshotsAt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.PruneSnapshots(snapshotMaxAge)
			if err != nil {
				log.Warn().Err(err).Msg("prune snapshots")
				continue
			}
			if n > 0 {
				log.Info().Int64("removed", n).Msg("pruned snapshots")
			}
		}
	}
}
