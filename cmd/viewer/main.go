package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"tactical-link/internal"
	"tactical-link/observability"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// viewerConfig is the subset of the server configuration the viewer needs.
type viewerConfig struct {
	BadgerFilepath      string `env:"BADGER_FILEPATH,required=true"`
	BadgerEncryptionKey string `env:"BADGER_ENCRYPTION_KEY"`
	DebugPort           int    `env:"DEBUG_PORT,default=8081"`
	LogLevel            string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	_ = godotenv.Load()
	var config viewerConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// BypassLockGuard allows opening while the server holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	if config.BadgerEncryptionKey != "" {
		opts = opts.WithEncryptionKey([]byte(config.BadgerEncryptionKey)).WithIndexCacheSize(16 << 20)
	}

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// No engine runs here, only the uptime of the viewer is reported
	started := time.Now()
	stats := func() observability.Stats {
		return observability.Stats{Uptime: time.Since(started).Round(time.Second).String()}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := internal.NewDebugServer(logger, db, config.DebugPort, stats).Run(ctx); err != nil {
		logger.Error("Viewer stopped", "error", err)
	}
}
