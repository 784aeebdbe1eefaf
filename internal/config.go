package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host     string `env:"HOST,default=0.0.0.0"`
	Port     int    `env:"PORT,default=50051"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	BadgerFilepath      string `env:"BADGER_FILEPATH,required=true"`
	BadgerEncryptionKey string `env:"BADGER_ENCRYPTION_KEY"`
	ThreatIndexPath     string `env:"THREAT_INDEX_PATH"`
	LimitMessages       *int   `env:"LIMIT_MESSAGES"`

	IdentitySealSecret string        `env:"IDENTITY_SEAL_SECRET,required=true"`
	JWTSecret          string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration  time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	SchedulerTick           time.Duration `env:"SCHEDULER_TICK,default=500ms"`
	DestructionParallelism  int           `env:"DESTRUCTION_PARALLELISM,default=8"`
	DestructionRetryTimeout time.Duration `env:"DESTRUCTION_RETRY_TIMEOUT,default=10s"`
	RecoveryTimeout         time.Duration `env:"RECOVERY_TIMEOUT,default=1m"`
	ThreatSweepInterval     time.Duration `env:"THREAT_SWEEP_INTERVAL,default=30s"`
	ActiveSenderWindow      time.Duration `env:"ACTIVE_SENDER_WINDOW,default=10m"`
	MaxActiveSenders        int           `env:"MAX_ACTIVE_SENDERS,default=10000"`
	MaxContentLength        int           `env:"MAX_CONTENT_LENGTH,default=65536"`
	MaxTTL                  time.Duration `env:"MAX_TTL,default=168h"`
	MetricInterval          time.Duration `env:"METRIC_INTERVAL,default=1m"`
	RestartInterval         time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	DebugPort               int           `env:"DEBUG_PORT,default=0"`
}

// Validate checks what go-env can't express.
func (c Config) Validate() error {
	switch len(c.BadgerEncryptionKey) {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("BADGER_ENCRYPTION_KEY must be 16, 24 or 32 bytes, got %d", len(c.BadgerEncryptionKey))
	}
	if c.SchedulerTick <= 0 {
		return fmt.Errorf("SCHEDULER_TICK must be positive, got %s", c.SchedulerTick)
	}
	if c.MaxActiveSenders <= 0 {
		return fmt.Errorf("MAX_ACTIVE_SENDERS must be positive, got %d", c.MaxActiveSenders)
	}
	if c.LimitMessages != nil && *c.LimitMessages <= 0 {
		return fmt.Errorf("LIMIT_MESSAGES must be positive, got %d", *c.LimitMessages)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
