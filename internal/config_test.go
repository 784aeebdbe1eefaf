package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	var config Config
	err := env.Unmarshal(env.EnvSet{
		"BADGER_FILEPATH":      "/tmp/tactical",
		"IDENTITY_SEAL_SECRET": "seal",
		"JWT_SECRET":           "jwt",
	}, &config)
	req.NoError(err)
	req.NoError(config.Validate())

	req.Equal("0.0.0.0:50051", config.Addr())
	req.Equal(500*time.Millisecond, config.SchedulerTick)
	req.Equal(8, config.DestructionParallelism)
	req.Equal(10*time.Second, config.DestructionRetryTimeout)
	req.Equal(30*time.Second, config.ThreatSweepInterval)
	req.Equal(65536, config.MaxContentLength)
	req.Equal(168*time.Hour, config.MaxTTL)
	req.Nil(config.LimitMessages)
}

func TestConfig_Required(t *testing.T) {
	var config Config
	err := env.Unmarshal(env.EnvSet{"BADGER_FILEPATH": "/tmp/tactical"}, &config)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		return Config{SchedulerTick: time.Second, MaxActiveSenders: 10}
	}
	zero := 0

	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"Valid", func(*Config) {}, true},
		{"Encryption key of 32 bytes", func(c *Config) { c.BadgerEncryptionKey = "0123456789abcdef0123456789abcdef" }, true},
		{"Encryption key of odd size", func(c *Config) { c.BadgerEncryptionKey = "short" }, false},
		{"No tick", func(c *Config) { c.SchedulerTick = 0 }, false},
		{"No active senders", func(c *Config) { c.MaxActiveSenders = 0 }, false},
		{"Zero limit", func(c *Config) { c.LimitMessages = &zero }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base()
			tt.mutate(&config)
			if tt.valid {
				require.NoError(t, config.Validate())
			} else {
				require.Error(t, config.Validate())
			}
		})
	}
}
