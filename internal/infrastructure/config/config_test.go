package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"XRPL_NODE_URL", "XRPL_PAGE_LIMIT", "MANIFEST_TIMEOUT", "KAFKA_BROKERS", "DATABASE_URL", "HTTP_PORT", "MIGRATIONS_DIR", "KAFKA_TLS", "KAFKA_SASL_USERNAME", "GRPC_REFLECTION"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "wss://xrplcluster.com", cfg.Ledger.NodeURL)
	assert.Equal(t, 400, cfg.Ledger.PageLimit)
	assert.Equal(t, 3500*time.Millisecond, cfg.Manifest.Timeout)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "riskscan.scans", cfg.Kafka.Topic)
	assert.Equal(t, "file://migrations", cfg.DB.MigrationsDir)
	assert.False(t, cfg.Kafka.TLS)
	assert.False(t, cfg.Kafka.SASLEnabled())
	assert.False(t, cfg.GRPC.Reflection)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("XRPL_NODE_URL", "https://s1.ripple.com:51234")
	t.Setenv("XRPL_PAGE_LIMIT", "50")
	t.Setenv("MANIFEST_TIMEOUT", "2s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("GRPC_PORT", "not-a-port")
	t.Setenv("KAFKA_TLS", "true")
	t.Setenv("KAFKA_SASL_USERNAME", "scanner")
	t.Setenv("GRPC_REFLECTION", "yes-please")

	cfg := Load()

	assert.Equal(t, "https://s1.ripple.com:51234", cfg.Ledger.NodeURL)
	assert.Equal(t, 50, cfg.Ledger.PageLimit)
	assert.Equal(t, 2*time.Second, cfg.Manifest.Timeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.InDelta(t, 2.5, cfg.RateLimit.RPS, 0.0001)
	assert.Equal(t, 9090, cfg.GRPCPort, "unparsable values fall back to the default")
	assert.Equal(t, ":9090", cfg.GRPCAddress())
	assert.True(t, cfg.Kafka.TLS)
	assert.True(t, cfg.Kafka.SASLEnabled())
	assert.False(t, cfg.GRPC.Reflection, "unparsable booleans fall back to the default")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Ledger:   LedgerConfig{NodeURL: "wss://xrplcluster.com", PageLimit: 400},
			Manifest: ManifestConfig{Timeout: time.Second},
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "bad scheme", mutate: func(c *Config) { c.Ledger.NodeURL = "ftp://node" }, wantErr: "unsupported scheme"},
		{name: "no host", mutate: func(c *Config) { c.Ledger.NodeURL = "wss://" }, wantErr: "missing host"},
		{name: "page limit", mutate: func(c *Config) { c.Ledger.PageLimit = 0 }, wantErr: "XRPL_PAGE_LIMIT"},
		{name: "timeout", mutate: func(c *Config) { c.Manifest.Timeout = 0 }, wantErr: "MANIFEST_TIMEOUT"},
		{name: "kafka without topic", mutate: func(c *Config) { c.Kafka.Brokers = []string{"k:9092"} }, wantErr: "KAFKA_TOPIC"},
		{name: "db without migrations", mutate: func(c *Config) { c.DB.URL = "postgres://x" }, wantErr: "MIGRATIONS_DIR"},
		{name: "half tls", mutate: func(c *Config) { c.TLS.CertFile = "cert.pem" }, wantErr: "must be set together"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
