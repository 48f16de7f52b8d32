package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	HTTPPort    int
	GRPCPort    int
	Ledger      LedgerConfig
	Manifest    ManifestConfig
	DB          DBConfig
	Kafka       KafkaConfig
	RateLimit   RateLimitConfig
	TLS         TLSConfig
	Telemetry   TelemetryConfig
	GRPC        GRPCConfig
	Environment string
	LogLevel    string
	LogFormat   string
}

// LedgerConfig points at the XRPL node.
type LedgerConfig struct {
	NodeURL        string
	PageLimit      int
	MaxPages       int
	RequestTimeout time.Duration
}

// ManifestConfig tunes the xrp-ledger.toml probe.
type ManifestConfig struct {
	Timeout time.Duration
}

// DBConfig is optional; without a URL the built-in registry is used.
type DBConfig struct {
	URL           string
	MigrationsDir string
	MaxConns      int32
	MinConns      int32
}

// KafkaConfig is optional; without brokers events are only logged.
type KafkaConfig struct {
	ClientID      string
	Topic         string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	Brokers       []string
	TLS           bool
}

// SASLEnabled reports whether broker credentials were supplied.
func (k KafkaConfig) SASLEnabled() bool {
	return k.SASLUsername != ""
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
	OTLPInsecure bool
}

// GRPCConfig holds gRPC-only switches.
type GRPCConfig struct {
	Reflection bool
}

// Load reads an optional .env file, then configuration from environment
// variables with defaults. Variables already set in the environment win
// over the file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		GRPCPort: getEnvInt("GRPC_PORT", 9090),
		Ledger: LedgerConfig{
			NodeURL:        getEnv("XRPL_NODE_URL", "wss://xrplcluster.com"),
			PageLimit:      getEnvInt("XRPL_PAGE_LIMIT", 400),
			MaxPages:       getEnvInt("XRPL_MAX_PAGES", 2500),
			RequestTimeout: getEnvDuration("XRPL_REQUEST_TIMEOUT", 20*time.Second),
		},
		Manifest: ManifestConfig{
			Timeout: getEnvDuration("MANIFEST_TIMEOUT", 3500*time.Millisecond),
		},
		DB: DBConfig{
			URL:           getEnv("DATABASE_URL", ""),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "file://migrations"),
			MaxConns:      int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:      int32(getEnvInt("DB_MIN_CONNS", 1)),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS"),
			Topic:         getEnv("KAFKA_TOPIC", "riskscan.scans"),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "riskscand"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
			Burst: getEnvInt("RATE_LIMIT_BURST", 20),
		},
		TLS: TLSConfig{
			CertFile: getEnv("TLS_CERT_FILE", ""),
			KeyFile:  getEnv("TLS_KEY_FILE", ""),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "riskscan"),
			OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
		GRPC: GRPCConfig{
			Reflection: getEnvBool("GRPC_REFLECTION", false),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
	}
}

// Validate checks the values the service cannot start without.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Ledger.NodeURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("XRPL_NODE_URL: %w", err))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("XRPL_NODE_URL: missing host in %q", c.Ledger.NodeURL))
	default:
		switch u.Scheme {
		case "ws", "wss", "http", "https":
		default:
			errs = append(errs, fmt.Errorf("XRPL_NODE_URL: unsupported scheme %q", u.Scheme))
		}
	}
	if c.Ledger.PageLimit < 1 {
		errs = append(errs, errors.New("XRPL_PAGE_LIMIT must be positive"))
	}
	if c.Manifest.Timeout <= 0 {
		errs = append(errs, errors.New("MANIFEST_TIMEOUT must be positive"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if c.DB.URL != "" && c.DB.MigrationsDir == "" {
		errs = append(errs, errors.New("MIGRATIONS_DIR is required when DATABASE_URL is set"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// GRPCAddress returns the full gRPC listen address.
func (c Config) GRPCAddress() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
