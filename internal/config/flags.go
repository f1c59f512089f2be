package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// configPath finds the YAML file location: --config/-c in args, else CONFIG_FILE.
func configPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return os.Getenv("CONFIG_FILE")
}

// parseFlags applies command-line overrides.
//
// Supported flags:
//
//	-c, --config string          YAML config file (read earlier by Load)
//	-a, --addr string            HTTP bind address
//	-d, --database-dsn string    PostgreSQL DSN
//	-s, --jwt-secret string      HMAC secret for access tokens
//	    --token-ttl duration     access token lifetime
//	    --kafka-brokers strings  comma separated broker list
//	    --kafka-topic string     order events topic
//	    --otel-endpoint string   OTLP/HTTP collector endpoint
//	    --log-level string       debug, info, warn, error
//	    --tx-retries uint        retries for a transaction that lost a serialization race
func parseFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("api", pflag.ContinueOnError)

	fs.StringP("config", "c", "", "YAML config file")
	fs.StringVarP(&cfg.HTTPAddr, "addr", "a", cfg.HTTPAddr, "HTTP bind address")
	fs.StringVarP(&cfg.DatabaseDSN, "database-dsn", "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVarP(&cfg.JWTSecret, "jwt-secret", "s", cfg.JWTSecret, "HMAC secret for access tokens")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "access token lifetime")
	fs.StringSliceVar(&cfg.KafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "Kafka brokers")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "order events topic")
	fs.StringVar(&cfg.OtelEndpoint, "otel-endpoint", cfg.OtelEndpoint, "OTLP/HTTP endpoint")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.Uint64Var(&cfg.TxRetries, "tx-retries", cfg.TxRetries, "retries for conflicting transactions")
	fs.DurationVar(&cfg.TxRetryBackoff, "tx-retry-backoff", cfg.TxRetryBackoff, "delay between transaction retries")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")

	return fs.Parse(args)
}
