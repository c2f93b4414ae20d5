package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Upstream commerce backend
	CartURL        string
	CatalogURL     string
	PublishableKey string

	UpstreamTimeout time.Duration
	// MutationTimeout bounds one reconciler operation (mutation + confirming
	// read); exceeding it surfaces as a transient error.
	MutationTimeout time.Duration

	// Session store. Empty DSN keeps sessions in process memory.
	SessionDBDSN  string
	RunMigrations bool

	// Activity events. Empty URL disables publishing.
	RabbitURL string

	DefaultRegion string

	CORSAllowOrigins []string
}

func Load() Config {
	cfg := Config{
		Port: getenv("PORT", "8090"),

		CartURL:        getenv("CART_URL", "http://commerce-backend:9000"),
		CatalogURL:     getenv("CATALOG_URL", "http://commerce-backend:9000"),
		PublishableKey: getenv("PUBLISHABLE_KEY", ""),

		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),
		MutationTimeout: parseDuration(getenv("MUTATION_TIMEOUT", "15s"), 15*time.Second),

		SessionDBDSN:  getenv("SESSION_DB_DSN", ""),
		RunMigrations: getenv("RUN_MIGRATIONS", "true") == "true",

		RabbitURL: getenv("RABBITMQ_URL", ""),

		DefaultRegion: getenv("DEFAULT_REGION", ""),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
