package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultChannels is the built-in channel selection used when a request
// carries no selection of its own.
var DefaultChannels = []string{"DasErste.de", "ZDF.de", "RTLGermany.de", "SAT1.de", "ProSieben.de"}

// Config holds environment-based settings
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	ServerAddress  string

	EPGURL    string
	DataDir   string
	EPGStrict bool

	// Display is the fixed zone guide times are rendered in, independent
	// of the server's zone.
	Display         *time.Location
	DefaultChannels []string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
}

// Load reads configuration from the environment (with .env support).
// Missing required settings are fatal at startup by contract; Load
// returns the error and main exits.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	epgURL := os.Getenv("EPG_URL")
	if epgURL == "" {
		return nil, fmt.Errorf("EPG_URL is required")
	}
	jwt := os.Getenv("JWT_SECRET")
	if jwt == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	migrations := os.Getenv("MIGRATIONS_PATH")
	if migrations == "" {
		migrations = "./migrations"
	}
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	tz := os.Getenv("DISPLAY_TIMEZONE")
	if tz == "" {
		tz = "CET"
	}
	display, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tz, err)
	}

	channels := DefaultChannels
	if raw := os.Getenv("DEFAULT_CHANNELS"); raw != "" {
		channels = splitList(raw)
	}

	return &Config{
		DatabaseURL:    dbURL,
		MigrationsPath: migrations,
		ServerAddress:  addr,

		EPGURL:    epgURL,
		DataDir:   dataDir,
		EPGStrict: os.Getenv("EPG_STRICT") == "true",

		Display:         display,
		DefaultChannels: channels,

		JWTSecret:         jwt,
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
	}, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
