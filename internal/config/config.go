package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the venue importer.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server (worker mode only).
// - Interval: The duration between imports. Zero runs a single import and exits.
// - EventsURL, VenuesURL: Feed locations, either http(s) URLs or local files.
// - MinEvents, TopCount, OverFetch, Backfill: Venue selection tuning.
// - HTTP: Feed download settings.
// - Geocoder: Optional coordinate backfill settings.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env       string         `mapstructure:"env"`
	Port      int            `mapstructure:"health_port"`
	Interval  time.Duration  `mapstructure:"interval"`
	EventsURL string         `mapstructure:"events_url"`
	VenuesURL string         `mapstructure:"venues_url"`
	MinEvents int            `mapstructure:"min_events"`
	TopCount  int            `mapstructure:"top_count"`
	OverFetch int            `mapstructure:"over_fetch"`
	Backfill  bool           `mapstructure:"backfill"`
	HTTP      HTTPConfig     `mapstructure:"http"`
	Geocoder  GeocoderConfig `mapstructure:"geocoder"`
	Database  PostgresConfig `mapstructure:"postgres"`
}

// HTTPConfig controls how the feeds are downloaded.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// GeocoderConfig controls the optional coordinate backfill.
type GeocoderConfig struct {
	Type      string `mapstructure:"type"`       // none, google or nominatim
	APIKey    string `mapstructure:"api_key"`    // Required for google.
	Workers   int    `mapstructure:"workers"`    // Number of concurrent geocoding workers.
	RateLimit int    `mapstructure:"rate_limit"` // Requests per second across all workers.
	Prefix    string `mapstructure:"prefix"`     // Prepended to venue names, e.g. "Hong Kong, ".
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`  // Name is the name of the database.
}

// MustLoad reads .env (if present), the optional YAML file named by AGORA_CONFIG
// and AGORA_* / DB_* environment variables, in increasing order of precedence.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := newViper()

	if path := os.Getenv("AGORA_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	interval, err := time.ParseDuration(v.GetString("interval"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("health_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	minEvents := mustAtoi(v, "min_events", "failed to parse min events from configuration, must be an integer type")
	topCount := mustAtoi(v, "top_count", "failed to parse top count from configuration, must be an integer type")
	overFetch := mustAtoi(v, "over_fetch", "failed to parse over-fetch from configuration, must be an integer type")

	backfill, err := strconv.ParseBool(v.GetString("backfill"))
	if err != nil {
		panic("failed to parse backfill flag from configuration, must be a boolean")
	}

	timeout, err := time.ParseDuration(v.GetString("http.timeout"))
	if err != nil {
		panic("failed to parse http timeout from configuration")
	}

	retries := mustAtoi(v, "http.retries", "failed to parse http retries from configuration, must be an integer type")
	workers := mustAtoi(v, "geocoder.workers", "failed to parse workers from configuration, must be an integer type")
	rateLimit := mustAtoi(v, "geocoder.rate_limit", "failed to parse rate limit from configuration, must be an integer type")

	return &Config{
		Env:       v.GetString("env"),
		Port:      healthPort,
		Interval:  interval,
		EventsURL: v.GetString("events_url"),
		VenuesURL: v.GetString("venues_url"),
		MinEvents: minEvents,
		TopCount:  topCount,
		OverFetch: overFetch,
		Backfill:  backfill,
		HTTP: HTTPConfig{
			Timeout: timeout,
			Retries: retries,
		},
		Geocoder: GeocoderConfig{
			Type:      v.GetString("geocoder.type"),
			APIKey:    v.GetString("geocoder.api_key"),
			Workers:   workers,
			RateLimit: rateLimit,
			Prefix:    v.GetString("geocoder.prefix"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("AGORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("health_port", "8080")
	v.SetDefault("interval", "0s")
	v.SetDefault("events_url", "https://www.lcsd.gov.hk/datagovhk/event/events.xml")
	v.SetDefault("venues_url", "https://www.lcsd.gov.hk/datagovhk/event/venues.xml")
	v.SetDefault("min_events", "3")
	v.SetDefault("top_count", "10")
	v.SetDefault("over_fetch", "3")
	v.SetDefault("backfill", "false")
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.retries", "3")
	v.SetDefault("geocoder.type", "none")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("geocoder.workers", "4")
	v.SetDefault("geocoder.rate_limit", "1")
	v.SetDefault("geocoder.prefix", "")
	v.SetDefault("postgres.port", "5432")

	// Database settings keep the DB_* names shared with the rest of the deployment.
	_ = v.BindEnv("postgres.host", "DB_HOST")
	_ = v.BindEnv("postgres.port", "DB_PORT")
	_ = v.BindEnv("postgres.user", "DB_USERNAME")
	_ = v.BindEnv("postgres.password", "DB_PASSWORD")
	_ = v.BindEnv("postgres.db_name", "DB_NAME")

	return v
}

func mustAtoi(v *viper.Viper, key, msg string) int {
	value, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		panic(msg)
	}

	return value
}
