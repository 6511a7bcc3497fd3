package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Scoring service configuration.
	SplashAPIURL        string
	SplashAPITimeout    time.Duration
	LeaderboardCacheTTL time.Duration

	// Leaderboard presentation.
	ScrollStepPx          int
	LeaderboardRowPx      int
	LeaderboardViewportPx int

	// Result publishing configuration.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaResultTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parsePositiveDuration("SPLASH_API_TIMEOUT", "3s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("LEADERBOARD_CACHE_TTL", "2s"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid LEADERBOARD_CACHE_TTL")
	}

	scrollStep, err := parsePositiveInt("SCROLL_STEP_PX", 1)
	if err != nil {
		return nil, err
	}
	rowPx, err := parsePositiveInt("LEADERBOARD_ROW_PX", 40)
	if err != nil {
		return nil, err
	}
	viewportPx, err := parsePositiveInt("LEADERBOARD_VIEWPORT_PX", 400)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SplashAPIURL:        sharedcfg.EnvOrDefault("SPLASH_API_URL", "http://localhost:8000"),
		SplashAPITimeout:    apiTimeout,
		LeaderboardCacheTTL: cacheTTL,

		ScrollStepPx:          scrollStep,
		LeaderboardRowPx:      rowPx,
		LeaderboardViewportPx: viewportPx,

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaResultTopic: sharedcfg.EnvOrDefault("KAFKA_RESULT_TOPIC", "splash-jump-results"),
	}

	u, err := url.Parse(cfg.SplashAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("SPLASH_API_URL must be an absolute URL, got %q", cfg.SplashAPIURL)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaResultTopic == "" {
		return nil, errors.New("KAFKA_RESULT_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
