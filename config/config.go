package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken  string
	CommandPrefix string

	// Database configuration
	DatabaseURL      string
	DatabaseMaxConns int32

	// Economy configuration
	StartingBalance int64

	// Crash game pacing
	CrashCountdownSeconds int
	CrashTickInterval     time.Duration

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, with .env as a fallback
func load() (*Config, error) {
	// A missing .env is fine; deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		CommandPrefix: os.Getenv("DISCORD_COMMAND_PREFIX"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		// Defaults
		StartingBalance:       0,
		DatabaseMaxConns:      4,
		CrashCountdownSeconds: 15,
		CrashTickInterval:     100 * time.Millisecond,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.CommandPrefix == "" {
		config.CommandPrefix = "!"
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsedBalance, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsedBalance
		}
	}
	if maxConns := os.Getenv("DATABASE_MAX_CONNS"); maxConns != "" {
		if parsedMaxConns, err := strconv.ParseInt(maxConns, 10, 32); err == nil && parsedMaxConns > 0 {
			config.DatabaseMaxConns = int32(parsedMaxConns)
		}
	}
	if countdown := os.Getenv("CRASH_COUNTDOWN_SECONDS"); countdown != "" {
		if parsedCountdown, err := strconv.Atoi(countdown); err == nil && parsedCountdown > 0 {
			config.CrashCountdownSeconds = parsedCountdown
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
