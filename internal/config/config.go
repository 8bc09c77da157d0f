package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"simongame/internal/game"
)

type Config struct {
	Port            string
	DatabaseURL     string
	LogLevel        zerolog.Level
	Mode            game.Mode
	ResponseSeconds int
	CountdownSecs   int
	SessionTTL      time.Duration
	TuningFile      string
}

// Tuning is the optional YAML file named by SIMON_CONFIG. Environment
// variables win over anything set here.
type Tuning struct {
	Mode            string `yaml:"mode"`
	ResponseSeconds int    `yaml:"responseSeconds"`
	CountdownSecs   int    `yaml:"countdownSecs"`
}

// Load reads .env if present, then the tuning file, then the environment.
// A broken tuning file is reported but the remaining sources still apply.
func Load() (Config, error) {
	_ = godotenv.Load()

	def := game.DefaultConfig()
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogLevel:        getEnvLevel("LOG_LEVEL", zerolog.InfoLevel),
		Mode:            def.Mode,
		ResponseSeconds: def.ResponseSeconds,
		CountdownSecs:   def.CountdownSecs,
		SessionTTL:      getEnvDuration("SESSION_TTL", time.Hour),
		TuningFile:      os.Getenv("SIMON_CONFIG"),
	}

	var err error
	if cfg.TuningFile != "" {
		var t Tuning
		t, err = LoadTuning(cfg.TuningFile)
		if err == nil {
			cfg.applyTuning(t)
		}
	}

	if m, perr := game.ParseMode(os.Getenv("DIFFICULTY_MODE")); perr == nil {
		cfg.Mode = m
	}
	cfg.ResponseSeconds = getEnvInt("RESPONSE_SECONDS", cfg.ResponseSeconds)
	cfg.CountdownSecs = getEnvInt("COUNTDOWN_SECS", cfg.CountdownSecs)
	if cfg.ResponseSeconds <= 0 {
		cfg.ResponseSeconds = def.ResponseSeconds
	}
	if cfg.CountdownSecs < 0 {
		cfg.CountdownSecs = def.CountdownSecs
	}
	return cfg, err
}

func LoadTuning(path string) (Tuning, error) {
	var t Tuning
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return t, nil
}

func (c *Config) applyTuning(t Tuning) {
	if m, err := game.ParseMode(t.Mode); err == nil {
		c.Mode = m
	}
	if t.ResponseSeconds > 0 {
		c.ResponseSeconds = t.ResponseSeconds
	}
	if t.CountdownSecs > 0 {
		c.CountdownSecs = t.CountdownSecs
	}
}

// GameConfig converts the loaded settings into engine configuration.
func (c Config) GameConfig() game.Config {
	gc := game.DefaultConfig()
	gc.Mode = c.Mode
	gc.ResponseSeconds = c.ResponseSeconds
	gc.CountdownSecs = c.CountdownSecs
	return gc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getEnvLevel(key string, fallback zerolog.Level) zerolog.Level {
	if v := os.Getenv(key); v != "" {
		if lvl, err := zerolog.ParseLevel(v); err == nil {
			return lvl
		}
	}
	return fallback
}
