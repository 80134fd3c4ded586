package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		TTL string `yaml:"ttl"` // cache TTL for the loaded question pool
	} `yaml:"questions"`
	Game struct {
		QuestionsPerPlayer int    `yaml:"questionsPerPlayer"`
		QuestionTimer      string `yaml:"questionTimer"`
	} `yaml:"game"`
	Rooms struct {
		DefaultMaxPlayers int    `yaml:"defaultMaxPlayers"`
		StaleAfter        string `yaml:"staleAfter"`
		SweepEvery        string `yaml:"sweepEvery"`
	} `yaml:"rooms"`
	Mailer struct {
		Endpoint string `yaml:"endpoint"`
		Token    string `yaml:"token"`
	} `yaml:"mailer"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty or invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// IntOr returns n unless it is zero or negative.
func IntOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}
