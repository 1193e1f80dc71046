package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Spotify    SpotifyConfig    `mapstructure:"spotify"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type StorageConfig struct {
	// Backend selects the event store: "json", "postgres", or "memory".
	Backend      string `mapstructure:"backend"`
	EventsPath   string `mapstructure:"events_path"`
	FeaturesPath string `mapstructure:"features_path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type ClassifierConfig struct {
	MinConfidence float64 `mapstructure:"min_confidence"`
}

type PipelineConfig struct {
	// Soft wall-clock budgets, in seconds, for the multi-step pipelines.
	CalendarTimeoutSeconds   int `mapstructure:"calendar_timeout_seconds"`
	MusicTimeoutSeconds      int `mapstructure:"music_timeout_seconds"`
	AttractionTimeoutSeconds int `mapstructure:"attraction_timeout_seconds"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 1500)
	v.SetDefault("storage.backend", "json")
	v.SetDefault("storage.events_path", "data/calendar/events.json")
	v.SetDefault("storage.features_path", "data/email_features.json")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("classifier.min_confidence", 0.3)
	v.SetDefault("pipeline.calendar_timeout_seconds", 120)
	v.SetDefault("pipeline.music_timeout_seconds", 60)
	v.SetDefault("pipeline.attraction_timeout_seconds", 60)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file when present; env and defaults carry a missing one.
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Database = dbConfig
	}

	// Get secrets from environment variables
	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if clientID := v.GetString("SPOTIFY_CLIENT_ID"); clientID != "" {
		config.Spotify.ClientID = clientID
	}
	if clientSecret := v.GetString("SPOTIFY_CLIENT_SECRET"); clientSecret != "" {
		config.Spotify.ClientSecret = clientSecret
	}

	return &config, nil
}
