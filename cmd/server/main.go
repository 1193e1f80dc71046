package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/xaenox/mailmind/internal/attraction"
	"github.com/xaenox/mailmind/internal/calendar"
	"github.com/xaenox/mailmind/internal/classify"
	"github.com/xaenox/mailmind/internal/extract"
	"github.com/xaenox/mailmind/internal/llm"
	"github.com/xaenox/mailmind/internal/music"
	"github.com/xaenox/mailmind/internal/router"
	"github.com/xaenox/mailmind/internal/server"
	"github.com/xaenox/mailmind/internal/storage"
	"github.com/xaenox/mailmind/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	completer, err := llm.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, logger)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			logger.Fatal("OPENAI_API_KEY is required")
		}
		logger.Fatal("Failed to create OpenAI client", zap.Error(err))
	}

	eventStore, err := newEventStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize event store", zap.Error(err))
	}
	defer eventStore.Close()
	logger.Info("Event store initialized", zap.String("backend", cfg.Storage.Backend))

	featureLog := newFeatureLog(cfg)

	// Spotify is optional: without credentials music discovery degrades to
	// an explicit not-configured result instead of failing startup.
	var searcher music.TrackSearcher
	spotifySearcher, err := music.NewSpotifySearcher(context.Background(),
		cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, logger)
	if err != nil {
		logger.Warn("Spotify search disabled", zap.Error(err))
	} else {
		searcher = spotifySearcher
	}

	calendarProvider := calendar.NewProvider(eventStore, logger)
	musicProvider := music.NewProvider(completer, searcher, logger)
	attractionProvider := attraction.NewProvider(completer, logger)

	rtr := router.New(completer, calendarProvider, musicProvider, attractionProvider, logger)

	classifier := classify.NewKeywordClassifier(cfg.Classifier.MinConfidence)
	explainer := classify.NewExplainer(completer, logger)
	extractor := extract.New(completer, logger)
	calendarPipeline := calendar.NewPipeline(completer, logger)

	budgets := server.Budgets{
		Calendar:   time.Duration(cfg.Pipeline.CalendarTimeoutSeconds) * time.Second,
		Music:      time.Duration(cfg.Pipeline.MusicTimeoutSeconds) * time.Second,
		Attraction: time.Duration(cfg.Pipeline.AttractionTimeoutSeconds) * time.Second,
	}

	srv := server.New(extractor, rtr, classifier, explainer, calendarPipeline,
		musicProvider, attractionProvider, featureLog, budgets, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := srv.Run(addr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newEventStore(cfg *config.Config) (storage.EventStore, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		return storage.NewPostgresEventStore(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
	case "memory":
		return storage.NewMemoryEventStore(), nil
	default:
		return storage.NewJSONFileEventStore(cfg.Storage.EventsPath), nil
	}
}

func newFeatureLog(cfg *config.Config) storage.FeatureLog {
	if cfg.Storage.Backend == "memory" {
		return storage.NewMemoryFeatureLog()
	}
	return storage.NewJSONFileFeatureLog(cfg.Storage.FeaturesPath)
}
