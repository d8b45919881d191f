package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/tenxcards/tenxcards-api/internal/cache"
	"github.com/tenxcards/tenxcards-api/internal/config"
	"github.com/tenxcards/tenxcards-api/internal/generation"
	"github.com/tenxcards/tenxcards-api/internal/platform/gemini"
	"github.com/tenxcards/tenxcards-api/internal/platform/openrouter"
	"github.com/tenxcards/tenxcards-api/internal/platform/postgres"
	"github.com/tenxcards/tenxcards-api/internal/service"
	"github.com/tenxcards/tenxcards-api/internal/service/auth"
	"github.com/tenxcards/tenxcards-api/internal/store"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	cache          *cache.MemoryCache
	jwtService     auth.JWTService
	userService    service.UserService
	cardService    service.CardService
	contentService service.OriginalContentService

	stopJanitor context.CancelFunc
	janitorDone <-chan struct{}
}

// newApplication wires stores, cache, AI client and services, and starts the
// cache janitor. The janitor stops in cleanup.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if cfg == nil || logger == nil || db == nil {
		return nil, fmt.Errorf("config, logger and db are required")
	}

	app := &application{config: cfg, logger: logger, db: db}

	// Authentication
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService

	// AI provider
	aiClient, err := newAIClient(ctx, cfg.AI, logger)
	if err != nil {
		return nil, err
	}

	// Stores
	tx := store.NewSQLTransactor(db)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	contentStore := postgres.NewPostgresOriginalContentStore(db, logger)
	errorLogStore := postgres.NewPostgresErrorLogStore(db, logger)
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)

	// Card cache shared by the card and original content services
	app.cache = cache.NewMemoryCache(logger)
	cardCache := service.NewCardCache(app.cache, service.CardCacheOptions{
		TTL:          time.Duration(cfg.Cache.CardListExpirationMinutes) * time.Minute,
		MaxListItems: cfg.Cache.MaxCardListItems,
	}, logger)

	// Services
	app.cardService, err = service.NewCardService(service.CardServiceDeps{
		Transactor:  tx,
		Cards:       cardStore,
		Contents:    contentStore,
		Client:      aiClient,
		ErrorLogger: service.NewErrorLogger(errorLogStore, logger),
		Cache:       cardCache,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.contentService, err = service.NewOriginalContentService(tx, contentStore, cardStore, cardCache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create original content service: %w", err)
	}

	app.userService = service.NewUserService(tx, userStore, auth.NewBcryptVerifier(), logger)

	// The janitor outlives request contexts and stops in cleanup
	janitorCtx, cancel := context.WithCancel(context.Background())
	app.stopJanitor = cancel
	app.janitorDone = app.cache.StartJanitor(janitorCtx, time.Duration(cfg.Cache.JanitorIntervalSeconds)*time.Second)

	logger.Info("application initialized successfully")
	return app, nil
}

// newAIClient builds the configured provider client wrapped in the retry layer.
func newAIClient(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (generation.Client, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var provider generation.Client
	switch cfg.Provider {
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.ModelName,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		provider = c
	case config.ProviderOpenRouter:
		c, err := openrouter.NewClient(openrouter.Config{
			APIKey:      cfg.OpenRouterAPIKey,
			BaseURL:     cfg.OpenRouterURL,
			Model:       cfg.ModelName,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenRouter client: %w", err)
		}
		provider = c
	default:
		return nil, fmt.Errorf("%w: unknown AI provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}

	logger.Info("AI client configured",
		slog.String("provider", cfg.Provider),
		slog.String("model", cfg.ModelName),
		slog.Int("max_retries", cfg.MaxRetries))

	return generation.NewRetryingClient(provider, generation.RetryConfig{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  time.Duration(cfg.RetryBaseDelayMS) * time.Millisecond,
	}, logger), nil
}

// Run serves HTTP until ctx is done, then shuts down and releases resources.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops the cache janitor and closes the database.
func (app *application) cleanup() error {
	var err error

	// Stop the janitor before closing anything it might touch
	if app.stopJanitor != nil {
		app.stopJanitor()
		<-app.janitorDone
	}

	if app.db != nil {
		if closeErr := app.db.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close database: %w", closeErr))
		}
	}

	if err != nil {
		app.logger.Error("application shutdown completed with errors", slog.String("error", err.Error()))
		return err
	}
	app.logger.Info("application shutdown completed")
	return nil
}
