package prompt_fx

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"tripplanner/internal/config"
	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(
	ProvideLLMClient,
	ProvideSuggestionRepo,
	ProvideSuggestionService)

// ProvideLLMClient creates the configured model client. Every suggestion
// request reaches the model; completions are not reused.
func ProvideLLMClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (utils.LLMClientInterface, error) {
	if cfg.LLMAPIKey == "" {
		return nil, errors.New("an API key for the configured LLM provider is required")
	}

	logger.Info("initializing llm client",
		zap.String("provider", cfg.LLMProvider),
		zap.String("model", cfg.LLMModel))

	client, err := utils.NewLLMClient(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLMProvider, err)
	}

	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})
	}

	return client, nil
}

func ProvideSuggestionRepo(db *gorm.DB) repositories.SuggestionRepository {
	return repositories.NewSuggestionRepository(db)
}

// ProvideSuggestionService creates the suggestion workflow with all dependencies
func ProvideSuggestionService(
	guard services.AccessGuardInterface,
	tripRepo repositories.TripRepository,
	itineraryRepo repositories.ItineraryRepository,
	suggestionRepo repositories.SuggestionRepository,
	transactor repositories.Transactor,
	llm utils.LLMClientInterface,
	cfg config.Config,
	logger *zap.Logger,
) services.SuggestionServiceInterface {
	return services.NewSuggestionService(
		guard,
		tripRepo,
		itineraryRepo,
		suggestionRepo,
		transactor,
		llm,
		cfg.AITimeout,
		logger.Named("suggestions"),
	)
}
