package cmd

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobscout/internal/ai/gemini"
	"jobscout/internal/extraction"
	"jobscout/internal/logger"
	"jobscout/internal/secrets"
	"jobscout/internal/server"
)

const historyFile = "answer_usage_history.json"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local answer API for the browser extension",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	address := defaultServeAddress
	if config.Server != nil && config.Server.Address != "" {
		address = config.Server.Address
	}

	extractor := extraction.New(prepareAIStrategy(ctx, config.AI, logger), logger)

	srv := server.New(server.Config{
		Address:      address,
		DatabankPath: config.DatabankFile,
		HistoryPath:  filepath.Join(config.StateDir, historyFile),
	}, extractor, logger)

	logger.Info("starting jobscout answer api",
		zap.String("version", version),
		zap.String("databank", config.DatabankFile),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("answer api failed", zap.Error(err))
	}
}

// prepareAIStrategy builds the Gemini extraction strategy when configured. A
// missing key or client failure is never fatal: the extractor falls back to
// regex and the server still serves.
func prepareAIStrategy(ctx context.Context, cfg *AIConfig, logger *zap.Logger) extraction.Strategy {
	if cfg == nil || !cfg.Enabled || cfg.Gemini == nil {
		logger.Info("ai extraction disabled, using regex strategy only")
		return nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		logger.Warn("starting without ai extraction",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
		return nil
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		logger.Warn("starting without ai extraction", zap.Error(err))
		return nil
	}

	logger.Info("ai extraction enabled", zap.String("model", generator.Model()))

	return extraction.NewGeminiStrategy(generator, cfg.Gemini.MaxLogLength, logger)
}
