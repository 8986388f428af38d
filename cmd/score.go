package cmd

import (
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/logger"
	"jobscout/internal/profile"
	"jobscout/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score previously scraped job listings against your profile",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("input", "i", "", "raw results file to score. Default is every *_raw.json in the state directory.")
}

func score(cmd *cobra.Command) {
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

	collection, err := loadRawResults(cmd, config)
	if err != nil {
		logger.Fatal("loading raw results", zap.Error(err))
	}

	if collection.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs to score"))
		return
	}

	dropped := collection.Dedupe()
	if dropped > 0 {
		logger.Info("removed duplicate jobs", zap.Int("dropped", dropped))
	}

	// Scoring without a profile is a hard error here: the command exists to
	// score, not to pass listings through unchanged.
	userProfile, err := profile.Load(config.ProfileFile)
	if err != nil {
		logger.Fatal("loading user profile",
			zap.Error(err),
			zap.String("hint", "create user_profile.yaml with your skills and preferences"),
		)
	}

	scorer, err := scoring.New(userProfile, logger)
	if err != nil {
		logger.Fatal("building scorer", zap.Error(err))
	}

	scorer.ScoreAll(collection)

	path := filepath.Join(config.StateDir, snapshotFile)
	if err := collection.Save(path); err != nil {
		logger.Fatal("saving snapshot", zap.Error(err))
	}

	logger.Info("saved scored snapshot", zap.String("path", path), zap.Int("count", collection.Len()))
}

func loadRawResults(cmd *cobra.Command, config *Config) (*jobs.Collection, error) {
	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		return jobs.Load(input)
	}

	paths, err := filepath.Glob(filepath.Join(config.StateDir, "*_raw.json"))
	if err != nil {
		return nil, err
	}

	collection := &jobs.Collection{}
	for _, path := range paths {
		loaded, err := jobs.Load(path)
		if err != nil {
			return nil, err
		}
		collection.Append(loaded.Items...)
	}
	return collection, nil
}
