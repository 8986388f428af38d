package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/logger"
	"jobscout/internal/profile"
	"jobscout/internal/scoring"
	"jobscout/internal/secrets"
	"jobscout/internal/serpapi"
)

const (
	PromptReportByCompany = "Report by company"
	PromptJobsToFile      = "Dump jobs to file"
	PromptExit            = "Exit"

	rawResultsFile = "serpapi_raw.json"
	snapshotFile   = "scored_jobs.json"
)

var errExit = errors.New("exit requested")

var scrapePrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptReportByCompany, PromptJobsToFile, PromptExit},
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch job listings, score them against your profile and write a snapshot",
	Run: func(cmd *cobra.Command, _ []string) {
		scrape(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolP("auto-approve", "y", false, "do not start the interactive prompt after scraping")
}

func scrape(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobscout scrape", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}
	if config.Search == nil {
		logger.Fatal("search parameters are required under the search section")
	}

	apiKey, err := resolveSerpAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading serpapi key",
			zap.Error(err),
			zap.String("hint", "set SERPAPI_KEY_FILE environment variable or the 'serpapi.key-file' key in the configuration file"),
		)
	}

	client := serpapi.New(apiKey, logger)

	collection, err := client.Search(ctx, config.Search)
	if err != nil {
		logger.Fatal("fetching job listings", zap.Error(err))
	}

	if collection.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	if err := os.MkdirAll(config.StateDir, 0o755); err != nil {
		logger.Fatal("creating state directory", zap.Error(err))
	}

	rawPath := filepath.Join(config.StateDir, rawResultsFile)
	if err := collection.Save(rawPath); err != nil {
		logger.Fatal("saving raw results", zap.Error(err))
	}
	logger.Info("saved raw results", zap.String("path", rawPath), zap.Int("count", collection.Len()))

	if err := scoreAndSnapshot(collection, config, logger); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			logger.Warn("no user profile found, skipping job fit scoring",
				zap.String("profile_file", config.ProfileFile),
			)
		} else {
			// One failed scoring run never loses the scraped results.
			logger.Warn("job scoring failed, continuing without scores", zap.Error(err))
		}
	}

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		return
	}

	for {
		_, action, err := scrapePrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleScrapeAction(action, collection, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func scoreAndSnapshot(collection *jobs.Collection, config *Config, logger *zap.Logger) error {
	userProfile, err := profile.Load(config.ProfileFile)
	if err != nil {
		return err
	}

	scorer, err := scoring.New(userProfile, logger)
	if err != nil {
		return err
	}

	scorer.ScoreAll(collection)

	path := filepath.Join(config.StateDir, snapshotFile)
	if err := collection.Save(path); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	logger.Info("saved scored snapshot", zap.String("path", path), zap.Int("count", collection.Len()))
	return nil
}

func handleScrapeAction(action string, collection *jobs.Collection, logger *zap.Logger) error {
	switch action {
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(collection.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", collection.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := collection.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func resolveSerpAPIKey(config *Config) (string, error) {
	if config == nil || config.SerpAPI == nil {
		return "", errors.New("serpapi configuration is required")
	}

	return secrets.Load(secrets.Source{
		Name: "serpapi key",
		File: config.SerpAPI.KeyFile,
	})
}
