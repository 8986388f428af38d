package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobscout/internal/serpapi"
)

const (
	app = "jobscout"

	defaultStateDir     = ".tmp"
	defaultProfileFile  = "user_profile.yaml"
	defaultDatabankFile = "qa_databank.yaml"
	defaultServeAddress = "127.0.0.1:5000"
)

type Config struct {
	Search       *serpapi.SearchParams `mapstructure:"search"`
	ProfileFile  string                `mapstructure:"profile-file"`
	DatabankFile string                `mapstructure:"databank-file"`
	StateDir     string                `mapstructure:"state-dir"`
	SerpAPI      *SerpAPIConfig        `mapstructure:"serpapi"`
	AI           *AIConfig             `mapstructure:"ai"`
	Server       *ServerConfig         `mapstructure:"server"`
}

type SerpAPIConfig struct {
	KeyFile string `mapstructure:"key-file"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobscout scrapes job listings, scores them against your profile and answers application questions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("serpapi.key-file", "SERPAPI_KEY_FILE"); err != nil {
		log.Fatalf("binding SERPAPI_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without a config file.
	if versionCmd.CalledAs() != "" {
		return
	}

	viper.SetDefault("state-dir", defaultStateDir)
	viper.SetDefault("profile-file", defaultProfileFile)
	viper.SetDefault("databank-file", defaultDatabankFile)
	viper.SetDefault("server.address", defaultServeAddress)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
