package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hireability"
)

type Config struct {
	Listen     string           `mapstructure:"listen"`
	Port       string           `mapstructure:"port"`
	GitHub     GitHubConfig     `mapstructure:"github"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Server     ServerConfig     `mapstructure:"server"`
	AI         AIConfig         `mapstructure:"ai"`
}

type GitHubConfig struct {
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	APIURL    string        `mapstructure:"api-url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type AnalysisConfig struct {
	Difficulty   string   `mapstructure:"difficulty"`
	Strictness   string   `mapstructure:"strictness"`
	ImpactPreset string   `mapstructure:"impact-preset"`
	Kinds        []string `mapstructure:"kinds"`
}

type EnrichmentConfig struct {
	CallTimeout  time.Duration `mapstructure:"call-timeout"`
	GroupTimeout time.Duration `mapstructure:"group-timeout"`
}

type ServerConfig struct {
	AllowOrigins []string `mapstructure:"allow-origins"`
}

type AIConfig struct {
	Primary      string       `mapstructure:"primary"`
	Secondary    string       `mapstructure:"secondary"`
	MaxLogLength int          `mapstructure:"max-log-length"`
	Groq         GroqConfig   `mapstructure:"groq"`
	Gemini       GeminiConfig `mapstructure:"gemini"`
}

type GroqConfig struct {
	APIKey        string  `mapstructure:"api-key"`
	APIKeyFile    string  `mapstructure:"api-key-file"`
	Model         string  `mapstructure:"model"`
	BaseURL       string  `mapstructure:"base-url"`
	RatePerSecond float64 `mapstructure:"rate-per-second"`
	Burst         int     `mapstructure:"burst"`
	MaxRetries    int     `mapstructure:"max-retries"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hireability scores how hireable a GitHub developer looks and explains why",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"port":                   "PORT",
		"github.token-file":      "GITHUB_TOKEN_FILE",
		"ai.groq.api-key-file":   "GROQ_API_KEY_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("listen", ":5000")
	viper.SetDefault("github.timeout", 10*time.Second)
	viper.SetDefault("analysis.difficulty", "normal")
	viper.SetDefault("analysis.strictness", "normal")
	viper.SetDefault("analysis.impact-preset", "activity")
	viper.SetDefault("enrichment.call-timeout", 12*time.Second)
	viper.SetDefault("enrichment.group-timeout", 25*time.Second)
	viper.SetDefault("ai.primary", "groq")
	viper.SetDefault("ai.secondary", "gemini")
	viper.SetDefault("ai.max-log-length", 200)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hireability.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly given config file is mandatory.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Port != "" {
		config.Listen = ":" + config.Port
	}

	return config, nil
}
