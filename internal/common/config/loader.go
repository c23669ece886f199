// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like UNDERSTANDER_SERVER_PORT
	viper.SetEnvPrefix("understander")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when not present
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root so
// the binary and the tests pick up the same environment.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// ApplyDefaults fills every unset option with its documented default. It is
// exported so tests can build a complete config without a file on disk.
func ApplyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "understander"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5052
	}
	if cfg.Server.AllowedOrigin == "" {
		cfg.Server.AllowedOrigin = "*"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Dialogue.MaxDialogues == 0 {
		cfg.Dialogue.MaxDialogues = 5
	}
	if cfg.Dialogue.ChatTimeout == 0 {
		cfg.Dialogue.ChatTimeout = 300
	}
	if cfg.Dialogue.ConfidenceThreshold == 0 {
		cfg.Dialogue.ConfidenceThreshold = 0.7
	}
	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = 600
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	applyTemplateDefaults(&cfg.Dialogue.Templates)
}

func applyTemplateDefaults(t *TemplatesConfig) {
	if t.Greeting == "" {
		t.Greeting = "Welcome to the Financial Assistant!"
	}
	if t.IncomeQuestion == "" {
		t.IncomeQuestion = "What's your annual income?"
	}
	if t.ExpensesQuestion == "" {
		t.ExpensesQuestion = "What are your monthly expenses?"
	}
	if t.SavingsQuestion == "" {
		t.SavingsQuestion = "How much do you have in savings?"
	}
	if t.GoalsQuestion == "" {
		t.GoalsQuestion = "Do you have any specific financial goals?"
	}
	if t.RiskQuestion == "" {
		t.RiskQuestion = "How would you describe your risk tolerance?"
	}
	if t.DebtQuestion == "" {
		t.DebtQuestion = "Do you have any outstanding loans or debts?"
	}
	if t.ClosingQuestion == "" {
		t.ClosingQuestion = "Would you like to see personalized recommendations?"
	}
	if len(t.ClarificationTemplates) == 0 {
		t.ClarificationTemplates = []string{
			"Could you please provide more details about your {topic}?",
			"I'd like to better understand your {topic}. Can you elaborate?",
		}
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Dialogue.MaxDialogues < 1 {
		return fmt.Errorf("dialogue.max_dialogues must be at least 1")
	}
	if cfg.Dialogue.ConfidenceThreshold < 0 || cfg.Dialogue.ConfidenceThreshold > 1 {
		return fmt.Errorf("dialogue.confidence_threshold must be in [0,1]")
	}
	return nil
}
