// internal/common/config/config.go
package config

import (
	"time"

	"understander/internal/models"
)

// Config is the main application configuration struct. It is loaded once at
// startup and immutable afterwards.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Dialogue DialogueConfig `mapstructure:"dialogue"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	AllowedOrigin   string `mapstructure:"allowed_origin"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

// DialogueConfig holds the dialogue engine settings.
type DialogueConfig struct {
	MaxDialogues        int             `mapstructure:"max_dialogues"`        // turn cap, bot messages
	ChatTimeout         int             `mapstructure:"chat_timeout"`         // seconds of inactivity before expiry
	ConfidenceThreshold float64         `mapstructure:"confidence_threshold"` // topic covered at or above this
	Templates           TemplatesConfig `mapstructure:"dialogue_templates"`
}

// ChatTimeoutDuration returns the inactivity expiry as a duration.
func (d DialogueConfig) ChatTimeoutDuration() time.Duration {
	return time.Duration(d.ChatTimeout) * time.Second
}

// TemplatesConfig holds the canned dialogue text, keyed the same way the
// service's config file keys them.
type TemplatesConfig struct {
	Greeting               string   `mapstructure:"greeting"`
	IncomeQuestion         string   `mapstructure:"income_question"`
	ExpensesQuestion       string   `mapstructure:"expenses_question"`
	SavingsQuestion        string   `mapstructure:"savings_question"`
	GoalsQuestion          string   `mapstructure:"goals_question"`
	RiskQuestion           string   `mapstructure:"risk_question"`
	DebtQuestion           string   `mapstructure:"debt_question"`
	ClosingQuestion        string   `mapstructure:"closing_question"`
	ClarificationTemplates []string `mapstructure:"clarification_templates"`
}

// QuestionFor returns the canned question for a topic.
func (t TemplatesConfig) QuestionFor(topic models.Topic) string {
	switch topic {
	case models.TopicIncome:
		return t.IncomeQuestion
	case models.TopicExpenses:
		return t.ExpensesQuestion
	case models.TopicSavings:
		return t.SavingsQuestion
	case models.TopicGoals:
		return t.GoalsQuestion
	case models.TopicRiskTolerance:
		return t.RiskQuestion
	case models.TopicDebt:
		return t.DebtQuestion
	}
	return ""
}

// RedisConfig configures the optional persona cache. An empty address
// disables caching entirely.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// Enabled reports whether a cache backend is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
