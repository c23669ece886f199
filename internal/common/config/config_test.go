// internal/common/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"understander/internal/models"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	assert.Equal(t, "understander", cfg.App.Name)
	assert.Equal(t, 5052, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Dialogue.MaxDialogues)
	assert.Equal(t, 300, cfg.Dialogue.ChatTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Dialogue.ChatTimeoutDuration())
	assert.InDelta(t, 0.7, cfg.Dialogue.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 600, cfg.Redis.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Len(t, cfg.Dialogue.Templates.ClarificationTemplates, 2)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Server.Port = 9000
	cfg.Dialogue.MaxDialogues = 8
	ApplyDefaults(&cfg)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Dialogue.MaxDialogues)
}

func TestTemplates_QuestionFor(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	tpl := cfg.Dialogue.Templates

	assert.Equal(t, "What's your annual income?", tpl.QuestionFor(models.TopicIncome))
	assert.Equal(t, "What are your monthly expenses?", tpl.QuestionFor(models.TopicExpenses))
	assert.Equal(t, "How much do you have in savings?", tpl.QuestionFor(models.TopicSavings))
	assert.Equal(t, "Do you have any specific financial goals?", tpl.QuestionFor(models.TopicGoals))
	assert.Equal(t, "How would you describe your risk tolerance?", tpl.QuestionFor(models.TopicRiskTolerance))
	assert.Equal(t, "Do you have any outstanding loans or debts?", tpl.QuestionFor(models.TopicDebt))
}

func TestValidate(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	assert.NoError(t, validate(&cfg))

	bad := cfg
	bad.Server.Port = -1
	assert.Error(t, validate(&bad))

	bad = cfg
	bad.Dialogue.MaxDialogues = 0
	assert.Error(t, validate(&bad))

	bad = cfg
	bad.Dialogue.ConfidenceThreshold = 1.5
	assert.Error(t, validate(&bad))
}

func TestRedisConfig_Enabled(t *testing.T) {
	assert.False(t, RedisConfig{}.Enabled())
	assert.True(t, RedisConfig{Address: "localhost:6379"}.Enabled())
}
