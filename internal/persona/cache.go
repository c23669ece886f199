// internal/persona/cache.go
package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"understander/internal/common/database"
	"understander/internal/common/logger"
	"understander/internal/models"
)

// Cache memoizes computed profiles in Redis, keyed by session id and message
// count. Because the builders are pure functions of the log, a hit for the
// same (id, length) pair is always valid; this never changes observable
// behavior, it only skips the rescan. A nil *Cache disables caching.
type Cache struct {
	client *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(client *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "persona-cache"}),
	}
}

func profileKey(sessionID string, messageCount int) string {
	return fmt.Sprintf("persona:profile:%s:%d", sessionID, messageCount)
}

// GetProfile returns a cached profile, or false on miss or any cache error.
func (c *Cache) GetProfile(ctx context.Context, sessionID string, messageCount int) (models.FinancialProfile, bool) {
	if c == nil {
		return models.FinancialProfile{}, false
	}
	raw, err := c.client.Get(ctx, profileKey(sessionID, messageCount))
	if err != nil {
		return models.FinancialProfile{}, false
	}
	var profile models.FinancialProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		c.logger.Warn("dropping unreadable cache entry", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return models.FinancialProfile{}, false
	}
	return profile, true
}

// SetProfile stores a computed profile. Cache errors are logged, never
// surfaced: the caller already has the computed value.
func (c *Cache) SetProfile(ctx context.Context, sessionID string, messageCount int, profile models.FinancialProfile) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, profileKey(sessionID, messageCount), raw, c.ttl); err != nil {
		c.logger.Warn("profile cache write failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}
}
