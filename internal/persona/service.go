// internal/persona/service.go
package persona

import (
	"context"

	"understander/internal/models"
)

// Service fronts the vector and profile builders with the optional cache.
// The vector is served from the cached profile since the profile embeds it.
type Service struct {
	cache *Cache
}

func NewService(cache *Cache) *Service {
	return &Service{cache: cache}
}

// Vector builds the persona vector for a message log snapshot.
func (s *Service) Vector(ctx context.Context, sessionID string, messages []models.Message) models.FinancialVector {
	return s.Profile(ctx, sessionID, messages).Vector
}

// Profile builds the financial profile, consulting the cache first.
func (s *Service) Profile(ctx context.Context, sessionID string, messages []models.Message) models.FinancialProfile {
	if cached, ok := s.cache.GetProfile(ctx, sessionID, len(messages)); ok {
		return cached
	}
	profile := BuildProfile(messages)
	s.cache.SetProfile(ctx, sessionID, len(messages), profile)
	return profile
}
