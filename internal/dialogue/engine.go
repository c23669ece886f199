// internal/dialogue/engine.go

// Package dialogue implements the topic-driven interview state machine. One
// inbound user message produces one outbound bot message plus updated
// session state; the engine owns the topic sequencing policy and delegates
// text understanding to the extraction rules.
package dialogue

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"understander/internal/common/config"
	apperrors "understander/internal/common/errors"
	"understander/internal/common/logger"
	"understander/internal/common/metrics"
	"understander/internal/common/observability"
	"understander/internal/dialogue/store"
	"understander/internal/extraction"
	"understander/internal/models"
)

// Turn outcomes used for logging and metrics.
const (
	outcomeAsked     = "asked"
	outcomeClarified = "clarified"
	outcomeCompleted = "completed"
)

// Response is the result of advancing a conversation by one user message.
type Response struct {
	Text      string                  `json:"text"`
	SessionID string                  `json:"session_id"`
	State     models.SessionStateView `json:"state"`
}

// Engine orchestrates the session store, the topic policy and the
// extraction rules.
type Engine struct {
	cfg    config.DialogueConfig
	store  *store.Store
	obs    *observability.Observability
	logger logger.Logger

	// pick selects a clarification template index; injectable so tests can
	// force deterministic template selection.
	pick func(n int) int
}

func NewEngine(cfg config.DialogueConfig, st *store.Store, obs *observability.Observability, log logger.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		store:  st,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "dialogue-engine"}),
		pick:   rand.Intn,
	}
}

// SetPick overrides the clarification template selector.
func (e *Engine) SetPick(pick func(n int) int) {
	e.pick = pick
}

// Advance processes one user message and returns the bot response. A
// missing, unknown or expired session id yields a fresh session; its id is
// carried in the response.
func (e *Engine) Advance(ctx context.Context, sessionID, message string) (*Response, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewInvalidInputError("empty message")
	}

	start := time.Now()
	var (
		resp    Response
		outcome string
		created bool
	)

	e.store.Update(sessionID, func(s *models.Session) {
		created = len(s.Messages) == 0
		s.AddMessage(message, models.SenderUser)

		results := e.extract(s, message)
		for topic, res := range results {
			s.SetTopicConfidence(topic, res.Confidence, e.cfg.ConfidenceThreshold)
		}

		text := e.transition(s)
		if created && !s.IsComplete {
			text = e.cfg.Templates.Greeting + " " + text
		}
		s.AddMessage(text, models.SenderBot)
		outcome = e.outcomeOf(s)

		resp = Response{Text: text, SessionID: s.ID, State: s.View()}
	})

	if created {
		e.obs.RecordSessionEvent(ctx, "created")
	}
	e.obs.RecordMessageProcessed(ctx, outcome)
	e.obs.RecordAdvanceDuration(ctx, time.Since(start), outcome)
	metrics.SessionsActive.Set(float64(e.store.Len()))

	e.logger.Info("message processed", map[string]interface{}{
		"sessionId":    resp.SessionID,
		"currentTopic": resp.State.CurrentTopic,
		"dialogueTurn": resp.State.DialogueTurn,
		"outcome":      outcome,
		"isComplete":   resp.State.IsComplete,
	})

	return &resp, nil
}

// extract runs the rules for the active topic, or for all topics while no
// topic has been chosen yet, and keeps only positive-confidence results.
func (e *Engine) extract(s *models.Session, message string) map[models.Topic]extraction.Result {
	if s.CurrentTopic == "" {
		return extraction.ExtractAll(message)
	}
	out := make(map[models.Topic]extraction.Result, 1)
	if res := extraction.Extract(s.CurrentTopic, message); res.Confidence > 0 {
		out[s.CurrentTopic] = res
	}
	return out
}

// transition applies the topic policy and returns the bot response text.
// The turn cap is checked after extraction so the final user message still
// contributes coverage before the closing message.
func (e *Engine) transition(s *models.Session) string {
	if s.MaxTurnsReached(e.cfg.MaxDialogues) {
		s.IsComplete = true
		return e.cfg.Templates.ClosingQuestion
	}

	if s.CurrentTopic == "" || !s.NeedsClarification(s.CurrentTopic, e.cfg.ConfidenceThreshold) {
		s.CurrentTopic = s.NextTopic()
	}

	if s.CurrentTopic == "" {
		s.IsComplete = true
		return e.cfg.Templates.ClosingQuestion
	}

	// A topic with a recorded sub-threshold score is being clarified; a
	// topic never scored gets its canned question.
	if s.HasConfidence(s.CurrentTopic) {
		return e.clarificationFor(s.CurrentTopic)
	}
	return e.cfg.Templates.QuestionFor(s.CurrentTopic)
}

func (e *Engine) clarificationFor(topic models.Topic) string {
	templates := e.cfg.Templates.ClarificationTemplates
	if len(templates) == 0 {
		return "Could you tell me more about your " + string(topic) + "?"
	}
	chosen := templates[e.pick(len(templates))]
	return strings.ReplaceAll(chosen, "{topic}", string(topic))
}

func (e *Engine) outcomeOf(s *models.Session) string {
	switch {
	case s.IsComplete:
		return outcomeCompleted
	case s.HasConfidence(s.CurrentTopic):
		return outcomeClarified
	default:
		return outcomeAsked
	}
}

// GetState returns the state view for an existing session.
func (e *Engine) GetState(sessionID string) (models.SessionStateView, error) {
	var view models.SessionStateView
	ok := e.store.View(sessionID, func(s *models.Session) {
		view = s.View()
	})
	if !ok {
		return models.SessionStateView{}, apperrors.NewSessionNotFoundError(sessionID)
	}
	return view, nil
}

// Reset discards the session stored under sessionID and returns the
// replacement's internal id.
func (e *Engine) Reset(ctx context.Context, sessionID string) string {
	newID := e.store.Reset(sessionID)
	e.obs.RecordSessionEvent(ctx, "reset")
	return newID
}

// Snapshot copies the full message log of an existing session so vector and
// profile building can run outside the session lock.
func (e *Engine) Snapshot(sessionID string) ([]models.Message, error) {
	var snapshot []models.Message
	ok := e.store.View(sessionID, func(s *models.Session) {
		snapshot = append([]models.Message(nil), s.Messages...)
	})
	if !ok {
		return nil, apperrors.NewSessionNotFoundError(sessionID)
	}
	return snapshot, nil
}
