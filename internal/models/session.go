// internal/models/session.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session holds the accumulated state of one conversation.
//
// Mutation happens only inside the store's per-session critical section; the
// engine never shares a Session across goroutines without that lock.
type Session struct {
	ID               string
	Messages         []Message
	CurrentTopic     Topic // empty until the first topic is chosen
	TopicsCovered    map[Topic]bool
	ConfidenceScores map[Topic]float64
	DialogueTurn     int // bot messages only
	LastActivity     time.Time
	IsComplete       bool
	CreatedAt        time.Time
}

// NewSession creates an empty session. When id is empty a fresh one is
// generated.
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	return &Session{
		ID:               id,
		TopicsCovered:    make(map[Topic]bool),
		ConfidenceScores: make(map[Topic]float64),
		LastActivity:     now,
		CreatedAt:        now,
	}
}

// AddMessage appends a message and bumps activity. The dialogue turn counter
// increments on bot messages only.
func (s *Session) AddMessage(text string, sender Sender) Message {
	msg := Message{
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}
	s.Messages = append(s.Messages, msg)
	s.LastActivity = msg.Timestamp
	if sender == SenderBot {
		s.DialogueTurn++
	}
	return msg
}

// IsExpired reports whether the session has been inactive past the timeout.
func (s *Session) IsExpired(timeout time.Duration) bool {
	return time.Now().UTC().After(s.LastActivity.Add(timeout))
}

// MaxTurnsReached reports whether the bot has spoken maxDialogues times.
func (s *Session) MaxTurnsReached(maxDialogues int) bool {
	return s.DialogueTurn >= maxDialogues
}

// SetTopicConfidence records a confidence score (last write wins) and marks
// the topic covered once it meets the threshold.
func (s *Session) SetTopicConfidence(topic Topic, confidence, threshold float64) {
	s.ConfidenceScores[topic] = confidence
	if confidence >= threshold {
		s.TopicsCovered[topic] = true
	}
}

// HasConfidence reports whether any score has been recorded for the topic.
func (s *Session) HasConfidence(topic Topic) bool {
	_, ok := s.ConfidenceScores[topic]
	return ok
}

// NeedsClarification reports whether the topic is still below the coverage
// threshold (a topic never scored always needs clarification).
func (s *Session) NeedsClarification(topic Topic, threshold float64) bool {
	score, ok := s.ConfidenceScores[topic]
	if !ok {
		return true
	}
	return score < threshold
}

// NextTopic returns the first topic in priority order not yet covered, or ""
// when every topic is covered.
func (s *Session) NextTopic() Topic {
	for _, t := range AllTopics {
		if !s.TopicsCovered[t] {
			return t
		}
	}
	return ""
}

// UserMessages returns the user side of the conversation in order.
func (s *Session) UserMessages() []Message {
	out := make([]Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Sender == SenderUser {
			out = append(out, m)
		}
	}
	return out
}

// SessionStateView is the serializable projection returned by the API.
type SessionStateView struct {
	SessionID        string             `json:"session_id"`
	DialogueTurn     int                `json:"dialogue_turn"`
	CurrentTopic     string             `json:"current_topic,omitempty"`
	TopicsCovered    []string           `json:"topics_covered"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	IsComplete       bool               `json:"is_complete"`
	LastActivity     string             `json:"last_activity"`
}

// View builds the API projection of the session.
func (s *Session) View() SessionStateView {
	covered := make([]string, 0, len(s.TopicsCovered))
	for _, t := range AllTopics {
		if s.TopicsCovered[t] {
			covered = append(covered, string(t))
		}
	}
	scores := make(map[string]float64, len(s.ConfidenceScores))
	for t, c := range s.ConfidenceScores {
		scores[string(t)] = c
	}
	return SessionStateView{
		SessionID:        s.ID,
		DialogueTurn:     s.DialogueTurn,
		CurrentTopic:     string(s.CurrentTopic),
		TopicsCovered:    covered,
		ConfidenceScores: scores,
		IsComplete:       s.IsComplete,
		LastActivity:     s.LastActivity.Format(time.RFC3339),
	}
}
