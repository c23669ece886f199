// internal/api/handlers.go

// Package api exposes the dialogue engine and persona builders over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "understander/internal/common/errors"
	"understander/internal/common/logger"
	"understander/internal/dialogue"
	"understander/internal/persona"
)

// Handler holds the dependencies shared by all HTTP endpoints.
type Handler struct {
	engine  *dialogue.Engine
	persona *persona.Service
	logger  logger.Logger
}

// NewHandler creates an API handler bound to the given engine and persona service.
func NewHandler(engine *dialogue.Engine, personaSvc *persona.Service, log logger.Logger) *Handler {
	return &Handler{
		engine:  engine,
		persona: personaSvc,
		logger:  log,
	}
}

var understandSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"message"},
	"properties": map[string]interface{}{
		"message": map[string]interface{}{
			"type": "string",
		},
		"session_id": map[string]interface{}{
			"type": "string",
		},
	},
}

var sessionIDSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"session_id"},
	"properties": map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
	},
}

type understandRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type sessionIDRequest struct {
	SessionID string `json:"session_id"`
}

// decodeAndValidate parses the request body and checks it against schemaMap
// before any session state is touched.
func decodeAndValidate(r *http.Request, schemaMap map[string]interface{}, out interface{}) *apperrors.StandardError {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return apperrors.NewInvalidInputError("request body must be a JSON object")
	}

	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewInvalidInputError(strings.Join(errs, "; "))
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if err := json.Unmarshal(encoded, out); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	return nil
}

// Understand advances the conversation by one user message.
// POST /api/v1/understand
func (h *Handler) Understand(w http.ResponseWriter, r *http.Request) {
	var req understandRequest
	if stdErr := decodeAndValidate(r, understandSchema, &req); stdErr != nil {
		h.writeError(w, stdErr)
		return
	}

	resp, err := h.engine.Advance(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.writeError(w, apperrors.Normalize(err))
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// DialogueState reports the session state without mutating it.
// GET /api/v1/dialogue/state?session_id=...
func (h *Handler) DialogueState(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.writeError(w, apperrors.NewInvalidInputError("session_id query parameter is required"))
		return
	}

	state, err := h.engine.GetState(sessionID)
	if err != nil {
		h.writeError(w, apperrors.Normalize(err))
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

// DialogueReset discards the stored session and starts a fresh one.
// POST /api/v1/dialogue/reset
func (h *Handler) DialogueReset(w http.ResponseWriter, r *http.Request) {
	var req sessionIDRequest
	if stdErr := decodeAndValidate(r, sessionIDSchema, &req); stdErr != nil {
		h.writeError(w, stdErr)
		return
	}

	newID := h.engine.Reset(r.Context(), req.SessionID)
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":         "success",
		"new_session_id": newID,
	})
}

// UserVector computes the normalized financial vector for a session.
// POST /api/v1/user/vector
func (h *Handler) UserVector(w http.ResponseWriter, r *http.Request) {
	var req sessionIDRequest
	if stdErr := decodeAndValidate(r, sessionIDSchema, &req); stdErr != nil {
		h.writeError(w, stdErr)
		return
	}

	messages, err := h.engine.Snapshot(req.SessionID)
	if err != nil {
		h.writeError(w, apperrors.Normalize(err))
		return
	}

	vector := h.persona.Vector(r.Context(), req.SessionID, messages)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": req.SessionID,
		"vector":     vector,
	})
}

// UserProfile builds the structured financial profile for a session.
// POST /api/v1/user/profile
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	var req sessionIDRequest
	if stdErr := decodeAndValidate(r, sessionIDSchema, &req); stdErr != nil {
		h.writeError(w, stdErr)
		return
	}

	messages, err := h.engine.Snapshot(req.SessionID)
	if err != nil {
		h.writeError(w, apperrors.Normalize(err))
		return
	}

	profile := h.persona.Profile(r.Context(), req.SessionID, messages)
	h.writeJSON(w, http.StatusOK, profile)
}

// Health reports service liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "understander",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("Failed to encode response body", nil)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, stdErr *apperrors.StandardError) {
	if stdErr.Code == apperrors.ErrCodeInternal {
		h.logger.WithFields(map[string]interface{}{
			"code":    stdErr.Code,
			"details": stdErr.Details,
		}).Error("Request failed", nil)
	}
	h.writeJSON(w, stdErr.HTTPStatus(), map[string]interface{}{
		"error":   stdErr.Message,
		"code":    stdErr.Code,
		"details": stdErr.Details,
	})
}
