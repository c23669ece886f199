// internal/api/handlers_test.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"understander/internal/common/config"
	"understander/internal/common/logger"
	"understander/internal/common/observability"
	"understander/internal/dialogue"
	"understander/internal/dialogue/store"
	"understander/internal/persona"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestRouter(t *testing.T) http.Handler {
	var cfg config.Config
	config.ApplyDefaults(&cfg)

	log := logger.NewTestLogger(t)
	st := store.New(cfg.Dialogue.ChatTimeoutDuration(), log)
	engine := dialogue.NewEngine(cfg.Dialogue, st, observability.New("understander-test"), log)
	engine.SetPick(func(int) int { return 0 })

	handler := NewHandler(engine, persona.NewService(nil), log)
	return NewRouter(handler, cfg.Server)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

// ==========================
// Understand Endpoint Tests
// ==========================

func TestUnderstand_NewConversation(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"Hello"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Financial Assistant! What's your annual income?", body["text"])
	assert.NotEmpty(t, body["session_id"])

	state, ok := body["state"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "income", state["current_topic"])
	assert.Equal(t, float64(1), state["dialogue_turn"])
}

func TestUnderstand_MissingMessageField(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"session_id":"abc"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestUnderstand_BlankMessage(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestUnderstand_MalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

// ==========================
// State and Reset Endpoint Tests
// ==========================

func TestDialogueState(t *testing.T) {
	router := newTestRouter(t)

	_, created := doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"Hi","session_id":"abc"}`)
	require.NotEmpty(t, created["session_id"])

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/dialogue/state?session_id=abc", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", body["session_id"])
	assert.Equal(t, "income", body["current_topic"])
}

func TestDialogueState_MissingParam(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/dialogue/state", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestDialogueState_UnknownSession(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/dialogue/state?session_id=nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", body["code"])
}

func TestDialogueReset(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"Hi","session_id":"abc"}`)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/dialogue/reset", `{"session_id":"abc"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["new_session_id"])
	assert.NotEqual(t, "abc", body["new_session_id"])
}

func TestDialogueReset_MissingSessionID(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/dialogue/reset", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

// ==========================
// Vector and Profile Endpoint Tests
// ==========================

func TestUserVector(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"Hi","session_id":"abc"}`)
	doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"My income is 250k","session_id":"abc"}`)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/user/vector", `{"session_id":"abc"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", body["session_id"])

	vector, ok := body["vector"].([]interface{})
	require.True(t, ok)
	require.Len(t, vector, 10)
	assert.InDelta(t, 0.5, vector[0].(float64), 1e-9)
}

func TestUserVector_UnknownSession(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/user/vector", `{"session_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", body["code"])
}

func TestUserProfile(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"Hi","session_id":"abc"}`)
	doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"My income is 120k","session_id":"abc"}`)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/user/profile", `{"session_id":"abc"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	info, ok := body["financial_info"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 120000, info["annual_income"].(float64), 1e-9)
	assert.Equal(t, "moderate", body["risk_profile"])

	goals, ok := body["financial_goals"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, goals)
}

// ==========================
// Health Endpoint Tests
// ==========================

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "understander", body["service"])
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnderstand_SessionIDRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	_, first := doJSON(t, router, http.MethodPost, "/api/v1/understand", `{"message":"Hello"}`)
	id, ok := first["session_id"].(string)
	require.True(t, ok)

	_, second := doJSON(t, router, http.MethodPost, "/api/v1/understand",
		fmt.Sprintf(`{"message":"My income is 85k","session_id":%q}`, id))
	assert.Equal(t, id, second["session_id"])

	state := second["state"].(map[string]interface{})
	covered := state["topics_covered"].([]interface{})
	assert.Equal(t, []interface{}{"income"}, covered)
}
