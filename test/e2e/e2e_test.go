// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"understander/internal/api"
	"understander/internal/common/config"
	"understander/internal/common/logger"
	"understander/internal/common/observability"
	"understander/internal/dialogue"
	"understander/internal/dialogue/store"
	"understander/internal/persona"
)

// ==========================
// Test Setup
// ==========================

func newTestServer(t *testing.T) *httptest.Server {
	var cfg config.Config
	config.ApplyDefaults(&cfg)

	log := logger.NewTestLogger(t)
	st := store.New(cfg.Dialogue.ChatTimeoutDuration(), log)
	engine := dialogue.NewEngine(cfg.Dialogue, st, observability.New("understander-e2e"), log)
	engine.SetPick(func(int) int { return 0 })

	handler := api.NewHandler(engine, persona.NewService(nil), log)
	srv := httptest.NewServer(api.NewRouter(handler, cfg.Server))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload interface{}) (int, map[string]interface{}) {
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// ==========================
// Full Conversation Flow
// ==========================

func TestFullInterviewFlow(t *testing.T) {
	srv := newTestServer(t)

	// opening message starts a session and gets the income question
	status, body := postJSON(t, srv.URL+"/api/v1/understand", map[string]string{
		"message": "Hi, I'd like some financial advice",
	})
	require.Equal(t, http.StatusOK, status)
	sessionID := body["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "Welcome to the Financial Assistant! What's your annual income?", body["text"])

	// answer every topic in sequence
	answers := []struct {
		message      string
		expectedText string
	}{
		{"My income is 85k", "What are your monthly expenses?"},
		{"My expenses are 3k", "How much do you have in savings?"},
		{"My savings is about 40k", "Do you have any specific financial goals?"},
		{"I want to buy a home, retire early, and invest in stocks", "How would you describe your risk tolerance?"},
	}
	for _, step := range answers {
		status, body = postJSON(t, srv.URL+"/api/v1/understand", map[string]string{
			"message":    step.message,
			"session_id": sessionID,
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, step.expectedText, body["text"])
	}

	// the fifth bot turn hits the dialogue cap and closes the interview
	status, body = postJSON(t, srv.URL+"/api/v1/understand", map[string]string{
		"message":    "Moderate risk suits me, and I have no debt",
		"session_id": sessionID,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Would you like to see personalized recommendations?", body["text"])
	state := body["state"].(map[string]interface{})
	assert.Equal(t, true, state["is_complete"])

	// state endpoint agrees with the last response
	status, stateBody := getJSON(t, fmt.Sprintf("%s/api/v1/dialogue/state?session_id=%s", srv.URL, sessionID))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, stateBody["is_complete"])

	// the persona vector reflects the collected answers
	status, vectorBody := postJSON(t, srv.URL+"/api/v1/user/vector", map[string]string{
		"session_id": sessionID,
	})
	require.Equal(t, http.StatusOK, status)
	vector := vectorBody["vector"].([]interface{})
	require.Len(t, vector, 10)
	assert.InDelta(t, 0.17, vector[0].(float64), 1e-9) // 85000 / 500000
	assert.InDelta(t, 0.15, vector[1].(float64), 1e-9) // 3000 / 20000
	assert.InDelta(t, 1.0, vector[3].(float64), 1e-9)  // home goal flag
	assert.InDelta(t, 1.0, vector[4].(float64), 1e-9)  // retirement goal flag
	assert.InDelta(t, 0.5, vector[6].(float64), 1e-9)  // moderate risk

	// and the structured profile carries the raw magnitudes
	status, profileBody := postJSON(t, srv.URL+"/api/v1/user/profile", map[string]string{
		"session_id": sessionID,
	})
	require.Equal(t, http.StatusOK, status)
	info := profileBody["financial_info"].(map[string]interface{})
	assert.InDelta(t, 85000, info["annual_income"].(float64), 1e-9)
	assert.InDelta(t, 3000, info["monthly_expenses"].(float64), 1e-9)
	assert.Equal(t, "moderate", profileBody["risk_profile"])
	assert.Contains(t, profileBody["financial_goals"], "home_purchase")

	// reset hands out a fresh session
	status, resetBody := postJSON(t, srv.URL+"/api/v1/dialogue/reset", map[string]string{
		"session_id": sessionID,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", resetBody["status"])
	assert.NotEqual(t, sessionID, resetBody["new_session_id"])

	status, stateBody = getJSON(t, fmt.Sprintf("%s/api/v1/dialogue/state?session_id=%s", srv.URL, sessionID))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, stateBody["is_complete"])
	assert.Equal(t, float64(0), stateBody["dialogue_turn"])
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	status, body := getJSON(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}
