package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docugate-io/docugate/internal/policy"
	"github.com/docugate-io/docugate/internal/watchlist"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	policyDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(policyDir, "default.yaml"),
		[]byte("require_name: true\nname_min_len: 2\n"), 0o600))
	rules := policy.NewEngine(policy.NewSource(policyDir, "default.yaml"))

	store, err := watchlist.NewStore(filepath.Join(t.TempDir(), "watchlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	screening := watchlist.NewEngine(store, nil, 5)

	return NewServer(rules, screening).Routes()
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t)

	for _, path := range []string{"/health", "/v1/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
	}
}

func TestRulesEvaluateEndpoint(t *testing.T) {
	handler := newTestServer(t)

	rec := postJSON(t, handler, "/v1/rules/evaluate", map[string]any{
		"source_id": "acme",
		"payload":   map[string]any{"name": "Tan Wei Ming"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result policy.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, policy.DecisionApprove, result.DecisionHint)
	assert.Empty(t, result.Violations)
}

func TestRulesEvaluateRejectIsStill200(t *testing.T) {
	handler := newTestServer(t)

	rec := postJSON(t, handler, "/v1/rules/evaluate", map[string]any{
		"source_id": "acme",
		"payload":   map[string]any{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result policy.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, policy.DecisionReject, result.DecisionHint)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, policy.CodeNameMissing, result.Violations[0].Code)
}

func TestRulesEvaluateBadRequests(t *testing.T) {
	handler := newTestServer(t)

	// Malformed envelope.
	req := httptest.NewRequest(http.MethodPost, "/v1/rules/evaluate", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing source_id.
	rec = postJSON(t, handler, "/v1/rules/evaluate", map[string]any{
		"payload": map[string]any{"name": "x"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistSearchEndpoint(t *testing.T) {
	handler := newTestServer(t)

	rec := postJSON(t, handler, "/v1/watchlist/search", map[string]any{
		"id_number":     "SGP1234567Z",
		"requester_ref": "case-77",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result watchlist.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1.0, result.TopScore)
	assert.True(t, result.Explanation.Signals.HasHardExact)
	assert.Equal(t, "disabled", result.Embedding.Provider)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, watchlist.MatchIDExact, result.Matches[0].MatchType)
}

func TestWatchlistSearchBadJSON(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/watchlist/search", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
