package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomadvisor/substitute-cli/internal/brand"
	"github.com/bomadvisor/substitute-cli/internal/history"
	"github.com/bomadvisor/substitute-cli/internal/recommend"
	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
)

// newTestEnv wires an appEnv whose LLM answers with a fixed completion.
func newTestEnv(t *testing.T, completion string) *appEnv {
	t.Helper()
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": completion}},
			},
		})
	}))
	t.Cleanup(llm.Close)

	advisor := recommend.NewAdvisor(
		deepseek.NewClient("test-key", deepseek.WithBaseURL(llm.URL)),
		nil,
		brand.New(brand.DefaultTables()),
	)
	return &appEnv{advisor: advisor, history: history.NewStore()}
}

func TestHealthEndpoint(t *testing.T) {
	router := newRouter(newTestEnv(t, "[]"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRecommendEndpoint(t *testing.T) {
	completion := `[{"model": "GD32F103C8T6", "brand": "GigaDevice", "type": "国产", "price": "¥12-¥15"}]`
	env := newTestEnv(t, completion)
	router := newRouter(env)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/recommend",
		strings.NewReader(`{"mpn": "STM32F103C8"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		MPN          string `json:"mpn"`
		Alternatives []struct {
			Model string `json:"model"`
		} `json:"alternatives"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STM32F103C8", body.MPN)
	require.NotEmpty(t, body.Alternatives)
	assert.Equal(t, "GD32F103C8T6", body.Alternatives[0].Model)

	assert.Equal(t, 1, env.history.Len())
}

func TestRecommendEndpointRejectsBadBody(t *testing.T) {
	router := newRouter(newTestEnv(t, "[]"))

	for name, body := range map[string]string{
		"not json":    "{",
		"missing mpn": `{"name": "x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAssessEndpoint(t *testing.T) {
	env := newTestEnv(t, `{"status": "discontinued", "eol": ""}`)
	router := newRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assess",
		strings.NewReader(`{"mpn": "LM358"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Level string `json:"risk_level"`
		EOL   string `json:"eol"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "high", got.Level)
	assert.Equal(t, "discontinued", got.EOL)
}

func TestIdentifyEndpointRejectsNonPart(t *testing.T) {
	router := newRouter(newTestEnv(t, "{}"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/identify",
		strings.NewReader(`{"mpn": "ab"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t, "[]")
	env.history.Add(history.KindRecommend, "LM358", 3)
	router := newRouter(env)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []history.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "LM358", entries[0].MPN)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/history", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, env.history.Len())
}
