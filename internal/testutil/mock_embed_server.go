package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// embeddingsResponse is the minimal OpenAI embeddings response for tests.
type embeddingsResponse struct {
	Object string `json:"object"`
	Model  string `json:"model"`
	Data   []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// NewEmbeddingsServer starts an httptest.Server that responds to
// POST /v1/embeddings with a single vector. When vec is nil a fixed
// 8-dimensional vector is returned. Caller must call server.Close() or
// register t.Cleanup(server.Close).
func NewEmbeddingsServer(vec []float32) *httptest.Server {
	if vec == nil {
		vec = []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var resp embeddingsResponse
		resp.Object = "list"
		resp.Model = "text-embedding-3-small"
		resp.Data = make([]struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}, 1)
		resp.Data[0].Object = "embedding"
		resp.Data[0].Embedding = vec
		resp.Usage.PromptTokens = 8
		resp.Usage.TotalTokens = 8
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return httptest.NewServer(handler)
}
