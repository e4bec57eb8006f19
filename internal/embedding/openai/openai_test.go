package openai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "text-embedding-3-small", body.Model)
		data := make([]map[string]any, 0, len(body.Input))
		for i := len(body.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float64{float64(len(body.Input[i])), 1},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  body.Model,
			"data":   data,
			"usage":  map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func TestNewEmbedderRequiresKey(t *testing.T) {
	_, err := NewEmbedder(Config{APIKeyEnv: "SEMAXIS_TEST_UNSET_KEY"})
	assert.Error(t, err)
}

func TestEmbedBatchOrdersByIndex(t *testing.T) {
	var requests atomic.Int32
	srv := newServer(t, &requests)
	defer srv.Close()
	t.Setenv("TEST_OPENAI_KEY", "sk-test")

	e, err := NewEmbedder(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_OPENAI_KEY", BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, "openai:text-embedding-3-small", e.Name())

	out, err := e.EmbedBatch([]string{"a", "bb", "ccc"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 1}, {2, 1}, {3, 1}}, out)
	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, 2, e.Dimension())

	single, err := e.Embed("bb")
	require.NoError(t, err)
	assert.Equal(t, out[1], single)
}
