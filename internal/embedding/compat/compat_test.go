package compat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string, batchSize int) *Client {
	t.Helper()
	t.Setenv("TEST_EMBED_KEY", "secret")
	c, err := NewClient(Config{BaseURL: url, APIKeyEnv: "TEST_EMBED_KEY", Model: "m", BatchSize: batchSize, MaxRetries: 2})
	require.NoError(t, err)
	c.sleep = func(time.Duration) {}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{APIKeyEnv: "SEMAXIS_TEST_UNSET_KEY"})
	assert.Error(t, err)

	c, err := NewClient(Config{APIKeyEnv: "SEMAXIS_TEST_UNSET_KEY", AllowMissingKey: true})
	require.NoError(t, err)
	assert.Equal(t, "compat:text-embedding-3-small", c.Name())
}

func TestEmbedOpenAIShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "detect face", body["input"])
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,-0.5,1]}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 8)
	v, err := c.Embed("detect face")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.5, 1}, v)
	assert.Equal(t, 3, c.Dimension())
}

func TestEmbedOllamaShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[1,2]}`))
	}))
	defer srv.Close()

	v, err := newTestClient(t, srv.URL, 8).Embed("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, v)
}

func TestEmbedRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer srv.Close()

	v, err := newTestClient(t, srv.URL, 8).Embed("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, v)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEmbedGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 8).Embed("x")
	assert.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEmbedClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 8).Embed("x")
	assert.ErrorContains(t, err, "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestEmbedBatchChunksAndReorders(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var body struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		var data []item
		// reversed on purpose: the client must order by index
		for i := len(body.Input) - 1; i >= 0; i-- {
			data = append(data, item{Index: i, Embedding: []float64{float64(len(body.Input[i]))}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	out, err := c.EmbedBatch([]string{"a", "bb", "ccc", "dddd", "eeeee"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}, {3}, {4}, {5}}, out)
	assert.Equal(t, int32(3), requests.Load())
}

func TestEmbedBatchFallsBackToSinglePrompts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if prompt, ok := body["prompt"].(string); ok {
			_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{float64(len(prompt))}})
			return
		}
		// batch request: answer in a shape that does not carry one vector per input
		_, _ = w.Write([]byte(`{"embedding":[9]}`))
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL, 8).EmbedBatch([]string{"ab", "abcd"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {4}}, out)
}

func TestRetryDelayIsCapped(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, retryDelay(0))
	assert.Equal(t, 400*time.Millisecond, retryDelay(1))
	assert.Equal(t, 5*time.Second, retryDelay(10))
	assert.Equal(t, 2*time.Second, retryAfter("2", 0))
	assert.Equal(t, 200*time.Millisecond, retryAfter("soon", 0))
}
