package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"

	"semaxis/internal/domain"
	"semaxis/internal/projection"
)

const maxPromptBytes = 1 << 20

// Scorer is the subset of the axis service the API needs.
type Scorer interface {
	Score(text string) (projection.Projection, error)
}

// ProjectRequest is the body of POST /project.
type ProjectRequest struct {
	Prompt string `json:"prompt"`
}

// ProjectResponse carries the score, its interpretation and the mask policy.
type ProjectResponse struct {
	ProjectionScore float64         `json:"projection_score"`
	Interpretation  string          `json:"interpretation"`
	Relevance       string          `json:"relevance"`
	MaskType        domain.MaskType `json:"mask_type"`
}

type handler struct {
	// embedders track their dimension on first use and are not safe for
	// concurrent calls
	mu     sync.Mutex
	scorer Scorer
	log    *slog.Logger
}

func (h *handler) project(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPromptBytes)).Decode(&req); err != nil {
		Fail(h.log, w, "invalid JSON body", err, http.StatusBadRequest)
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		Fail(h.log, w, "prompt is required", nil, http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	p, err := h.scorer.Score(prompt)
	h.mu.Unlock()
	if err != nil {
		Fail(h.log, w, "scoring failed", err, http.StatusInternalServerError)
		return
	}
	if math.IsNaN(p.Score) || math.IsInf(p.Score, 0) {
		Fail(h.log, w, "scoring failed", errors.New("score is not finite"), http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, ProjectResponse{
		ProjectionScore: p.Score,
		Interpretation:  p.Relevance.Description(),
		Relevance:       p.Relevance.String(),
		MaskType:        p.Relevance.MaskType(),
	})
}
