package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/observability"
	"github.com/reelforge/llmcore/internal/salvage"
)

// Handler handles HTTP requests.
type Handler struct {
	orchestrator *domain.Orchestrator
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(orchestrator *domain.Orchestrator) *Handler {
	return &Handler{
		orchestrator: orchestrator,
	}
}

// structuredResponse carries a generation result plus its salvaged payload.
type structuredResponse struct {
	Result  *domain.GenerationResult `json:"result"`
	Payload json.RawMessage          `json:"payload,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// HandleGenerate processes generation requests.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("generation request received",
		observability.String("task", string(req.Task)),
		observability.Bool("cache_disabled", req.DisableCache),
	)

	result, err := h.orchestrator.Generate(ctx, &req)
	if err != nil {
		logger.Error("generation failed", observability.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	logger.Info("generation succeeded",
		observability.String("provider", result.Provider),
		observability.Float64("cost", result.Cost),
		observability.Bool("from_cache", result.FromCache),
	)

	writeJSON(w, http.StatusOK, result)
}

// HandleGenerateStructured processes generation requests whose output is
// salvage-parsed into JSON. A parse failure still returns the raw text.
func (h *Handler) HandleGenerateStructured(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)

	result, payload, err := h.orchestrator.GenerateJSON(ctx, &req)
	if err != nil {
		logger.Error("structured generation failed", observability.Error(err))

		var parseErr *salvage.ParseError
		if errors.As(err, &parseErr) && result != nil {
			// Generation itself worked; hand the caller the raw text.
			writeJSON(w, http.StatusUnprocessableEntity, structuredResponse{
				Result: result,
				Error:  parseErr.Error(),
			})
			return
		}

		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, structuredResponse{
		Result:  result,
		Payload: payload,
	})
}

// HandleProviders lists the configured providers in priority order.
func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"providers": h.orchestrator.AvailableProviders(r.Context()),
	})
}

// HandleCacheStats summarizes the response cache.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.orchestrator.CacheStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleCacheClear empties the cache, or only its expired entries when the
// "expired" query parameter is set.
func (h *Handler) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		cleared int
		err     error
	)

	if r.URL.Query().Get("expired") != "" {
		cleared, err = h.orchestrator.ClearExpiredCache(ctx)
	} else {
		cleared, err = h.orchestrator.ClearCache(ctx)
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

// HandleHealth reports process liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var allFailed *domain.AllProvidersFailedError

	switch {
	case errors.Is(err, domain.ErrNoProvider):
		return http.StatusServiceUnavailable
	case errors.As(err, &allFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		observability.Logger().Error("failed to encode response",
			observability.Error(err))
	}
}
