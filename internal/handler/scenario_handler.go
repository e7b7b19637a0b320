package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kalkulatorbisnis/backend/internal/model"
	"github.com/kalkulatorbisnis/backend/internal/repository"
	"github.com/kalkulatorbisnis/backend/internal/service"
	"github.com/kalkulatorbisnis/backend/pkg/auth"
)

// ScenarioHandler はシナリオ CRUD と購読フィードの HTTP ハンドラ
type ScenarioHandler struct {
	svc service.ScenarioService
}

// NewScenarioHandler は ScenarioHandler を生成する
func NewScenarioHandler(svc service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{svc: svc}
}

// List handles GET /api/me/scenarios (auth required).
func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	scenarios, err := h.svc.List(r.Context(), userID)
	if err != nil {
		slog.Error("scenario list failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if scenarios == nil {
		scenarios = []*model.Scenario{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"scenarios": scenarios})
}

// Create handles POST /api/me/scenarios (auth required).
func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var in model.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	scenario, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		slog.Error("scenario create failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "create_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(scenario)
}

// Update handles PUT /api/me/scenarios/{id} (auth required).
func (h *ScenarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	id := r.PathValue("id")

	var in model.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	scenario, err := h.svc.Update(r.Context(), id, userID, in)
	if err != nil {
		writeScenarioError(w, err, userID)
		return
	}
	_ = json.NewEncoder(w).Encode(scenario)
}

// Delete handles DELETE /api/me/scenarios/{id} (auth required).
func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		writeScenarioError(w, err, userID)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Feed handles GET /api/me/scenarios/feed (auth required). It streams list
// snapshots over SSE: one event immediately, then one per change by this
// owner. Closing the connection cancels the subscription.
func (h *ScenarioHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "streaming_unsupported"})
		return
	}

	snapshots, err := h.svc.Watch(r.Context(), userID)
	if err != nil {
		slog.Error("scenario feed start failed", "error", err, "user_id", userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "feed_failed"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snapshot := range snapshots {
		payload, err := json.Marshal(map[string]any{"scenarios": snapshot})
		if err != nil {
			slog.Error("scenario feed encode failed", "error", err, "user_id", userID)
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

func writeScenarioError(w http.ResponseWriter, err error, userID string) {
	if errors.Is(err, service.ErrForbidden) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}
	slog.Error("scenario operation failed", "error", err, "user_id", userID)
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
}
