package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalkulatorbisnis/backend/internal/model"
	"github.com/kalkulatorbisnis/backend/internal/repository"
	"github.com/kalkulatorbisnis/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock ScenarioService
// ---------------------------------------------------------------------------

type mockScenarioService struct {
	listFunc   func(ctx context.Context, userID string) ([]*model.Scenario, error)
	createFunc func(ctx context.Context, userID string, in model.ScenarioInput) (*model.Scenario, error)
	updateFunc func(ctx context.Context, id, userID string, in model.ScenarioInput) (*model.Scenario, error)
	deleteFunc func(ctx context.Context, id, userID string) error
	watchFunc  func(ctx context.Context, userID string) (<-chan []*model.Scenario, error)
}

func (m *mockScenarioService) List(ctx context.Context, userID string) ([]*model.Scenario, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, nil
}
func (m *mockScenarioService) Create(ctx context.Context, userID string, in model.ScenarioInput) (*model.Scenario, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, in)
	}
	return nil, nil
}
func (m *mockScenarioService) Update(ctx context.Context, id, userID string, in model.ScenarioInput) (*model.Scenario, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, userID, in)
	}
	return nil, nil
}
func (m *mockScenarioService) Delete(ctx context.Context, id, userID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, userID)
	}
	return nil
}
func (m *mockScenarioService) Watch(ctx context.Context, userID string) (<-chan []*model.Scenario, error) {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, userID)
	}
	ch := make(chan []*model.Scenario)
	close(ch)
	return ch, nil
}

// ---------------------------------------------------------------------------
// GET /api/me/scenarios
// ---------------------------------------------------------------------------

func TestScenarioHandler_List_RequiresAuth(t *testing.T) {
	h := NewScenarioHandler(&mockScenarioService{})
	req := httptest.NewRequest(http.MethodGet, "/api/me/scenarios", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestScenarioHandler_List_Success(t *testing.T) {
	mock := &mockScenarioService{
		listFunc: func(_ context.Context, userID string) ([]*model.Scenario, error) {
			if userID != "user-1" {
				t.Errorf("expected owner user-1, got %q", userID)
			}
			return []*model.Scenario{
				{ID: "s2", Title: "Kedai Bakso", UpdatedAt: 200},
				{ID: "s1", Title: "Warung Kopi", UpdatedAt: 100},
			}, nil
		},
	}
	h := NewScenarioHandler(mock)

	req := userAuthRequest(http.MethodGet, "/api/me/scenarios", "")
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Scenarios []*model.Scenario `json:"scenarios"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Scenarios) != 2 || resp.Scenarios[0].ID != "s2" {
		t.Errorf("expected store order preserved, got %+v", resp.Scenarios)
	}
}

func TestScenarioHandler_List_EmptyIsArrayNotNull(t *testing.T) {
	h := NewScenarioHandler(&mockScenarioService{})
	req := userAuthRequest(http.MethodGet, "/api/me/scenarios", "")
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if !strings.Contains(rec.Body.String(), `"scenarios":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// POST /api/me/scenarios
// ---------------------------------------------------------------------------

func TestScenarioHandler_Create_Success(t *testing.T) {
	mock := &mockScenarioService{
		createFunc: func(_ context.Context, userID string, in model.ScenarioInput) (*model.Scenario, error) {
			return &model.Scenario{
				ID:           "s1",
				UserID:       userID,
				Title:        in.Title,
				SellingPrice: in.SellingPrice,
				DailyTarget:  in.DailyTarget,
				UpdatedAt:    1700000000000,
			}, nil
		},
	}
	h := NewScenarioHandler(mock)

	body := `{"title":"Warung Kopi","sellingPrice":10000,"dailyTarget":20,"fixedItems":[{"id":"f1","name":"gerobak","cost":2000000}]}`
	req := userAuthRequest(http.MethodPost, "/api/me/scenarios", body)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	var created model.Scenario
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "s1" || created.UserID != "user-1" || created.UpdatedAt == 0 {
		t.Errorf("expected store-assigned metadata in response, got %+v", created)
	}
}

func TestScenarioHandler_Create_InvalidJSON(t *testing.T) {
	h := NewScenarioHandler(&mockScenarioService{})
	req := userAuthRequest(http.MethodPost, "/api/me/scenarios", `{not json`)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// 不正な金額はエラーではなく 0 として受け付ける
func TestScenarioHandler_Create_LenientAmounts(t *testing.T) {
	var got model.ScenarioInput
	mock := &mockScenarioService{
		createFunc: func(_ context.Context, _ string, in model.ScenarioInput) (*model.Scenario, error) {
			got = in
			return &model.Scenario{ID: "s1"}, nil
		},
	}
	h := NewScenarioHandler(mock)

	body := `{"title":"x","sellingPrice":"bukan angka","fixedItems":[{"name":"a","cost":null}]}`
	req := userAuthRequest(http.MethodPost, "/api/me/scenarios", body)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if got.SellingPrice.Value() != 0 || got.FixedItems[0].Cost.Value() != 0 {
		t.Errorf("expected malformed amounts coerced to 0, got %+v", got)
	}
}

// ---------------------------------------------------------------------------
// PUT / DELETE /api/me/scenarios/{id}
// ---------------------------------------------------------------------------

func newScenarioMux(h *ScenarioHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/me/scenarios/{id}", h.Update)
	mux.HandleFunc("DELETE /api/me/scenarios/{id}", h.Delete)
	return mux
}

func TestScenarioHandler_Update_MapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockScenarioService{
				updateFunc: func(_ context.Context, id, userID string, _ model.ScenarioInput) (*model.Scenario, error) {
					return nil, tt.err
				},
			}
			mux := newScenarioMux(NewScenarioHandler(mock))

			req := userAuthRequest(http.MethodPut, "/api/me/scenarios/s1", `{"title":"x"}`)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestScenarioHandler_Update_Success(t *testing.T) {
	mock := &mockScenarioService{
		updateFunc: func(_ context.Context, id, userID string, in model.ScenarioInput) (*model.Scenario, error) {
			if id != "s1" || userID != "user-1" {
				t.Errorf("unexpected id=%q userID=%q", id, userID)
			}
			return &model.Scenario{ID: id, UserID: userID, Title: in.Title, UpdatedAt: 2}, nil
		},
	}
	mux := newScenarioMux(NewScenarioHandler(mock))

	req := userAuthRequest(http.MethodPut, "/api/me/scenarios/s1", `{"title":"Baru"}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"Baru"`) {
		t.Errorf("expected updated scenario in body, got %s", rec.Body.String())
	}
}

func TestScenarioHandler_Delete_Success(t *testing.T) {
	called := false
	mock := &mockScenarioService{
		deleteFunc: func(_ context.Context, id, userID string) error {
			called = true
			if id != "s1" || userID != "user-1" {
				t.Errorf("unexpected id=%q userID=%q", id, userID)
			}
			return nil
		},
	}
	mux := newScenarioMux(NewScenarioHandler(mock))

	req := userAuthRequest(http.MethodDelete, "/api/me/scenarios/s1", "")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Error("expected Delete to be called")
	}
}

// ---------------------------------------------------------------------------
// GET /api/me/scenarios/feed
// ---------------------------------------------------------------------------

func TestScenarioHandler_Feed_StreamsSnapshots(t *testing.T) {
	mock := &mockScenarioService{
		watchFunc: func(_ context.Context, userID string) (<-chan []*model.Scenario, error) {
			ch := make(chan []*model.Scenario, 2)
			ch <- []*model.Scenario{}
			ch <- []*model.Scenario{{ID: "s1", Title: "Warung Kopi"}}
			close(ch)
			return ch, nil
		},
	}
	h := NewScenarioHandler(mock)

	req := userAuthRequest(http.MethodGet, "/api/me/scenarios/feed", "")
	rec := httptest.NewRecorder()
	h.Feed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("expected SSE content type, got %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data: {"scenarios":[]}`) {
		t.Errorf("expected initial empty snapshot event, got %s", body)
	}
	if !strings.Contains(body, `"id":"s1"`) {
		t.Errorf("expected refreshed snapshot event, got %s", body)
	}
}

func TestScenarioHandler_Feed_RequiresAuth(t *testing.T) {
	h := NewScenarioHandler(&mockScenarioService{})
	req := httptest.NewRequest(http.MethodGet, "/api/me/scenarios/feed", nil)
	rec := httptest.NewRecorder()
	h.Feed(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
