package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kalkulatorbisnis/backend/internal/model"
	"github.com/kalkulatorbisnis/backend/internal/repository"
)

// ScenarioServiceImpl は ScenarioService の実装
type ScenarioServiceImpl struct {
	repo repository.ScenarioRepository
	hub  *feedHub
}

// NewScenarioService は ScenarioServiceImpl を生成する（DI: ScenarioRepository を注入）
func NewScenarioService(repo repository.ScenarioRepository) ScenarioService {
	return &ScenarioServiceImpl{repo: repo, hub: newFeedHub()}
}

// List はユーザーのシナリオ一覧を updated_at 降順で返す
func (s *ScenarioServiceImpl) List(ctx context.Context, userID string) ([]*model.Scenario, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Create はシナリオを新規保存する。空タイトルはデフォルトに置き換え、
// ID を持たないコスト項目には安定 ID を採番する。
func (s *ScenarioServiceImpl) Create(ctx context.Context, userID string, in model.ScenarioInput) (*model.Scenario, error) {
	scenario := &model.Scenario{
		UserID:        userID,
		Title:         normalizeTitle(in.Title),
		FixedItems:    ensureItemIDs(in.FixedItems),
		OpexItems:     ensureItemIDs(in.OpexItems),
		VariableItems: ensureItemIDs(in.VariableItems),
		SellingPrice:  in.SellingPrice,
		DailyTarget:   in.DailyTarget,
	}
	if err := s.repo.Create(ctx, scenario); err != nil {
		return nil, err
	}
	s.hub.notify(userID)
	return scenario, nil
}

// Update は既存シナリオを上書きする（所有者のみ）
func (s *ScenarioServiceImpl) Update(ctx context.Context, id, userID string, in model.ScenarioInput) (*model.Scenario, error) {
	scenario, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scenario.UserID != userID {
		return nil, ErrForbidden
	}
	scenario.Title = normalizeTitle(in.Title)
	scenario.FixedItems = ensureItemIDs(in.FixedItems)
	scenario.OpexItems = ensureItemIDs(in.OpexItems)
	scenario.VariableItems = ensureItemIDs(in.VariableItems)
	scenario.SellingPrice = in.SellingPrice
	scenario.DailyTarget = in.DailyTarget
	if err := s.repo.Update(ctx, scenario); err != nil {
		return nil, err
	}
	s.hub.notify(userID)
	return scenario, nil
}

// Delete はシナリオを削除する（所有者のみ）
func (s *ScenarioServiceImpl) Delete(ctx context.Context, id, userID string) error {
	scenario, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if scenario.UserID != userID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.notify(userID)
	return nil
}

// Watch は一覧スナップショットの push 配信を開始する。
// 初回スナップショットの取得に失敗した場合は購読自体を失敗させる。
// 以降の更新時の取得失敗はログに残し、直前のスナップショットを維持する。
func (s *ScenarioServiceImpl) Watch(ctx context.Context, userID string) (<-chan []*model.Scenario, error) {
	initial, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	trigger := s.hub.subscribe(userID)
	out := make(chan []*model.Scenario, 1)

	go func() {
		defer close(out)
		defer s.hub.unsubscribe(userID, trigger)

		if !send(ctx, out, initial) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-trigger:
				snapshot, err := s.repo.ListByUserID(ctx, userID)
				if err != nil {
					slog.Error("scenario feed refresh failed", "error", err, "user_id", userID)
					continue // 直前のスナップショットを維持
				}
				if !send(ctx, out, snapshot) {
					return
				}
			}
		}
	}()
	return out, nil
}

func send(ctx context.Context, out chan<- []*model.Scenario, snapshot []*model.Scenario) bool {
	select {
	case out <- snapshot:
		return true
	case <-ctx.Done():
		return false
	}
}

func normalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return model.DefaultTitle
	}
	return title
}

// ensureItemIDs は ID のないコスト項目に UUID を採番する。
// 既存の ID は並べ替えの安定性のためそのまま残す。
func ensureItemIDs(items []model.CostItem) []model.CostItem {
	out := make([]model.CostItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}
