package service

import (
	"context"

	"github.com/kalkulatorbisnis/backend/internal/model"
)

// ScenarioService はシナリオ保存・購読のビジネスロジック。
// すべての操作は所有者スコープで、他ユーザーのシナリオには触れない。
type ScenarioService interface {
	List(ctx context.Context, userID string) ([]*model.Scenario, error)
	Create(ctx context.Context, userID string, in model.ScenarioInput) (*model.Scenario, error)
	Update(ctx context.Context, id, userID string, in model.ScenarioInput) (*model.Scenario, error)
	Delete(ctx context.Context, id, userID string) error

	// Watch はシナリオ一覧のスナップショットを push 配信するチャネルを
	// 返す。購読直後に初回スナップショット、以降は所有者による変更の
	// たびに最新一覧を届ける。ctx のキャンセルで配信は停止し、チャネル
	// はクローズされる。
	Watch(ctx context.Context, userID string) (<-chan []*model.Scenario, error)
}
