package repository

import (
	"context"

	"github.com/kalkulatorbisnis/backend/internal/model"
)

// ScenarioRepository はシナリオの永続化インターフェース。
// updated_at は create/update のたびにストア側で採番し直す。
type ScenarioRepository interface {
	// ListByUserID は updated_at 降順でユーザーのシナリオ一覧を返す
	ListByUserID(ctx context.Context, userID string) ([]*model.Scenario, error)
	GetByID(ctx context.Context, id string) (*model.Scenario, error)
	Create(ctx context.Context, scenario *model.Scenario) error
	Update(ctx context.Context, scenario *model.Scenario) error
	Delete(ctx context.Context, id string) error
}
