package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalkulatorbisnis/backend/internal/model"
)

// PgScenarioRepository は ScenarioRepository の PostgreSQL 実装。
// コスト項目リストは jsonb カラムに保存し、updated_at はサーバー側で
// エポックミリ秒を採番する（クライアント値は常に上書き）。
type PgScenarioRepository struct {
	pool *pgxpool.Pool
}

// NewPgScenarioRepository は PgScenarioRepository を生成する
func NewPgScenarioRepository(pool *pgxpool.Pool) *PgScenarioRepository {
	return &PgScenarioRepository{pool: pool}
}

// epochMillis はサーバー時刻をミリ秒で採番する SQL 断片
const epochMillis = "(extract(epoch from now()) * 1000)::bigint"

// ListByUserID はユーザーのシナリオ一覧を updated_at 降順で返す
func (r *PgScenarioRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Scenario, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, fixed_items, opex_items, variable_items,
		        selling_price, daily_target, updated_at
		 FROM scenarios WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []*model.Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, rows.Err()
}

// GetByID は ID でシナリオを取得する
func (r *PgScenarioRepository) GetByID(ctx context.Context, id string) (*model.Scenario, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, fixed_items, opex_items, variable_items,
		        selling_price, daily_target, updated_at
		 FROM scenarios WHERE id = $1`,
		id,
	)
	s, err := scanScenario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create はシナリオを作成し、採番された id と updated_at を書き戻す
func (r *PgScenarioRepository) Create(ctx context.Context, scenario *model.Scenario) error {
	fixed, opex, variable, err := marshalItems(scenario)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO scenarios (user_id, title, fixed_items, opex_items, variable_items, selling_price, daily_target, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, `+epochMillis+`)
		 RETURNING id, updated_at`,
		scenario.UserID, scenario.Title, fixed, opex, variable,
		scenario.SellingPrice.Value(), scenario.DailyTarget.Value(),
	).Scan(&scenario.ID, &scenario.UpdatedAt)
}

// Update はシナリオの入力項目を更新し、updated_at を採番し直す
func (r *PgScenarioRepository) Update(ctx context.Context, scenario *model.Scenario) error {
	fixed, opex, variable, err := marshalItems(scenario)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx,
		`UPDATE scenarios
		 SET title=$1, fixed_items=$2, opex_items=$3, variable_items=$4,
		     selling_price=$5, daily_target=$6, updated_at=`+epochMillis+`
		 WHERE id=$7
		 RETURNING updated_at`,
		scenario.Title, fixed, opex, variable,
		scenario.SellingPrice.Value(), scenario.DailyTarget.Value(), scenario.ID,
	).Scan(&scenario.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete はシナリオを削除する
func (r *PgScenarioRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM scenarios WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalItems(s *model.Scenario) (fixed, opex, variable []byte, err error) {
	if fixed, err = json.Marshal(itemsOrEmpty(s.FixedItems)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal fixed items: %w", err)
	}
	if opex, err = json.Marshal(itemsOrEmpty(s.OpexItems)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal opex items: %w", err)
	}
	if variable, err = json.Marshal(itemsOrEmpty(s.VariableItems)); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal variable items: %w", err)
	}
	return fixed, opex, variable, nil
}

// itemsOrEmpty は nil スライスを空の jsonb 配列として保存するための補正
func itemsOrEmpty(items []model.CostItem) []model.CostItem {
	if items == nil {
		return []model.CostItem{}
	}
	return items
}

func scanScenario(row pgx.Row) (*model.Scenario, error) {
	var (
		s                     model.Scenario
		fixed, opex, variable []byte
		price, target         float64
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Title, &fixed, &opex, &variable, &price, &target, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fixed, &s.FixedItems); err != nil {
		return nil, fmt.Errorf("unmarshal fixed items: %w", err)
	}
	if err := json.Unmarshal(opex, &s.OpexItems); err != nil {
		return nil, fmt.Errorf("unmarshal opex items: %w", err)
	}
	if err := json.Unmarshal(variable, &s.VariableItems); err != nil {
		return nil, fmt.Errorf("unmarshal variable items: %w", err)
	}
	s.SellingPrice = model.Amount(price)
	s.DailyTarget = model.Amount(target)
	return &s, nil
}
