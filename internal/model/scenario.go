package model

// DefaultTitle は空タイトルのシナリオに保存時に付けるラベル
const DefaultTitle = "Bisnis Tanpa Nama"

// Scenario はひとつの事業プランの入力一式。
// ID / UserID / UpdatedAt はストアが採番するメタデータで、未保存の
// シナリオでは空のまま。計算エンジンは Scenario を一切変更しない。
type Scenario struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	FixedItems    []CostItem `json:"fixedItems"`
	OpexItems     []CostItem `json:"opexItems"`
	VariableItems []CostItem `json:"variableItems"`
	SellingPrice  Amount     `json:"sellingPrice"`
	DailyTarget   Amount     `json:"dailyTarget"`
	UpdatedAt     int64      `json:"updatedAt,omitempty"` // epoch milliseconds, store-assigned
	UserID        string     `json:"userId,omitempty"`
}

// ScenarioInput is the write payload for create/update. It deliberately has
// no id, userId or updatedAt — those are assigned by the store.
type ScenarioInput struct {
	Title         string     `json:"title"`
	FixedItems    []CostItem `json:"fixedItems"`
	OpexItems     []CostItem `json:"opexItems"`
	VariableItems []CostItem `json:"variableItems"`
	SellingPrice  Amount     `json:"sellingPrice"`
	DailyTarget   Amount     `json:"dailyTarget"`
}
