// Package projection は事業シナリオの収益性計算エンジン。
// 入力を一切変更しない純粋関数のみで構成され、同じ入力には常に同じ
// 結果を返す。入力イベントごとに呼び直しても安全。
package projection

import (
	"encoding/json"
	"math"

	"github.com/kalkulatorbisnis/backend/internal/model"
)

// daysPerMonth は月次換算に使う営業日数
const daysPerMonth = 30

// slowPaybackDays 日を超える回収期間は「回収が遅い」と判定する
const slowPaybackDays = 365

// Status は収益性の判定結果
type Status string

const (
	StatusProfit Status = "PROFIT"
	StatusLoss   Status = "LOSS"
	StatusBEP    Status = "BEP"
)

// Days は投資回収までの日数。現行の利益率では回収できない場合は +Inf。
type Days float64

// Never reports whether the investment is never recovered at the current rate.
func (d Days) Never() bool {
	return math.IsInf(float64(d), 1)
}

// MarshalJSON encodes the never-recovered sentinel as -1; JSON has no Infinity.
func (d Days) MarshalJSON() ([]byte, error) {
	if d.Never() {
		return []byte("-1"), nil
	}
	return json.Marshal(float64(d))
}

// ChartData は月次売上の内訳（比率グラフ用）
type ChartData struct {
	Revenue      float64 `json:"revenue"`
	VariableCost float64 `json:"variableCost"`
	Opex         float64 `json:"opex"`
	Profit       float64 `json:"profit"`
	FixedCost    float64 `json:"fixedCost"` // 参考値。売上の内訳ではない
}

// Proportions returns each segment as a share of revenue. At zero revenue the
// divisor is clamped to 1 so every share is simply 0.
func (c ChartData) Proportions() ChartData {
	div := c.Revenue
	if div == 0 {
		div = 1
	}
	return ChartData{
		Revenue:      c.Revenue / div,
		VariableCost: c.VariableCost / div,
		Opex:         c.Opex / div,
		Profit:       c.Profit / div,
		FixedCost:    c.FixedCost / div,
	}
}

// Result は Calculate の出力。保存されることはなく、常に再計算される。
type Result struct {
	TotalFixed     float64        `json:"totalFixed"`
	TotalOpex      float64        `json:"totalOpex"`
	TotalVariable  float64        `json:"totalVariable"`
	Revenue        float64        `json:"revenue"`
	GrossProfit    float64        `json:"grossProfit"`
	NetProfit      float64        `json:"netProfit"`
	Margin         int            `json:"margin"` // 整数パーセント
	DailyNetProfit float64        `json:"dailyNetProfit"`
	BreakEvenDays  Days           `json:"breakEvenDays"`
	BreakEvenUnits float64        `json:"breakEvenUnits"`
	Chart          ChartData      `json:"chartData"`
	SuggestionCode SuggestionCode `json:"suggestionCode"`
	Suggestion     string         `json:"suggestion"`
	Status         Status         `json:"status"`
}

// ForScenario はシナリオの数値項目から Result を計算する
func ForScenario(s *model.Scenario) Result {
	return Calculate(s.FixedItems, s.OpexItems, s.VariableItems,
		s.SellingPrice.Value(), s.DailyTarget.Value())
}

// Calculate は 5 つの入力から月次の売上・利益・損益分岐点を導出する。
//
// breakEvenUnits は固定費を単位あたり粗利だけで回収するのに必要な累計
// 販売数で、opex を考慮しない。opex を日割りで織り込む breakEvenDays と
// は意図的に独立した指標であり、両者は一致しなくてよい。
func Calculate(fixedItems, opexItems, variableItems []model.CostItem, sellingPrice, dailyTarget float64) Result {
	totalFixed := model.SumCosts(fixedItems)
	totalOpex := model.SumCosts(opexItems)
	totalVariable := model.SumCosts(variableItems) // 1 単位あたりの変動費

	revenue := sellingPrice * dailyTarget * daysPerMonth
	monthlyVariableCost := totalVariable * dailyTarget * daysPerMonth

	grossProfit := revenue - monthlyVariableCost
	netProfit := grossProfit - totalOpex

	margin := 0
	if revenue > 0 {
		margin = int(math.Round(netProfit / revenue * 100))
	}

	dailyNetProfit := (sellingPrice-totalVariable)*dailyTarget - totalOpex/daysPerMonth

	breakEvenDays := Days(math.Inf(1))
	if dailyNetProfit > 0 {
		breakEvenDays = Days(math.Ceil(totalFixed / dailyNetProfit))
	}

	contributionMargin := sellingPrice - totalVariable
	breakEvenUnits := 0.0
	if contributionMargin > 0 {
		breakEvenUnits = math.Ceil(totalFixed / contributionMargin)
	}

	code, status := classify(netProfit, breakEvenDays)

	return Result{
		TotalFixed:     totalFixed,
		TotalOpex:      totalOpex,
		TotalVariable:  totalVariable,
		Revenue:        revenue,
		GrossProfit:    grossProfit,
		NetProfit:      netProfit,
		Margin:         margin,
		DailyNetProfit: dailyNetProfit,
		BreakEvenDays:  breakEvenDays,
		BreakEvenUnits: breakEvenUnits,
		Chart: ChartData{
			Revenue:      revenue,
			VariableCost: monthlyVariableCost,
			Opex:         totalOpex,
			Profit:       math.Max(0, netProfit), // 比率表示ではマイナスを見せない
			FixedCost:    totalFixed,
		},
		SuggestionCode: code,
		Suggestion:     code.Render(),
		Status:         status,
	}
}

// classify は優先順で判定する: 赤字 → 回収が遅い黒字 → 健全な黒字 →
// 損益ゼロ（BEP）。損益ちょうどゼロは回収日数に関わらず BEP。
func classify(netProfit float64, breakEvenDays Days) (SuggestionCode, Status) {
	switch {
	case netProfit < 0:
		return SuggestionLossWarning, StatusLoss
	case netProfit > 0 && float64(breakEvenDays) > slowPaybackDays:
		return SuggestionSlowPayback, StatusProfit
	case netProfit > 0:
		return SuggestionHealthy, StatusProfit
	default:
		return SuggestionNone, StatusBEP
	}
}
