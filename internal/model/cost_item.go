package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Amount は金額を表す。JSON 上は数値・数値文字列のどちらも受け付け、
// 解釈できない値は 0 に正規化する（入力エラーにはしない）。
type Amount float64

// UnmarshalJSON accepts a JSON number or a numeric string. Anything else
// (null, booleans, objects, garbage strings) becomes 0 rather than an error.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = Amount(sanitize(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(sanitize(f))
		return nil
	}
	*a = 0
	return nil
}

// MarshalJSON guards against non-finite values, which encoding/json rejects.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(sanitize(float64(a)))
}

// Value returns the amount as a float64, with non-finite values treated as 0.
func (a Amount) Value() float64 {
	return sanitize(float64(a))
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CostItem はコスト内訳の 1 行。ID は並べ替え用に行ごとに固定される。
type CostItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost Amount `json:"cost"`
}

// SumCosts sums the cost of all items. An empty list sums to 0.
func SumCosts(items []CostItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Cost.Value()
	}
	return total
}
