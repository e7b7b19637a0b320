package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `12500`, 12500},
		{"decimal", `99.5`, 99.5},
		{"numeric string", `"4500"`, 4500},
		{"decimal string", `"4500.75"`, 4500.75},
		{"garbage string", `"abc"`, 0},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"bool", `true`, 0},
		{"object", `{"a":1}`, 0},
		{"array", `[1]`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.Equal(t, tt.want, a.Value())
		})
	}
}

func TestAmount_MarshalGuardsNonFinite(t *testing.T) {
	b, err := json.Marshal(Amount(math.NaN()))
	require.NoError(t, err)
	assert.Equal(t, "0", string(b))

	b, err = json.Marshal(Amount(math.Inf(1)))
	require.NoError(t, err)
	assert.Equal(t, "0", string(b))
}

func TestSumCosts(t *testing.T) {
	assert.Equal(t, 0.0, SumCosts(nil))
	assert.Equal(t, 0.0, SumCosts([]CostItem{}))

	sum := SumCosts([]CostItem{
		{ID: "a", Name: "sewa", Cost: 1_500_000},
		{ID: "b", Name: "listrik", Cost: 250_000},
	})
	assert.Equal(t, 1_750_000.0, sum)
}

// 不正な cost を持つ行はその行を省いた場合と同じ合計になる
func TestSumCosts_InvalidCostContributesZero(t *testing.T) {
	var broken CostItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","name":"rusak","cost":"bukan angka"}`), &broken))

	base := []CostItem{{ID: "a", Name: "sewa", Cost: 1_500_000}}
	assert.Equal(t, SumCosts(base), SumCosts(append(base, broken)))
}

func TestCostItem_UnmarshalLenientCost(t *testing.T) {
	var item CostItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","name":"gula","cost":"2000"}`), &item))
	assert.Equal(t, "c1", item.ID)
	assert.Equal(t, 2000.0, item.Cost.Value())
}
