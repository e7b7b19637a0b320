package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kalkulatorbisnis/backend/internal/model"
	"github.com/kalkulatorbisnis/backend/internal/projection"
	"github.com/kalkulatorbisnis/backend/pkg/format"
)

// ProjectionHandler は収益性計算のステートレスなエンドポイント。
// 何も保存しないので認証不要で、入力のたびに呼び直してよい。
type ProjectionHandler struct{}

// NewProjectionHandler は ProjectionHandler を生成する
func NewProjectionHandler() *ProjectionHandler {
	return &ProjectionHandler{}
}

type projectionResponse struct {
	Result  projection.Result `json:"result"`
	Display map[string]string `json:"display"`
}

// Evaluate handles POST /api/projection. The body is a scenario-shaped value;
// metadata fields are ignored, malformed cost numbers are coerced to 0 by the
// model layer rather than rejected.
func (h *ProjectionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var scenario model.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	result := projection.ForScenario(&scenario)
	_ = json.NewEncoder(w).Encode(projectionResponse{
		Result:  result,
		Display: displayAmounts(result),
	})
}

// displayAmounts は表示用のルピア文字列（小数なし・id-ID 桁区切り）を返す
func displayAmounts(result projection.Result) map[string]string {
	return map[string]string{
		"totalFixed":     format.Rupiah(result.TotalFixed),
		"totalOpex":      format.Rupiah(result.TotalOpex),
		"totalVariable":  format.Rupiah(result.TotalVariable),
		"revenue":        format.Rupiah(result.Revenue),
		"grossProfit":    format.Rupiah(result.GrossProfit),
		"netProfit":      format.Rupiah(result.NetProfit),
		"dailyNetProfit": format.Rupiah(result.DailyNetProfit),
	}
}
