package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-solar/internal/calculator"
	"github.com/xavierca1/ligue-solar/internal/entity"
)

type CalculationHandler struct{}

func NewCalculationHandler() *CalculationHandler {
	return &CalculationHandler{}
}

type CalculationRequest struct {
	calculator.Input
	ConnectionType entity.ConnectionType `json:"connection_type"`
}

type CalculationResponse struct {
	calculator.Calculations
	AverageBill          float64 `json:"average_bill"`
	PaybackYears         float64 `json:"payback_years"`
	MinimumMonthlyCharge float64 `json:"minimum_monthly_charge"`
}

func (h *CalculationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	calcs := calculator.Calculate(req.Input)
	writeJSON(w, http.StatusOK, CalculationResponse{
		Calculations:         calcs,
		AverageBill:          calculator.CalculateAverageBill(req.MonthlyConsumption),
		PaybackYears:         calculator.CalculatePayback(calcs.TotalValue, calcs.MonthlySavings),
		MinimumMonthlyCharge: calculator.MinimumMonthlyCharge(req.ConnectionType),
	})
}
