// Package calculator converts a desired monthly energy into system power,
// module count, roof area and money. Every function is pure.
package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

type Input struct {
	DesiredKwh         float64 `json:"desired_kwh"`
	ModulePower        float64 `json:"module_power"`
	PricePerKwp        float64 `json:"price_per_kwp"`
	MonthlyConsumption float64 `json:"monthly_consumption"`
}

type Calculations struct {
	SystemPowerKwp    float64 `json:"system_power_kwp"`
	ModuleQuantity    int     `json:"module_quantity"`
	MonthlyGeneration float64 `json:"monthly_generation"`
	MonthlySavings    float64 `json:"monthly_savings"`
	RequiredArea      float64 `json:"required_area"`
	TotalValue        float64 `json:"total_value"`
}

// Calculate sizes the system so that monthly generation equals the desired kWh.
// Non-positive desiredKwh yields the zero value. NaN and infinite inputs count as zero.
func Calculate(in Input) Calculations {
	in.DesiredKwh = finite(in.DesiredKwh)
	in.ModulePower = finite(in.ModulePower)
	in.PricePerKwp = finite(in.PricePerKwp)
	in.MonthlyConsumption = finite(in.MonthlyConsumption)
	if in.DesiredKwh <= 0 {
		return Calculations{}
	}

	power := requiredPower(in.DesiredKwh)
	quantity := moduleQuantity(power, in.ModulePower)

	total := decimal.Zero
	if in.PricePerKwp > 0 {
		total = power.Mul(decimal.NewFromFloat(in.PricePerKwp)).Round(0)
	}

	return Calculations{
		SystemPowerKwp:    power.Round(2).InexactFloat64(),
		ModuleQuantity:    quantity,
		MonthlyGeneration: in.DesiredKwh,
		MonthlySavings:    round(in.DesiredKwh*KwhPrice, 2),
		RequiredArea:      round(float64(quantity)*ModuleArea, 1),
		TotalValue:        total.InexactFloat64(),
	}
}

// CalculateRequiredPower returns the kWp needed to generate desiredKwh per month.
func CalculateRequiredPower(desiredKwh float64) float64 {
	desiredKwh = finite(desiredKwh)
	if desiredKwh <= 0 {
		return 0
	}
	return requiredPower(desiredKwh).InexactFloat64()
}

// CalculateModuleQuantity returns how many modules of modulePower watts cover powerKwp.
func CalculateModuleQuantity(powerKwp, modulePower float64) int {
	powerKwp, modulePower = finite(powerKwp), finite(modulePower)
	if powerKwp <= 0 {
		return 0
	}
	return moduleQuantity(decimal.NewFromFloat(powerKwp), modulePower)
}

// CalculateAverageBill estimates the utility bill for a monthly consumption.
func CalculateAverageBill(monthlyConsumption float64) float64 {
	monthlyConsumption = finite(monthlyConsumption)
	if monthlyConsumption <= 0 {
		return 0
	}
	return round(monthlyConsumption*KwhPrice, 2)
}

// CalculatePayback returns the years needed for savings to pay the system.
func CalculatePayback(totalValue, monthlySavings float64) float64 {
	totalValue, monthlySavings = finite(totalValue), finite(monthlySavings)
	if totalValue <= 0 || monthlySavings <= 0 {
		return 0
	}
	years := decimal.NewFromFloat(totalValue).Div(decimal.NewFromFloat(monthlySavings * 12))
	return years.Round(1).InexactFloat64()
}

// MinimumMonthlyCharge is what the distributor bills even with full solar offset.
func MinimumMonthlyCharge(connection entity.ConnectionType) float64 {
	switch connection {
	case entity.ConnectionTwoPhase:
		return round(MinimumKwhTwoPhase*KwhPrice, 2)
	case entity.ConnectionThreePhase:
		return round(MinimumKwhThreePhase*KwhPrice, 2)
	}
	return 0
}

func requiredPower(desiredKwh float64) decimal.Decimal {
	divisor := decimal.NewFromFloat(PeakSunHours).
		Mul(decimal.NewFromFloat(DaysPerMonth)).
		Mul(decimal.NewFromFloat(PerformanceFactor))
	return decimal.NewFromFloat(desiredKwh).Div(divisor)
}

func moduleQuantity(power decimal.Decimal, modulePower float64) int {
	if modulePower <= 0 {
		return 0
	}
	perModule := decimal.NewFromFloat(modulePower).Div(decimal.NewFromInt(1000))
	return int(power.Div(perModule).Ceil().IntPart())
}

// decimal.NewFromFloat panics on NaN and ±Inf
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round(value float64, places int32) float64 {
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}
