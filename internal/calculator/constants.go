package calculator

const (
	PeakSunHours      = 5.5  // horas de sol pico (irradiação do local)
	DaysPerMonth      = 30.0 // dias considerados no mês
	PerformanceFactor = 0.80 // perdas reais sobre a potência nominal

	KwhPrice   = 1.27 // tarifa R$/kWh
	ModuleArea = 2.8  // m² ocupados por módulo

	// Consumo mínimo faturado pela distribuidora (custo de disponibilidade)
	MinimumKwhTwoPhase   = 50.0
	MinimumKwhThreePhase = 100.0
)
