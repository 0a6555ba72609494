package planner

// Signal is a discretized load percentage.
type Signal string

const (
	SignalLow       Signal = "low"
	SignalMedium    Signal = "medium"
	SignalGood      Signal = "good"
	SignalExcellent Signal = "excellent"
	SignalBlocked   Signal = "blocked"
)

// CapacitySignal classifies a load percentage. The thresholds are fixed
// business values.
func CapacitySignal(percent float64) Signal {
	switch {
	case percent > 100:
		return SignalBlocked
	case percent <= 35:
		return SignalLow
	case percent < 70:
		return SignalMedium
	case percent < 90:
		return SignalGood
	default:
		return SignalExcellent
	}
}

// Percent is weight as a share of capacity, 0 when capacity is not positive.
func Percent(weightKg, capacityKg float64) float64 {
	if capacityKg <= 0 {
		return 0
	}
	return weightKg * 100 / capacityKg
}
