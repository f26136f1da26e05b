package site

import (
	"errors"
	"math"
)

// Sizing constants for Nairobi.
const (
	kplcRateKES      = 32  // average KES per kWh including taxes and levies
	peakSunHours     = 5.2 // Nairobi average
	systemEfficiency = 0.8
	panelWattage     = 550 // high-efficiency Mono-PERC
)

// ErrNoUsage indicates an estimate request with neither a bill nor a daily
// consumption figure.
var ErrNoUsage = errors.New("site: monthly bill or daily kwh is required")

// Estimate is the calculator's output for one usage profile.
type Estimate struct {
	DailyKWh           float64 `json:"daily_kwh"`
	SystemKWp          float64 `json:"system_kwp"`
	PanelCount         int     `json:"panel_count"`
	BatteryKWh         float64 `json:"battery_kwh"`
	RecommendedPackage string  `json:"recommended_package"`
}

// DailyUseFromBill converts an average monthly KPLC bill to daily kWh,
// rounded to one decimal.
func DailyUseFromBill(monthlyBillKES float64) float64 {
	return math.Round(monthlyBillKES/kplcRateKES/30*10) / 10
}

// Size estimates the system for a daily consumption figure. Battery storage
// covers 70% of daily use for the night plus a 20% safety margin.
func Size(dailyKWh float64) (Estimate, error) {
	if dailyKWh <= 0 {
		return Estimate{}, ErrNoUsage
	}

	systemKWp := math.Ceil(dailyKWh/peakSunHours/systemEfficiency*10) / 10
	panels := int(math.Ceil(systemKWp * 1000 / panelWattage))
	batteryKWh := math.Ceil(dailyKWh*0.7*1.2*10) / 10

	return Estimate{
		DailyKWh:           dailyKWh,
		SystemKWp:          systemKWp,
		PanelCount:         panels,
		BatteryKWh:         batteryKWh,
		RecommendedPackage: recommend(systemKWp),
	}, nil
}

// SizeFromBill estimates the system for a monthly KPLC bill.
func SizeFromBill(monthlyBillKES float64) (Estimate, error) {
	if monthlyBillKES <= 0 {
		return Estimate{}, ErrNoUsage
	}
	return Size(DailyUseFromBill(monthlyBillKES))
}

// recommend picks the smallest tier whose inverter covers the system size.
func recommend(systemKWp float64) string {
	for _, p := range Catalog() {
		if systemKWp <= p.InverterKW {
			return p.Name
		}
	}
	return "SolarElite™ Independence"
}
