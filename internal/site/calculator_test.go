package site

import (
	"errors"
	"math"
	"testing"
)

func TestDailyUseFromBill(t *testing.T) {
	// KES 15,000 / 32 per kWh / 30 days = 15.625, rounded to one decimal.
	if got := DailyUseFromBill(15000); got != 15.6 {
		t.Errorf("expected 15.6 kWh, got %v", got)
	}
	if got := DailyUseFromBill(2000); got != 2.1 {
		t.Errorf("expected 2.1 kWh, got %v", got)
	}
}

func TestSize_StandardFamilyHome(t *testing.T) {
	est, err := Size(15.6)
	if err != nil {
		t.Fatal(err)
	}

	// 15.6 / 5.2 / 0.8 = 3.75 -> ceil to 3.8 kWp
	if est.SystemKWp != 3.8 {
		t.Errorf("expected 3.8 kWp, got %v", est.SystemKWp)
	}
	// 3800 / 550 = 6.9 -> 7 panels
	if est.PanelCount != 7 {
		t.Errorf("expected 7 panels, got %d", est.PanelCount)
	}
	// 15.6 * 0.7 * 1.2 = 13.104 -> ceil to 13.2 kWh
	if est.BatteryKWh != 13.2 {
		t.Errorf("expected 13.2 kWh storage, got %v", est.BatteryKWh)
	}
	if est.RecommendedPackage != "SolarFamily™ Hybrid" {
		t.Errorf("expected SolarFamily™ Hybrid, got %q", est.RecommendedPackage)
	}
}

func TestSize_RecommendationTiers(t *testing.T) {
	cases := []struct {
		dailyKWh float64
		want     string
	}{
		{4, "SolarStart™ Backup"},       // 1.0 kWp
		{10, "SolarStart™ Backup"},      // 2.5 kWp
		{12, "SolarFamily™ Hybrid"},     // 2.9 kWp
		{20, "SolarFamily™ Hybrid"},     // 4.9 kWp
		{30, "SolarElite™ Independence"}, // 7.3 kWp
		{60, "SolarElite™ Independence"}, // 14.5 kWp, beyond every inverter
	}
	for _, tc := range cases {
		est, err := Size(tc.dailyKWh)
		if err != nil {
			t.Fatal(err)
		}
		if est.RecommendedPackage != tc.want {
			t.Errorf("%v kWh (%v kWp): expected %q, got %q", tc.dailyKWh, est.SystemKWp, tc.want, est.RecommendedPackage)
		}
	}
}

func TestSize_RejectsNonPositiveUsage(t *testing.T) {
	for _, kwh := range []float64{0, -5} {
		if _, err := Size(kwh); !errors.Is(err, ErrNoUsage) {
			t.Errorf("usage %v: expected ErrNoUsage, got %v", kwh, err)
		}
	}
	if _, err := SizeFromBill(0); !errors.Is(err, ErrNoUsage) {
		t.Errorf("expected ErrNoUsage for zero bill, got %v", err)
	}
}

func TestSizeFromBill_ChainsBillConversion(t *testing.T) {
	fromBill, err := SizeFromBill(15000)
	if err != nil {
		t.Fatal(err)
	}
	direct, err := Size(DailyUseFromBill(15000))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(fromBill.SystemKWp-direct.SystemKWp) > 1e-9 || fromBill.PanelCount != direct.PanelCount {
		t.Errorf("bill path diverges from kWh path: %+v vs %+v", fromBill, direct)
	}
}
