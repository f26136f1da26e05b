// Package site serves the landing page shell: the package catalog, A/B hero
// copy, page config, and the sizing calculator.
package site

// Package is one installation tier on the pricing grid. Prices are starting
// estimates; every quote is customized after the satellite check.
type Package struct {
	Name        string   `json:"name"`
	PriceKES    int      `json:"price_kes"`
	PriceLabel  string   `json:"price_label"`
	Description string   `json:"description"`
	InverterKW  float64  `json:"inverter_kw"`
	StorageKWh  float64  `json:"storage_kwh"`
	Features    []string `json:"features"`
	Bonuses     []string `json:"bonuses"`
	CTA         string   `json:"cta"`
	Highlight   bool     `json:"highlight"`
}

// Catalog returns the three installation tiers.
func Catalog() []Package {
	return []Package{
		{
			Name:        "SolarStart™ Backup",
			PriceKES:    285_000,
			PriceLabel:  "Starting from",
			Description: "The essential solution to stay powered during Nairobi blackouts. Perfect for apartments and small townhouses.",
			InverterKW:  2.5,
			StorageKWh:  5.1,
			Features: []string{
				"2.5kW Hybrid Inverter",
				"5.1kWh Lithium Battery",
				"Power for: Lights, Wi-Fi, Fridge, TV",
				"Full Professional Installation",
			},
			Bonuses: []string{
				"Free Remote 3D Audit",
				"Mobile Monitoring App",
				"Founding Member Status",
			},
			CTA: "Request Estimate",
		},
		{
			Name:        "SolarFamily™ Hybrid",
			PriceKES:    595_000,
			PriceLabel:  "Starting from",
			Description: "Our most popular choice for standard family homes. Significant bill reduction and total reliability.",
			InverterKW:  5,
			StorageKWh:  10.2,
			Features: []string{
				"5kW Smart Hybrid Inverter",
				"10.2kWh LiFePO4 Storage",
				"Power for: All Lights, Fridge, Water Pump",
				"Tier-1 High Efficiency Panels",
			},
			Bonuses: []string{
				"Free Remote 3D Audit",
				"1-Year Maintenance Plan",
				"Smart Energy Optimizer",
			},
			CTA:       "Most Popular Choice",
			Highlight: true,
		},
		{
			Name:        "SolarElite™ Independence",
			PriceKES:    1_450_000,
			PriceLabel:  "Starting from",
			Description: "Ultimate energy freedom for large villas. Run your entire home including heavy appliances with zero stress.",
			InverterKW:  10,
			StorageKWh:  20,
			Features: []string{
				"10kW Parallel Inverter Setup",
				"20kWh High-Density Storage",
				"Full Loads: Including ACs & Cookers",
				"Premium Glass-on-Glass Panels",
			},
			Bonuses: []string{
				"Free Remote 3D Audit",
				"3-Year Onsite Maintenance",
				"VIP Engineering Support",
				"Backup Expansion Slot",
			},
			CTA: "Get Full Proposal",
		},
	}
}
