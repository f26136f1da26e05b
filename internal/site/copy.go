package site

import (
	"fmt"

	"github.com/solargearltd/solar-platform/internal/analytics"
)

// HeroCopy is the CTA pair rendered in the hero section.
type HeroCopy struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// HeroCopyFor returns the hero CTAs for an A/B variant.
func HeroCopyFor(v analytics.Variant) HeroCopy {
	if v == analytics.VariantB {
		return HeroCopy{Primary: "SEE SOLAR PRICES", Secondary: "GET EXPERT ADVICE"}
	}
	return HeroCopy{Primary: "EXPLORE PACKAGES", Secondary: "CHAT WITH ENGINEER"}
}

// PackagePrefill is the chat opener injected when a visitor asks about a
// specific package from its card.
func PackagePrefill(packageName string) string {
	return fmt.Sprintf("I'm interested in the %s. Could you explain the technical specs and how it handles blackouts?", packageName)
}

// EngineerPrefill is the chat opener for the generic "talk to an engineer"
// CTAs in the hero and header.
const EngineerPrefill = "Hi! I'd like to speak with a solar engineer about my home's energy needs in Nairobi."
