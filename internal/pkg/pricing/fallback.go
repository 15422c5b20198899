// Package pricing holds the fallback price calculator and the bulk
// reconciliation resolver for the sparse pricing table.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fixlocal/fixlocal/app/models"
)

// Base prices per device type, keyed by canonical service slug. Values are
// whole currency units for the standard tier.
var fallbackBasePrices = map[string]map[string]int64{
	"mobile": {
		"screen_replacement":   149,
		"battery_replacement":  89,
		"charging_port_repair": 109,
		"speaker_repair":       99,
		"camera_repair":        119,
		"water_damage_repair":  129,
		"other_repairs":        99,
	},
	"laptop": {
		"screen_replacement":       249,
		"battery_replacement":      139,
		"keyboard_repair":          159,
		"trackpad_repair":          139,
		"ram_upgrade":              119,
		"storage_upgrade":          179,
		"software_troubleshooting": 99,
		"virus_removal":            129,
		"cooling_system_repair":    159,
		"power_jack_repair":        149,
		"other_repairs":            129,
	},
	"tablet": {
		"screen_replacement":       189,
		"battery_replacement":      119,
		"charging_port_repair":     109,
		"speaker_repair":           99,
		"button_repair":            89,
		"software_troubleshooting": 99,
		"other_repairs":            109,
	},
}

// Display names and legacy identifiers that map onto a canonical slug. The
// rest of the system uses both naming conventions interchangeably, so the
// calculator accepts either and normalizes once, here.
var serviceSlugAliases = map[string]string{
	"speaker/microphone repair":   "speaker_repair",
	"speaker/mic repair":          "speaker_repair",
	"water damage diagnostics":    "water_damage_repair",
	"water_damage_diagnostics":    "water_damage_repair",
	"water_damage":                "water_damage_repair",
	"keyboard repair/replacement": "keyboard_repair",
	"storage (hdd/ssd) upgrade":   "storage_upgrade",
	"hdd/ssd replacement/upgrade": "storage_upgrade",
	"software issue":              "software_troubleshooting",
	"cooling repair":              "cooling_system_repair",
	"other repairs":               "other_repairs",
}

const defaultFallbackPrice = 99

// tierMultiplier returns standard x1.0, premium x1.25. Tier is a closed type,
// so there is no unknown-tier branch to default silently.
func tierMultiplier(tier models.PricingTier) decimal.Decimal {
	if tier == models.TierPremium {
		return decimal.NewFromFloat(1.25)
	}
	return decimal.NewFromInt(1)
}

// NormalizeServiceSlug maps a service display name or slug onto the canonical
// slug used by the fallback tables ("Screen Replacement" and
// "screen_replacement" both become "screen_replacement").
func NormalizeServiceSlug(service string) string {
	s := strings.ToLower(strings.TrimSpace(service))
	if alias, ok := serviceSlugAliases[s]; ok {
		return alias
	}
	return strings.ReplaceAll(s, " ", "_")
}

// FallbackPrice computes the deterministic fallback price for one
// (device type, service, tier) combination. It never fails: unknown device
// types use the mobile table, unknown services the table's other-repairs
// entry, so a quote is always possible. The result is wrong-but-present by
// design and must not be mistaken for a validated catalog price.
func FallbackPrice(deviceType, serviceName string, tier models.PricingTier) decimal.Decimal {
	table, ok := fallbackBasePrices[strings.ToLower(strings.TrimSpace(deviceType))]
	if !ok {
		table = fallbackBasePrices["mobile"]
	}

	base, ok := table[NormalizeServiceSlug(serviceName)]
	if !ok {
		base, ok = table["other_repairs"]
		if !ok {
			base = defaultFallbackPrice
		}
	}

	return decimal.NewFromInt(base).Mul(tierMultiplier(tier)).Round(0)
}
