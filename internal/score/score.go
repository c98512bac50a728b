// Package score computes the deterministic 0-100 lead-quality score.
package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// Profile selects a named scoring weight table. Profiles are explicit
// configuration, never hidden branches: the two weight tables are kept
// separate and are not merged.
type Profile string

const (
	// ProfileStandard is the default table. Raw sum caps at exactly 100.
	ProfileStandard Profile = "standard"
	// ProfilePartnership extends the standard table with bonuses for a
	// short preferred-caterer list and listed amenities. Raw sum can
	// exceed 100 before clamping.
	ProfilePartnership Profile = "partnership"
)

// ParseProfile maps a config string to a Profile, defaulting to standard.
func ParseProfile(s string) Profile {
	if Profile(strings.ToLower(strings.TrimSpace(s))) == ProfilePartnership {
		return ProfilePartnership
	}
	return ProfileStandard
}

// Potential thresholds: score >= 70 is high, >= 40 medium, else low.
const (
	highThreshold   = 70
	mediumThreshold = 40
)

// Compute scores a reconciled record. Pure and deterministic: no I/O, and
// always recomputed from the full record. Reasons preserve evaluation
// order (contact fields, hosting capability, catering relationship,
// website and data quality) — callers display them in this sequence.
func Compute(rec *model.EnrichmentRecord, profile Profile, now time.Time) model.LeadScore {
	total := 0
	var reasons []string
	award := func(points int, reason string) {
		total += points
		reasons = append(reasons, reason)
	}

	if rec.EventManagerEmail != "" {
		award(25, "Has contact email")
	}
	if rec.EventManagerPhone != "" {
		award(10, "Has contact phone")
	}
	if rec.EventManagerName != "" {
		award(5, "Has contact name")
	}
	if rec.VenueCapacity > 50 {
		award(15, fmt.Sprintf("Venue capacity: %d", rec.VenueCapacity))
	}
	if len(rec.CommonEventTypes) > 0 {
		award(10, "Hosts events: "+strings.Join(rec.CommonEventTypes, ", "))
	}
	if rec.PricingInformation != "" {
		award(5, "Pricing information available")
	}
	switch rec.InHouseCatering {
	case model.CateringOutside:
		award(25, "No in-house catering (potential for partnership)")
	case model.CateringInHouse:
		award(5, "Has in-house catering")
	}

	if profile == ProfilePartnership {
		if n := len(rec.PreferredCaterers); n >= 1 && n <= 5 {
			award(10, fmt.Sprintf("Short preferred-caterer list (%d entries)", n))
		}
		if len(rec.Amenities) > 0 {
			award(5, "Amenities listed")
		}
	}

	if rec.Website != "" {
		award(5, "Has functional website")
	}
	if len(rec.Overview) > 100 {
		award(5, "Has detailed venue description")
	}

	if total > 100 {
		total = 100
	}
	if reasons == nil {
		reasons = []string{}
	}

	return model.LeadScore{
		Score:        total,
		Reasons:      reasons,
		Potential:    potentialFor(total),
		Profile:      string(profile),
		CalculatedAt: now,
	}
}

func potentialFor(score int) model.Potential {
	switch {
	case score >= highThreshold:
		return model.PotentialHigh
	case score >= mediumThreshold:
		return model.PotentialMedium
	default:
		return model.PotentialLow
	}
}
