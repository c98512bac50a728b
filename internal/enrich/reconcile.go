package enrich

import (
	"strings"
	"time"

	"github.com/sells-group/venue-lead-cli/internal/heuristics"
	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/internal/urlnorm"
)

// Capacity plausibility bounds shared with the heuristic extractor.
const (
	capacityFloor   = 20
	capacityCeiling = 2000
)

// Sources bundles the per-lead inputs to reconciliation. Precedence,
// highest first: Known (never overwritten), Prompted, Heuristic, Scraper
// structured fields, synthesized default.
type Sources struct {
	Known     model.Lead
	Prompted  *PromptedFacts
	Heuristic heuristics.Facts
	Scraper   *model.ExtractedContent
	PageText  string
}

// Reconcile merges the sources into an EnrichmentRecord by a strict
// per-field precedence chain. It never returns nil: even empty sources
// produce a record with known facts and a synthesized overview.
func Reconcile(src Sources, now time.Time) *model.EnrichmentRecord {
	prompted := src.Prompted
	if prompted == nil {
		prompted = &PromptedFacts{}
	}

	rec := &model.EnrichmentRecord{
		LeadID:    src.Known.ID,
		UpdatedAt: now,
	}

	rec.VenueName = firstNonEmpty(src.Known.Name, prompted.VenueName, scraperTitle(src.Scraper))
	rec.Website = canonicalWebsite(src.Known.Website)

	// Email is the single most valuable field: a found address is never
	// silently dropped, and every candidate is syntax-checked.
	rec.EventManagerEmail = firstValid(heuristics.ValidEmail,
		src.Known.ContactEmail,
		prompted.ContactEmail,
		first(src.Heuristic.Emails),
		first(scraperEmails(src.Scraper)),
	)
	rec.EventManagerPhone = firstValid(heuristics.ValidPhone,
		src.Known.ContactPhone,
		prompted.ContactPhone,
		first(src.Heuristic.Phones),
		first(scraperPhones(src.Scraper)),
	)
	rec.EventManagerName = firstNonEmpty(src.Known.ContactName, prompted.ContactName)

	rec.CommonEventTypes = firstList([]string(prompted.EventTypes), src.Heuristic.EventTypes)
	rec.Amenities = firstList([]string(prompted.Amenities), src.Heuristic.Amenities)
	rec.PreferredCaterers = ensureList(src.Heuristic.PreferredCaterers)
	rec.PricingInformation = firstNonEmpty(prompted.Pricing, src.Heuristic.PricingInfo)

	rec.VenueCapacity = firstPlausibleCapacity(int(prompted.VenueCapacity), src.Heuristic.VenueCapacity)

	// Tri-state merge: an Unknown from a higher-precedence source must not
	// clobber a defined lower-precedence value.
	rec.InHouseCatering = model.CateringUnknown
	for _, sig := range []model.CateringSignal{prompted.CateringOptions.Signal(), src.Heuristic.Catering} {
		if sig.Defined() {
			rec.InHouseCatering = sig
			break
		}
	}

	if desc := strings.TrimSpace(prompted.Description); len(desc) >= minOverviewLen {
		rec.Overview = desc
	} else {
		rec.Overview = SynthesizeOverview(rec, src.Known, src.PageText)
	}

	rec.ContentExcerpt = excerpt(src.PageText, 200)
	rec.Profile = buildProfile(rec, src)

	return rec
}

// buildProfile derives the scraper-schema-shaped audit block from the
// reconciled fields. It is a view, not an independent source.
func buildProfile(rec *model.EnrichmentRecord, src Sources) model.VenueProfile {
	emails := dedupe(append(ensureList(src.Heuristic.Emails), scraperEmails(src.Scraper)...))
	phones := dedupe(append(ensureList(src.Heuristic.Phones), scraperPhones(src.Scraper)...))
	if rec.EventManagerEmail != "" && len(emails) == 0 {
		emails = []string{rec.EventManagerEmail}
	}
	if rec.EventManagerPhone != "" && len(phones) == 0 {
		phones = []string{rec.EventManagerPhone}
	}

	return model.VenueProfile{
		Contact: model.VenueContact{
			Emails: emails,
			Phones: phones,
		},
		ManagementContact: model.ManagementContact{
			Name:  rec.EventManagerName,
			Email: rec.EventManagerEmail,
			Phone: rec.EventManagerPhone,
		},
		Amenities: ensureList(rec.Amenities),
		Pricing:   rec.PricingInformation,
	}
}

func canonicalWebsite(raw string) string {
	if raw == "" {
		return ""
	}
	canonical, err := urlnorm.Normalize(raw)
	if err != nil {
		return ""
	}
	return canonical
}

func scraperTitle(c *model.ExtractedContent) string {
	if c == nil {
		return ""
	}
	return c.Title
}

func scraperEmails(c *model.ExtractedContent) []string {
	if c == nil {
		return nil
	}
	return c.Emails
}

func scraperPhones(c *model.ExtractedContent) []string {
	if c == nil {
		return nil
	}
	return c.Phones
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// firstValid returns the first candidate passing the validator. Invalid
// non-empty candidates are skipped rather than accepted, so a malformed
// higher-precedence value cannot mask a well-formed lower one.
func firstValid(valid func(string) bool, values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && valid(v) {
			return v
		}
	}
	return ""
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// firstList returns the first non-empty list, materialized as a non-nil
// slice. Arrays are always arrays in the output, never null.
func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return ensureList(l)
		}
	}
	return []string{}
}

func ensureList(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

func firstPlausibleCapacity(values ...int) int {
	for _, v := range values {
		if v > capacityFloor && v < capacityCeiling {
			return v
		}
	}
	return 0
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}

func excerpt(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen]
}
