// Package heuristics extracts venue and contact facts from raw page text
// using pattern rules. Every extractor is best-effort and independent: a
// miss is a normal "no data" result, never an error.
package heuristics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// Facts bundles the independently-computed extraction results.
type Facts struct {
	Emails            []string
	Phones            []string
	VenueCapacity     int
	EventTypes        []string
	Catering          model.CateringSignal
	PreferredCaterers []string
	Amenities         []string
	PricingInfo       string
}

// Extract runs all extractors over the text. Partial results are normal;
// no extractor blocks another.
func Extract(text string) Facts {
	catering := DetectCatering(text)
	f := Facts{
		Emails:        ExtractEmails(text),
		Phones:        ExtractPhones(text),
		VenueCapacity: ExtractCapacity(text),
		EventTypes:    ExtractEventTypes(text),
		Catering:      catering,
		Amenities:     ExtractAmenities(text),
		PricingInfo:   ExtractPricing(text),
	}
	if catering == model.CateringOutside {
		f.PreferredCaterers = ExtractPreferredCaterers(text)
	}
	return f
}

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// placeholderDomains are template-site leftovers, never real contacts.
var placeholderDomains = map[string]bool{
	"example.com":    true,
	"yourdomain.com": true,
	"domain.com":     true,
}

// genericLocalParts are boilerplate local-parts dropped outright.
var genericLocalParts = map[string]bool{
	"no-reply": true,
	"noreply":  true,
	"test":     true,
	"username": true,
	"your":     true,
	"user":     true,
	"name":     true,
	"email":    true,
}

// eventKeywords mark an address as event/booking-related. Matched against
// both the local part and the domain.
var eventKeywords = []string{
	"event", "catering", "booking", "sales", "venue", "reservation", "book", "inquiry",
}

// commonPrefixes rank below role-specific addresses when sorting general
// matches.
var commonPrefixes = map[string]bool{
	"info":    true,
	"contact": true,
	"hello":   true,
}

// ExtractEmails returns candidate contact emails, event-related addresses
// first. Placeholder domains and generic local-parts are dropped. When any
// event-related address exists only those are returned, in found order;
// otherwise general matches are sorted specific-first, then by domain
// length, then by address length.
func ExtractEmails(text string) []string {
	matches := emailRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var eventRelated, general []string
	for _, m := range matches {
		addr := strings.ToLower(m)
		if seen[addr] {
			continue
		}
		seen[addr] = true

		local, domain, ok := strings.Cut(addr, "@")
		if !ok || placeholderDomains[domain] || genericLocalParts[local] {
			continue
		}

		if isEventRelated(local, domain) {
			eventRelated = append(eventRelated, addr)
		} else {
			general = append(general, addr)
		}
	}

	if len(eventRelated) > 0 {
		return eventRelated
	}

	sort.SliceStable(general, func(i, j int) bool {
		li, di, _ := strings.Cut(general[i], "@")
		lj, dj, _ := strings.Cut(general[j], "@")
		if commonPrefixes[li] != commonPrefixes[lj] {
			return !commonPrefixes[li]
		}
		if len(di) != len(dj) {
			return len(di) < len(dj)
		}
		return len(general[i]) < len(general[j])
	})
	return general
}

func isEventRelated(local, domain string) bool {
	for _, kw := range eventKeywords {
		if strings.Contains(local, kw) || strings.Contains(domain, kw) {
			return true
		}
	}
	return false
}

var emailExactRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s is syntactically an email address.
func ValidEmail(s string) bool {
	return emailExactRe.MatchString(s)
}

var phoneRe = regexp.MustCompile(`(?:\+?1[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`)

// ExtractPhones returns North-American-style phone matches, de-duplicated
// by exact string. No validation beyond the digit pattern.
func ExtractPhones(text string) []string {
	matches := phoneRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var phones []string
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if !seen[m] {
			seen[m] = true
			phones = append(phones, m)
		}
	}
	return phones
}

var phoneExactRe = regexp.MustCompile(`^(?:\+?1[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}$`)

// ValidPhone reports whether s is syntactically a North-American phone
// number.
func ValidPhone(s string) bool {
	return phoneExactRe.MatchString(strings.TrimSpace(s))
}

// capacity bounds: values at or outside are treated as false positives.
const (
	capacityMin = 20
	capacityMax = 2000
)

var capacityRe = regexp.MustCompile(`(?i)(?:capacity|accommodate|up to|maximum)\D{0,30}?(\d{2,4})\s*(?:guests?|people|persons?|attendees?|seats?)`)

// ExtractCapacity returns the venue capacity when a capacity keyword is
// followed by a plausible guest count, or 0 when none is found. Values
// outside (20, 2000) exclusive are discarded.
func ExtractCapacity(text string) int {
	m := capacityRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= capacityMin || n >= capacityMax {
		return 0
	}
	return n
}

// eventVocabulary is matched in order; output preserves this order.
var eventVocabulary = []string{
	"wedding", "corporate", "meeting", "social", "party", "conference",
	"celebration", "ceremony", "reception", "seminar", "retreat", "gala",
	"workshop",
}

var titleCaser = cases.Title(language.AmericanEnglish)

// ExtractEventTypes returns vocabulary event types appearing in the text,
// title-cased, in vocabulary order. Substring matching covers plurals.
func ExtractEventTypes(text string) []string {
	lower := strings.ToLower(text)
	var types []string
	for _, v := range eventVocabulary {
		if strings.Contains(lower, v) {
			types = append(types, titleCaser.String(v))
		}
	}
	return types
}

var inHousePatterns = []string{
	"in-house catering", "in house catering", "our catering",
	"on-site catering", "onsite catering", "our chef", "our culinary team",
	"our executive chef", "our kitchen",
}

var outsidePatterns = []string{
	"preferred caterers", "preferred caterer", "approved caterers",
	"approved caterer", "recommended caterers", "outside catering",
	"external catering", "bring your own caterer", "caterer of your choice",
}

// DetectCatering returns the tri-state in-house-catering signal. Ambiguous
// pages (both or neither pattern set matching) stay Unknown; downstream
// must not treat Unknown as Outside.
func DetectCatering(text string) model.CateringSignal {
	lower := strings.ToLower(text)
	inHouse := containsAny(lower, inHousePatterns)
	outside := containsAny(lower, outsidePatterns)
	switch {
	case inHouse && !outside:
		return model.CateringInHouse
	case outside && !inHouse:
		return model.CateringOutside
	default:
		return model.CateringUnknown
	}
}

func containsAny(lower string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

var preferredCaterersRe = regexp.MustCompile(`(?i)(?:preferred|approved|recommended)\s+caterers?\s*:?\s*([^.!?\n]+)`)

// ExtractPreferredCaterers captures the caterer list following a
// preferred/approved/recommended caterers phrase, split on
// comma/semicolon/and. Fragments of 2 characters or fewer are dropped.
func ExtractPreferredCaterers(text string) []string {
	m := preferredCaterersRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return splitList(m[1], 2, 0)
}

var amenitiesRe = regexp.MustCompile(`(?i)(?:amenities|features|facilities|services|included)\s*:?\s*([^.!?\n]+)`)

// ExtractAmenities captures the list following an amenities-style keyword.
// Fragments must be strictly between 2 and 50 characters.
func ExtractAmenities(text string) []string {
	m := amenitiesRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return splitList(m[1], 2, 50)
}

var listSepRe = regexp.MustCompile(`(?i)\s*(?:,|;|\n|\band\b)\s*`)

// splitList splits a captured fragment on comma/semicolon/and/newline and
// filters by length. maxLen of 0 means no upper bound.
func splitList(captured string, minLen, maxLen int) []string {
	var items []string
	for _, part := range listSepRe.Split(captured, -1) {
		part = strings.TrimSpace(part)
		if len(part) <= minLen {
			continue
		}
		if maxLen > 0 && len(part) >= maxLen {
			continue
		}
		items = append(items, part)
	}
	return items
}

var pricingRe = regexp.MustCompile(`(?i)(?:pricing|packages|rates|fees|cost)s?\s*:?\s*([^\n]{5,200})`)

// ExtractPricing captures a 5-200 character snippet following a
// pricing-indicating keyword.
func ExtractPricing(text string) string {
	m := pricingRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
