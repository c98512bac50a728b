package enrich

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// minOverviewLen is the length below which a source description is not
// considered a usable overview and synthesis kicks in.
const minOverviewLen = 80

// overviewKeywords weight candidate sentences pulled from page content.
var overviewKeywords = map[string]int{
	"venue":     3,
	"event":     3,
	"wedding":   3,
	"host":      2,
	"celebrate": 2,
	"space":     2,
	"ballroom":  2,
	"reception": 2,
	"elegant":   1,
	"beautiful": 1,
	"historic":  1,
	"stunning":  1,
	"garden":    1,
	"guests":    1,
}

// Sentence length band that earns a fitness bonus.
const (
	fitSentenceMin = 40
	fitSentenceMax = 150
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]\s+`)

// SynthesizeOverview builds a one-paragraph overview from reconciled
// fields, optionally enriched with the top-scoring sentences from the raw
// page content.
func SynthesizeOverview(rec *model.EnrichmentRecord, lead model.Lead, pageText string) string {
	var b strings.Builder

	name := rec.VenueName
	if name == "" {
		name = "This business"
	}
	kind := lead.BusinessType
	if kind == "" {
		kind = "event venue"
	}
	if loc := lead.Location(); loc != "" {
		fmt.Fprintf(&b, "%s is a %s located at %s.", name, kind, loc)
	} else {
		fmt.Fprintf(&b, "%s is a %s.", name, kind)
	}

	if len(rec.CommonEventTypes) > 0 {
		fmt.Fprintf(&b, " The venue commonly hosts %s events.",
			joinNatural(rec.CommonEventTypes))
	}

	switch rec.InHouseCatering {
	case model.CateringInHouse:
		b.WriteString(" Catering is handled in-house.")
	case model.CateringOutside:
		if len(rec.PreferredCaterers) > 0 {
			fmt.Fprintf(&b, " Outside catering is welcome; preferred caterers include %s.",
				joinNatural(rec.PreferredCaterers))
		} else {
			b.WriteString(" Outside catering is welcome.")
		}
	}

	if len(rec.Amenities) > 0 {
		fmt.Fprintf(&b, " Amenities include %s.", joinNatural(rec.Amenities))
	}

	for _, s := range topSentences(pageText, 2) {
		b.WriteString(" " + s)
		if !strings.HasSuffix(s, ".") {
			b.WriteString(".")
		}
	}

	if rec.EventManagerPhone != "" {
		fmt.Fprintf(&b, " Reach the events team at %s.", rec.EventManagerPhone)
	}
	if rec.Website != "" {
		fmt.Fprintf(&b, " More information: %s", rec.Website)
	}

	return b.String()
}

// topSentences scans page text for venue-relevant sentences, scoring each
// by keyword weight plus a length-fitness bonus, and returns the best n
// in their original order.
func topSentences(text string, n int) []string {
	if strings.TrimSpace(text) == "" || n <= 0 {
		return nil
	}

	type candidate struct {
		index    int
		score    int
		sentence string
	}

	var candidates []candidate
	for i, raw := range sentenceSplitRe.Split(text, -1) {
		s := strings.TrimSpace(raw)
		if len(s) < 20 || len(s) > 300 {
			continue
		}
		lower := strings.ToLower(s)
		score := 0
		for kw, weight := range overviewKeywords {
			if strings.Contains(lower, kw) {
				score += weight
			}
		}
		if score == 0 {
			continue
		}
		if len(s) >= fitSentenceMin && len(s) <= fitSentenceMax {
			score += 2
		}
		candidates = append(candidates, candidate{index: i, score: score, sentence: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].index < candidates[j].index
	})

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.sentence)
	}
	return out
}

// joinNatural joins items as "a, b and c".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
