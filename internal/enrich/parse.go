package enrich

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// ParseTier tags which parsing tier produced the result, so each tier is
// independently testable and degraded parses are visible in logs.
type ParseTier string

const (
	TierPlainJSON      ParseTier = "plain_json"
	TierFencedJSON     ParseTier = "fenced_json"
	TierRawObjectMatch ParseTier = "raw_object_match"
	TierParseFailed    ParseTier = "parse_failed"
)

// ParseResult is the outcome of parsing a completion response.
type ParseResult struct {
	Tier  ParseTier
	Facts *PromptedFacts
}

// PromptedFacts is the structured record extracted from the completion
// response. Every field is optional; nothing is assumed present.
type PromptedFacts struct {
	VenueName       string         `json:"venue_name"`
	Description     string         `json:"description"`
	ContactName     string         `json:"contact_name"`
	ContactPhone    string         `json:"contact_phone"`
	ContactEmail    string         `json:"contact_email"`
	EventTypes      FlexStrings    `json:"event_types"`
	VenueCapacity   FlexInt        `json:"venue_capacity"`
	CateringOptions CateringAnswer `json:"catering_options"`
	Amenities       FlexStrings    `json:"amenities"`
	Pricing         string         `json:"pricing"`
}

// FlexStrings is a string list that tolerates sources returning a
// comma-joined string instead of a JSON array.
type FlexStrings []string

// UnmarshalJSON accepts either a JSON array of strings or a single string
// which is split on commas.
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = trimAll(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = SplitJoined(s)
		return nil
	}
	// Unexpected shape: treat as absent rather than failing the parse.
	*f = nil
	return nil
}

// SplitJoined splits a comma-joined string into trimmed items. Empty
// input yields nil.
func SplitJoined(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return trimAll(strings.Split(s, ","))
}

func trimAll(in []string) []string {
	var out []string
	for _, v := range in {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FlexInt is an int that tolerates numeric strings ("250") and null.
type FlexInt int

// UnmarshalJSON accepts a number, a numeric string, or anything else
// (treated as zero).
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, convErr := strconv.Atoi(strings.TrimSpace(s)); convErr == nil {
			*f = FlexInt(v)
			return nil
		}
	}
	*f = 0
	return nil
}

// CateringAnswer maps the model's free-form catering answer onto the
// tri-state signal. Unrecognized answers stay Unknown.
type CateringAnswer model.CateringSignal

// UnmarshalJSON accepts booleans and common phrasings.
func (c *CateringAnswer) UnmarshalJSON(data []byte) error {
	*c = CateringAnswer(model.CateringUnknown)

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*c = CateringAnswer(model.CateringInHouse)
		} else {
			*c = CateringAnswer(model.CateringOutside)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	switch normalized := strings.ToLower(strings.TrimSpace(s)); {
	case normalized == "":
	case strings.Contains(normalized, "in-house"),
		strings.Contains(normalized, "in house"),
		strings.Contains(normalized, "on-site"),
		normalized == "yes", normalized == "true":
		*c = CateringAnswer(model.CateringInHouse)
	case strings.Contains(normalized, "outside"),
		strings.Contains(normalized, "external"),
		strings.Contains(normalized, "preferred"),
		normalized == "no", normalized == "false":
		*c = CateringAnswer(model.CateringOutside)
	}
	return nil
}

// Signal converts the answer back to the model type.
func (c CateringAnswer) Signal() model.CateringSignal {
	sig := model.CateringSignal(c)
	if !sig.Defined() {
		return model.CateringUnknown
	}
	return sig
}

// ParseCompletion parses the raw completion text through three tiers:
// direct JSON, fenced code block, then first-to-last-brace span. A result
// tagged TierParseFailed carries nil Facts; the caller falls back to a
// known-facts record, never an error.
func ParseCompletion(text string) ParseResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return ParseResult{Tier: TierParseFailed}
	}

	if facts := tryUnmarshal(text); facts != nil {
		return ParseResult{Tier: TierPlainJSON, Facts: facts}
	}

	if inner, ok := stripFence(text); ok {
		if facts := tryUnmarshal(inner); facts != nil {
			return ParseResult{Tier: TierFencedJSON, Facts: facts}
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if facts := tryUnmarshal(text[start : end+1]); facts != nil {
			return ParseResult{Tier: TierRawObjectMatch, Facts: facts}
		}
	}

	return ParseResult{Tier: TierParseFailed}
}

func tryUnmarshal(s string) *PromptedFacts {
	var facts PromptedFacts
	if err := json.Unmarshal([]byte(s), &facts); err != nil {
		return nil
	}
	return &facts
}

// stripFence removes a leading markdown code fence and its closer.
func stripFence(text string) (string, bool) {
	for _, prefix := range []string{"```json", "```"} {
		if strings.HasPrefix(text, prefix) {
			inner := strings.TrimPrefix(text, prefix)
			if idx := strings.LastIndex(inner, "```"); idx >= 0 {
				inner = inner[:idx]
			}
			return strings.TrimSpace(inner), true
		}
	}
	return "", false
}
