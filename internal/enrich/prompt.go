package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/venue-lead-cli/internal/cost"
	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/pkg/anthropic"
)

// maxContentChars bounds how much page content is embedded in the prompt.
const maxContentChars = 6000

const truncationMarker = "\n[... content truncated ...]"

const extractionSystem = `You are a catering-sales research assistant extracting venue and event-contact facts from venue websites. Return only a JSON object, no markdown fences, no commentary.`

const extractionPromptHeader = `Extract venue and event-contact details for the business below.

Known facts (high confidence, do NOT override these):
%s
Prioritize finding the EVENT COORDINATOR or EVENT MANAGER's direct contact details over generic business contacts.

Respond with a JSON object using exactly these keys:
{"venue_name": string, "description": string, "contact_name": string, "contact_phone": string, "contact_email": string, "event_types": [string], "venue_capacity": number, "catering_options": string, "amenities": [string], "pricing": string}

Use empty strings, empty arrays, or 0 for facts not found. Do not wrap the JSON in markdown.`

// BuildPrompt assembles the extraction prompt from known facts and
// optional page content. Content beyond maxContentChars is truncated with
// a marker.
func BuildPrompt(lead model.Lead, content *model.ExtractedContent) string {
	var known strings.Builder
	knownLine := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&known, "- %s: %s\n", label, value)
		}
	}
	knownLine("Name", lead.Name)
	knownLine("Address", lead.Location())
	knownLine("Phone", lead.ContactPhone)
	knownLine("Email", lead.ContactEmail)
	knownLine("Website", lead.Website)
	knownLine("Business type", lead.BusinessType)
	if known.Len() == 0 {
		known.WriteString("- (none)\n")
	}

	prompt := fmt.Sprintf(extractionPromptHeader, known.String())

	if content != nil && strings.TrimSpace(content.Text) != "" {
		text := content.Text
		if len(text) > maxContentChars {
			text = text[:maxContentChars] + truncationMarker
		}
		prompt += "\n\nWebsite content:\n" + text
	}

	return prompt
}

// PromptClient invokes the text-completion service and parses whatever
// comes back, valid JSON or not. One attempt per lead; no retry.
type PromptClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	costs     *cost.Tracker
}

// PromptOption configures a PromptClient.
type PromptOption func(*PromptClient)

// WithUsageTracker records token usage of every completion call.
func WithUsageTracker(t *cost.Tracker) PromptOption {
	return func(p *PromptClient) { p.costs = t }
}

// NewPromptClient creates a PromptClient for the given model.
func NewPromptClient(client anthropic.Client, modelID string, maxTokens int64, opts ...PromptOption) *PromptClient {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	p := &PromptClient{client: client, model: modelID, maxTokens: maxTokens}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enrich builds the prompt, calls the completion service once, and parses
// the response. A parse failure is not an error: it returns synthesized
// known-facts output tagged TierParseFailed. A transport error is
// returned for the caller's fallback logic.
func (p *PromptClient) Enrich(ctx context.Context, lead model.Lead, content *model.ExtractedContent) (*PromptedFacts, ParseTier, error) {
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    extractionSystem,
		Messages: []anthropic.Message{
			{Role: "user", Content: BuildPrompt(lead, content)},
		},
	})
	if err != nil {
		return nil, TierParseFailed, err
	}
	p.costs.RecordCompletion(p.model, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	result := ParseCompletion(resp.Text())
	if result.Tier == TierParseFailed {
		zap.L().Warn("enrich: completion response unparseable, using known facts",
			zap.String("lead", lead.ID),
			zap.String("model", p.model),
		)
		return FallbackFacts(lead), TierParseFailed, nil
	}
	if result.Tier != TierPlainJSON {
		zap.L().Debug("enrich: completion parsed via fallback tier",
			zap.String("lead", lead.ID),
			zap.String("tier", string(result.Tier)),
		)
	}

	return result.Facts, result.Tier, nil
}

// FallbackFacts synthesizes a minimal record from known facts alone, used
// when the completion response cannot be parsed at any tier.
func FallbackFacts(lead model.Lead) *PromptedFacts {
	return &PromptedFacts{
		VenueName:    lead.Name,
		ContactName:  lead.ContactName,
		ContactPhone: lead.ContactPhone,
		ContactEmail: lead.ContactEmail,
		Description:  fallbackOverview(lead),
	}
}

// fallbackOverview is the templated one-sentence overview used on full
// parse failure.
func fallbackOverview(lead model.Lead) string {
	name := lead.Name
	if name == "" {
		name = "This business"
	}
	kind := lead.BusinessType
	if kind == "" {
		kind = "event venue"
	}
	if loc := lead.Location(); loc != "" {
		return fmt.Sprintf("%s is a %s located at %s.", name, kind, loc)
	}
	return fmt.Sprintf("%s is a %s.", name, kind)
}
