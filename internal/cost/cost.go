// Package cost estimates API spend for enrichment runs: completion
// tokens priced per model, content extraction priced per fetch.
package cost

import (
	"sync"
)

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64
	Output float64
}

// Rates holds pricing for every external service the pipeline calls.
type Rates struct {
	Anthropic          map[string]ModelRate
	JinaPerMTok        float64
	FirecrawlPerScrape float64
}

// DefaultRates returns current list pricing.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
		JinaPerMTok: 0.02,
		// Starter plan: $19 for 3000 credits, one credit per scrape.
		FirecrawlPerScrape: 19.0 / 3000,
	}
}

// Summary is a point-in-time snapshot of accumulated usage.
type Summary struct {
	CompletionCalls int     `json:"completion_calls"`
	InputTokens     int64   `json:"input_tokens"`
	OutputTokens    int64   `json:"output_tokens"`
	Scrapes         int     `json:"scrapes"`
	EstimatedUSD    float64 `json:"estimated_usd"`
}

// Tracker accumulates usage across a run. Safe for concurrent use by
// batch workers.
type Tracker struct {
	mu    sync.Mutex
	rates Rates
	sum   Summary
}

// NewTracker creates a Tracker priced with the given rates.
func NewTracker(rates Rates) *Tracker {
	return &Tracker{rates: rates}
}

// RecordCompletion adds one completion call's token usage. Unknown
// models count the call but contribute no cost.
func (t *Tracker) RecordCompletion(model string, inputTokens, outputTokens int64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.CompletionCalls++
	t.sum.InputTokens += inputTokens
	t.sum.OutputTokens += outputTokens

	rate, ok := t.rates.Anthropic[model]
	if !ok {
		return
	}
	t.sum.EstimatedUSD += (float64(inputTokens)/1e6)*rate.Input +
		(float64(outputTokens)/1e6)*rate.Output
}

// RecordScrape adds one successful content fetch by provider name.
// Firecrawl bills per scrape; Jina bills per token of returned content,
// approximated here at 4 characters per token.
func (t *Tracker) RecordScrape(provider string, contentChars int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.Scrapes++

	switch provider {
	case "firecrawl":
		t.sum.EstimatedUSD += t.rates.FirecrawlPerScrape
	case "jina":
		tokens := float64(contentChars) / 4
		t.sum.EstimatedUSD += (tokens / 1e6) * t.rates.JinaPerMTok
	}
}

// Snapshot returns the accumulated usage so far.
func (t *Tracker) Snapshot() Summary {
	if t == nil {
		return Summary{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sum
}
