package cost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_RecordCompletion(t *testing.T) {
	tr := NewTracker(Rates{
		Anthropic: map[string]ModelRate{
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		},
	})

	tr.RecordCompletion("claude-sonnet-4-5-20250929", 1_000_000, 200_000)

	sum := tr.Snapshot()
	assert.Equal(t, 1, sum.CompletionCalls)
	assert.Equal(t, int64(1_000_000), sum.InputTokens)
	assert.Equal(t, int64(200_000), sum.OutputTokens)
	assert.InDelta(t, 3.00+3.00, sum.EstimatedUSD, 1e-9)
}

func TestTracker_UnknownModelCountsButCostsNothing(t *testing.T) {
	tr := NewTracker(DefaultRates())
	tr.RecordCompletion("some-future-model", 500, 500)

	sum := tr.Snapshot()
	assert.Equal(t, 1, sum.CompletionCalls)
	assert.Zero(t, sum.EstimatedUSD)
}

func TestTracker_RecordScrape(t *testing.T) {
	tr := NewTracker(Rates{FirecrawlPerScrape: 0.01, JinaPerMTok: 0.02})

	tr.RecordScrape("firecrawl", 5000)
	tr.RecordScrape("jina", 4_000_000) // ~1M tokens
	tr.RecordScrape("stub", 100)

	sum := tr.Snapshot()
	assert.Equal(t, 3, sum.Scrapes)
	assert.InDelta(t, 0.01+0.02, sum.EstimatedUSD, 1e-9)
}

func TestTracker_NilSafe(t *testing.T) {
	var tr *Tracker
	tr.RecordCompletion("m", 1, 1)
	tr.RecordScrape("firecrawl", 1)
	assert.Equal(t, Summary{}, tr.Snapshot())
}

func TestTracker_ConcurrentRecords(t *testing.T) {
	tr := NewTracker(DefaultRates())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.RecordCompletion("claude-sonnet-4-5-20250929", 1000, 100)
			tr.RecordScrape("firecrawl", 2000)
		}()
	}
	wg.Wait()

	sum := tr.Snapshot()
	assert.Equal(t, 50, sum.CompletionCalls)
	assert.Equal(t, 50, sum.Scrapes)
	assert.Equal(t, int64(50_000), sum.InputTokens)
}
