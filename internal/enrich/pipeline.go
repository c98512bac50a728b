package enrich

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venue-lead-cli/internal/heuristics"
	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/internal/score"
	"github.com/sells-group/venue-lead-cli/internal/scrape"
	"github.com/sells-group/venue-lead-cli/internal/store"
	"github.com/sells-group/venue-lead-cli/internal/urlnorm"
)

// ErrNoWebsite indicates the lead has no resolvable URL. Batch callers
// record the lead as skipped, not failed.
var ErrNoWebsite = eris.New("enrich: lead has no resolvable website")

// Pipeline runs the four-stage per-lead enrichment sequence: extraction,
// prompted enrichment, reconciliation, scoring. Every external stage is
// defended: its failure degrades the record rather than failing the lead.
type Pipeline struct {
	chain       *scrape.Chain
	prompt      *PromptClient
	store       store.Store
	profile     score.Profile
	concurrency int
	now         func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore enables persistence of enrichment records.
func WithStore(st store.Store) Option {
	return func(p *Pipeline) { p.store = st }
}

// WithScoringProfile selects the scoring weight table.
func WithScoringProfile(profile score.Profile) Option {
	return func(p *Pipeline) { p.profile = profile }
}

// WithConcurrency bounds batch fan-out. Values below 1 fall back to the
// default of 5.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n >= 1 {
			p.concurrency = n
		}
	}
}

// WithClock overrides the timestamp source (tests).
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a Pipeline. Either client may be nil: a nil chain
// skips content extraction, a nil prompt client skips the completion
// call; both degrade to heuristic/known-facts enrichment.
func NewPipeline(chain *scrape.Chain, prompt *PromptClient, opts ...Option) *Pipeline {
	p := &Pipeline{
		chain:       chain,
		prompt:      prompt,
		profile:     score.ProfileStandard,
		concurrency: 5,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnrichLead runs the full sequence for one lead. It returns ErrNoWebsite
// for leads without a resolvable URL, a persistence error when the store
// write fails, and otherwise always a record — degraded stages produce a
// partial record, never an error.
func (p *Pipeline) EnrichLead(ctx context.Context, lead model.Lead) (*model.EnrichmentRecord, error) {
	log := zap.L().With(zap.String("lead", lead.ID), zap.String("name", lead.Name))

	if len(urlnorm.Variants(lead.Website)) == 0 {
		return nil, ErrNoWebsite
	}

	partial := false

	// Stage 1: content extraction. Failure is not fatal; the pipeline
	// continues with known facts only.
	var content *model.ExtractedContent
	if p.chain != nil {
		var err error
		content, err = p.chain.Extract(ctx, lead.Website)
		if err != nil {
			log.Warn("enrich: content extraction failed, continuing with known facts", zap.Error(err))
			content = nil
			partial = true
		}
	}

	pageText := ""
	if content != nil {
		pageText = content.Text
	}

	// Stage 2a: heuristic extraction over whatever text we have.
	facts := heuristics.Extract(pageText)

	// Stage 2b: prompted enrichment. Call or parse failures degrade to
	// known-facts output.
	var prompted *PromptedFacts
	if p.prompt != nil {
		var tier ParseTier
		var err error
		prompted, tier, err = p.prompt.Enrich(ctx, lead, content)
		if err != nil {
			log.Warn("enrich: completion call failed, falling back to heuristics", zap.Error(err))
			prompted = FallbackFacts(lead)
			partial = true
		} else if tier == TierParseFailed {
			partial = true
		}
	}

	// Stage 3: reconciliation.
	rec := Reconcile(Sources{
		Known:     lead,
		Prompted:  prompted,
		Heuristic: facts,
		Scraper:   content,
		PageText:  pageText,
	}, p.now().UTC())
	rec.Partial = partial

	// Stage 4: scoring.
	rec.Score = score.Compute(rec, p.profile, p.now().UTC())

	if p.store != nil {
		if err := p.store.UpsertRecord(ctx, rec); err != nil {
			return rec, eris.Wrap(err, "enrich: persist record")
		}
	}

	log.Info("enrich: lead complete",
		zap.Int("score", rec.Score.Score),
		zap.String("potential", string(rec.Score.Potential)),
		zap.Bool("partial", rec.Partial),
	)

	return rec, nil
}
