package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// EnrichBatch fans the leads through the pipeline concurrently, bounded
// by the configured concurrency. One lead's failure never aborts the
// batch; panics are recovered per lead and recorded as failures.
func (p *Pipeline) EnrichBatch(ctx context.Context, leads []model.Lead) *model.BatchSummary {
	summary := &model.BatchSummary{
		Processed: len(leads),
		Results:   make([]model.LeadResult, len(leads)),
	}
	if len(leads) == 0 {
		return summary
	}

	zap.L().Info("enrich: starting batch",
		zap.Int("leads", len(leads)),
		zap.Int("concurrency", p.concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, lead := range leads {
		g.Go(func() error {
			summary.Results[i] = p.enrichOne(gctx, lead)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range summary.Results {
		switch r.Outcome {
		case model.OutcomeSuccess:
			summary.Succeeded++
		case model.OutcomeSkipped:
			summary.Skipped++
		case model.OutcomeFailed:
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("lead %s: %s", r.LeadID, r.Error))
		}
	}

	zap.L().Info("enrich: batch complete",
		zap.Int("processed", summary.Processed),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)

	return summary
}

// enrichOne wraps a single lead's run, converting outcomes and recovering
// panics so unexpected failures stay contained to one lead.
func (p *Pipeline) enrichOne(ctx context.Context, lead model.Lead) (result model.LeadResult) {
	result = model.LeadResult{LeadID: lead.ID}

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("enrich: panic recovered",
				zap.String("lead", lead.ID),
				zap.Any("panic", r),
			)
			result.Outcome = model.OutcomeFailed
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	rec, err := p.EnrichLead(ctx, lead)
	switch {
	case eris.Is(err, ErrNoWebsite):
		result.Outcome = model.OutcomeSkipped
		// Skipped leads still carry a record with known facts only, so
		// downstream always has something to render.
		result.Record = knownOnlyRecord(lead, p.now().UTC())
	case err != nil:
		result.Outcome = model.OutcomeFailed
		result.Error = err.Error()
		result.Record = rec
		if p.store != nil {
			if markErr := p.store.MarkFailed(ctx, lead.ID, err.Error()); markErr != nil {
				zap.L().Warn("enrich: mark failed status", zap.String("lead", lead.ID), zap.Error(markErr))
			}
		}
	default:
		result.Outcome = model.OutcomeSuccess
		result.Record = rec
	}

	return result
}

// knownOnlyRecord builds the minimal record for leads that never entered
// the pipeline (no website). Known contact fields are carried through;
// everything else stays at its synthesized default.
func knownOnlyRecord(lead model.Lead, now time.Time) *model.EnrichmentRecord {
	return Reconcile(Sources{Known: lead}, now)
}
