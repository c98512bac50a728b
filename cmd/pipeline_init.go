package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venue-lead-cli/internal/cache"
	"github.com/sells-group/venue-lead-cli/internal/cost"
	"github.com/sells-group/venue-lead-cli/internal/enrich"
	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/internal/score"
	"github.com/sells-group/venue-lead-cli/internal/scrape"
	"github.com/sells-group/venue-lead-cli/internal/store"
	anthropicpkg "github.com/sells-group/venue-lead-cli/pkg/anthropic"
	"github.com/sells-group/venue-lead-cli/pkg/firecrawl"
	"github.com/sells-group/venue-lead-cli/pkg/jina"
)

// pipelineEnv holds the initialized store, clients, and pipeline needed
// by the enrich/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *enrich.Pipeline
	Profile  score.Profile
	Costs    *cost.Tracker
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.SQLitePath
		if dsn == "" {
			dsn = "venue-leads.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, scraper chain, prompt client, and the
// enrichment pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	profile := score.ParseProfile(cfg.Scoring.Profile)
	costs := cost.NewTracker(cost.DefaultRates())

	// Scraper chain: Firecrawl primary, Jina Reader fallback.
	var scrapers []scrape.Scraper
	if cfg.Firecrawl.Key != "" {
		fc := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		scrapers = append(scrapers, scrape.NewFirecrawlScraper(fc, cfg.Firecrawl.TimeoutMS, cfg.Firecrawl.WaitForMS))
	} else {
		zap.L().Warn("VENUELEAD_FIRECRAWL_KEY not set, firecrawl scraper disabled")
	}
	jc := jina.NewClient(cfg.Jina.Key, jina.WithBaseURL(cfg.Jina.BaseURL))
	scrapers = append(scrapers, scrape.NewJinaScraper(jc))

	contentCache := cache.NewTTL[*model.ExtractedContent](time.Duration(cfg.Scrape.CacheTTLHours) * time.Hour)
	chain := scrape.NewChain(contentCache, scrapers...).WithCostTracker(costs)
	if cfg.Firecrawl.RatePerSec > 0 {
		chain = chain.WithRateLimit(cfg.Firecrawl.RatePerSec, 1)
	}

	// Prompted enrichment client (optional; heuristics-only without it).
	var prompt *enrich.PromptClient
	if cfg.Anthropic.Key != "" {
		opts := []anthropicpkg.Option{}
		if cfg.Anthropic.RatePerSec > 0 {
			opts = append(opts, anthropicpkg.WithRateLimit(cfg.Anthropic.RatePerSec, 1))
		}
		ac := anthropicpkg.NewClient(cfg.Anthropic.Key, opts...)
		prompt = enrich.NewPromptClient(ac, cfg.Anthropic.Model, int64(cfg.Anthropic.MaxTokens),
			enrich.WithUsageTracker(costs))
	} else {
		zap.L().Warn("VENUELEAD_ANTHROPIC_KEY not set, prompted enrichment disabled")
	}

	p := enrich.NewPipeline(chain, prompt,
		enrich.WithStore(st),
		enrich.WithScoringProfile(profile),
		enrich.WithConcurrency(cfg.Batch.MaxConcurrentLeads),
	)

	return &pipelineEnv{Store: st, Pipeline: p, Profile: profile, Costs: costs}, nil
}
