package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/venue-lead-cli/internal/cache"
	"github.com/sells-group/venue-lead-cli/internal/cost"
	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/internal/urlnorm"
)

// minContentLen is the threshold below which a page is treated as empty
// and the next variant/scraper is tried.
const minContentLen = 100

// ErrNoContent indicates every scraper failed on every URL variant. The
// pipeline degrades to known-facts-only enrichment rather than failing
// the lead.
var ErrNoContent = eris.New("scrape: no usable content")

// Chain tries scrapers across URL variants, returning the first result
// with non-trivial content. Results are cached per host.
type Chain struct {
	scrapers []Scraper
	cache    *cache.TTL[*model.ExtractedContent]
	limiter  *rate.Limiter
	costs    *cost.Tracker
}

// NewChain creates a Chain. Scrapers are tried in order per URL variant.
// A nil cache disables caching.
func NewChain(c *cache.TTL[*model.ExtractedContent], scrapers ...Scraper) *Chain {
	return &Chain{scrapers: scrapers, cache: c}
}

// WithRateLimit bounds outbound scrape requests per second across the
// whole chain.
func (c *Chain) WithRateLimit(rps float64, burst int) *Chain {
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithCostTracker records every successful fetch for spend estimation.
// Cache hits are free and not recorded.
func (c *Chain) WithCostTracker(t *cost.Tracker) *Chain {
	c.costs = t
	return c
}

// Extract fetches content for a raw website URL, trying up to 4
// normalized variants against each scraper in order. Returns ErrNoContent
// when nothing usable comes back.
func (c *Chain) Extract(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	variants := urlnorm.Variants(rawURL)
	if len(variants) == 0 {
		return nil, urlnorm.ErrInvalidURL
	}

	key := urlnorm.Host(rawURL)
	if cached, ok := c.cache.Get(key); ok {
		zap.L().Debug("scrape: cache hit", zap.String("host", key))
		return cached, nil
	}

	for _, variant := range variants {
		for _, s := range c.scrapers {
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return nil, eris.Wrap(err, "scrape: rate limit wait")
				}
			}

			content, err := s.Extract(ctx, variant)
			if err != nil {
				zap.L().Debug("scrape: scraper failed, trying next",
					zap.String("scraper", s.Name()),
					zap.String("url", variant),
					zap.Error(err),
				)
				continue
			}
			if content == nil || len(content.Text) < minContentLen {
				zap.L().Debug("scrape: content too thin, trying next",
					zap.String("scraper", s.Name()),
					zap.String("url", variant),
				)
				continue
			}

			c.costs.RecordScrape(s.Name(), len(content.Text))
			c.cache.Set(key, content)
			return content, nil
		}
	}

	return nil, ErrNoContent
}
