// Package scrape fetches venue website content through a chain of
// content-extraction services, trying URL variants until one returns
// non-trivial content.
package scrape

import (
	"context"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// Scraper fetches a single URL and returns its extracted content.
type Scraper interface {
	Extract(ctx context.Context, url string) (*model.ExtractedContent, error)
	Name() string
}
