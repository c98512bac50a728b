package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/pkg/jina"
)

// JinaScraper adapts the Jina Reader client to the Scraper interface.
// Jina returns markdown only, with no structured contact block.
type JinaScraper struct {
	client jina.Client
}

// NewJinaScraper creates a Jina-backed scraper.
func NewJinaScraper(client jina.Client) *JinaScraper {
	return &JinaScraper{client: client}
}

func (s *JinaScraper) Name() string { return "jina" }

func (s *JinaScraper) Extract(ctx context.Context, url string) (*model.ExtractedContent, error) {
	resp, err := s.client.Read(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.Data.Content == "" {
		return nil, eris.Errorf("scrape: jina returned empty content for %s", url)
	}
	return &model.ExtractedContent{
		URL:         url,
		Text:        resp.Data.Content,
		Markdown:    resp.Data.Content,
		Title:       resp.Data.Title,
		Description: resp.Data.Description,
	}, nil
}
