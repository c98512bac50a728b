package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/pkg/firecrawl"
)

// FirecrawlScraper adapts the Firecrawl client to the Scraper interface.
type FirecrawlScraper struct {
	client    firecrawl.Client
	timeoutMS int
	waitForMS int
}

// NewFirecrawlScraper creates a Firecrawl-backed scraper. Timeouts are in
// milliseconds, passed through to the scrape request.
func NewFirecrawlScraper(client firecrawl.Client, timeoutMS, waitForMS int) *FirecrawlScraper {
	return &FirecrawlScraper{client: client, timeoutMS: timeoutMS, waitForMS: waitForMS}
}

func (s *FirecrawlScraper) Name() string { return "firecrawl" }

func (s *FirecrawlScraper) Extract(ctx context.Context, url string) (*model.ExtractedContent, error) {
	resp, err := s.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     url,
		Formats: []string{"markdown", "text"},
		Timeout: s.timeoutMS,
		WaitFor: s.waitForMS,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, eris.Errorf("scrape: firecrawl returned success=false for %s", url)
	}

	d := resp.Data
	content := &model.ExtractedContent{
		URL:         url,
		Text:        d.Text,
		Markdown:    d.Markdown,
		Title:       d.Metadata.Title,
		Description: d.Metadata.Description,
	}
	if content.Text == "" {
		content.Text = d.Markdown
	}
	if d.ContactInformation != nil {
		content.Emails = d.ContactInformation.Emails
		content.Phones = d.ContactInformation.PhoneNumbers
	}
	return content, nil
}
