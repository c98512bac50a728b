// Package store persists leads and their enrichment records behind a
// keyed-upsert interface. The pipeline treats it as an external boundary:
// a store error is the only genuine per-lead failure.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

// ErrNotFound indicates no row exists for the requested lead.
var ErrNotFound = eris.New("store: lead not found")

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status model.LeadStatus `json:"status,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// StoredLead is a lead row with its lifecycle status and, when enriched,
// its latest record.
type StoredLead struct {
	Lead          model.Lead              `json:"lead"`
	Status        model.LeadStatus        `json:"status"`
	FailureReason string                  `json:"failure_reason,omitempty"`
	Record        *model.EnrichmentRecord `json:"record,omitempty"`
}

// Store defines the persistence interface for the enrichment pipeline.
type Store interface {
	// SaveLead upserts a raw lead with status "saved". Re-saving an
	// existing lead refreshes its fields but not its record.
	SaveLead(ctx context.Context, lead model.Lead) error
	// SaveLeads bulk-upserts raw leads with the same semantics as
	// repeated SaveLead calls.
	SaveLeads(ctx context.Context, leads []model.Lead) error
	// UpsertRecord stores the enrichment record keyed by lead ID and
	// transitions the lead to "enriched". Re-enrichment overwrites.
	UpsertRecord(ctx context.Context, rec *model.EnrichmentRecord) error
	// MarkFailed transitions the lead to "failed" with a reason.
	MarkFailed(ctx context.Context, leadID, reason string) error
	GetLead(ctx context.Context, leadID string) (*StoredLead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]StoredLead, error)

	Migrate(ctx context.Context) error
	Close() error
}
