package model

import (
	"strings"
	"time"
)

// LeadStatus tracks a lead through the persistence lifecycle.
type LeadStatus string

const (
	LeadStatusSaved    LeadStatus = "saved"
	LeadStatusEnriched LeadStatus = "enriched"
	LeadStatusFailed   LeadStatus = "failed"
)

// Lead is a raw venue/business record to be enriched. It is owned by the
// caller and read-only to the pipeline.
type Lead struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Website      string `json:"website,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	BusinessType string `json:"business_type,omitempty"`
}

// Location joins the address parts the way they read on a contact page.
func (l Lead) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Address, l.City, l.State} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

// ExtractedContent is the output of content extraction for one URL.
// Transient: consumed by a single enrichment attempt, then discarded.
type ExtractedContent struct {
	URL         string   `json:"url"`
	Text        string   `json:"text"`
	Markdown    string   `json:"markdown,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	Phones      []string `json:"phones,omitempty"`
}

// CateringSignal is the tri-state in-house-catering flag. Unknown is a
// first-class value: an ambiguous page must not read as "no in-house
// catering" (that would inflate the partnership score).
type CateringSignal string

const (
	CateringUnknown CateringSignal = "unknown"
	CateringInHouse CateringSignal = "in_house"
	CateringOutside CateringSignal = "outside"
)

// Defined reports whether the signal carries information.
func (c CateringSignal) Defined() bool {
	return c == CateringInHouse || c == CateringOutside
}

// Potential is the qualitative lead tier derived from the numeric score.
type Potential string

const (
	PotentialHigh   Potential = "high"
	PotentialMedium Potential = "medium"
	PotentialLow    Potential = "low"
)

// LeadScore is the scoring output. Immutable once computed; always
// recomputed from the full EnrichmentRecord, never updated in place.
type LeadScore struct {
	Score        int       `json:"score"`
	Reasons      []string  `json:"reasons"`
	Potential    Potential `json:"potential"`
	Profile      string    `json:"profile"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// EnrichmentRecord is the reconciled output of one enrichment attempt.
type EnrichmentRecord struct {
	LeadID             string         `json:"lead_id"`
	VenueName          string         `json:"venue_name"`
	Overview           string         `json:"overview"`
	EventManagerName   string         `json:"event_manager_name,omitempty"`
	EventManagerEmail  string         `json:"event_manager_email,omitempty"`
	EventManagerPhone  string         `json:"event_manager_phone,omitempty"`
	CommonEventTypes   []string       `json:"common_event_types"`
	InHouseCatering    CateringSignal `json:"in_house_catering"`
	VenueCapacity      int            `json:"venue_capacity,omitempty"`
	Amenities          []string       `json:"amenities"`
	PricingInformation string         `json:"pricing_information,omitempty"`
	PreferredCaterers  []string       `json:"preferred_caterers"`
	Website            string         `json:"website,omitempty"`
	Profile            VenueProfile   `json:"venue_profile"`
	Score              LeadScore      `json:"lead_score"`
	Partial            bool           `json:"partial,omitempty"`
	ContentExcerpt     string         `json:"content_excerpt,omitempty"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// VenueProfile mirrors the scraper-style schema shape consumed by
// downstream systems. It is a derived view of the reconciled record, not
// an independent source of truth.
type VenueProfile struct {
	Contact           VenueContact      `json:"contact"`
	ManagementContact ManagementContact `json:"management_contact"`
	Amenities         []string          `json:"amenities"`
	Pricing           string            `json:"pricing,omitempty"`
}

// VenueContact holds general contact channels found on the site.
type VenueContact struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// ManagementContact holds the event coordinator/manager contact.
type ManagementContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// LeadOutcome tags the per-lead result of a batch run.
type LeadOutcome string

const (
	OutcomeSuccess LeadOutcome = "success"
	OutcomeFailed  LeadOutcome = "failed"
	OutcomeSkipped LeadOutcome = "skipped"
)

// LeadResult is one lead's outcome within a batch.
type LeadResult struct {
	LeadID  string            `json:"lead_id"`
	Outcome LeadOutcome       `json:"outcome"`
	Record  *EnrichmentRecord `json:"record,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// BatchSummary aggregates a batch run. Transient: exists only for the
// duration of one batch call.
type BatchSummary struct {
	Processed int          `json:"processed"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Errors    []string     `json:"errors,omitempty"`
	Results   []LeadResult `json:"results"`
}
