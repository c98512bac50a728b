package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testLead() model.Lead {
	return model.Lead{
		ID:      "lead-1",
		Name:    "The Grand Oak Barn",
		City:    "Austin",
		State:   "TX",
		Website: "https://grandoakbarn.com",
	}
}

func testRecord(leadID string) *model.EnrichmentRecord {
	return &model.EnrichmentRecord{
		LeadID:            leadID,
		VenueName:         "The Grand Oak Barn",
		Overview:          "The Grand Oak Barn is an event venue located in Austin, TX.",
		EventManagerEmail: "events@grandoakbarn.com",
		CommonEventTypes:  []string{"Wedding"},
		InHouseCatering:   model.CateringOutside,
		VenueCapacity:     150,
		Amenities:         []string{},
		PreferredCaterers: []string{},
		Website:           "https://grandoakbarn.com",
		Score: model.LeadScore{
			Score:     75,
			Reasons:   []string{"has event manager email"},
			Potential: model.PotentialHigh,
			Profile:   "standard",
		},
		UpdatedAt: time.Now().UTC(),
	}
}

func TestSQLiteStore_SaveAndGetLead(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLead(ctx, testLead()))

	got, err := s.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "The Grand Oak Barn", got.Lead.Name)
	assert.Equal(t, model.LeadStatusSaved, got.Status)
	assert.Nil(t, got.Record)
}

func TestSQLiteStore_GetLead_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	_, err := s.GetLead(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SaveLead_RefreshKeepsRecord(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLead(ctx, testLead()))
	require.NoError(t, s.UpsertRecord(ctx, testRecord("lead-1")))

	updated := testLead()
	updated.City = "Dallas"
	require.NoError(t, s.SaveLead(ctx, updated))

	got, err := s.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Dallas", got.Lead.City)
	assert.Equal(t, model.LeadStatusEnriched, got.Status)
	require.NotNil(t, got.Record)
	assert.Equal(t, 75, got.Record.Score.Score)
}

func TestSQLiteStore_UpsertRecord_TransitionsToEnriched(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLead(ctx, testLead()))
	require.NoError(t, s.UpsertRecord(ctx, testRecord("lead-1")))

	got, err := s.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusEnriched, got.Status)
	require.NotNil(t, got.Record)
	assert.Equal(t, model.PotentialHigh, got.Record.Score.Potential)
	assert.Equal(t, model.CateringOutside, got.Record.InHouseCatering)
}

func TestSQLiteStore_UpsertRecord_WithoutSavedLead(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertRecord(ctx, testRecord("standalone")))

	got, err := s.GetLead(ctx, "standalone")
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusEnriched, got.Status)
	assert.Equal(t, "The Grand Oak Barn", got.Lead.Name)
}

func TestSQLiteStore_MarkFailed_ThenReenrichClearsReason(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLead(ctx, testLead()))
	require.NoError(t, s.MarkFailed(ctx, "lead-1", "scrape timeout"))

	got, err := s.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusFailed, got.Status)
	assert.Equal(t, "scrape timeout", got.FailureReason)

	require.NoError(t, s.UpsertRecord(ctx, testRecord("lead-1")))

	got, err = s.GetLead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusEnriched, got.Status)
	assert.Empty(t, got.FailureReason)
}

func TestSQLiteStore_MarkFailed_NotFound(t *testing.T) {
	s := newTestSQLiteStore(t)

	err := s.MarkFailed(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SaveLeads_Bulk(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	leads := []model.Lead{
		{ID: "a", Name: "Venue A"},
		{ID: "b", Name: "Venue B"},
		{ID: "c", Name: "Venue C"},
	}
	require.NoError(t, s.SaveLeads(ctx, leads))

	got, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSQLiteStore_ListLeads_StatusFilter(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLead(ctx, model.Lead{ID: "a", Name: "Venue A"}))
	require.NoError(t, s.SaveLead(ctx, model.Lead{ID: "b", Name: "Venue B"}))
	require.NoError(t, s.UpsertRecord(ctx, testRecord("b")))

	saved, err := s.ListLeads(ctx, LeadFilter{Status: model.LeadStatusSaved})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "a", saved[0].Lead.ID)

	enriched, err := s.ListLeads(ctx, LeadFilter{Status: model.LeadStatusEnriched})
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, "b", enriched[0].Lead.ID)
}

func TestSQLiteStore_ListLeads_Limit(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.SaveLead(ctx, model.Lead{ID: id, Name: "Venue " + id}))
	}

	got, err := s.ListLeads(ctx, LeadFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
