package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

func TestSynthesizeOverview_Minimal(t *testing.T) {
	got := SynthesizeOverview(&model.EnrichmentRecord{}, model.Lead{}, "")
	assert.Equal(t, "This business is a event venue.", got)
}

func TestSynthesizeOverview_KnownFacts(t *testing.T) {
	rec := &model.EnrichmentRecord{VenueName: "The Grand Oak Barn"}
	lead := model.Lead{
		Name:         "The Grand Oak Barn",
		City:         "Austin",
		State:        "TX",
		BusinessType: "wedding venue",
	}
	got := SynthesizeOverview(rec, lead, "")
	assert.Equal(t, "The Grand Oak Barn is a wedding venue located at Austin, TX.", got)
}

func TestSynthesizeOverview_FullRecord(t *testing.T) {
	rec := &model.EnrichmentRecord{
		VenueName:         "The Grand Oak Barn",
		CommonEventTypes:  []string{"Wedding", "Corporate", "Gala"},
		InHouseCatering:   model.CateringOutside,
		PreferredCaterers: []string{"Smith Catering", "Blue Plate Co"},
		Amenities:         []string{"bridal suite", "free parking"},
		EventManagerPhone: "(512) 555-0142",
		Website:           "https://grandoakbarn.com",
	}
	got := SynthesizeOverview(rec, model.Lead{City: "Austin", State: "TX"}, "")

	assert.Contains(t, got, "The venue commonly hosts Wedding, Corporate and Gala events.")
	assert.Contains(t, got, "preferred caterers include Smith Catering and Blue Plate Co")
	assert.Contains(t, got, "Amenities include bridal suite and free parking.")
	assert.Contains(t, got, "Reach the events team at (512) 555-0142.")
	assert.True(t, strings.HasSuffix(got, "More information: https://grandoakbarn.com"))
}

func TestSynthesizeOverview_InHouseCatering(t *testing.T) {
	rec := &model.EnrichmentRecord{InHouseCatering: model.CateringInHouse}
	got := SynthesizeOverview(rec, model.Lead{}, "")
	assert.Contains(t, got, "Catering is handled in-house.")
}

func TestSynthesizeOverview_PullsRelevantSentences(t *testing.T) {
	pageText := "Welcome to our site. " +
		"Our historic barn venue hosts weddings and receptions year round. " +
		"We are open Monday through Friday. " +
		"The elegant garden space welcomes up to 200 guests for your celebration."
	got := SynthesizeOverview(&model.EnrichmentRecord{}, model.Lead{}, pageText)

	assert.Contains(t, got, "historic barn venue")
	assert.Contains(t, got, "elegant garden space")
	assert.NotContains(t, got, "Monday through Friday")
}

func TestTopSentences_BestInOriginalOrder(t *testing.T) {
	text := "The elegant ballroom hosts weddings with space for many guests. " +
		"Nothing relevant here at all in this one, just filler words. " +
		"Our beautiful garden venue is perfect for your event celebration."
	got := topSentences(text, 2)
	assert.Len(t, got, 2)
	assert.Contains(t, got[0], "elegant ballroom")
	assert.Contains(t, got[1], "beautiful garden venue")
}

func TestTopSentences_Empty(t *testing.T) {
	assert.Nil(t, topSentences("", 2))
	assert.Nil(t, topSentences("some text", 0))
}

func TestJoinNatural(t *testing.T) {
	assert.Equal(t, "", joinNatural(nil))
	assert.Equal(t, "a", joinNatural([]string{"a"}))
	assert.Equal(t, "a and b", joinNatural([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", joinNatural([]string{"a", "b", "c"}))
}
