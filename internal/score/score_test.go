package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fullRecord() *model.EnrichmentRecord {
	return &model.EnrichmentRecord{
		LeadID:             "lead-1",
		VenueName:          "The Grand Oak Barn",
		Overview:           "The Grand Oak Barn is a rustic wedding and event venue in the Texas hill country with space for ceremonies and receptions.",
		EventManagerName:   "Dana Whitfield",
		EventManagerEmail:  "events@grandoakbarn.com",
		EventManagerPhone:  "(512) 555-0142",
		CommonEventTypes:   []string{"Wedding", "Corporate"},
		InHouseCatering:    model.CateringOutside,
		VenueCapacity:      200,
		PricingInformation: "Packages start at $3,500",
		Website:            "https://grandoakbarn.com",
	}
}

func TestCompute_FullRecordClampsAt100(t *testing.T) {
	// 25+10+5+15+10+5+25+5+5 = 105 raw, clamped.
	got := Compute(fullRecord(), ProfileStandard, testNow)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, model.PotentialHigh, got.Potential)
	assert.Equal(t, "standard", got.Profile)
	assert.Equal(t, testNow, got.CalculatedAt)
}

func TestCompute_EmptyRecord(t *testing.T) {
	got := Compute(&model.EnrichmentRecord{}, ProfileStandard, testNow)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, model.PotentialLow, got.Potential)
	assert.NotNil(t, got.Reasons)
	assert.Empty(t, got.Reasons)
}

func TestCompute_EmailIsWorth25(t *testing.T) {
	rec := &model.EnrichmentRecord{EventManagerEmail: "events@grandoakbarn.com"}
	got := Compute(rec, ProfileStandard, testNow)
	assert.Equal(t, 25, got.Score)
	assert.Equal(t, []string{"Has contact email"}, got.Reasons)
}

func TestCompute_CapacityBoundary(t *testing.T) {
	rec := &model.EnrichmentRecord{VenueCapacity: 50}
	assert.Equal(t, 0, Compute(rec, ProfileStandard, testNow).Score)

	rec.VenueCapacity = 51
	assert.Equal(t, 15, Compute(rec, ProfileStandard, testNow).Score)
}

func TestCompute_CateringSignals(t *testing.T) {
	tests := []struct {
		signal model.CateringSignal
		points int
	}{
		{model.CateringOutside, 25},
		{model.CateringInHouse, 5},
		{model.CateringUnknown, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.signal), func(t *testing.T) {
			rec := &model.EnrichmentRecord{InHouseCatering: tt.signal}
			assert.Equal(t, tt.points, Compute(rec, ProfileStandard, testNow).Score)
		})
	}
}

func TestCompute_OverviewLengthBoundary(t *testing.T) {
	rec := &model.EnrichmentRecord{Overview: string(make([]byte, 100))}
	assert.Equal(t, 0, Compute(rec, ProfileStandard, testNow).Score)

	rec.Overview = string(make([]byte, 101))
	assert.Equal(t, 5, Compute(rec, ProfileStandard, testNow).Score)
}

func TestCompute_PotentialThresholds(t *testing.T) {
	// email(25) + phone(10) + name(5) = 40: exactly medium.
	rec := &model.EnrichmentRecord{
		EventManagerEmail: "events@grandoakbarn.com",
		EventManagerPhone: "(512) 555-0142",
		EventManagerName:  "Dana Whitfield",
	}
	got := Compute(rec, ProfileStandard, testNow)
	assert.Equal(t, 40, got.Score)
	assert.Equal(t, model.PotentialMedium, got.Potential)

	// + outside catering(25) + website(5) = 70: exactly high.
	rec.InHouseCatering = model.CateringOutside
	rec.Website = "https://grandoakbarn.com"
	got = Compute(rec, ProfileStandard, testNow)
	assert.Equal(t, 70, got.Score)
	assert.Equal(t, model.PotentialHigh, got.Potential)
}

func TestCompute_BelowMediumIsLow(t *testing.T) {
	rec := &model.EnrichmentRecord{
		EventManagerEmail: "events@grandoakbarn.com",
		EventManagerPhone: "(512) 555-0142",
	}
	got := Compute(rec, ProfileStandard, testNow)
	assert.Equal(t, 35, got.Score)
	assert.Equal(t, model.PotentialLow, got.Potential)
}

func TestCompute_PartnershipBonuses(t *testing.T) {
	rec := &model.EnrichmentRecord{
		PreferredCaterers: []string{"Smith Catering", "Blue Plate Co"},
		Amenities:         []string{"Commercial kitchen"},
	}

	standard := Compute(rec, ProfileStandard, testNow)
	assert.Equal(t, 0, standard.Score)

	partnership := Compute(rec, ProfilePartnership, testNow)
	assert.Equal(t, 15, partnership.Score)
	assert.Equal(t, "partnership", partnership.Profile)
}

func TestCompute_PartnershipLongCatererListNoBonus(t *testing.T) {
	rec := &model.EnrichmentRecord{
		PreferredCaterers: []string{"a", "b", "c", "d", "e", "f"},
	}
	got := Compute(rec, ProfilePartnership, testNow)
	assert.Equal(t, 0, got.Score)
}

func TestCompute_ReasonOrder(t *testing.T) {
	got := Compute(fullRecord(), ProfileStandard, testNow)
	assert.Equal(t, []string{
		"Has contact email",
		"Has contact phone",
		"Has contact name",
		"Venue capacity: 200",
		"Hosts events: Wedding, Corporate",
		"Pricing information available",
		"No in-house catering (potential for partnership)",
		"Has functional website",
		"Has detailed venue description",
	}, got.Reasons)
}

func TestParseProfile(t *testing.T) {
	assert.Equal(t, ProfileStandard, ParseProfile(""))
	assert.Equal(t, ProfileStandard, ParseProfile("standard"))
	assert.Equal(t, ProfileStandard, ParseProfile("bogus"))
	assert.Equal(t, ProfilePartnership, ParseProfile("partnership"))
	assert.Equal(t, ProfilePartnership, ParseProfile(" PARTNERSHIP "))
}
