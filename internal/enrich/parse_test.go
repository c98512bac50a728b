package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

const sampleJSON = `{
	"venue_name": "The Grand Oak Barn",
	"description": "A rustic hill country venue.",
	"contact_name": "Dana Whitfield",
	"contact_phone": "(512) 555-0142",
	"contact_email": "events@grandoakbarn.com",
	"event_types": ["wedding", "corporate"],
	"venue_capacity": 200,
	"catering_options": "outside caterers welcome",
	"amenities": ["bridal suite", "free parking"],
	"pricing": "from $3,500"
}`

func TestParseCompletion_PlainJSON(t *testing.T) {
	result := ParseCompletion(sampleJSON)
	require.Equal(t, TierPlainJSON, result.Tier)
	require.NotNil(t, result.Facts)
	assert.Equal(t, "The Grand Oak Barn", result.Facts.VenueName)
	assert.Equal(t, []string{"wedding", "corporate"}, []string(result.Facts.EventTypes))
	assert.Equal(t, 200, int(result.Facts.VenueCapacity))
	assert.Equal(t, model.CateringOutside, result.Facts.CateringOptions.Signal())
}

func TestParseCompletion_FencedJSON(t *testing.T) {
	result := ParseCompletion("```json\n" + sampleJSON + "\n```")
	require.Equal(t, TierFencedJSON, result.Tier)
	assert.Equal(t, "The Grand Oak Barn", result.Facts.VenueName)
}

func TestParseCompletion_BareFence(t *testing.T) {
	result := ParseCompletion("```\n" + sampleJSON + "\n```")
	require.Equal(t, TierFencedJSON, result.Tier)
	assert.Equal(t, "Dana Whitfield", result.Facts.ContactName)
}

func TestParseCompletion_RawObjectMatch(t *testing.T) {
	text := "Here is the extracted data you asked for:\n" + sampleJSON + "\nLet me know if you need more."
	result := ParseCompletion(text)
	require.Equal(t, TierRawObjectMatch, result.Tier)
	assert.Equal(t, "events@grandoakbarn.com", result.Facts.ContactEmail)
}

func TestParseCompletion_Failed(t *testing.T) {
	for _, text := range []string{"", "I could not find any information.", "{broken json"} {
		result := ParseCompletion(text)
		assert.Equal(t, TierParseFailed, result.Tier)
		assert.Nil(t, result.Facts)
	}
}

func TestFlexStrings_CommaJoined(t *testing.T) {
	result := ParseCompletion(`{"event_types": "wedding, corporate , gala"}`)
	require.Equal(t, TierPlainJSON, result.Tier)
	assert.Equal(t, []string{"wedding", "corporate", "gala"}, []string(result.Facts.EventTypes))
}

func TestFlexStrings_UnexpectedShape(t *testing.T) {
	result := ParseCompletion(`{"event_types": 42}`)
	require.Equal(t, TierPlainJSON, result.Tier)
	assert.Nil(t, []string(result.Facts.EventTypes))
}

func TestFlexInt_NumericString(t *testing.T) {
	result := ParseCompletion(`{"venue_capacity": "250"}`)
	require.Equal(t, TierPlainJSON, result.Tier)
	assert.Equal(t, 250, int(result.Facts.VenueCapacity))
}

func TestFlexInt_Junk(t *testing.T) {
	result := ParseCompletion(`{"venue_capacity": "about two hundred"}`)
	require.Equal(t, TierPlainJSON, result.Tier)
	assert.Equal(t, 0, int(result.Facts.VenueCapacity))
}

func TestCateringAnswer(t *testing.T) {
	tests := []struct {
		name string
		json string
		want model.CateringSignal
	}{
		{"bool true", `true`, model.CateringInHouse},
		{"bool false", `false`, model.CateringOutside},
		{"in-house phrase", `"full in-house catering"`, model.CateringInHouse},
		{"on-site phrase", `"on-site kitchen and chef"`, model.CateringInHouse},
		{"outside phrase", `"outside caterers welcome"`, model.CateringOutside},
		{"preferred phrase", `"preferred caterer list"`, model.CateringOutside},
		{"empty", `""`, model.CateringUnknown},
		{"unrecognized", `"ask the venue"`, model.CateringUnknown},
		{"null", `null`, model.CateringUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCompletion(`{"catering_options": ` + tt.json + `}`)
			require.Equal(t, TierPlainJSON, result.Tier)
			assert.Equal(t, tt.want, result.Facts.CateringOptions.Signal())
		})
	}
}

func TestSplitJoined(t *testing.T) {
	assert.Nil(t, SplitJoined(""))
	assert.Nil(t, SplitJoined("   "))
	assert.Equal(t, []string{"a", "b"}, SplitJoined(" a , b ,"))
}
