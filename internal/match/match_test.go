package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/normalize"
	"github.com/caseworks/directory-cli/internal/schedule"
)

func ptr(f float64) *float64 { return &f }

func testRecords() []model.Resource {
	return []model.Resource{
		{
			ID: "pantry", Organization: "Hope Pantry", AssistType: "1",
			Status: model.StatusActive, ServedZips: []string{"77002"},
			Latitude: ptr(29.7604), Longitude: ptr(-95.3698),
		},
		{
			ID: "rent", Organization: "Rent Relief", AssistType: "3",
			Status: model.StatusActive, ServedZips: []string{"ALL"},
			Latitude: ptr(29.70), Longitude: ptr(-95.40),
		},
		{
			ID: "clinic", Organization: "Free Clinic", AssistType: "5",
			Status: model.StatusLimited,
		},
	}
}

func resultIDs(res model.MatchResult) []string {
	out := make([]string, len(res.Results))
	for i, r := range res.Results {
		out[i] = r.ID
	}
	return out
}

func TestMatch_Idempotent(t *testing.T) {
	t.Parallel()

	records := testRecords()
	req := model.FilterRequest{Statuses: []string{"active", "limited"}}
	ref := model.ReferenceContext{
		Point: &model.ReferencePoint{Latitude: 29.7604, Longitude: -95.3698, Source: model.RefSourceZip, Label: "77002"},
	}

	first := Match(records, req, ref)
	second := Match(records, req, ref)
	assert.Equal(t, resultIDs(first), resultIDs(second))
	assert.Equal(t, first.UsedDrivingDistance, second.UsedDrivingDistance)
}

func TestMatch_OrderedByRank(t *testing.T) {
	t.Parallel()

	got := Match(testRecords(), model.FilterRequest{}, model.ReferenceContext{})
	// Two active records by type id, then the limited one.
	assert.Equal(t, []string{"pantry", "rent", "clinic"}, resultIDs(got))
	assert.False(t, got.UsedDrivingDistance)
	assert.Empty(t, got.Suggestions)
}

func TestMatch_JSONStringZipsWithReferenceZip(t *testing.T) {
	t.Parallel()

	// A record whose served zips arrive as a JSON-encoded string takes part
	// in matching against a selected reference zip like any other record.
	r := model.Resource{
		ID: "strzips", Organization: "Street Outreach", AssistType: "2",
		Status:   model.StatusActive,
		Latitude: ptr(29.75), Longitude: ptr(-95.37),
	}
	normalize.Record(&r, `["99999"]`)
	require.Equal(t, []string{"99999"}, r.ServedZips)

	ref := model.ReferenceContext{
		Point: &model.ReferencePoint{Latitude: 29.7604, Longitude: -95.3698, Source: model.RefSourceZip, Label: "77002"},
	}
	got := Match([]model.Resource{r}, model.FilterRequest{}, ref)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "strzips", got.Results[0].ID)
	require.NotNil(t, got.Results[0].Distance)
}

func TestMatch_NullHoursWithMorningFilter(t *testing.T) {
	t.Parallel()

	r := model.Resource{ID: "nohours", Status: model.StatusActive}
	r.Hours = schedule.Parse(nil)
	require.Nil(t, r.Hours)

	got := Match([]model.Resource{r}, model.FilterRequest{
		Time: &model.TimeFilter{Type: model.TimeMorning},
	}, model.ReferenceContext{})
	require.Len(t, got.Results, 1)
}

func TestMatch_MaxMiles(t *testing.T) {
	t.Parallel()

	records := testRecords()
	ref := model.ReferenceContext{
		Point: &model.ReferencePoint{Latitude: 29.7604, Longitude: -95.3698, Source: model.RefSourceZip, Label: "77002"},
	}

	// "pantry" sits at the reference point, "rent" a few miles off, and
	// "clinic" has no coordinates. An active threshold drops the unknown
	// distance record.
	got := Match(records, model.FilterRequest{MaxMiles: ptr(3)}, ref)
	assert.Equal(t, []string{"pantry"}, resultIDs(got))

	got = Match(records, model.FilterRequest{MaxMiles: ptr(50)}, ref)
	assert.Equal(t, []string{"pantry", "rent"}, resultIDs(got))
}

func TestMatch_MaxMilesWithoutReferenceIsInert(t *testing.T) {
	t.Parallel()

	got := Match(testRecords(), model.FilterRequest{MaxMiles: ptr(1)}, model.ReferenceContext{})
	assert.Len(t, got.Results, 3)
}

func TestMatch_RoutedDistanceFlag(t *testing.T) {
	t.Parallel()

	records := testRecords()
	ref := model.ReferenceContext{
		Point:       &model.ReferencePoint{Latitude: 29.7604, Longitude: -95.3698, Source: model.RefSourceAddress, Label: "800 Main St"},
		RoutedMiles: map[string]float64{"pantry": 1.2, "rent": 6.8},
	}
	got := Match(records, model.FilterRequest{}, ref)
	assert.True(t, got.UsedDrivingDistance)

	byID := map[string]*float64{}
	for i := range got.Results {
		byID[got.Results[i].ID] = got.Results[i].Distance
	}
	require.NotNil(t, byID["pantry"])
	assert.Equal(t, 1.2, *byID["pantry"])
	require.NotNil(t, byID["rent"])
	assert.Equal(t, 6.8, *byID["rent"])
	assert.Nil(t, byID["clinic"])
}

func TestMatch_EmptyResultSuggestions(t *testing.T) {
	t.Parallel()

	got := Match(testRecords(), model.FilterRequest{
		Days:     []string{"Mo"},
		MaxMiles: ptr(5),
	}, model.ReferenceContext{
		Point: &model.ReferencePoint{Latitude: 0, Longitude: 0, Source: model.RefSourceZip, Label: "00000"},
	})

	require.Empty(t, got.Results)
	require.Len(t, got.Suggestions, 2)
	assert.Contains(t, got.Suggestions[0].Message, "day filter")
	assert.Contains(t, got.Suggestions[1].Message, "distance limit")
}
