package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseworks/directory-cli/internal/model"
)

func coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func TestHaversine(t *testing.T) {
	t.Parallel()

	// Same point.
	assert.Zero(t, Haversine(29.76, -95.36, 29.76, -95.36))

	// Downtown Houston to Galveston is roughly 48 miles.
	got := Haversine(29.7604, -95.3698, 29.3013, -94.7977)
	assert.InDelta(t, 48, got, 3)

	// Symmetric.
	assert.InDelta(t, got, Haversine(29.3013, -94.7977, 29.7604, -95.3698), 1e-9)
}

func TestAnnotate_NoReferencePoint(t *testing.T) {
	t.Parallel()

	stale := 3.0
	lat, lng := coords(29.76, -95.36)
	records := []model.Resource{
		{ID: "a", Latitude: lat, Longitude: lng, Distance: &stale},
	}
	used := Annotate(records, model.ReferenceContext{})
	assert.False(t, used)
	assert.Nil(t, records[0].Distance)
}

func TestAnnotate_Haversine(t *testing.T) {
	t.Parallel()

	lat, lng := coords(29.3013, -94.7977)
	records := []model.Resource{
		{ID: "a", Latitude: lat, Longitude: lng},
		{ID: "b"}, // no coordinates
	}
	ref := model.ReferenceContext{
		Point: &model.ReferencePoint{Latitude: 29.7604, Longitude: -95.3698, Source: model.RefSourceZip},
	}
	used := Annotate(records, ref)
	assert.False(t, used)
	require.NotNil(t, records[0].Distance)
	assert.InDelta(t, 48, *records[0].Distance, 3)
	assert.Nil(t, records[1].Distance)
}

func TestAnnotate_RoutedWins(t *testing.T) {
	t.Parallel()

	lat, lng := coords(29.3013, -94.7977)
	records := []model.Resource{
		{ID: "routed", Latitude: lat, Longitude: lng},
		{ID: "fallback", Latitude: lat, Longitude: lng},
	}
	ref := model.ReferenceContext{
		Point:       &model.ReferencePoint{Latitude: 29.7604, Longitude: -95.3698, Source: model.RefSourceAddress},
		RoutedMiles: map[string]float64{"routed": 55.5},
	}
	used := Annotate(records, ref)
	assert.True(t, used)
	require.NotNil(t, records[0].Distance)
	assert.Equal(t, 55.5, *records[0].Distance)

	// No routed entry falls back to straight-line.
	require.NotNil(t, records[1].Distance)
	assert.InDelta(t, 48, *records[1].Distance, 3)
}

func TestAnnotate_NegativeRoutedIgnored(t *testing.T) {
	t.Parallel()

	lat, lng := coords(29.3013, -94.7977)
	records := []model.Resource{
		{ID: "a", Latitude: lat, Longitude: lng},
	}
	ref := model.ReferenceContext{
		Point:       &model.ReferencePoint{Latitude: 29.7604, Longitude: -95.3698, Source: model.RefSourceAddress},
		RoutedMiles: map[string]float64{"a": -1},
	}
	used := Annotate(records, ref)
	assert.False(t, used)
	require.NotNil(t, records[0].Distance)
	assert.InDelta(t, 48, *records[0].Distance, 3)
}
