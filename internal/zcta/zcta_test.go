package zcta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCSV(t *testing.T) {
	t.Parallel()

	csv := `zip,latitude,longitude,city,county
77002,29.7589,-95.3677,Houston,Harris
77003,29.7495,-95.3409,Houston,Harris
,1,2,Skip,Me
77004,bad,-95.36,Houston,Harris
`
	got, err := FromCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "77002", got[0].Zip)
	assert.InDelta(t, 29.7589, got[0].Latitude, 1e-9)
	assert.Equal(t, "Houston", got[0].City)
	assert.Equal(t, "Harris", got[0].County)
}

func TestFromCSV_ColumnOrderIndependent(t *testing.T) {
	t.Parallel()

	csv := "LONGITUDE,ZIP,LATITUDE\n-95.36,77002,29.76\n"
	got, err := FromCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "77002", got[0].Zip)
	assert.InDelta(t, -95.36, got[0].Longitude, 1e-9)
	assert.Empty(t, got[0].City)
}

func TestFromCSV_MissingColumns(t *testing.T) {
	t.Parallel()

	_, err := FromCSV(strings.NewReader("zip,lat\n77002,29.76\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zip, latitude, and longitude")
}

func TestFromCSV_Empty(t *testing.T) {
	t.Parallel()

	_, err := FromCSV(strings.NewReader(""))
	assert.Error(t, err)
}
