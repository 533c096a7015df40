package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/table", r.URL.Path)

		var req tableRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 29.76, req.Origin.Latitude)
		require.Len(t, req.Destinations, 2)

		json.NewEncoder(w).Encode(tableResponse{ //nolint:errcheck
			Success:        true,
			DistancesMiles: []float64{1.5, -1},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.Table(context.Background(), 29.76, -95.36, [][2]float64{
		{29.75, -95.37},
		{29.70, -95.40},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -1}, got)
}

func TestTable_EmptyDestinations(t *testing.T) {
	t.Parallel()

	got, err := NewClient("http://unused").Table(context.Background(), 0, 0, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTable_ServiceFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(tableResponse{Success: false, Message: "no route"}) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Table(context.Background(), 0, 0, [][2]float64{{1, 2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route")
}

func TestTable_LengthMismatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(tableResponse{Success: true, DistancesMiles: []float64{1}}) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Table(context.Background(), 0, 0, [][2]float64{{1, 2}, {3, 4}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 distances for 2 destinations")
}
