package distance

import (
	"context"

	"go.uber.org/zap"

	"github.com/caseworks/directory-cli/internal/model"
)

// Dest is one routing destination.
type Dest struct {
	ID        string
	Latitude  float64
	Longitude float64
}

// Router resolves driving distances in miles from an origin to a set of
// destinations. A destination absent from the returned map, or mapped to a
// negative value, is unroutable.
type Router interface {
	Distances(ctx context.Context, originLat, originLng float64, dests []Dest) (map[string]float64, error)
}

// TableClient is the shape of the routed-distance service client: one
// origin, many destinations, one distance per destination in input order
// with negatives marking unroutable pairs.
type TableClient interface {
	Table(ctx context.Context, originLat, originLng float64, dests [][2]float64) ([]float64, error)
}

// TableRouter adapts a TableClient into a Router.
type TableRouter struct {
	client TableClient
}

// NewTableRouter wraps a table-style routing client.
func NewTableRouter(c TableClient) *TableRouter {
	return &TableRouter{client: c}
}

// Distances implements Router. Unroutable destinations are omitted from the
// returned map so the annotator falls back to straight-line distance for
// them.
func (t *TableRouter) Distances(ctx context.Context, originLat, originLng float64, dests []Dest) (map[string]float64, error) {
	pairs := make([][2]float64, len(dests))
	for i, d := range dests {
		pairs[i] = [2]float64{d.Latitude, d.Longitude}
	}
	miles, err := t.client.Table(ctx, originLat, originLng, pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(dests))
	for i, d := range dests {
		if i < len(miles) && miles[i] >= 0 {
			out[d.ID] = miles[i]
		}
	}
	return out, nil
}

// RoutedTable fetches driving distances for every record that has
// coordinates. Routing is best-effort: a nil router, an empty destination
// set, or a failed call all yield a nil table, and matching proceeds on
// straight-line distance.
func RoutedTable(ctx context.Context, router Router, point model.ReferencePoint, records []model.Resource) map[string]float64 {
	if router == nil {
		return nil
	}

	dests := make([]Dest, 0, len(records))
	for i := range records {
		r := &records[i]
		if r.HasCoordinates() {
			dests = append(dests, Dest{ID: r.ID, Latitude: *r.Latitude, Longitude: *r.Longitude})
		}
	}
	if len(dests) == 0 {
		return nil
	}

	table, err := router.Distances(ctx, point.Latitude, point.Longitude, dests)
	if err != nil {
		zap.L().Warn("distance: routing unavailable, falling back to straight-line",
			zap.String("origin", point.Label),
			zap.Int("destinations", len(dests)),
			zap.Error(err),
		)
		return nil
	}
	return table
}
