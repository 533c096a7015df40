// Package loader performs the initial bulk load: the full record set, the
// assistance-type table, and the zip centroid table, fetched concurrently
// and merged into one immutable snapshot the matching engine runs against.
package loader

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/rank"
	"github.com/caseworks/directory-cli/internal/store"
)

// Snapshot is the merged, in-memory data set for one query context. It is
// treated as immutable once built.
type Snapshot struct {
	Resources []model.Resource
	Types     []model.AssistanceType
	Zips      map[string]model.ZipCentroid
	LoadedAt  time.Time
}

// Load issues the three bulk reads as independently-awaited concurrent
// requests and merges once all resolve. Any failure fails the whole load;
// partial snapshots are never returned.
func Load(ctx context.Context, st store.Store) (*Snapshot, error) {
	snap := &Snapshot{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := st.ListResources(ctx)
		if err != nil {
			return eris.Wrap(err, "loader: resources")
		}
		snap.Resources = rs
		return nil
	})
	g.Go(func() error {
		ts, err := st.ListAssistanceTypes(ctx)
		if err != nil {
			return eris.Wrap(err, "loader: assistance types")
		}
		snap.Types = ts
		return nil
	})
	g.Go(func() error {
		zs, err := st.ListZipCentroids(ctx)
		if err != nil {
			return eris.Wrap(err, "loader: zip centroids")
		}
		snap.Zips = make(map[string]model.ZipCentroid, len(zs))
		for _, z := range zs {
			snap.Zips[z.Zip] = z
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deriveOrgTypes(snap.Resources)
	snap.LoadedAt = time.Now()

	zap.L().Info("loader: snapshot ready",
		zap.Int("resources", len(snap.Resources)),
		zap.Int("types", len(snap.Types)),
		zap.Int("zips", len(snap.Zips)),
	)
	return snap, nil
}

// deriveOrgTypes fills each record's OrgTypes with every assistance type its
// organization offers, looked up by organization name. Records whose status
// is inactive do not contribute; a type absent from all active listings of
// an organization is not offered by it.
func deriveOrgTypes(resources []model.Resource) {
	byOrg := make(map[string]map[string]bool)
	for i := range resources {
		r := &resources[i]
		if r.Status == model.StatusInactive || r.AssistType == "" {
			continue
		}
		key := orgKey(r.Organization)
		if key == "" {
			continue
		}
		set := byOrg[key]
		if set == nil {
			set = make(map[string]bool)
			byOrg[key] = set
		}
		set[r.AssistType] = true
	}

	for i := range resources {
		r := &resources[i]
		set := byOrg[orgKey(r.Organization)]
		if len(set) == 0 {
			// Organization provides only its listed primary type.
			if r.AssistType != "" {
				r.OrgTypes = []string{r.AssistType}
			}
			continue
		}
		types := make([]string, 0, len(set))
		for t := range set {
			types = append(types, t)
		}
		sort.Slice(types, func(a, b int) bool {
			ra, rb := rank.TypeRank(types[a]), rank.TypeRank(types[b])
			if ra != rb {
				return ra < rb
			}
			return types[a] < types[b]
		})
		r.OrgTypes = types
	}
}

func orgKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Reference builds the default reference point for a selected zip, or nil
// when the zip has no known centroid.
func (s *Snapshot) Reference(zip string) *model.ReferencePoint {
	zc, ok := s.Zips[strings.TrimSpace(zip)]
	if !ok {
		return nil
	}
	return &model.ReferencePoint{
		Latitude:  zc.Latitude,
		Longitude: zc.Longitude,
		Source:    model.RefSourceZip,
		Label:     zc.Zip,
	}
}
