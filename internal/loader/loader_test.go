package loader

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseworks/directory-cli/internal/model"
)

type fakeStore struct {
	resources []model.Resource
	types     []model.AssistanceType
	zips      []model.ZipCentroid

	resourceErr error
}

func (f *fakeStore) ListResources(context.Context) ([]model.Resource, error) {
	return f.resources, f.resourceErr
}

func (f *fakeStore) ListAssistanceTypes(context.Context) ([]model.AssistanceType, error) {
	return f.types, nil
}

func (f *fakeStore) ListZipCentroids(context.Context) ([]model.ZipCentroid, error) {
	return f.zips, nil
}

func (f *fakeStore) GetZipCentroid(_ context.Context, zip string) (*model.ZipCentroid, error) {
	for _, z := range f.zips {
		if z.Zip == zip {
			return &z, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpsertResources(context.Context, []model.Resource) (int64, error) {
	return 0, nil
}

func (f *fakeStore) UpsertAssistanceTypes(context.Context, []model.AssistanceType) (int64, error) {
	return 0, nil
}

func (f *fakeStore) UpsertZipCentroids(context.Context, []model.ZipCentroid) (int64, error) {
	return 0, nil
}

func (f *fakeStore) Migrate(context.Context) error { return nil }
func (f *fakeStore) Close() error                  { return nil }

func TestLoad(t *testing.T) {
	t.Parallel()

	st := &fakeStore{
		resources: []model.Resource{{ID: "a", Organization: "Hope", AssistType: "1", Status: model.StatusActive}},
		types:     []model.AssistanceType{{Code: "1", Name: "Food Pantry"}},
		zips:      []model.ZipCentroid{{Zip: "77002", Latitude: 29.76, Longitude: -95.36}},
	}
	snap, err := Load(context.Background(), st)
	require.NoError(t, err)

	assert.Len(t, snap.Resources, 1)
	assert.Len(t, snap.Types, 1)
	require.Contains(t, snap.Zips, "77002")
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestLoad_AnyFailureFailsWhole(t *testing.T) {
	t.Parallel()

	st := &fakeStore{resourceErr: eris.New("connection refused")}
	snap, err := Load(context.Background(), st)
	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestDeriveOrgTypes(t *testing.T) {
	t.Parallel()

	resources := []model.Resource{
		{ID: "a", Organization: "Hope Center", AssistType: "5", Status: model.StatusActive},
		{ID: "b", Organization: "hope center", AssistType: "1", Status: model.StatusActive},
		{ID: "c", Organization: "Hope Center", AssistType: "3", Status: model.StatusInactive},
		{ID: "d", Organization: "Solo Org", AssistType: "2", Status: model.StatusActive},
	}
	deriveOrgTypes(resources)

	// Same organization regardless of case; inactive listings contribute
	// nothing; types come back in numeric order.
	assert.Equal(t, []string{"1", "5"}, resources[0].OrgTypes)
	assert.Equal(t, []string{"1", "5"}, resources[1].OrgTypes)
	assert.Equal(t, []string{"1", "5"}, resources[2].OrgTypes)
	assert.Equal(t, []string{"2"}, resources[3].OrgTypes)
}

func TestDeriveOrgTypes_InactiveOnlyOrgKeepsPrimary(t *testing.T) {
	t.Parallel()

	resources := []model.Resource{
		{ID: "a", Organization: "Closed Org", AssistType: "7", Status: model.StatusInactive},
	}
	deriveOrgTypes(resources)
	assert.Equal(t, []string{"7"}, resources[0].OrgTypes)
}

func TestReference(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{Zips: map[string]model.ZipCentroid{
		"77002": {Zip: "77002", Latitude: 29.76, Longitude: -95.36},
	}}

	ref := snap.Reference(" 77002 ")
	require.NotNil(t, ref)
	assert.Equal(t, model.RefSourceZip, ref.Source)
	assert.Equal(t, "77002", ref.Label)
	assert.Equal(t, 29.76, ref.Latitude)

	assert.Nil(t, snap.Reference("00000"))
}
