package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseworks/directory-cli/internal/model"
)

func rec(id string, status model.Status, assistType string, distance float64) model.Resource {
	r := model.Resource{ID: id, Status: status, AssistType: assistType}
	if distance >= 0 {
		d := distance
		r.Distance = &d
	}
	return r
}

func ids(records []model.Resource) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestStatusRank(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, StatusRank(model.StatusActive))
	assert.Equal(t, 1, StatusRank(model.StatusLimited))
	assert.Equal(t, 2, StatusRank(model.StatusInactive))
	assert.Greater(t, StatusRank(model.Status("pending")), StatusRank(model.StatusInactive))
	assert.Greater(t, StatusRank(model.Status("")), StatusRank(model.StatusInactive))
}

func TestTypeRank(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, TypeRank("1"))
	assert.Equal(t, 12, TypeRank("12"))
	assert.Equal(t, unknownTypeRank, TypeRank("food"))
	assert.Equal(t, unknownTypeRank, TypeRank(""))
}

func TestSort_StatusThenTypeThenDistance(t *testing.T) {
	t.Parallel()

	records := []model.Resource{
		rec("a", model.StatusActive, "5", 10),
		rec("b", model.StatusLimited, "1", 1),
		rec("c", model.StatusActive, "1", 2),
	}
	Sort(records)
	assert.Equal(t, []string{"c", "a", "b"}, ids(records))
}

func TestSort_NilDistanceLast(t *testing.T) {
	t.Parallel()

	records := []model.Resource{
		rec("far", model.StatusActive, "1", 50),
		rec("unknown", model.StatusActive, "1", -1),
		rec("near", model.StatusActive, "1", 0.5),
	}
	Sort(records)
	assert.Equal(t, []string{"near", "far", "unknown"}, ids(records))
}

func TestSort_UnparsableTypeLast(t *testing.T) {
	t.Parallel()

	records := []model.Resource{
		rec("text", model.StatusActive, "food", 1),
		rec("num", model.StatusActive, "12", 1),
	}
	Sort(records)
	assert.Equal(t, []string{"num", "text"}, ids(records))
}

func TestSort_Stable(t *testing.T) {
	t.Parallel()

	// Fully tied records keep their original relative order.
	records := []model.Resource{
		rec("first", model.StatusActive, "1", 3),
		rec("second", model.StatusActive, "1", 3),
		rec("third", model.StatusActive, "1", 3),
	}
	Sort(records)
	require.Equal(t, []string{"first", "second", "third"}, ids(records))

	// Sorting again never reorders.
	Sort(records)
	assert.Equal(t, []string{"first", "second", "third"}, ids(records))
}
