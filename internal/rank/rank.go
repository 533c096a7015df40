// Package rank orders a filtered, distance-annotated result set by the fixed
// multi-key sort the directory uses everywhere: administrative status, then
// numeric assistance-type id, then distance. The sort is stable so records
// tied on all three keys keep their original relative order.
package rank

import (
	"math"
	"sort"
	"strconv"

	"github.com/caseworks/directory-cli/internal/model"
)

// unknownTypeRank is the sort rank for assistance-type ids that do not parse
// as numbers; they sort after every parsable id.
const unknownTypeRank = 999

var statusRanks = map[model.Status]int{
	model.StatusActive:   0,
	model.StatusLimited:  1,
	model.StatusInactive: 2,
}

// StatusRank returns the fixed ordering rank for a status. Unknown statuses
// sort after all known ones.
func StatusRank(s model.Status) int {
	if r, ok := statusRanks[s]; ok {
		return r
	}
	return len(statusRanks) + 1
}

// TypeRank returns the numeric value of an assistance-type id for ordering,
// or unknownTypeRank when the id is not numeric.
func TypeRank(code string) int {
	n, err := strconv.Atoi(code)
	if err != nil {
		return unknownTypeRank
	}
	return n
}

func distanceKey(r *model.Resource) float64 {
	if r.Distance == nil {
		return math.Inf(1)
	}
	return *r.Distance
}

// Sort orders records in place by (status rank asc, type id asc, distance
// asc with nil last), preserving input order for full ties.
func Sort(records []model.Resource) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]
		if sa, sb := StatusRank(a.Status), StatusRank(b.Status); sa != sb {
			return sa < sb
		}
		if ta, tb := TypeRank(a.AssistType), TypeRank(b.AssistType); ta != tb {
			return ta < tb
		}
		return distanceKey(a) < distanceKey(b)
	})
}
