package match

import (
	"github.com/caseworks/directory-cli/internal/advise"
	"github.com/caseworks/directory-cli/internal/distance"
	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/rank"
)

// Match is the single synchronous entry point consumed by the presentation
// layer once the async collaborators (bulk load, translation, geocoding,
// routing) have resolved their inputs. It filters, distance-annotates,
// ranks, and, when the result set comes back empty, attaches relaxation
// suggestions. The input record set is treated as immutable; rerunning Match
// on unchanged inputs yields identical ordered output.
func Match(records []model.Resource, req model.FilterRequest, ref model.ReferenceContext) model.MatchResult {
	results := Apply(records, req)
	usedDriving := distance.Annotate(results, ref)

	// The max-distance threshold only binds once a reference point exists.
	// It is the one constraint that excludes records with unknown distance.
	if req.MaxMiles != nil && ref.Point != nil {
		kept := results[:0]
		for _, r := range results {
			if r.Distance != nil && *r.Distance <= *req.MaxMiles {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	rank.Sort(results)

	var suggestions []model.Suggestion
	if len(results) == 0 {
		suggestions = advise.Suggest(req)
	}

	return model.MatchResult{
		Results:             results,
		UsedDrivingDistance: usedDriving,
		Suggestions:         suggestions,
	}
}
