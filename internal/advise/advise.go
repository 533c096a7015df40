// Package advise turns an empty result set into actionable guidance: one
// human-readable relaxation suggestion per populated constraint dimension,
// in a fixed priority order, capped at four.
package advise

import (
	"fmt"
	"strings"

	"github.com/caseworks/directory-cli/internal/model"
)

// maxSuggestions caps the advisory output; lower-priority dimensions are
// truncated first.
const maxSuggestions = 4

// Suggest inspects the populated dimensions of an active filter request and
// emits relaxation suggestions in priority order: day filter, time filter,
// distance limit, zip codes, neighborhood, keywords, county, city, and a
// single selected assistance type. With nothing populated it returns one
// generic broaden-your-search suggestion. Purely advisory; the result set
// is untouched.
func Suggest(req model.FilterRequest) []model.Suggestion {
	var out []model.Suggestion

	if len(req.Days) > 0 {
		out = append(out, model.Suggestion{
			Dimension: "days",
			Message:   "Remove the day filter; resources with unlisted or unknown hours may still be open.",
			Current:   "currently set to " + strings.Join(req.Days, ", "),
		})
	}
	if req.Time != nil {
		out = append(out, model.Suggestion{
			Dimension: "time",
			Message:   "Remove the time filter to include resources open at other times of day.",
			Current:   "currently set to " + describeTime(*req.Time),
		})
	}
	if req.MaxMiles != nil {
		out = append(out, model.Suggestion{
			Dimension: "max_distance",
			Message:   "Widen or remove the distance limit to include resources farther away.",
			Current:   fmt.Sprintf("currently set to %g miles", *req.MaxMiles),
		})
	}
	if len(req.Zips) > 0 {
		out = append(out, model.Suggestion{
			Dimension: "zips",
			Message:   "Search without a zip code restriction; some resources serve all areas.",
			Current:   "currently set to " + strings.Join(req.Zips, ", "),
		})
	}
	if req.Neighborhood != "" {
		out = append(out, model.Suggestion{
			Dimension: "neighborhood",
			Message:   "Clear the neighborhood to search the whole city.",
			Current:   "currently set to " + req.Neighborhood,
		})
	}
	if len(req.Keywords) > 0 {
		out = append(out, model.Suggestion{
			Dimension: "keywords",
			Message:   "Drop or simplify the keywords; requirement text varies between listings.",
			Current:   "currently set to " + strings.Join(req.Keywords, ", "),
		})
	}
	if req.County != "" {
		out = append(out, model.Suggestion{
			Dimension: "county",
			Message:   "Clear the county to search neighboring areas.",
			Current:   "currently set to " + req.County,
		})
	}
	if req.City != "" {
		out = append(out, model.Suggestion{
			Dimension: "city",
			Message:   "Clear the city to search the surrounding county.",
			Current:   "currently set to " + req.City,
		})
	}
	if len(req.AssistanceTypes) == 1 {
		out = append(out, model.Suggestion{
			Dimension: "assistance_type",
			Message:   "Add related assistance types; organizations often offer more than one.",
			Current:   "currently set to type " + req.AssistanceTypes[0],
		})
	}

	if len(out) == 0 {
		return []model.Suggestion{{
			Dimension: "none",
			Message:   "Broaden your search; no matching resources were found with the current data.",
		}}
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func describeTime(tf model.TimeFilter) string {
	switch tf.Type {
	case model.TimeMorning, model.TimeAfternoon, model.TimeEvening:
		return string(tf.Type)
	case model.TimeBefore:
		return "before " + tf.Start
	case model.TimeAfter:
		return "after " + tf.Start
	case model.TimeBetween:
		return "between " + tf.Start + " and " + tf.End
	default:
		return string(tf.Type)
	}
}
