// Package match is the core of the directory: it applies a filter request to
// the in-memory record set, annotates distances, ranks the survivors, and
// produces relaxation suggestions when nothing survives.
//
// Null-handling is governed by one policy table, applied uniformly:
//
//	dimension        missing record data means
//	---------        -------------------------
//	assistance type  no match (type absent from table = not offered)
//	served zips      MATCH when the served set is empty/unknown; a known
//	                 set matches only on intersection or the "ALL" sentinel
//	geography        no match (empty field cannot contain the query)
//	status           no match
//	day of week      MATCH; unknown hours are never treated as closed
//	time of day      MATCH; same rule
//	keywords         no match
//	distance         kept with nil distance; excluded only by an active
//	                 max-miles threshold
//
// The day/time pass-through is deliberate product behavior: hiding a
// possibly-open resource is the worse failure mode. Do not tighten it.
package match

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/schedule"
)

// fold lowercases with full Unicode case folding for substring matching.
// cases.Caser carries state, so a fresh one is taken per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

// Apply runs the filter engine: every populated dimension of req narrows the
// set, absent dimensions are vacuously true. Records are copied into the
// returned slice, so later distance annotation never touches the caller's
// set. Apply never fails; records with missing fields fail or pass each
// dimension per the package policy table.
func Apply(records []model.Resource, req model.FilterRequest) []model.Resource {
	days := normalizeDays(req.Days)

	out := make([]model.Resource, 0, len(records))
	for _, r := range records {
		if !matchAssistType(&r, req.AssistanceTypes) {
			continue
		}
		if !matchZips(&r, req.Zips) {
			continue
		}
		if !matchGeography(&r, req) {
			continue
		}
		if !matchStatus(&r, req.Statuses) {
			continue
		}
		if !matchOrganization(&r, req.Organization) {
			continue
		}
		if !matchKeywords(&r, req.Keywords) {
			continue
		}
		if !matchDays(&r, days) {
			continue
		}
		if !matchTime(&r, req.Time) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchAssistType(r *model.Resource, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if strings.TrimSpace(t) == r.AssistType {
			return true
		}
	}
	return false
}

// matchZips passes a record that serves ANY requested zip, or whose served
// set carries the "ALL" sentinel regardless of what was requested. An empty
// served set is unknown data and passes, per the package policy table.
func matchZips(r *model.Resource, zips []string) bool {
	if len(zips) == 0 {
		return true
	}
	if len(r.ServedZips) == 0 {
		return true
	}
	if r.ServesAllAreas() {
		return true
	}
	for _, want := range zips {
		for _, have := range r.ServedZips {
			if want == have {
				return true
			}
		}
	}
	return false
}

func matchGeography(r *model.Resource, req model.FilterRequest) bool {
	if req.County != "" && !containsFold(r.County, req.County) {
		return false
	}
	if req.City != "" && !containsFold(r.City, req.City) {
		return false
	}
	// Neighborhood names are sometimes recorded at the city level.
	if req.Neighborhood != "" &&
		!containsFold(r.Neighborhood, req.Neighborhood) &&
		!containsFold(r.City, req.Neighborhood) {
		return false
	}
	return true
}

func matchStatus(r *model.Resource, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if strings.EqualFold(s, string(r.Status)) {
			return true
		}
	}
	return false
}

// matchOrganization matches the record's own organization name or its
// parent organization.
func matchOrganization(r *model.Resource, org string) bool {
	if org == "" {
		return true
	}
	return containsFold(r.Organization, org) || containsFold(r.ParentOrg, org)
}

func matchKeywords(r *model.Resource, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text := r.SearchableText()
	for _, kw := range keywords {
		if containsFold(text, kw) {
			return true
		}
	}
	return false
}

// matchDays passes records with unknown schedules unconditionally; otherwise
// any regular interval whose day set intersects the requested days matches.
func matchDays(r *model.Resource, days []string) bool {
	if len(days) == 0 {
		return true
	}
	if !r.Hours.Known() {
		return true
	}
	for _, iv := range r.Hours.Regular {
		for _, d := range iv.Days {
			code := schedule.NormalizeDay(d)
			for _, want := range days {
				if code == want {
					return true
				}
			}
		}
	}
	return false
}

// matchTime passes records with unknown schedules unconditionally; otherwise
// any regular interval satisfying the predicate matches.
func matchTime(r *model.Resource, tf *model.TimeFilter) bool {
	if tf == nil {
		return true
	}
	if !r.Hours.Known() {
		return true
	}
	for _, iv := range r.Hours.Regular {
		if intervalMatchesTime(iv, *tf) {
			return true
		}
	}
	return false
}

// Day-part boundaries in minutes since midnight.
const (
	noonMinutes    = 12 * 60
	eveningMinutes = 17 * 60
)

func intervalMatchesTime(iv model.Interval, tf model.TimeFilter) bool {
	open, openOK := schedule.Minutes(iv.Open)
	cls, closeOK := schedule.Minutes(iv.Close)

	switch tf.Type {
	case model.TimeMorning:
		return openOK && open < noonMinutes
	case model.TimeAfternoon:
		return openOK && closeOK && open < eveningMinutes && cls > noonMinutes
	case model.TimeEvening:
		return closeOK && cls > eveningMinutes
	case model.TimeBefore:
		t, ok := schedule.Minutes(tf.Start)
		return ok && openOK && open < t
	case model.TimeAfter:
		t, ok := schedule.Minutes(tf.Start)
		return ok && closeOK && cls > t
	case model.TimeBetween:
		t1, ok1 := schedule.Minutes(tf.Start)
		t2, ok2 := schedule.Minutes(tf.End)
		return ok1 && ok2 && openOK && closeOK && open < t2 && cls > t1
	default:
		// Unrecognized predicate types never exclude.
		return true
	}
}

func normalizeDays(days []string) []string {
	if len(days) == 0 {
		return nil
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, schedule.NormalizeDay(d))
		}
	}
	return out
}
