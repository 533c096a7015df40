package model

// TimeFilterType enumerates the supported time-of-day predicates.
type TimeFilterType string

const (
	TimeMorning   TimeFilterType = "morning"
	TimeAfternoon TimeFilterType = "afternoon"
	TimeEvening   TimeFilterType = "evening"
	TimeBefore    TimeFilterType = "before"
	TimeAfter     TimeFilterType = "after"
	TimeBetween   TimeFilterType = "between"
)

// TimeFilter is a single time-of-day predicate. Start and End are "HH:MM"
// strings; Start is used by "before"/"after", both by "between".
type TimeFilter struct {
	Type  TimeFilterType `json:"type"`
	Start string         `json:"start,omitempty"`
	End   string         `json:"end,omitempty"`
}

// FilterRequest is the structured set of constraints to apply, produced
// either by UI controls or by the free-text translation service. Every field
// is optional; an absent dimension is vacuously true. Constraints combine
// with logical AND across dimensions and logical OR within a dimension's
// value set.
type FilterRequest struct {
	AssistanceTypes []string `json:"assistance_types,omitempty"`
	Zips            []string `json:"zip_codes,omitempty"`
	Statuses        []string `json:"statuses,omitempty"`

	County       string `json:"county,omitempty"`
	City         string `json:"city,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	Organization string `json:"organization,omitempty"`

	Days []string    `json:"days,omitempty"` // two-letter day codes
	Time *TimeFilter `json:"time,omitempty"`

	Keywords []string `json:"keywords,omitempty"`

	// MaxMiles excludes records farther than this from the reference point.
	// Only applicable once a reference point exists.
	MaxMiles *float64 `json:"max_miles,omitempty"`
}

// IsZero reports whether no constraint dimension is populated.
func (f FilterRequest) IsZero() bool {
	return len(f.AssistanceTypes) == 0 &&
		len(f.Zips) == 0 &&
		len(f.Statuses) == 0 &&
		f.County == "" &&
		f.City == "" &&
		f.Neighborhood == "" &&
		f.Organization == "" &&
		len(f.Days) == 0 &&
		f.Time == nil &&
		len(f.Keywords) == 0 &&
		f.MaxMiles == nil
}

// ReferenceSource identifies how the active reference point was established.
type ReferenceSource string

const (
	RefSourceZip     ReferenceSource = "zip"
	RefSourceAddress ReferenceSource = "address"
)

// ReferencePoint is the geographic origin for distance computation: a zip
// centroid by default, or a geocoded client address. At most one is active
// at a time and it is fully replaced, never merged, on update.
type ReferencePoint struct {
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Source    ReferenceSource `json:"source"`
	Label     string          `json:"label"` // the zip code or formatted address
}

// ReferenceContext carries the reference point plus any routed driving
// distances the caller pre-fetched for it, keyed by record ID in miles.
// RoutedMiles may be nil; the annotator falls back to straight-line distance
// for records without an entry.
type ReferenceContext struct {
	Point       *ReferencePoint    `json:"point,omitempty"`
	RoutedMiles map[string]float64 `json:"routed_miles,omitempty"`
}

// Suggestion is one piece of advisory text telling the user how to relax an
// active constraint that contributed to an empty result set.
type Suggestion struct {
	Dimension string `json:"dimension"`
	Message   string `json:"message"`
	Current   string `json:"current"` // "currently set to X" hint
}

// MatchResult is the output of a single match run.
type MatchResult struct {
	Results             []Resource   `json:"results"`
	UsedDrivingDistance bool         `json:"used_driving_distance"`
	Suggestions         []Suggestion `json:"suggestions,omitempty"`
}
