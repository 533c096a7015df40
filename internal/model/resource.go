// Package model defines the core types shared across the directory matching
// engine: resource records, filter requests, schedules, and match results.
package model

import "strings"

// Status is the administrative status of a resource listing.
type Status string

const (
	StatusActive   Status = "active"
	StatusLimited  Status = "limited"
	StatusInactive Status = "inactive"
)

// ZipAll is the sentinel served-zip value meaning "serves all areas".
const ZipAll = "ALL"

// Resource represents one directory listing for an assistance-providing
// organization location.
type Resource struct {
	ID           string   `json:"id"`
	Organization string   `json:"organization"`
	ParentOrg    string   `json:"parent_org,omitempty"`
	AssistType   string   `json:"assist_type"`
	OrgTypes     []string `json:"org_types,omitempty"` // all types the org offers, derived at load
	Status       Status   `json:"status"`
	StatusDate   string   `json:"status_date,omitempty"`
	StatusNote   string   `json:"status_note,omitempty"`

	// Hours is the parsed weekly schedule. nil means hours are unknown,
	// which day/time filters must treat as a match, never as closed.
	Hours *Schedule `json:"hours,omitempty"`

	Requirements string   `json:"requirements,omitempty"` // newline-delimited clauses
	ServedZips   []string `json:"served_zips,omitempty"`  // may contain ZipAll

	County       string   `json:"county,omitempty"`
	City         string   `json:"city,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Zip          string   `json:"zip,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	MapLink string `json:"map_link,omitempty"`

	// Distance is computed per query relative to the active reference point.
	// It is never persisted.
	Distance *float64 `json:"distance,omitempty"`
}

// HasCoordinates reports whether the record carries a usable lat/lng pair.
func (r *Resource) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// SearchableText returns the text the keyword filter runs against.
func (r *Resource) SearchableText() string {
	if r.StatusNote == "" {
		return r.Requirements
	}
	return r.Requirements + "\n" + r.StatusNote
}

// ServesAllAreas reports whether the served-zip set contains the ZipAll
// sentinel, matching any requested zip set.
func (r *Resource) ServesAllAreas() bool {
	for _, z := range r.ServedZips {
		if EqualsZipAll(z) {
			return true
		}
	}
	return false
}

// EqualsZipAll reports whether a single served-zip value is the "serves all
// areas" sentinel. The comparison is case-insensitive.
func EqualsZipAll(zip string) bool {
	return strings.EqualFold(zip, ZipAll)
}

// AssistanceType is one entry in the closed assistance-type table.
type AssistanceType struct {
	Code  string `json:"code" yaml:"code"`
	Name  string `json:"name" yaml:"name"`
	Group string `json:"group" yaml:"group"`
	Icon  string `json:"icon" yaml:"icon"`
}

// ZipCentroid is a zip code with its centroid coordinates, used as the
// default reference point for distance computation.
type ZipCentroid struct {
	Zip       string  `json:"zip"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	County    string  `json:"county,omitempty"`
}
