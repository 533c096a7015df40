// Package normalize converts heterogeneous stored shapes (JSON-encoded
// arrays kept in string columns, optional values, untyped decodes) into the
// canonical in-memory forms the matching engine consumes. Everything here is
// pure: malformed input degrades to an empty collection, never an error.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/caseworks/directory-cli/internal/model"
)

// StringList coerces a stored collection value into a native []string.
//
// Accepted shapes: a native []string, a []any of stringable elements, a
// string holding a JSON array, or a bare non-empty string (treated as a
// single-element collection, never dropped). nil and unrecognized shapes
// normalize to nil, which downstream filters treat as "unknown".
func StringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return compact(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return compact(arr)
			}
			// Not valid JSON after all; fall through to single element.
		}
		return []string{s}
	default:
		return nil
	}
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// RawFilter mirrors model.FilterRequest with every collection field left
// untyped, so a request whose arrays arrive as JSON-encoded strings still
// decodes. Use Request to obtain the canonical form.
type RawFilter struct {
	AssistanceTypes any               `json:"assistance_types,omitempty"`
	Zips            any               `json:"zip_codes,omitempty"`
	Statuses        any               `json:"statuses,omitempty"`
	County          string            `json:"county,omitempty"`
	City            string            `json:"city,omitempty"`
	Neighborhood    string            `json:"neighborhood,omitempty"`
	Organization    string            `json:"organization,omitempty"`
	Days            any               `json:"days,omitempty"`
	Time            *model.TimeFilter `json:"time,omitempty"`
	Keywords        any               `json:"keywords,omitempty"`
	MaxMiles        *float64          `json:"max_miles,omitempty"`
}

// Request converts a RawFilter into the canonical FilterRequest.
func Request(raw RawFilter) model.FilterRequest {
	return model.FilterRequest{
		AssistanceTypes: StringList(raw.AssistanceTypes),
		Zips:            StringList(raw.Zips),
		Statuses:        StringList(raw.Statuses),
		County:          strings.TrimSpace(raw.County),
		City:            strings.TrimSpace(raw.City),
		Neighborhood:    strings.TrimSpace(raw.Neighborhood),
		Organization:    strings.TrimSpace(raw.Organization),
		Days:            StringList(raw.Days),
		Time:            raw.Time,
		Keywords:        StringList(raw.Keywords),
		MaxMiles:        raw.MaxMiles,
	}
}

// Record fixes up the string-encoding hazards on a freshly loaded resource:
// client_zip_codes arriving as a JSON string and stray whitespace on the
// geographic fields. The record is modified in place.
func Record(r *model.Resource, rawZips any) {
	r.ServedZips = StringList(rawZips)
	r.County = strings.TrimSpace(r.County)
	r.City = strings.TrimSpace(r.City)
	r.Neighborhood = strings.TrimSpace(r.Neighborhood)
	r.Zip = strings.TrimSpace(r.Zip)
}
