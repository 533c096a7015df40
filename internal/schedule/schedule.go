// Package schedule normalizes the operating-hours value stored on a resource
// record into queryable day/time intervals. Hours arrive as a structured
// object, a JSON string, or nothing at all; malformed input always parses to
// nil ("hours unknown"), never to an error.
package schedule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caseworks/directory-cli/internal/model"
)

// DayCodes lists the seven canonical two-letter day codes in week order.
var DayCodes = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// daySynonyms maps lowercase day tokens to canonical codes. Full names and
// 3-letter abbreviations collapse onto the same code.
var daySynonyms = map[string]string{
	"mo": "Mo", "mon": "Mo", "monday": "Mo",
	"tu": "Tu", "tue": "Tu", "tues": "Tu", "tuesday": "Tu",
	"we": "We", "wed": "We", "weds": "We", "wednesday": "We",
	"th": "Th", "thu": "Th", "thur": "Th", "thurs": "Th", "thursday": "Th",
	"fr": "Fr", "fri": "Fr", "friday": "Fr",
	"sa": "Sa", "sat": "Sa", "saturday": "Sa",
	"su": "Su", "sun": "Su", "sunday": "Su",
}

// NormalizeDay maps a day token to its canonical two-letter code,
// case-insensitively. Unrecognized tokens are returned unchanged; they will
// simply never intersect a requested day set (fail-open, not fail-closed).
func NormalizeDay(token string) string {
	if code, ok := daySynonyms[strings.ToLower(strings.TrimSpace(token))]; ok {
		return code
	}
	return token
}

// rawSchedule tolerates loosely typed interval fields during decode.
type rawSchedule struct {
	Regular []rawInterval `json:"regular"`
	Special []rawInterval `json:"special"`
}

type rawInterval struct {
	Days  any    `json:"days"`
	Open  string `json:"open"`
	Close string `json:"close"`
	Label string `json:"label"`
}

// Parse converts a record's raw hours value into a Schedule. The value may
// be a *model.Schedule already, a map decoded from JSON, or a JSON string.
// Anything unparsable yields nil, meaning unknown; Parse never fails.
func Parse(v any) *model.Schedule {
	switch val := v.(type) {
	case nil:
		return nil
	case *model.Schedule:
		return normalizeParsed(val)
	case model.Schedule:
		return normalizeParsed(&val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		var raw rawSchedule
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil
		}
		return fromRaw(raw)
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		var raw rawSchedule
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
		return fromRaw(raw)
	default:
		return nil
	}
}

func fromRaw(raw rawSchedule) *model.Schedule {
	out := &model.Schedule{}
	for _, ri := range raw.Regular {
		if iv, ok := interval(ri); ok {
			out.Regular = append(out.Regular, iv)
		}
	}
	for _, ri := range raw.Special {
		if iv, ok := interval(ri); ok {
			out.Special = append(out.Special, iv)
		}
	}
	if len(out.Regular) == 0 && len(out.Special) == 0 {
		return nil
	}
	return out
}

func interval(ri rawInterval) (model.Interval, bool) {
	days := dayList(ri.Days)
	open := strings.TrimSpace(ri.Open)
	cls := strings.TrimSpace(ri.Close)
	if len(days) == 0 && open == "" && cls == "" {
		return model.Interval{}, false
	}
	return model.Interval{
		Days:  days,
		Open:  open,
		Close: cls,
		Label: strings.TrimSpace(ri.Label),
	}, true
}

func dayList(v any) []string {
	var tokens []string
	switch val := v.(type) {
	case []string:
		tokens = val
	case []any:
		for _, e := range val {
			if s, ok := e.(string); ok {
				tokens = append(tokens, s)
			}
		}
	case string:
		// A lone day or a comma-separated run like "Mon,Tue".
		tokens = strings.Split(val, ",")
	default:
		return nil
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, NormalizeDay(t))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeParsed re-normalizes day tokens on an already structured schedule
// so callers can hand over schedules built elsewhere.
func normalizeParsed(s *model.Schedule) *model.Schedule {
	if s == nil || (len(s.Regular) == 0 && len(s.Special) == 0) {
		return nil
	}
	out := &model.Schedule{
		Regular: make([]model.Interval, len(s.Regular)),
		Special: make([]model.Interval, len(s.Special)),
	}
	for i, iv := range s.Regular {
		out.Regular[i] = normalizeInterval(iv)
	}
	for i, iv := range s.Special {
		out.Special[i] = normalizeInterval(iv)
	}
	return out
}

func normalizeInterval(iv model.Interval) model.Interval {
	days := make([]string, len(iv.Days))
	for i, d := range iv.Days {
		days[i] = NormalizeDay(d)
	}
	iv.Days = days
	return iv
}

// Minutes parses an "HH:MM" clock value into minutes since midnight.
// The second return is false for anything unparsable.
func Minutes(clock string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(clock), "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
