package model

// Interval is one recurring weekly operating window. Days holds two-letter
// day codes; Open and Close are "HH:MM" strings.
type Interval struct {
	Days  []string `json:"days"`
	Open  string   `json:"open"`
	Close string   `json:"close"`
	Label string   `json:"label,omitempty"` // set on special intervals only
}

// Schedule is a parsed operating-hours value: recurring weekly intervals
// plus optional labeled special intervals such as holiday hours. A nil
// *Schedule means hours are unknown, which is distinct from "closed".
type Schedule struct {
	Regular []Interval `json:"regular"`
	Special []Interval `json:"special,omitempty"`
}

// Known reports whether the schedule carries at least one regular interval.
// Day and time filters treat anything else as unknown and pass it through.
func (s *Schedule) Known() bool {
	return s != nil && len(s.Regular) > 0
}
