package schedule

import (
	"sort"
	"strings"

	"github.com/caseworks/directory-cli/internal/model"
)

var dayOrder = func() map[string]int {
	m := make(map[string]int, len(DayCodes))
	for i, d := range DayCodes {
		m[d] = i
	}
	return m
}()

// FormatWeekly renders a parsed schedule as compact display text, e.g.
// "Mo-We 09:00-17:00; Fr 10:00-14:00". Special intervals follow with their
// labels. An unknown schedule renders as "Hours unknown".
func FormatWeekly(s *model.Schedule) string {
	if !s.Known() {
		return "Hours unknown"
	}
	parts := make([]string, 0, len(s.Regular)+len(s.Special))
	for _, iv := range s.Regular {
		parts = append(parts, formatInterval(iv))
	}
	for _, iv := range s.Special {
		p := formatInterval(iv)
		if iv.Label != "" {
			p = iv.Label + ": " + p
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "; ")
}

func formatInterval(iv model.Interval) string {
	days := collapseDays(iv.Days)
	switch {
	case days == "":
		return iv.Open + "-" + iv.Close
	case iv.Open == "" && iv.Close == "":
		return days
	default:
		return days + " " + iv.Open + "-" + iv.Close
	}
}

// collapseDays joins day codes, folding runs of consecutive weekdays into a
// range ("Mo-We"). Tokens that are not canonical codes keep their position
// at the end, unchanged.
func collapseDays(days []string) string {
	var known []int
	var unknown []string
	for _, d := range days {
		if idx, ok := dayOrder[d]; ok {
			known = append(known, idx)
		} else if d != "" {
			unknown = append(unknown, d)
		}
	}
	sort.Ints(known)
	known = dedupInts(known)

	var parts []string
	for i := 0; i < len(known); {
		j := i
		for j+1 < len(known) && known[j+1] == known[j]+1 {
			j++
		}
		if j-i >= 2 {
			parts = append(parts, DayCodes[known[i]]+"-"+DayCodes[known[j]])
		} else {
			for k := i; k <= j; k++ {
				parts = append(parts, DayCodes[known[k]])
			}
		}
		i = j + 1
	}
	parts = append(parts, unknown...)
	return strings.Join(parts, ",")
}

func dedupInts(a []int) []int {
	if len(a) < 2 {
		return a
	}
	out := a[:1]
	for _, v := range a[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
