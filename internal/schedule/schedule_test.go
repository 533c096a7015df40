package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseworks/directory-cli/internal/model"
)

func TestNormalizeDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Mo", "Mo"},
		{"mo", "Mo"},
		{"MONDAY", "Mo"},
		{"Tues", "Tu"},
		{"weds", "We"},
		{"thurs", "Th"},
		{"Fri", "Fr"},
		{"saturday", "Sa"},
		{" sun ", "Su"},
		// Unrecognized tokens pass through unchanged.
		{"Noday", "Noday"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDay(tt.in))
		})
	}
}

func TestParse_Nil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Parse(nil))
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("   "))
}

func TestParse_MalformedNeverErrors(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Parse("not json at all"))
	assert.Nil(t, Parse("{\"regular\": 12}"))
	assert.Nil(t, Parse(42))
	assert.Nil(t, Parse("{}"))
	assert.Nil(t, Parse(`{"regular": [], "special": []}`))
}

func TestParse_JSONString(t *testing.T) {
	t.Parallel()

	s := Parse(`{"regular":[{"days":["Monday","tue"],"open":"09:00","close":"17:00"}]}`)
	require.NotNil(t, s)
	require.Len(t, s.Regular, 1)
	assert.Equal(t, []string{"Mo", "Tu"}, s.Regular[0].Days)
	assert.Equal(t, "09:00", s.Regular[0].Open)
	assert.Equal(t, "17:00", s.Regular[0].Close)
}

func TestParse_Map(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"regular": []any{
			map[string]any{"days": "Mon,Tue", "open": "08:00", "close": "12:00"},
		},
		"special": []any{
			map[string]any{"days": []any{"Sa"}, "open": "10:00", "close": "14:00", "label": "Holiday Hours"},
		},
	}
	s := Parse(raw)
	require.NotNil(t, s)
	require.Len(t, s.Regular, 1)
	assert.Equal(t, []string{"Mo", "Tu"}, s.Regular[0].Days)
	require.Len(t, s.Special, 1)
	assert.Equal(t, "Holiday Hours", s.Special[0].Label)
}

func TestParse_AlreadyStructured(t *testing.T) {
	t.Parallel()

	in := &model.Schedule{
		Regular: []model.Interval{{Days: []string{"friday"}, Open: "09:00", Close: "17:00"}},
	}
	s := Parse(in)
	require.NotNil(t, s)
	assert.Equal(t, []string{"Fr"}, s.Regular[0].Days)

	// The input schedule is not mutated.
	assert.Equal(t, []string{"friday"}, in.Regular[0].Days)
}

func TestParse_UnrecognizedDayKept(t *testing.T) {
	t.Parallel()

	s := Parse(`{"regular":[{"days":["Mo","Someday"],"open":"09:00","close":"17:00"}]}`)
	require.NotNil(t, s)
	assert.Equal(t, []string{"Mo", "Someday"}, s.Regular[0].Days)
}

func TestMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"12:00", 720, true},
		{"17:00", 1020, true},
		{"24:00", 1440, true},
		{" 9:15 ", 555, true},
		{"25:00", 0, false},
		{"12:75", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Minutes(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
