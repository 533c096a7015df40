package typetab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	t.Parallel()

	tab := Builtin()
	require.NotZero(t, tab.Len())

	at := tab.Get("1")
	assert.Equal(t, "Food Pantry", at.Name)
	assert.Equal(t, "food", at.Group)
	assert.True(t, tab.Has("1"))
}

func TestGet_UnknownDegradesToDefault(t *testing.T) {
	t.Parallel()

	tab := Builtin()
	at := tab.Get("does-not-exist")
	assert.Equal(t, "does-not-exist", at.Code)
	assert.Equal(t, DefaultEntry.Name, at.Name)
	assert.Equal(t, DefaultEntry.Group, at.Group)
	assert.False(t, tab.Has("does-not-exist"))
}

func TestLoad_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty table",
			yaml:    "[]",
			wantErr: "empty type table",
		},
		{
			name:    "blank code",
			yaml:    "- code: \"\"\n  name: Food\n",
			wantErr: "has no code",
		},
		{
			name:    "blank name",
			yaml:    "- code: \"9\"\n  name: \"\"\n",
			wantErr: "has no name",
		},
		{
			name:    "duplicate code",
			yaml:    "- code: \"9\"\n  name: A\n- code: \"9\"\n  name: B\n",
			wantErr: "duplicate code",
		},
		{
			name:    "not yaml",
			yaml:    "{{{{",
			wantErr: "decode yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DefaultsGroup(t *testing.T) {
	t.Parallel()

	tab, err := Load(strings.NewReader("- code: \"9\"\n  name: Shelter\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultEntry.Group, tab.Get("9").Group)
}

func TestAll_NumericOrder(t *testing.T) {
	t.Parallel()

	tab, err := Load(strings.NewReader(
		"- code: \"10\"\n  name: Ten\n- code: \"2\"\n  name: Two\n- code: \"x\"\n  name: Text\n",
	))
	require.NoError(t, err)

	all := tab.All()
	require.Len(t, all, 3)
	assert.Equal(t, "2", all[0].Code)
	assert.Equal(t, "10", all[1].Code)
	assert.Equal(t, "x", all[2].Code)
}
