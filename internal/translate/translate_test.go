package translate

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/pkg/anthropic"
)

type fakeClient struct {
	text string
	err  error

	gotReq anthropic.MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.text}},
	}, nil
}

func testContext() Context {
	return Context{
		AssistanceTypes: []model.AssistanceType{{Code: "1", Name: "Food Pantry", Group: "food"}},
		ZipCodes:        []string{"77002", "77003"},
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: `{
		"filters": {"assistance_types": ["1"], "days": ["Sa"], "max_miles": 5},
		"interpretation": "food pantries open Saturday within 5 miles"
	}`}
	tr := New(client, "test-model")

	got, err := tr.Translate(context.Background(), "food pantry open saturday near me", testContext())
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, got.Filters.AssistanceTypes)
	assert.Equal(t, []string{"Sa"}, got.Filters.Days)
	require.NotNil(t, got.Filters.MaxMiles)
	assert.Equal(t, 5.0, *got.Filters.MaxMiles)
	assert.Equal(t, "food pantries open Saturday within 5 miles", got.Interpretation)

	// The prompt carries the directory vocabulary.
	assert.Equal(t, "test-model", client.gotReq.Model)
	assert.Contains(t, client.gotReq.Messages[0].Content, "Food Pantry")
	assert.Contains(t, client.gotReq.Messages[0].Content, "77002")
}

func TestTranslate_FencedJSON(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: "```json\n{\"filters\": {\"county\": \"Harris\"}, \"interpretation\": \"x\"}\n```"}
	got, err := New(client, "m").Translate(context.Background(), "harris county", testContext())
	require.NoError(t, err)
	assert.Equal(t, "Harris", got.Filters.County)
}

func TestTranslate_StringEncodedArrays(t *testing.T) {
	t.Parallel()

	// Collection fields arriving as JSON-encoded strings still decode.
	client := &fakeClient{text: `{"filters": {"zip_codes": "[\"77002\"]"}, "interpretation": "x"}`}
	got, err := New(client, "m").Translate(context.Background(), "near 77002", testContext())
	require.NoError(t, err)
	assert.Equal(t, []string{"77002"}, got.Filters.Zips)
}

func TestTranslate_GeocodeAddress(t *testing.T) {
	t.Parallel()

	client := &fakeClient{text: `{"filters": {}, "interpretation": "x", "geocode_address": " 800 Main St "}`}
	got, err := New(client, "m").Translate(context.Background(), "near 800 Main St", testContext())
	require.NoError(t, err)
	assert.Equal(t, "800 Main St", got.GeocodeAddress)
}

func TestTranslate_EmptyQuery(t *testing.T) {
	t.Parallel()

	_, err := New(&fakeClient{}, "m").Translate(context.Background(), "   ", testContext())
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, tErr.Message, "search phrase")
}

func TestTranslate_ClientFailure(t *testing.T) {
	t.Parallel()

	cause := eris.New("api down")
	_, err := New(&fakeClient{err: cause}, "m").Translate(context.Background(), "food", testContext())
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, tErr.Message, "unavailable")
	assert.ErrorIs(t, err, cause)
}

func TestTranslate_UnparsableOutput(t *testing.T) {
	t.Parallel()

	_, err := New(&fakeClient{text: "sorry, I cannot help"}, "m").Translate(context.Background(), "food", testContext())
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, tErr.Message, "reword")
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}
