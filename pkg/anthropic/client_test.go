package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponseText(t *testing.T) {
	t.Parallel()

	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "Hello"},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: ", world"},
		},
	}
	assert.Equal(t, "Hello, world", resp.Text())

	empty := &MessageResponse{}
	assert.Equal(t, "", empty.Text())
}
