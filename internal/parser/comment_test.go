package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inheritdoc/pkg/types"
)

func TestParseComment(t *testing.T) {
	c := ParseComment(`Get returns the value stored under key. Missing keys
yield nil.

@param key the lookup key,
  case sensitive
@return the value
@throws NotFound {@inheritDoc}
@since`)

	assert.Equal(t, "Get returns the value stored under key. Missing keys\nyield nil.", c.Body)
	assert.Equal(t, "Get returns the value stored under key.", c.FirstSentence)
	require.Len(t, c.Tags, 4)
	assert.Equal(t, types.BlockTag{Name: "param", Argument: "key", Content: "the lookup key,\ncase sensitive"}, c.Tags[0])
	assert.Equal(t, types.BlockTag{Name: "return", Content: "the value"}, c.Tags[1])
	assert.Equal(t, types.BlockTag{Name: "throws", Argument: "NotFound", Content: "{@inheritDoc}"}, c.Tags[2])
	assert.Equal(t, types.BlockTag{Name: "since"}, c.Tags[3])
}

func TestParseComment_Empty(t *testing.T) {
	c := ParseComment("")
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.FirstSentence)
}

func TestParseComment_InlineTagAtLineStart(t *testing.T) {
	c := ParseComment("Summary here.\n{@inheritDoc}\n@ not a tag")
	assert.Equal(t, "Summary here.\n{@inheritDoc}\n@ not a tag", c.Body)
	assert.Empty(t, c.Tags)
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"One. Two.", "One."},
		{"Is it? Yes.", "Is it?"},
		{"Version 1.2 is out. More.", "Version 1.2 is out."},
		{"No terminator", "No terminator"},
		{"First para\nwraps\n\nSecond para.", "First para wraps"},
		{"{@inheritDoc} More text.", "{@inheritDoc} More text."},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstSentence(tt.in))
		})
	}
}
