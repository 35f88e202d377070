package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventIsEmptyBodyNoTags(t *testing.T) {
	e := New("turn_completed", Success, "done")
	require.Equal(t, "turn_completed", e.Kind)
	require.Equal(t, Success, e.Severity)
	require.Equal(t, "done", e.Title)
	assert.Empty(t, e.Body)
	assert.Empty(t, e.Tags())
}

func TestWithBodyAndWithTagAreValueSemantics(t *testing.T) {
	base := New("k", Info, "t")
	withBody := base.WithBody("b")
	withTag := base.WithTag("a", "1")

	assert.Empty(t, base.Body)
	assert.Empty(t, base.Tags())
	assert.Equal(t, "b", withBody.Body)
	assert.Equal(t, []Tag{{Key: "a", Value: "1"}}, withTag.Tags())
}

func TestTagsAreSortedLexicographicallyByKeyRegardlessOfInsertionOrder(t *testing.T) {
	e := New("k", Info, "t").WithTag("zeta", "1").WithTag("alpha", "2").WithTag("mid", "3")
	assert.Equal(t, []Tag{
		{Key: "alpha", Value: "2"},
		{Key: "mid", Value: "3"},
		{Key: "zeta", Value: "1"},
	}, e.Tags())
}

func TestSeverityStringOrdering(t *testing.T) {
	assert.True(t, Info < Success)
	assert.True(t, Success < Warning)
	assert.True(t, Warning < Error)
	assert.Equal(t, "warning", Warning.String())
}
