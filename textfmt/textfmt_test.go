package textfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/notifyguard/event"
)

func TestTruncateCharsShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "hi", TruncateChars("hi", 10))
}

func TestTruncateCharsAppendsEllipsisWhenRoomAllows(t *testing.T) {
	got := TruncateChars("abcdefghij", 5)
	assert.Equal(t, "ab...", got)
	assert.Equal(t, 5, len([]rune(got)))
}

func TestTruncateCharsNoEllipsisRoom(t *testing.T) {
	assert.Equal(t, "abc", TruncateChars("abcdef", 3))
}

func TestTruncateCharsRespectsMultiByteBoundaries(t *testing.T) {
	s := "héllo wörld" // contains multi-byte runes
	got := TruncateChars(s, 5)
	require.Equal(t, 5, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFormatEventTextOrdersTitleBodyTags(t *testing.T) {
	e := event.New("turn_completed", event.Success, "done").
		WithBody("ok").
		WithTag("thread_id", "t1")

	got := FormatEventText(e, DefaultLimits(), true)
	assert.Equal(t, "done\nok\nthread_id=t1", got)
}

func TestFormatEventTextTrimsBodyWhitespaceAndSkipsIfEmpty(t *testing.T) {
	e := event.New("k", event.Info, "title").WithBody("   \n  ")
	got := FormatEventText(e, DefaultLimits(), true)
	assert.Equal(t, "title", got)
}

func TestFormatBodyAndTagsOmitsTitle(t *testing.T) {
	e := event.New("k", event.Info, "should-not-appear").WithBody("b")
	got := FormatBodyAndTags(e, DefaultLimits())
	assert.Equal(t, "b", got)
}

func TestFormatEventTextNeverExceedsMaxChars(t *testing.T) {
	e := event.New("k", event.Info, strings.Repeat("x", 1000)).WithBody(strings.Repeat("y", 1000))
	limits := DefaultLimits()
	limits.MaxChars = 50
	got := FormatEventText(e, limits, true)
	assert.LessOrEqual(t, len([]rune(got)), 50)
}

func TestFormatEventTextRespectsMaxTagsCap(t *testing.T) {
	e := event.New("k", event.Info, "t")
	for i := 0; i < 5; i++ {
		e = e.WithTag(string(rune('a'+i)), "v")
	}
	limits := DefaultLimits()
	limits.MaxTags = 2
	got := FormatEventText(e, limits, true)
	assert.Equal(t, "t\na=v\nb=v", got)
}
