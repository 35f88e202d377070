// Package textfmt provides deterministic, character-bounded truncation and
// event-to-text flattening shared by every sink that sends plain-text
// payloads.
package textfmt

import (
	"strings"

	"github.com/kart-io/notifyguard/event"
)

// Limits caps each field a formatted event text may contain. The zero value
// is not usable; use DefaultLimits or set every field explicitly.
type Limits struct {
	MaxChars       int
	MaxTitleChars  int
	MaxBodyChars   int
	MaxTags        int
	MaxTagKeyChars int
	MaxTagValChars int
}

// DefaultLimits matches the caps tests and sinks assume unless a provider
// needs something tighter.
func DefaultLimits() Limits {
	return Limits{
		MaxChars:       4096,
		MaxTitleChars:  256,
		MaxBodyChars:   4096,
		MaxTags:        32,
		MaxTagKeyChars: 64,
		MaxTagValChars: 256,
	}
}

// TruncateChars returns the first n Unicode scalars (runes) of s, appending
// "..." when truncation actually occurs and n > 3 leaves room for it. Never
// splits a multi-byte character.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n > 3 {
		return string(runes[:n-3]) + "..."
	}
	return string(runes[:n])
}

// FormatEventText flattens title, body and tags into a single string bounded
// by limits, per the field order: title, body, tags (first Limits.MaxTags
// of them, lexicographic by key via event.Event.Tags).
func FormatEventText(e event.Event, limits Limits, includeTitle bool) string {
	var b strings.Builder

	appendPart := func(part string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(part)
	}

	if includeTitle {
		appendPart(TruncateChars(e.Title, limits.MaxTitleChars))
	}

	if body := strings.TrimSpace(e.Body); body != "" {
		appendPart(TruncateChars(body, limits.MaxBodyChars))
	}

	tags := e.Tags()
	if len(tags) > limits.MaxTags {
		tags = tags[:limits.MaxTags]
	}
	for _, t := range tags {
		key := TruncateChars(t.Key, limits.MaxTagKeyChars)
		val := TruncateChars(t.Value, limits.MaxTagValChars)
		appendPart(key + "=" + val)
	}

	return TruncateChars(b.String(), limits.MaxChars)
}

// FormatBodyAndTags is FormatEventText with includeTitle=false, used by
// providers (Bark, PushPlus, ServerChan) that carry the title in a separate
// payload field.
func FormatBodyAndTags(e event.Event, limits Limits) string {
	return FormatEventText(e, limits, false)
}
