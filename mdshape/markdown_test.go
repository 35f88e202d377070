package mdshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinksAndImages(t *testing.T) {
	lines := Parse("hello [lark](https://open.feishu.cn)\n\n![img](https://example.com/a.png)")
	require.Len(t, lines, 2)

	require.Len(t, lines[0], 2)
	assert.Equal(t, Inline{Kind: KindText, Text: "hello "}, lines[0][0])
	assert.Equal(t, Inline{Kind: KindLink, Text: "lark", Href: "https://open.feishu.cn"}, lines[0][1])

	require.Len(t, lines[1], 1)
	assert.Equal(t, Inline{Kind: KindImage, Alt: "img", Src: "https://example.com/a.png"}, lines[1][0])
}

func TestParseLinkWithEmptyTextFallsBackToHref(t *testing.T) {
	lines := Parse("[](https://example.com)")
	require.Len(t, lines, 1)
	require.Len(t, lines[0], 1)
	assert.Equal(t, "https://example.com", lines[0][0].Text)
}

func TestParseTaskListItems(t *testing.T) {
	lines := Parse("- [x] done\n- [ ] todo")
	require.Len(t, lines, 2)
	assert.Equal(t, "[x] done", lines[0][0].Text)
	assert.Equal(t, "[ ] todo", lines[1][0].Text)
}

func TestParseListItemsGetBulletPrefix(t *testing.T) {
	lines := Parse("- one\n- two")
	require.Len(t, lines, 2)
	assert.Equal(t, "• one", lines[0][0].Text)
	assert.Equal(t, "• two", lines[1][0].Text)
}

func TestParseHorizontalRuleEmitsDedicatedLine(t *testing.T) {
	lines := Parse("above\n\n---\n\nbelow")
	require.Len(t, lines, 3)
	assert.Equal(t, "above", lines[0][0].Text)
	assert.Equal(t, "---", lines[1][0].Text)
	assert.Equal(t, "below", lines[2][0].Text)
}

func TestParseConsecutiveTextInlinesAreMerged(t *testing.T) {
	lines := Parse("plain **bold** text")
	require.Len(t, lines, 1)
	for _, inl := range lines[0] {
		assert.Equal(t, KindText, inl.Kind)
	}
	// emphasis markers dissolve into the surrounding text run, and the
	// consecutive text pieces are merged into a single inline.
	require.Len(t, lines[0], 1)
	assert.Equal(t, "plain bold text", lines[0][0].Text)
}
