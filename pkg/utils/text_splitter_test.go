package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText_ShortTextIsOneChunk(t *testing.T) {
	assert.Equal(t, []string{"Reset your password from the portal."}, SplitText("  Reset your password from the portal. ", 350, 80))
	assert.Nil(t, SplitText("   ", 350, 80))
}

func TestSplitText_RespectsSizeAndOverlap(t *testing.T) {
	sentence := "Employees accrue two days of leave per month. "
	text := strings.Repeat(sentence, 40)

	chunks := SplitText(text, 350, 80)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 350)
		assert.True(t, strings.HasSuffix(c, "."), "cut lands on a sentence end: %q", c)
	}

	// Neighbouring chunks share text.
	tail := chunks[0][len(chunks[0])-20:]
	assert.Contains(t, chunks[1], tail)
}

func TestSplitText_HardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 1000)

	chunks := SplitText(text, 300, 0)
	require.Len(t, chunks, 4)
	assert.Equal(t, 300, len(chunks[0]))
	assert.Equal(t, 100, len(chunks[3]))
}

func TestSplitText_OverlapLargerThanChunkIsIgnored(t *testing.T) {
	chunks := SplitText(strings.Repeat("y", 50), 20, 40)
	assert.Len(t, chunks, 3)
}
