package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "", SingleLine(""))
	assert.Equal(t, "a ⏎ b c", SingleLine("  a\n b   c "))
	assert.Equal(t, `{"status":"error"}`, SingleLine("{\"status\":\"error\"}\r\n"))
}

func TestSingleLineTruncates(t *testing.T) {
	got := SingleLine(strings.Repeat("x", maxSnippet+50))
	assert.Equal(t, maxSnippet+1, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
