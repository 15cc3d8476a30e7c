package ratemyprof

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTruncateBody(t *testing.T) {
	short := "short body"
	require.Equal(t, short, truncateBody([]byte("  "+short+"\n")))

	long := strings.Repeat("x", maxBodyDump*2)
	truncated := truncateBody([]byte(long))
	require.Equal(t, strings.Repeat("x", maxBodyDump)+"...", truncated)

	// a multi-byte rune straddling the cutoff is dropped whole instead
	// of leaving a broken sequence in the dump
	straddling := strings.Repeat("a", maxBodyDump-1) + "é" + strings.Repeat("b", 20)
	truncated = truncateBody([]byte(straddling))
	require.True(t, utf8.ValidString(truncated))
	require.Equal(t, strings.Repeat("a", maxBodyDump-1)+"...", truncated)
}
