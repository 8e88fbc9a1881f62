package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestRandomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := RandomCode(8)
		require.NoError(t, err)
		assert.Len(t, code, 8)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q in %s", r, code)
		}
		seen[code] = true
	}
	assert.Len(t, seen, 100)
}

func TestRandomCodeCoversAlphabet(t *testing.T) {
	counts := make(map[rune]int, len(codeAlphabet))
	for i := 0; i < 500; i++ {
		code, err := RandomCode(8)
		require.NoError(t, err)
		for _, r := range code {
			counts[r]++
		}
	}
	// 4000 uniform draws over 36 characters; each must show up.
	for _, r := range codeAlphabet {
		assert.Positive(t, counts[r], "character %q never drawn", r)
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("", "anything"))
}
