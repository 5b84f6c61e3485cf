package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkWords_EmptyText(t *testing.T) {
	assert.Nil(t, ChunkWords("", 500))
	assert.Nil(t, ChunkWords("   \n\t  ", 500))
}

func TestChunkWords_SingleChunk(t *testing.T) {
	chunks := ChunkWords("alpha beta gamma", 500)

	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0])
}

func TestChunkWords_ExactWindows(t *testing.T) {
	chunks := ChunkWords("a b c d e f", 2)

	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"a b", "c d", "e f"}, chunks)
}

func TestChunkWords_ShortLastChunk(t *testing.T) {
	chunks := ChunkWords("alpha beta gamma", 2)

	require.Len(t, chunks, 2)
	assert.Equal(t, "alpha beta", chunks[0])
	assert.Equal(t, "gamma", chunks[1])
}

func TestChunkWords_NormalizesWhitespace(t *testing.T) {
	chunks := ChunkWords("  alpha \n\t beta   gamma  ", 10)

	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0])
}

func TestChunkWords_ChunkCountIsCeilOfWordsOverSize(t *testing.T) {
	for _, tc := range []struct {
		words, size, want int
	}{
		{10, 3, 4},
		{9, 3, 3},
		{1, 500, 1},
		{500, 500, 1},
		{501, 500, 2},
	} {
		words := make([]string, tc.words)
		for i := range words {
			words[i] = fmt.Sprintf("w%d", i)
		}
		chunks := ChunkWords(strings.Join(words, " "), tc.size)
		assert.Len(t, chunks, tc.want, "words=%d size=%d", tc.words, tc.size)
	}
}

func TestChunkWords_RoundTripPreservesWords(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	chunks := ChunkWords(text, 3)

	rejoined := strings.Fields(strings.Join(chunks, " "))
	assert.Equal(t, strings.Fields(text), rejoined)
}

func TestChunkWords_DefaultSizeOnNonPositive(t *testing.T) {
	chunks := ChunkWords("alpha beta", 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta", chunks[0])
}
