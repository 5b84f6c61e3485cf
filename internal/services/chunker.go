package services

import "strings"

// DefaultChunkSize is the number of words per chunk
const DefaultChunkSize = 500

// ChunkWords splits text into fixed-size windows of whitespace-separated
// words. The last chunk may be shorter. Empty or whitespace-only text
// produces no chunks.
func ChunkWords(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	return chunks
}
