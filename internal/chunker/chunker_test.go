package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight/docq/internal/core/domain"
)

func tokensConfig(maxTokens, overlap int) domain.ChunkingSettings {
	return domain.ChunkingSettings{
		MaxTokens:     maxTokens,
		OverlapTokens: overlap,
		Strategy:      domain.ChunkStrategyTokens,
	}
}

func wordsDoc(id string, n int) domain.Document {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return domain.Document{ID: id, Content: strings.Join(words, " ")}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(domain.ChunkingSettings{})

	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, c.maxTokens)
	assert.Equal(t, DefaultOverlapTokens, c.overlap)
	assert.Equal(t, domain.ChunkStrategyTokens, c.strategy)
}

func TestNew_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.ChunkingSettings
	}{
		{"overlap equals max", tokensConfig(100, 100)},
		{"overlap exceeds max", tokensConfig(100, 150)},
		{"negative overlap", tokensConfig(100, -1)},
		{"negative max", tokensConfig(-5, 0)},
		{"unknown strategy", domain.ChunkingSettings{MaxTokens: 100, OverlapTokens: 10, Strategy: "paragraphs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}

func TestChunk_EmptyDocument(t *testing.T) {
	c, err := New(tokensConfig(10, 2))
	require.NoError(t, err)

	chunks, err := c.Chunk(domain.Document{ID: "empty", Content: "   \n\t  "})

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_SmallDocument_SingleChunk(t *testing.T) {
	c, err := New(tokensConfig(100, 10))
	require.NoError(t, err)

	doc := domain.Document{ID: "small.pdf", Content: "only a few tokens here"}
	chunks, err := c.Chunk(doc)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "small.pdf#0", chunks[0].ID)
	assert.Equal(t, "small.pdf", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, 5, chunks[0].TokenCount)
	assert.Equal(t, doc.Content, chunks[0].Content)
}

func TestChunk_Deterministic(t *testing.T) {
	c, err := New(tokensConfig(8, 3))
	require.NoError(t, err)

	doc := wordsDoc("manual.pdf", 50)
	first, err := c.Chunk(doc)
	require.NoError(t, err)
	second, err := c.Chunk(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChunk_ExactOverlap(t *testing.T) {
	c, err := New(tokensConfig(4, 2))
	require.NoError(t, err)

	doc := domain.Document{ID: "d", Content: "t0 t1 t2 t3 t4 t5"}
	chunks, err := c.Chunk(doc)

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "t0 t1 t2 t3", chunks[0].Content)
	assert.Equal(t, "t2 t3 t4 t5", chunks[1].Content)

	// The trailing overlap tokens of a chunk are exactly the leading
	// tokens of the next.
	prev := strings.Fields(chunks[0].Content)
	next := strings.Fields(chunks[1].Content)
	assert.Equal(t, prev[len(prev)-2:], next[:2])
}

func TestChunk_PositionsSequential(t *testing.T) {
	c, err := New(tokensConfig(5, 1))
	require.NoError(t, err)

	chunks, err := c.Chunk(wordsDoc("seq", 40))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Position)
		assert.Equal(t, fmt.Sprintf("seq#%d", i), chunk.ID)
	}
}

func TestChunk_LastWindowShorter(t *testing.T) {
	c, err := New(tokensConfig(4, 1))
	require.NoError(t, err)

	// 6 tokens, step 3: windows are [0,4), [3,6).
	chunks, err := c.Chunk(wordsDoc("short-tail", 6))

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 4, chunks[0].TokenCount)
	assert.Equal(t, 3, chunks[1].TokenCount)
}

func TestChunk_Sections(t *testing.T) {
	content := `intro before any heading

# Installation
run the installer

## Requirements
needs a working network

# Usage
start the program`

	c, err := New(domain.ChunkingSettings{
		MaxTokens:     50,
		OverlapTokens: 5,
		Strategy:      domain.ChunkStrategySections,
	})
	require.NoError(t, err)

	chunks, err := c.Chunk(domain.Document{ID: "guide.pdf", Content: content})

	require.NoError(t, err)
	require.Len(t, chunks, 4)

	assert.Equal(t, "", chunks[0].Section)
	assert.Contains(t, chunks[0].Content, "intro before any heading")
	assert.Equal(t, "Installation", chunks[1].Section)
	assert.Equal(t, "Requirements", chunks[2].Section)
	assert.Equal(t, "Usage", chunks[3].Section)

	// Positions stay sequential across sections.
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Position)
	}
}

func TestChunk_Sections_OversizedSectionIsWindowed(t *testing.T) {
	content := "# Big Section\n" + wordsDoc("", 30).Content

	c, err := New(domain.ChunkingSettings{
		MaxTokens:     10,
		OverlapTokens: 2,
		Strategy:      domain.ChunkStrategySections,
	})
	require.NoError(t, err)

	chunks, err := c.Chunk(domain.Document{ID: "big.pdf", Content: content})

	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.Equal(t, "Big Section", chunk.Section)
		assert.LessOrEqual(t, chunk.TokenCount, 10)
	}
}

func TestChunk_Pattern(t *testing.T) {
	content := `General notes about the modem.
AT+CGMI requests manufacturer identification.
The response is a text string.
AT+CSQ reports signal quality.
Values range from 0 to 31.`

	c, err := New(domain.ChunkingSettings{
		MaxTokens:     50,
		OverlapTokens: 5,
		Strategy:      domain.ChunkStrategyPattern,
	})
	require.NoError(t, err)

	chunks, err := c.Chunk(domain.Document{ID: "at.pdf", Content: content})

	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Contains(t, chunks[0].Content, "General notes")
	assert.Equal(t, "AT+CGMI", chunks[1].Section)
	assert.Contains(t, chunks[1].Content, "manufacturer identification")
	assert.Equal(t, "AT+CSQ", chunks[2].Section)

	assert.Equal(t, "AT+CGMI", chunks[1].Metadata["commands"])
	assert.Equal(t, "AT+CSQ", chunks[2].Metadata["commands"])
}

func TestChunk_CopiesDocumentMetadata(t *testing.T) {
	c, err := New(tokensConfig(20, 2))
	require.NoError(t, err)

	doc := domain.Document{
		ID:       "meta.pdf",
		Type:     "datasheet",
		Source:   "/tmp/meta.pdf",
		Content:  "some content tokens",
		Metadata: map[string]any{"vendor": "acme"},
	}
	chunks, err := c.Chunk(doc)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "datasheet", chunks[0].DocumentType)
	assert.Equal(t, "/tmp/meta.pdf", chunks[0].Source)
	assert.Equal(t, "acme", chunks[0].Metadata["vendor"])
}
