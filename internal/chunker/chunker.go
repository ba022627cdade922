// Package chunker splits document text into overlapping passages.
//
// Three strategies are available: fixed-size token windows, heading-aware
// section splitting, and command-table pattern splitting for AT command
// manuals. All strategies are deterministic: the same document and
// configuration always produce the same chunk sequence, including IDs.
package chunker

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// Default configuration values.
const (
	DefaultMaxTokens     = 512
	DefaultOverlapTokens = 50
)

var (
	headingPattern   = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	atCommandPattern = regexp.MustCompile(`AT\+[A-Z0-9]+`)
)

// Chunker splits documents according to a fixed configuration.
type Chunker struct {
	maxTokens int
	overlap   int
	strategy  domain.ChunkStrategy
}

// New creates a chunker. Overlap >= max tokens is a configuration
// error and fails fast; it is never silently corrected.
func New(cfg domain.ChunkingSettings) (*Chunker, error) {
	if cfg.MaxTokens == 0 && cfg.OverlapTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
		cfg.OverlapTokens = DefaultOverlapTokens
	}
	if cfg.Strategy == "" {
		cfg.Strategy = domain.ChunkStrategyTokens
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Chunker{
		maxTokens: cfg.MaxTokens,
		overlap:   cfg.OverlapTokens,
		strategy:  cfg.Strategy,
	}, nil
}

// Chunk derives the chunk sequence for a document.
// An empty document yields no chunks and no error.
func (c *Chunker) Chunk(doc domain.Document) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	var segments []segment
	switch c.strategy {
	case domain.ChunkStrategySections:
		segments = splitSections(doc.Content)
	case domain.ChunkStrategyPattern:
		segments = splitCommands(doc.Content)
	default:
		segments = []segment{{text: doc.Content}}
	}

	var chunks []domain.Chunk
	position := 0
	for _, seg := range segments {
		for _, w := range c.windows(seg.text) {
			chunks = append(chunks, buildChunk(doc, position, w, seg.section))
			position++
		}
	}

	return chunks, nil
}

// segment is an intermediate structural unit produced by the sections
// and pattern strategies before token windowing.
type segment struct {
	text    string
	section string
}

// window is a token-bounded span of a segment's text.
type window struct {
	text       string
	tokenCount int
}

// token marks a whitespace-delimited token's byte offsets.
type token struct {
	start, end int
}

// tokenize splits text into whitespace-delimited tokens with byte
// offsets, so chunk boundaries never split a token and chunk content
// can be cut from the original text.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{start: start, end: len(text)})
	}
	return tokens
}

// windows applies greedy fixed-size token windowing to a segment,
// advancing by maxTokens-overlap each step. The last window may be
// shorter than maxTokens. Text smaller than one window yields exactly
// one chunk.
func (c *Chunker) windows(text string) []window {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	step := c.maxTokens - c.overlap
	var out []window
	for start := 0; start < len(tokens); start += step {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, window{
			text:       text[tokens[start].start:tokens[end-1].end],
			tokenCount: end - start,
		})
		if end == len(tokens) {
			break
		}
	}
	return out
}

// splitSections splits on markdown headings. Text before the first
// heading forms an unnamed leading segment.
func splitSections(content string) []segment {
	lines := strings.Split(content, "\n")
	var segments []segment
	var current []string
	section := ""

	flush := func() {
		text := strings.Join(current, "\n")
		if strings.TrimSpace(text) != "" {
			segments = append(segments, segment{text: text, section: section})
		}
		current = current[:0]
	}

	for _, line := range lines {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			section = m[2]
			current = append(current, line)
			continue
		}
		current = append(current, line)
	}
	flush()

	return segments
}

// splitCommands starts a new segment at each line introducing an AT
// command, keeping a command's description together with its marker.
func splitCommands(content string) []segment {
	lines := strings.Split(content, "\n")
	var segments []segment
	var current []string
	section := ""

	flush := func() {
		text := strings.Join(current, "\n")
		if strings.TrimSpace(text) != "" {
			segments = append(segments, segment{text: text, section: section})
		}
		current = current[:0]
	}

	for _, line := range lines {
		if cmds := atCommandPattern.FindAllString(line, -1); len(cmds) > 0 && len(current) > 0 {
			flush()
			section = cmds[0]
		}
		current = append(current, line)
	}
	flush()

	return segments
}

// buildChunk assembles a chunk with its deterministic ID and copies of
// the document's identifying metadata.
func buildChunk(doc domain.Document, position int, w window, section string) domain.Chunk {
	metadata := make(map[string]any, len(doc.Metadata)+2)
	for k, v := range doc.Metadata {
		metadata[k] = v
	}
	if cmds := atCommandPattern.FindAllString(w.text, -1); len(cmds) > 0 {
		metadata["commands"] = strings.Join(dedupe(cmds), ", ")
	}

	return domain.Chunk{
		ID:           domain.ChunkID(doc.ID, position),
		DocumentID:   doc.ID,
		DocumentType: doc.Type,
		Source:       doc.Source,
		Position:     position,
		Content:      w.text,
		TokenCount:   w.tokenCount,
		Section:      section,
		Metadata:     metadata,
	}
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
