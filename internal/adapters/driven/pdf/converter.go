// Package pdf converts PDF files to markdown-flavoured text for ingestion.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/harborlight/docq/internal/core/domain"
	"github.com/harborlight/docq/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// numberedHeading matches section numbering like "3" or "4.2.1" at the
// start of a line, the usual structure of technical manuals.
var numberedHeading = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(\S.*)$`)

// maxHeadingLen is the longest line still considered a heading candidate.
const maxHeadingLen = 80

// Converter extracts text from PDF files and promotes section titles to
// markdown headings so the section-aware chunking strategy has
// boundaries to work with.
type Converter struct{}

// NewConverter creates a new PDF converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert reads the PDF at path and returns its content as
// markdown-flavoured text. Password-protected files return
// domain.ErrPasswordProtected; anything else unreadable returns
// domain.ErrUnreadablePDF.
func (c *Converter) Convert(ctx context.Context, path string) (content string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			content = ""
			err = fmt.Errorf("%w: %s: %v", domain.ErrUnreadablePDF, path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", fmt.Errorf("%w: %s", domain.ErrPasswordProtected, path)
		}
		return "", fmt.Errorf("%w: %s: %v", domain.ErrUnreadablePDF, path, err)
	}
	defer f.Close()

	var out strings.Builder
	fonts := make(map[string]*pdf.Font)

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("%w: %s: page %d: %v", domain.ErrUnreadablePDF, path, pageNum, err)
		}

		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			out.WriteString(markdownLine(line))
			out.WriteString("\n")
		}
		out.WriteString("\n")
	}

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", fmt.Errorf("%w: %s: no extractable text", domain.ErrUnreadablePDF, path)
	}
	return result, nil
}

// markdownLine promotes likely section titles to markdown headings and
// returns other lines unchanged.
func markdownLine(line string) string {
	if len(line) > maxHeadingLen || strings.HasSuffix(line, ".") {
		return line
	}

	if m := numberedHeading.FindStringSubmatch(line); m != nil && strings.IndexFunc(m[2], isLetter) >= 0 {
		// "4.2 Response Codes" becomes a level-3 heading.
		level := strings.Count(m[1], ".") + 2
		if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + line
	}

	// Short all-caps lines are chapter titles in most manuals.
	if line == strings.ToUpper(line) && strings.IndexFunc(line, isLetter) >= 0 {
		return "## " + line
	}
	return line
}

func isLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
