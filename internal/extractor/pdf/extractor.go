// Package pdf extracts plain text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
	"github.com/custodia-labs/lexmap/internal/logger"
)

// maxTitleLength is the longest title, in runes.
const maxTitleLength = 100

// Verify interface compliance.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor decodes PDF bytes into text. Each page is read row by row;
// rows on a page are joined with single spaces and pages with newlines.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text of every page in order.
// Malformed, encrypted and empty documents fail with domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty document", domain.ErrExtraction)
	}

	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("%w: document has no pages", domain.ErrExtraction)
	}
	logger.Debug("pdf: %d pages", numPages)

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", domain.ErrExtraction, i, err)
		}

		items := make([]string, 0, len(rows))
		for _, row := range rows {
			var sb strings.Builder
			for _, t := range row.Content {
				sb.WriteString(t.S)
			}
			items = append(items, sb.String())
		}
		pages = append(pages, joinItems(items))
	}

	return joinPages(pages), nil
}

// joinItems joins the text items of one page with single spaces.
func joinItems(items []string) string {
	return strings.Join(items, " ")
}

// joinPages joins page texts with newlines.
func joinPages(pages []string) string {
	return strings.Join(pages, "\n")
}

// ExtractTitle derives a document title from the first non-empty line.
// A page of extracted text is a single line, so a long line is cut to its
// leading upper-case heading, or else to whole words within
// maxTitleLength runes. Without text the file name is used.
func ExtractTitle(text, name string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= maxTitleLength {
			return line
		}
		if h := heading(line); h != "" {
			return truncateWords(h, maxTitleLength)
		}
		return truncateWords(line, maxTitleLength)
	}

	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return base
}

// heading returns the leading run of upper-case words, such as
// "MASTER SERVICES AGREEMENT" before the body text. A single word is not
// enough to tell a heading from a sentence.
func heading(line string) string {
	words := strings.Fields(line)
	n := 0
	for _, w := range words {
		if !isUpperWord(w) {
			break
		}
		n++
	}
	if n < 2 {
		return ""
	}
	return strings.Join(words[:n], " ")
}

func isUpperWord(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// truncateWords cuts s to at most limit runes at a word boundary.
func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
