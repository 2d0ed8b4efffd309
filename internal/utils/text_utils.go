package utils

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// TextProcessor provides utilities for normalizing email text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// HTMLToText strips markup from an HTML body and collapses whitespace
func (tp *TextProcessor) HTMLToText(html string) string {
	text := htmlTagPattern.ReplaceAllString(html, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Snippet returns a preview of the given text, truncated at maxLength runes
func (tp *TextProcessor) Snippet(text string, maxLength int) string {
	clean := whitespacePattern.ReplaceAllString(text, " ")
	clean = strings.TrimSpace(clean)

	runes := []rune(clean)
	if maxLength <= 0 || len(runes) <= maxLength {
		return clean
	}
	return string(runes[:maxLength]) + "..."
}

// DecodeCharset decodes r from the named charset into UTF-8. An empty or
// unknown charset falls back to reading the bytes as-is.
func (tp *TextProcessor) DecodeCharset(r io.Reader, charset string) (string, error) {
	if charset != "" && !strings.EqualFold(charset, "utf-8") && !strings.EqualFold(charset, "us-ascii") {
		enc, err := htmlindex.Get(charset)
		if err == nil {
			r = transform.NewReader(r, enc.NewDecoder())
		} else {
			tp.logger.Debug("Unknown charset, reading raw bytes", zap.String("charset", charset))
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text part: %w", err)
	}
	return tp.SanitizeUTF8(string(data)), nil
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				// Skip invalid UTF-8 sequences
				continue
			}
		}
		result = append(result, r)
	}

	return string(result)
}
