package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// parseTXT splits plain text into paragraphs on blank lines. The whole
// file becomes a single chapter named after the file.
func parseTXT(name string, data []byte) (*Book, error) {
	text := decodeText(data)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		// Single newlines inside a block become line breaks.
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimSpace(line)
		}
		paragraphs = append(paragraphs, paragraphLinesHTML(lines))
	}
	if len(paragraphs) == 0 {
		return &Book{Title: name}, nil
	}

	return &Book{
		Title: name,
		Chapters: []Chapter{
			{Title: name, HTML: articleOf(paragraphs...)},
		},
	}, nil
}

// decodeText returns the file as UTF-8, honoring BOMs and falling back to
// replacing invalid bytes.
func decodeText(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		data = data[3:]
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if decoded, err := decoder.Bytes(data); err == nil {
			return string(decoded)
		}
	}
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}
