package parser

import (
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
)

// Minimum run length for salvaged text. Shorter runs are almost always
// binary noise from the CFB container.
const docMinRunLength = 30

// parseDOC salvages readable text from legacy binary .doc files. Word 97+
// stores text as UTF-16LE inside the compound file, so any UTF-16 output
// wins; plain ASCII runs are only a fallback when UTF-16 yields nothing.
func parseDOC(name string, data []byte) (*Book, error) {
	runs := utf16Runs(data)
	if len(runs) == 0 {
		runs = asciiRuns(data)
	}

	var paragraphs []string
	for _, run := range runs {
		for _, para := range splitDocRun(run) {
			paragraphs = append(paragraphs, paragraphHTML(para))
		}
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

// utf16Runs decodes the file as UTF-16LE and keeps printable stretches.
func utf16Runs(data []byte) []string {
	if len(data) < 2 {
		return nil
	}
	decoder := xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM).NewDecoder()
	decoded, err := decoder.Bytes(data[:len(data)&^1])
	if err != nil {
		return nil
	}
	return printableRuns(string(decoded))
}

// asciiRuns keeps printable ASCII stretches of the raw bytes.
func asciiRuns(data []byte) []string {
	var (
		runs []string
		sb   strings.Builder
	)
	flushRun := func() {
		if sb.Len() >= docMinRunLength {
			runs = append(runs, sb.String())
		}
		sb.Reset()
	}
	for _, b := range data {
		if b == '\r' || b == '\n' || b == '\t' || (b >= 0x20 && b < 0x7F) {
			sb.WriteByte(b)
		} else {
			flushRun()
		}
	}
	flushRun()
	return runs
}

func printableRuns(s string) []string {
	var (
		runs []string
		sb   strings.Builder
	)
	flushRun := func() {
		if sb.Len() >= docMinRunLength {
			runs = append(runs, sb.String())
		}
		sb.Reset()
	}
	for _, r := range s {
		switch {
		case r == '\r' || r == '\n' || r == '\t':
			sb.WriteRune('\n')
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		default:
			flushRun()
		}
	}
	flushRun()
	return runs
}

// splitDocRun breaks a salvaged run into paragraphs and drops fragments
// that still look like noise.
func splitDocRun(run string) []string {
	var out []string
	for _, line := range strings.Split(run, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < docMinRunLength {
			continue
		}
		out = append(out, line)
	}
	return out
}
