// Package parser turns uploaded book files (TXT, EPUB, FB2, DOCX, DOC)
// into sanitized chapter HTML.
package parser

import (
	"fmt"
	"path"
	"strings"

	"github.com/readwellapp/readwell-server/internal/errors"
)

// Chapter is one parsed chapter: a title and a sanitized HTML fragment
// wrapped in <article>.
type Chapter struct {
	Title string
	HTML  string
}

// Book is the result of parsing an uploaded file.
type Book struct {
	Title    string
	Author   string
	Chapters []Chapter
}

// Parse dispatches on the file extension. The returned book always has at
// least one chapter.
func Parse(filename string, data []byte) (*Book, error) {
	if len(data) == 0 {
		return nil, errors.Validation("uploaded file is empty")
	}

	ext := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	var (
		book *Book
		err  error
	)
	switch ext {
	case ".txt":
		book, err = parseTXT(base, data)
	case ".epub":
		book, err = parseEPUB(base, data)
	case ".fb2":
		book, err = parseFB2(base, data)
	case ".docx":
		book, err = parseDOCX(base, data)
	case ".doc":
		book, err = parseDOC(base, data)
	default:
		return nil, errors.Validation(fmt.Sprintf("unsupported book format %q", ext))
	}
	if err != nil {
		return nil, err
	}

	if book.Title == "" {
		book.Title = base
	}
	if len(book.Chapters) == 0 {
		return nil, errors.Validation("no readable content found in file")
	}
	for i := range book.Chapters {
		if book.Chapters[i].Title == "" {
			book.Chapters[i].Title = fmt.Sprintf("Chapter %d", i+1)
		}
	}
	return book, nil
}
