package parser

import (
	"encoding/base64"
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/readwellapp/readwell-server/internal/errors"
)

// FictionBook (FB2) document layout, as much of it as the reader needs.

type fb2Doc struct {
	Description struct {
		TitleInfo struct {
			BookTitle string `xml:"book-title"`
			Author    struct {
				FirstName string `xml:"first-name"`
				LastName  string `xml:"last-name"`
			} `xml:"author"`
		} `xml:"title-info"`
	} `xml:"description"`
	Bodies   []fb2Body   `xml:"body"`
	Binaries []fb2Binary `xml:"binary"`
}

type fb2Body struct {
	Name     string       `xml:"name,attr"`
	Sections []fb2Section `xml:"section"`
}

type fb2Section struct {
	Title struct {
		Paragraphs []string `xml:"p"`
	} `xml:"title"`
	InnerXML string `xml:",innerxml"`
}

type fb2Binary struct {
	ID          string `xml:"id,attr"`
	ContentType string `xml:"content-type,attr"`
	Data        string `xml:",chardata"`
}

var fb2ImageRe = regexp.MustCompile(`<image[^>]*href="#([^"]+)"[^>]*/?>`)

// parseFB2 maps FB2 sections to chapters. FB2 markup is translated to the
// reader's HTML vocabulary before sanitization, and binary images are
// inlined as data: URLs.
func parseFB2(name string, data []byte) (*Book, error) {
	var doc fb2Doc
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	decoder.Strict = false
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Validation("file is not a valid FB2 document")
	}

	binaries := make(map[string]fb2Binary, len(doc.Binaries))
	for _, b := range doc.Binaries {
		binaries[b.ID] = b
	}

	author := strings.TrimSpace(strings.TrimSpace(doc.Description.TitleInfo.Author.FirstName) + " " +
		strings.TrimSpace(doc.Description.TitleInfo.Author.LastName))

	book := &Book{
		Title:  strings.TrimSpace(doc.Description.TitleInfo.BookTitle),
		Author: author,
	}

	for _, body := range doc.Bodies {
		// Notes and comments bodies are skipped.
		if body.Name != "" {
			continue
		}
		for _, section := range body.Sections {
			title := strings.TrimSpace(strings.Join(section.Title.Paragraphs, " "))
			fragment := fb2ToHTML(section.InnerXML, binaries)
			html := sanitizeFragment(fragment)
			if strings.TrimSpace(stripTags(html)) == "" && !strings.Contains(html, "<img") {
				continue
			}
			book.Chapters = append(book.Chapters, Chapter{Title: title, HTML: html})
		}
	}

	return book, nil
}

// fb2ToHTML rewrites FB2 tags into the reader's vocabulary. The section
// title block is removed since it becomes the chapter title.
func fb2ToHTML(inner string, binaries map[string]fb2Binary) string {
	// Drop the title block.
	if start := strings.Index(inner, "<title>"); start >= 0 {
		if end := strings.Index(inner, "</title>"); end > start {
			inner = inner[:start] + inner[end+len("</title>"):]
		}
	}

	replacer := strings.NewReplacer(
		"<emphasis>", "<em>", "</emphasis>", "</em>",
		"<strong>", "<strong>", "</strong>", "</strong>",
		"<strikethrough>", "<s>", "</strikethrough>", "</s>",
		"<subtitle>", "<h2>", "</subtitle>", "</h2>",
		"<empty-line/>", "<br/>",
		"<v>", "<p>", "</v>", "</p>",
		"<poem>", "<blockquote>", "</poem>", "</blockquote>",
		"<cite>", "<blockquote>", "</cite>", "</blockquote>",
	)
	inner = replacer.Replace(inner)

	return fb2ImageRe.ReplaceAllStringFunc(inner, func(m string) string {
		sub := fb2ImageRe.FindStringSubmatch(m)
		bin, ok := binaries[sub[1]]
		if !ok {
			return ""
		}
		raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(bin.Data), ""))
		if err != nil {
			return ""
		}
		mime := bin.ContentType
		if mime == "" {
			mime = "image/png"
		}
		return `<img src="` + dataURL(mime, raw) + `"/>`
	})
}
