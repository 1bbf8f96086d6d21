package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"path"
	"strings"

	"github.com/readwellapp/readwell-server/internal/errors"
	"golang.org/x/net/html"
)

// WordprocessingML structures, limited to paragraphs, runs and drawings.

type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Props struct {
		Bold   *struct{} `xml:"b"`
		Italic *struct{} `xml:"i"`
		Strike *struct{} `xml:"strike"`
	} `xml:"rPr"`
	Texts  []string `xml:"t"`
	Breaks []struct{} `xml:"br"`
	Drawings []struct {
		Blips []struct {
			Embed string `xml:"embed,attr"`
		} `xml:"inline>graphic>graphicData>pic>blipFill>blip"`
	} `xml:"drawing"`
}

type docxRels struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// parseDOCX reads word/document.xml, carries run formatting into the
// reader's HTML, splits chapters on Heading 1-3 styles, and inlines
// word/media images via the relationships part.
func parseDOCX(name string, data []byte) (*Book, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Validation("file is not a valid DOCX archive")
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	docXML, err := readZipFile(files, "word/document.xml")
	if err != nil {
		return nil, errors.Validation("DOCX is missing word/document.xml")
	}
	var doc docxDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return nil, errors.Validation("DOCX document.xml is malformed")
	}

	media := loadDocxMedia(files)

	book := &Book{Title: name}

	var (
		title string
		buf   strings.Builder
	)
	flush := func() {
		fragment := buf.String()
		buf.Reset()
		if strings.TrimSpace(stripTags(fragment)) == "" && !strings.Contains(fragment, "<img") {
			return
		}
		book.Chapters = append(book.Chapters, Chapter{Title: title, HTML: sanitizeFragment(fragment)})
	}

	for _, p := range doc.Body.Paragraphs {
		if level := headingLevel(p.Props.Style.Val); level > 0 && level <= 3 {
			flush()
			title = strings.TrimSpace(paragraphText(p))
			continue
		}
		buf.WriteString(renderDocxParagraph(p, media))
	}
	flush()

	return book, nil
}

// headingLevel extracts N from style names like "Heading1" or "heading 2".
func headingLevel(style string) int {
	lower := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	rest, ok := strings.CutPrefix(lower, "heading")
	if !ok || len(rest) != 1 {
		return 0
	}
	if rest[0] < '1' || rest[0] > '9' {
		return 0
	}
	return int(rest[0] - '0')
}

func paragraphText(p docxParagraph) string {
	var sb strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Texts {
			sb.WriteString(t)
		}
	}
	return sb.String()
}

func renderDocxParagraph(p docxParagraph, media map[string]string) string {
	var sb strings.Builder
	sb.WriteString("<p>")
	for _, r := range p.Runs {
		var open, closing string
		if r.Props.Bold != nil {
			open += "<strong>"
			closing = "</strong>" + closing
		}
		if r.Props.Italic != nil {
			open += "<em>"
			closing = "</em>" + closing
		}
		if r.Props.Strike != nil {
			open += "<s>"
			closing = "</s>" + closing
		}

		for _, t := range r.Texts {
			sb.WriteString(open)
			sb.WriteString(html.EscapeString(t))
			sb.WriteString(closing)
		}
		for range r.Breaks {
			sb.WriteString("<br/>")
		}
		for _, d := range r.Drawings {
			for _, blip := range d.Blips {
				if url, ok := media[blip.Embed]; ok {
					sb.WriteString(`<img src="` + url + `"/>`)
				}
			}
		}
	}
	sb.WriteString("</p>")
	return sb.String()
}

// loadDocxMedia maps relationship IDs to inlined data: URLs for every
// image under word/media.
func loadDocxMedia(files map[string]*zip.File) map[string]string {
	relsXML, err := readZipFile(files, "word/_rels/document.xml.rels")
	if err != nil {
		return nil
	}
	var rels docxRels
	if err := xml.Unmarshal(relsXML, &rels); err != nil {
		return nil
	}

	media := make(map[string]string)
	for _, rel := range rels.Relationships {
		target := strings.TrimPrefix(rel.Target, "/")
		if !strings.Contains(target, "media/") {
			continue
		}
		imgData, err := readZipFile(files, path.Join("word", target))
		if err != nil {
			continue
		}
		media[rel.ID] = dataURL(mimeForPath(target), imgData)
	}
	return media
}
