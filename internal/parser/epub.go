package parser

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/readwellapp/readwell-server/internal/errors"
	"golang.org/x/net/html"
)

// EPUB container and package (OPF) documents.

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Metadata struct {
		Title   string `xml:"title"`
		Creator string `xml:"creator"`
	} `xml:"metadata"`
	Manifest struct {
		Items []epubItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type epubItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// parseEPUB walks container.xml to the OPF, reads the spine documents in
// order, inlines manifest images as data: URLs, and splits chapters on
// h1-h3 headings.
func parseEPUB(name string, data []byte) (*Book, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Validation("file is not a valid EPUB archive")
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	containerXML, err := readZipFile(files, "META-INF/container.xml")
	if err != nil {
		return nil, errors.Validation("EPUB is missing META-INF/container.xml")
	}
	var container epubContainer
	if err := xml.Unmarshal(containerXML, &container); err != nil || len(container.Rootfiles) == 0 {
		return nil, errors.Validation("EPUB container.xml is malformed")
	}

	opfPath := container.Rootfiles[0].FullPath
	opfXML, err := readZipFile(files, opfPath)
	if err != nil {
		return nil, errors.Validation("EPUB package document is missing")
	}
	var pkg epubPackage
	if err := xml.Unmarshal(opfXML, &pkg); err != nil {
		return nil, errors.Validation("EPUB package document is malformed")
	}

	opfDir := path.Dir(opfPath)
	itemsByID := make(map[string]epubItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		itemsByID[item.ID] = item
	}

	book := &Book{
		Title:  strings.TrimSpace(pkg.Metadata.Title),
		Author: strings.TrimSpace(pkg.Metadata.Creator),
	}

	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := itemsByID[ref.IDRef]
		if !ok {
			continue
		}
		docPath := resolvePath(opfDir, item.Href)
		docData, err := readZipFile(files, docPath)
		if err != nil {
			continue
		}
		chapters := splitDocument(docData, path.Dir(docPath), files)
		book.Chapters = append(book.Chapters, chapters...)
	}

	return book, nil
}

func readZipFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func resolvePath(dir, href string) string {
	href = strings.SplitN(href, "#", 2)[0]
	if dir == "." || dir == "" {
		return path.Clean(href)
	}
	return path.Clean(path.Join(dir, href))
}

// splitDocument parses one spine document, inlines images, and cuts it
// into chapters at h1-h3 boundaries. Content before the first heading
// becomes an untitled chapter.
func splitDocument(docData []byte, docDir string, files map[string]*zip.File) []Chapter {
	doc, err := html.Parse(bytes.NewReader(docData))
	if err != nil {
		return nil
	}
	body := findElement(doc, "body")
	if body == nil {
		return nil
	}
	inlineImages(body, docDir, files)

	var (
		chapters []Chapter
		title    string
		buf      strings.Builder
	)
	flush := func() {
		fragment := buf.String()
		buf.Reset()
		if strings.TrimSpace(stripTags(fragment)) == "" && !strings.Contains(fragment, "<img") {
			return
		}
		chapters = append(chapters, Chapter{Title: title, HTML: sanitizeFragment(fragment)})
	}

	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && splitHeading(c.Data) {
			flush()
			title = strings.TrimSpace(textContent(c))
		}
		html.Render(&buf, c)
	}
	flush()

	return chapters
}

// splitHeading reports whether a tag starts a new chapter.
func splitHeading(tag string) bool {
	switch strings.ToLower(tag) {
	case "h1", "h2", "h3":
		return true
	}
	return false
}

// inlineImages rewrites relative img sources into data: URLs built from
// the archive contents. Unresolvable images keep their src and are later
// dropped by the sanitizer.
func inlineImages(n *html.Node, docDir string, files map[string]*zip.File) {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "img") {
		for i, a := range n.Attr {
			if !strings.EqualFold(a.Key, "src") || strings.HasPrefix(a.Val, "data:") {
				continue
			}
			imgData, err := readZipFile(files, resolvePath(docDir, a.Val))
			if err != nil {
				continue
			}
			n.Attr[i].Val = dataURL(mimeForPath(a.Val), imgData)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inlineImages(c, docDir, files)
	}
}

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func mimeForPath(p string) string {
	switch strings.ToLower(path.Ext(strings.SplitN(p, "#", 2)[0])) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
