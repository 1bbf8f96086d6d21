package parser

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tags that survive sanitization. Headings are collapsed to h2 and links
// are unwrapped to their text, so neither appears here.
var allowedTags = map[string]bool{
	"p": true, "br": true,
	"em": true, "strong": true, "b": true, "i": true, "s": true, "u": true,
	"sub": true, "sup": true,
	"h2": true, "blockquote": true,
	"ul": true, "ol": true, "li": true,
	"img": true,
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Sanitize rewrites untrusted HTML into the reader's whitelist, wrapped in
// <article>. Used for chapter content that arrives from outside the parser.
func Sanitize(fragment string) string {
	return sanitizeFragment(fragment)
}

// sanitizeFragment parses untrusted HTML and rewrites it into the small
// whitelist the reader renders: no scripts, styles, event handlers or
// external references. Images survive only as inlined data: URLs. The
// result is wrapped in <article>.
func sanitizeFragment(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		// Unparseable input degrades to escaped text.
		return "<article><p>" + html.EscapeString(fragment) + "</p></article>"
	}

	var sb strings.Builder
	sb.WriteString("<article>")
	for _, n := range nodes {
		writeSanitized(&sb, n)
	}
	sb.WriteString("</article>")
	return dropEmptyParagraphs(sb.String())
}

func writeSanitized(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)

		switch {
		case tag == "script" || tag == "style" || tag == "iframe" || tag == "object":
			// Dropped with their contents.
			return
		case tag == "a":
			// Links are unwrapped; only the text survives.
			writeChildren(sb, n)
			return
		case headingTags[tag]:
			sb.WriteString("<h2>")
			writeChildren(sb, n)
			sb.WriteString("</h2>")
			return
		case tag == "img":
			if src, ok := safeImageSrc(n); ok {
				sb.WriteString(`<img src="` + html.EscapeString(src) + `"`)
				if alt := attrValue(n, "alt"); alt != "" {
					sb.WriteString(` alt="` + html.EscapeString(alt) + `"`)
				}
				sb.WriteString("/>")
			}
			return
		case tag == "br":
			sb.WriteString("<br/>")
			return
		case allowedTags[tag]:
			sb.WriteString("<" + tag + ">")
			writeChildren(sb, n)
			sb.WriteString("</" + tag + ">")
			return
		default:
			// Unknown wrapper tags are unwrapped, keeping their content.
			writeChildren(sb, n)
			return
		}
	default:
		writeChildren(sb, n)
	}
}

func writeChildren(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeSanitized(sb, c)
	}
}

// safeImageSrc accepts only inlined raster data:image/* sources. SVG can
// carry script, so it is excluded.
func safeImageSrc(n *html.Node) (string, bool) {
	src := strings.TrimSpace(attrValue(n, "src"))
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "data:image/") && !strings.HasPrefix(lower, "data:image/svg") {
		return src, true
	}
	return "", false
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// dropEmptyParagraphs removes paragraphs that contain only whitespace.
func dropEmptyParagraphs(s string) string {
	for {
		next := emptyParaRe(s)
		if next == s {
			return next
		}
		s = next
	}
}

func emptyParaRe(s string) string {
	const openTag, closeTag = "<p>", "</p>"
	var sb strings.Builder
	for {
		i := strings.Index(s, openTag)
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		j := strings.Index(s[i:], closeTag)
		if j < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		inner := s[i+len(openTag) : i+j]
		if strings.TrimSpace(stripTags(inner)) == "" && !strings.Contains(inner, "<img") {
			sb.WriteString(s[:i])
		} else {
			sb.WriteString(s[:i+j+len(closeTag)])
		}
		s = s[i+j+len(closeTag):]
	}
}

func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// paragraphHTML escapes text and wraps it in <p>.
func paragraphHTML(text string) string {
	return "<p>" + html.EscapeString(strings.TrimSpace(text)) + "</p>"
}

// paragraphLinesHTML escapes each line and joins them with <br/> inside <p>.
func paragraphLinesHTML(lines []string) string {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = html.EscapeString(line)
	}
	return "<p>" + strings.Join(escaped, "<br/>") + "</p>"
}

// articleOf joins pre-built inner HTML into an <article> wrapper.
func articleOf(inner ...string) string {
	return "<article>" + strings.Join(inner, "") + "</article>"
}
