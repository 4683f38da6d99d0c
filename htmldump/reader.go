// Package htmldump parses positioned-span HTML dumps into raw fragments.
//
// The rendering-side extractor emits one absolutely positioned span per text
// fragment inside a page container:
//
//	<div class="page" style="width: 612px; height: 792px" data-scale="1">
//	  <span style="left: 72px; top: 100px; width: 218px; height: 12px;
//	               font-family: Times; font-size: 12px">Some text</span>
//	  ...
//	</div>
//
// Parsing produces a fragment.Dump ready for snapshot building. Geometry
// comes from the inline style of each span; spans without positive width and
// height are kept here and filtered later by the snapshot builder.
package htmldump

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/model"
)

// Open parses a positioned-span dump file.
func Open(filename string) (*fragment.Dump, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses a positioned-span dump from an io.Reader.
func OpenReader(r io.Reader) (*fragment.Dump, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	page := findPage(doc)
	if page == nil {
		return nil, fmt.Errorf("no page container in dump")
	}

	dump := &fragment.Dump{
		Page:  pageRect(page),
		Scale: pageScale(page),
	}
	collectSpans(page, &dump.Fragments)

	return dump, nil
}

// findPage locates the page container: the first element carrying the "page"
// class, falling back to the body element.
func findPage(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, "page") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findPage(c); found != nil {
			return found
		}
	}
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	return nil
}

// pageRect reads the container's width and height styles into a rectangle
// anchored at the origin.
func pageRect(n *html.Node) model.Rect {
	style := parseStyle(attrValue(n, "style"))
	return model.NewRect(0, 0, parsePx(style["width"]), parsePx(style["height"]))
}

// pageScale reads the data-scale attribute, defaulting to 1.
func pageScale(n *html.Node) float64 {
	if v := attrValue(n, "data-scale"); v != "" {
		if scale, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && scale > 0 {
			return scale
		}
	}
	return 1
}

// collectSpans walks the subtree appending one raw fragment per span.
func collectSpans(n *html.Node, out *[]fragment.RawFragment) {
	if n.Type == html.ElementNode && n.Data == "span" {
		*out = append(*out, spanFragment(n))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectSpans(c, out)
	}
}

// spanFragment converts one positioned span into a raw fragment.
func spanFragment(n *html.Node) fragment.RawFragment {
	style := parseStyle(attrValue(n, "style"))

	left := parsePx(style["left"])
	top := parsePx(style["top"])

	return fragment.RawFragment{
		Rect:       model.NewRect(left, top, left+parsePx(style["width"]), top+parsePx(style["height"])),
		Text:       getTextContent(n),
		FontFamily: unquoteFamily(style["font-family"]),
		FontSizePx: parsePx(style["font-size"]),
		FontWeight: style["font-weight"],
		FontStyle:  style["font-style"],
		Color:      style["color"],
	}
}

// parseStyle splits an inline style declaration into a property map. Keys are
// lowercased; malformed declarations are skipped.
func parseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		props[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return props
}

// parsePx parses a CSS pixel length ("12px" or a bare number). Anything else
// yields 0.
func parsePx(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// unquoteFamily strips quotes from a font-family value and keeps only the
// first family of a fallback list.
func unquoteFamily(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.Trim(strings.TrimSpace(v), `"'`)
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// hasClass reports whether the element's class list contains the name.
func hasClass(n *html.Node, name string) bool {
	for _, class := range strings.Fields(attrValue(n, "class")) {
		if class == name {
			return true
		}
	}
	return false
}

// getTextContent concatenates the text nodes of a subtree.
func getTextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
