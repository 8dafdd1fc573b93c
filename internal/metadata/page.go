package metadata

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// page is the flattened view of a parsed document: everything the
// extractor selects from, collected in a single walk.
type page struct {
	meta       map[string]string // meta property/name -> first non-empty content
	links      map[string]string // lowercased link rel -> first href
	title      string            // first <title> element text
	paragraphs []string          // text of the leading <p> elements
}

// maxParagraphs bounds how many body paragraphs are collected for the
// description heuristic.
const maxParagraphs = 3

func parsePage(body []byte) (*page, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	p := &page{
		meta:  make(map[string]string),
		links: make(map[string]string),
	}
	p.walk(doc)
	return p, nil
}

func (p *page) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "meta":
			p.collectMeta(n)
		case "link":
			p.collectLink(n)
		case "title":
			if p.title == "" {
				p.title = collapseSpace(nodeText(n))
			}
		case "p":
			if len(p.paragraphs) < maxParagraphs {
				p.paragraphs = append(p.paragraphs, collapseSpace(nodeText(n)))
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *page) collectMeta(n *html.Node) {
	content := strings.TrimSpace(attr(n, "content"))
	if content == "" {
		return
	}
	for _, key := range []string{attr(n, "property"), attr(n, "name")} {
		if key == "" {
			continue
		}
		if _, seen := p.meta[key]; !seen {
			p.meta[key] = content
		}
	}
}

func (p *page) collectLink(n *html.Node) {
	rel := strings.ToLower(strings.TrimSpace(attr(n, "rel")))
	href := strings.TrimSpace(attr(n, "href"))
	if rel == "" || href == "" {
		return
	}
	if _, seen := p.links[rel]; !seen {
		p.links[rel] = href
	}
}

// metaFirst returns the first non-empty meta content among keys, in
// preference order.
func (p *page) metaFirst(keys ...string) string {
	for _, key := range keys {
		if v := p.meta[key]; v != "" {
			return v
		}
	}
	return ""
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates all text descendants of n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
