// Package caption turns item description fragments into wrapped
// terminal lines for the info overlay. Descriptions come from the
// store as small HTML fragments (uploaders paste from event pages),
// so the renderer handles markup but stays paragraph-oriented.
package caption

import (
	"html"
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

// Lines renders a description fragment into lines wrapped to width.
// Broken markup degrades to the unescaped raw text rather than an
// empty overlay.
func Lines(raw string, width int) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}

	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}
	body := findBody(doc)
	if body == nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}

	paragraphs := collectParagraphs(body)
	out := make([]string, 0, len(paragraphs)*2)
	for i, p := range paragraphs {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, wrapText(p, width)...)
	}
	return out
}

// PlainText flattens a description fragment to a single line, for the
// share sheet and log fields.
func PlainText(raw string) string {
	paragraphs := Lines(raw, 1<<20)
	fields := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p != "" {
			fields = append(fields, p)
		}
	}
	return strings.Join(fields, " ")
}

// Clamp caps the overlay at maxLines, marking the cut with an ellipsis.
func Clamp(lines []string, maxLines int) []string {
	if maxLines < 1 || len(lines) <= maxLines {
		return lines
	}
	out := append([]string(nil), lines[:maxLines]...)
	last := out[maxLines-1]
	if utf8.RuneCountInString(last) > 1 {
		runes := []rune(last)
		last = string(runes[:len(runes)-1])
	}
	out[maxLines-1] = last + "…"
	return out
}

// Block-level tags that force a paragraph break; everything else is
// treated as inline text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
	"blockquote": true, "ul": true, "ol": true,
}

func collectParagraphs(body *nethtml.Node) []string {
	var paragraphs []string
	var current strings.Builder

	flush := func() {
		text := collapseSpace(current.String())
		current.Reset()
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	var walk func(node *nethtml.Node)
	walk = func(node *nethtml.Node) {
		switch node.Type {
		case nethtml.TextNode:
			current.WriteString(node.Data)
		case nethtml.ElementNode:
			tag := strings.ToLower(node.Data)
			if blockTags[tag] {
				flush()
			}
			if tag == "li" {
				current.WriteString("• ")
			}
			for child := node.FirstChild; child != nil; child = child.NextSibling {
				walk(child)
			}
			if tag == "a" {
				if href := attr(node, "href"); href != "" && !strings.HasPrefix(href, "#") {
					current.WriteString(" (" + href + ")")
				}
			}
			if blockTags[tag] {
				flush()
			}
		default:
			for child := node.FirstChild; child != nil; child = child.NextSibling {
				walk(child)
			}
		}
	}
	walk(body)
	flush()
	return paragraphs
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func findBody(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBody(child); found != nil {
			return found
		}
	}
	return nil
}

func attr(node *nethtml.Node, name string) string {
	for _, a := range node.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	out := make([]string, 0, 4)
	line := ""
	for _, word := range words {
		for utf8.RuneCountInString(word) > width {
			if line != "" {
				out = append(out, line)
				line = ""
			}
			runes := []rune(word)
			out = append(out, string(runes[:width]))
			word = string(runes[width:])
		}
		if line == "" {
			line = word
			continue
		}
		if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width {
			line += " " + word
			continue
		}
		out = append(out, line)
		line = word
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
