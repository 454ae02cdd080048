package htmlutil

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("gdpetl.lib.htmlutil")

// GetText concatenates every text node under node, exactly as it appears in the
// document (no trimming or whitespace folding).
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// OuterHTML renders the first node of the selection back to markup,
// it returns "" if the selection is empty or fails to render.
func OuterHTML(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	out, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return out
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeText removes non-printable characters, trims and collapses
// inner runs of whitespace.
func NormalizeText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// AnchorTexts returns the raw text of every <a> element in sel, in
// selection order. Each anchor is recorded as a span event with its
// normalized text and href.
func AnchorTexts(ctx context.Context, sel *goquery.Selection) []string {
	_, span := tracer.Start(ctx, "AnchorTexts")
	defer span.End()

	texts := make([]string, 0, sel.Length())
	for _, n := range sel.Nodes {
		text := GetText(n)
		texts = append(texts, text)

		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", NormalizeText(text)),
			attribute.String("href", href),
		))
	}
	return texts
}
