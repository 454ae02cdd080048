package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestGetText(t *testing.T) {
	doc := parse(t, `<p> a <b>bold</b>
 tail</p>`)
	require.Equal(t, " a bold\n tail", GetText(doc.Find("p").Nodes[0]))
	require.Equal(t, "", GetText(nil))
}

func TestOuterHTML(t *testing.T) {
	doc := parse(t, `<div><table class="x"><tr><td>1</td></tr></table></div>`)
	out := OuterHTML(doc.Find("table"))
	require.True(t, strings.HasPrefix(out, `<table class="x">`))
	require.Contains(t, out, "<td>1</td>")

	require.Equal(t, "", OuterHTML(doc.Find("section")))
}

func TestAnchorTexts(t *testing.T) {
	doc := parse(t, `<table><tr>
		<td><a href="/wiki/France"> France
		</a></td>
		<td><a href="#cite">[n 1]</a></td>
	</tr></table>`)

	texts := AnchorTexts(context.Background(), doc.Find("td").Find("a"))
	require.Equal(t, []string{" France\n\t\t", "[n 1]"}, texts)

	require.Empty(t, AnchorTexts(context.Background(), doc.Find("span")))
}

func TestNormalizeText(t *testing.T) {
	require.Equal(t, "United States", NormalizeText("\n United   States\t"))
	require.Equal(t, "ab", NormalizeText("a\u200bb"))
}
