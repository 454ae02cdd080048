package extract

import (
	"context"
	"os"
	"strings"
	"testing"

	"gdpetl/internal/etlerr"
	"gdpetl/internal/gdp"
	"gdpetl/internal/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T) string {
	contents, err := os.ReadFile("testdata/gdp_page.html")
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func parseDoc(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestFindTable(t *testing.T) {
	doc := parseDoc(t, readFixture(t))

	table := FindTable(doc.Selection, DefaultMarker)
	require.NotNil(t, table)
	require.True(t, table.HasClass("static-row-numbers"), "first matching table wins")

	// the marker is matched against markup, not only text
	table = FindTable(doc.Selection, `class="infobox"`)
	require.NotNil(t, table)
	require.True(t, table.HasClass("infobox"))

	require.Nil(t, FindTable(doc.Selection, "GDP (USD trillion) by country"))
}

func TestParseRows(t *testing.T) {
	doc := parseDoc(t, readFixture(t))
	table := FindTable(doc.Selection, DefaultMarker)
	require.NotNil(t, table)

	tel := &telemetry.MemoryAPI{}
	dataset := ParseRows(context.Background(), table, tel)

	expected := gdp.Dataset{
		Unit: gdp.Millions,
		Records: []gdp.Record{
			// trailing newline inside the cell
			{Country: "World", Value: 0},
			{Country: "United States", Value: 0},
			{Country: "France", Value: 2957880},
			{Country: "Russia", Value: 0},
			{Country: "Tuvalu", Value: 0},
			{Country: "Negative", Value: 0},
			{Country: "Decimal", Value: 0},
			{Country: "France", Value: 1234},
		},
	}
	if diff := cmp.Diff(expected, dataset); diff != "" {
		t.Fatalf("unexpected dataset (-want +got):\n%s", diff)
	}

	counts := tel.Reports(telemetry.KindCount)
	require.Len(t, counts, 1)
	require.Equal(t, int64(8), counts[0].Count)
}

func TestParseRowsSingleRow(t *testing.T) {
	doc := parseDoc(t, `<table><tr><td><a>France</a></td><td>X</td><td>2,957,880</td></tr></table>`)
	dataset := ParseRows(context.Background(), doc.Find("table"), telemetry.SlogAPI{})
	require.Equal(t, []gdp.Record{{Country: "France", Value: 2957880.0}}, dataset.Records)

	doc = parseDoc(t, `<table><tr><td><a>France</a></td><td>X</td><td>—</td></tr></table>`)
	dataset = ParseRows(context.Background(), doc.Find("table"), telemetry.SlogAPI{})
	require.Equal(t, []gdp.Record{{Country: "France", Value: 0}}, dataset.Records)
}

func TestParseRowsEmptyAnchor(t *testing.T) {
	doc := parseDoc(t, `<table>
		<tr><td><a href="#"></a><a>Second</a></td><td>X</td><td>10</td></tr>
		<tr><td><a>Kept</a></td><td>X</td><td>10</td></tr>
	</table>`)
	dataset := ParseRows(context.Background(), doc.Find("table"), telemetry.SlogAPI{})
	require.Equal(t, []gdp.Record{{Country: "Kept", Value: 10}}, dataset.Records)
}

func TestExtractTable(t *testing.T) {
	tel := &telemetry.MemoryAPI{}
	dataset, err := ExtractTable(context.Background(), readFixture(t), DefaultMarker, tel)
	require.NoError(t, err)
	require.Equal(t, 8, dataset.Len())
	require.Empty(t, tel.Reports(telemetry.KindBroken))

	_, err = ExtractTable(context.Background(), "<html><body><p>nothing</p></body></html>", DefaultMarker, tel)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTableNotFound)
	require.Equal(t, etlerr.KindTableNotFound, etlerr.KindOf(err))
	require.Len(t, tel.Reports(telemetry.KindBroken), 1)
}
