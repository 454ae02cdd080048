package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gdpetl/internal/etlerr"
	"gdpetl/internal/gdp"
	"gdpetl/internal/telemetry"
	"gdpetl/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const (
	report_table_locate = "table.locate"
	report_rows_parse   = "rows.parse"
)

// DefaultMarker appears in the caption of the nominal GDP table.
const DefaultMarker = "GDP (USD million) by country"

// valueCell is the zero-based index of the data cell holding the GDP value.
const valueCell = 2

var ErrTableNotFound = errors.New("no table contains the marker")

// FindTable returns the first table, in document order, whose markup
// contains marker. It returns nil if there is none.
func FindTable(doc *goquery.Selection, marker string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if strings.Contains(htmlutil.OuterHTML(table), marker) {
			found = table
			return false
		}
		return true
	})
	return found
}

// ParseRows turns the rows of table into records in millions.
//
// A row is kept only if one of its data cells contains a link, the text of
// the first link is the country. The value is read from the third data cell
// with ParseNumericOrDefault, rows without a third cell get 0.
func ParseRows(ctx context.Context, table *goquery.Selection, tel telemetry.API) gdp.Dataset {
	ctx, span := tracer.Start(ctx, "ParseRows")
	defer span.End()

	dataset := gdp.Dataset{Unit: gdp.Millions}
	skipped := 0
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		anchors := htmlutil.AnchorTexts(ctx, cells.Find("a"))

		country := ""
		if len(anchors) > 0 {
			country = anchors[0]
		}
		if country == "" {
			skipped++
			return
		}

		value := 0.0
		if cells.Length() > valueCell {
			raw := htmlutil.GetText(cells.Get(valueCell))
			value = ParseNumericOrDefault(raw, 0)
			if value == 0 {
				tel.ReportDebug("value defaulted to zero", i, country, raw)
			}
		}

		dataset.Records = append(dataset.Records, gdp.Record{
			Country: country,
			Value:   value,
		})
	})

	span.SetAttributes(
		attribute.Int("records", dataset.Len()),
		attribute.Int("skipped", skipped),
	)
	tel.ReportCount(report_rows_parse, int64(dataset.Len()))
	return dataset
}

// ExtractTable parses body, locates the table containing marker and parses
// its rows.
func ExtractTable(ctx context.Context, body string, marker string, tel telemetry.API) (gdp.Dataset, error) {
	ctx, span := tracer.Start(ctx, "ExtractTable")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		err = fmt.Errorf("parse html: %w", err)
		tel.ReportBroken(report_table_locate, err)
		return gdp.Dataset{}, etlerr.New(etlerr.StageExtract, etlerr.KindParse, err)
	}

	table := FindTable(doc.Selection, marker)
	if table == nil {
		err = fmt.Errorf("%w: %q", ErrTableNotFound, marker)
		tel.ReportBroken(report_table_locate, err)
		return gdp.Dataset{}, etlerr.New(etlerr.StageExtract, etlerr.KindTableNotFound, err)
	}
	tel.ReportDebug("located table", marker)

	return ParseRows(ctx, table, tel), nil
}

// Extractor fetches the page and extracts the GDP table from it.
type Extractor struct {
	Fetcher Fetcher
	Marker  string
	Tel     telemetry.API
}

func (e Extractor) Extract(ctx context.Context, link string) (gdp.Dataset, error) {
	body, err := e.Fetcher.Fetch(ctx, link)
	if err != nil {
		return gdp.Dataset{}, err
	}
	marker := e.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	return ExtractTable(ctx, body, marker, e.Tel)
}
