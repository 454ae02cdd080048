package extract

import (
	"context"
	"fmt"

	"gdpetl/internal/etlerr"
	"gdpetl/internal/telemetry"
	"gdpetl/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const (
	report_fetcher_fetch = "fetcher.fetch"
)

var tracer = otel.Tracer("gdpetl.internal.extract")

// Fetcher downloads the page holding the GDP table. It makes a single
// attempt, there is no retry and no timeout other than the one carried by
// the context.
type Fetcher struct {
	http *resty.Client
	tel  telemetry.API
}

// NewFetcher creates a Fetcher, `output` may be nil, see restyutil.InstrumentClient.
func NewFetcher(tel telemetry.API, output restyutil.InstrumentOutput) Fetcher {
	client := resty.New()
	restyutil.InstrumentClient(client, tracer, output)
	return Fetcher{
		http: client,
		tel:  tel,
	}
}

// Fetch returns the body of the page at link. Transport failures are returned
// as etlerr.KindNetwork, a non-2xx status is only reported as a warning and
// the body is still returned.
func (f Fetcher) Fetch(ctx context.Context, link string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	res, err := f.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		err = fmt.Errorf("fetch %s: %w", link, err)
		f.tel.ReportBroken(report_fetcher_fetch, err)
		span.RecordError(err)
		return "", etlerr.New(etlerr.StageExtract, etlerr.KindNetwork, err)
	}
	if res.IsError() {
		f.tel.ReportWarning(report_fetcher_fetch, "unexpected status", res.Status(), link)
	}

	f.tel.ReportDebug("fetched page", link, len(res.Body()))
	return res.String(), nil
}
