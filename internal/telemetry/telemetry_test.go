package telemetry

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	mem := &MemoryAPI{}
	scoped := NewScopedAPI("extract", mem)

	scoped.ReportBroken("fetcher.fetch", errors.New("boom"))
	scoped.ReportWarning("rows.parse", "row", 3)
	scoped.ReportDebug("located table")
	scoped.ReportCount("rows.parse", 190)

	broken := mem.Reports(KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "extract: fetcher.fetch", broken[0].Id)
	require.EqualError(t, broken[0].Params[0].(error), "boom")

	warnings := mem.Reports(KindWarning)
	require.Len(t, warnings, 1)
	require.Equal(t, []any{"row", 3}, warnings[0].Params)

	require.Equal(t, "extract: located table", mem.Reports(KindDebug)[0].Id)

	counts := mem.Reports(KindCount)
	require.Len(t, counts, 1)
	require.Equal(t, int64(190), counts[0].Count)
}

func TestSlogAPI(t *testing.T) {
	var out bytes.Buffer
	api := SlogAPI{Logger: slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))}

	api.ReportBroken("store.replace", "disk full")
	require.Contains(t, out.String(), `level=ERROR msg="broken component" id=store.replace params.0="disk full"`)

	out.Reset()
	api.ReportCount("rows.parse", 3)
	require.Contains(t, out.String(), "msg=count id=rows.parse n=3")
}
