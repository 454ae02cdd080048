package load

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"gdpetl/internal/etlerr"
	"gdpetl/internal/gdp"
	"gdpetl/internal/telemetry"

	"github.com/stretchr/testify/require"
)

const testTable = "Countries_by_GDP"

func openTestStore(t *testing.T, path string) Store {
	store, err := OpenStore(DatabaseConfig{File: path}, telemetry.SlogAPI{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func tableNames(t *testing.T, db *sql.DB) []string {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestReplaceTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "World_Economies.db")

	store := openTestStore(t, path)
	require.NoError(t, store.ReplaceTable(ctx, testTable, sampleDataset()))
	require.NoError(t, store.Close())

	// a second run replaces the first one instead of appending to it
	latest := gdp.Dataset{
		Unit: gdp.Billions,
		Records: []gdp.Record{
			{Country: "Germany", Value: 4429.84},
			{Country: "Japan", Value: 4230.86},
		},
	}
	store = openTestStore(t, path)
	require.NoError(t, store.ReplaceTable(ctx, testTable, latest))

	require.Equal(t, []string{testTable}, tableNames(t, store.db))

	var n int64
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM "Countries_by_GDP"`).Scan(&n))
	require.Equal(t, int64(2), n)

	records, err := store.QueryAbove(ctx, Query{Table: testTable, Threshold: 0})
	require.NoError(t, err)
	require.Equal(t, latest.Records, records)
}

func TestQueryAbove(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "gdp.db"))
	require.NoError(t, store.ReplaceTable(ctx, testTable, gdp.Dataset{
		Unit: gdp.Billions,
		Records: []gdp.Record{
			{Country: "United States", Value: 26854.6},
			{Country: "Edge", Value: 100},
			{Country: "Tuvalu", Value: 0.06},
			{Country: "France", Value: 2957.88},
		},
	}))

	q := Query{Table: testTable, Threshold: 100}
	require.Equal(t, "SELECT * FROM Countries_by_GDP WHERE GDP_USD_billion > 100", q.Statement())

	records, err := store.QueryAbove(ctx, q)
	require.NoError(t, err)
	require.Equal(t, []gdp.Record{
		{Country: "United States", Value: 26854.6},
		{Country: "France", Value: 2957.88},
	}, records)
}

func TestQueryAboveMissingTable(t *testing.T) {
	tel := &telemetry.MemoryAPI{}
	store, err := OpenStore(DatabaseConfig{File: filepath.Join(t.TempDir(), "empty.db")}, tel)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.QueryAbove(context.Background(), Query{Table: testTable, Threshold: 100})
	require.Error(t, err)
	require.Equal(t, etlerr.KindDatabase, etlerr.KindOf(err))
	require.Equal(t, etlerr.StageReport, etlerr.StageOf(err))
	require.Len(t, tel.Reports(telemetry.KindBroken), 1)
}

func TestInvalidTableName(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "gdp.db"))

	err := store.ReplaceTable(ctx, `x"; DROP TABLE y; --`, sampleDataset())
	require.ErrorIs(t, err, ErrInvalidTableName)
	require.Equal(t, etlerr.KindDatabase, etlerr.KindOf(err))

	require.NoError(t, ValidateTableName("Countries_by_GDP"))
	require.Error(t, ValidateTableName("1table"))
	require.Error(t, ValidateTableName(""))
}

func TestOpenStoreErrors(t *testing.T) {
	_, err := OpenStore(DatabaseConfig{}, telemetry.SlogAPI{})
	require.Equal(t, etlerr.KindDatabase, etlerr.KindOf(err))

	_, err = OpenStore(DatabaseConfig{File: filepath.Join(t.TempDir(), "missing", "gdp.db")}, telemetry.SlogAPI{})
	require.Equal(t, etlerr.KindDatabase, etlerr.KindOf(err))
}
