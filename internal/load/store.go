package load

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"

	"gdpetl/internal/etlerr"
	"gdpetl/internal/gdp"
	"gdpetl/internal/telemetry"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

const (
	report_store_open    = "store.open"
	report_store_replace = "store.replace"
	report_store_query   = "store.query"
)

var tracer = otel.Tracer("gdpetl.internal.load")

const (
	CountryColumn = "Country"
	GDPColumn     = "GDP_USD_billion"
)

// DatabaseConfig selects the database the table is written to. A local
// SQLite file is used unless Url is set, in which case Url is opened as a
// remote libsql database.
type DatabaseConfig struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config DatabaseConfig) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return openLibsql(config.Url, config.AuthToken)
	}
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}

	_, statErr := os.Stat(config.File)
	if os.IsNotExist(statErr) {
		f, err := os.Create(config.File)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func openLibsql(link, authToken string) (*sql.DB, error) {
	if authToken == "" {
		return sql.Open("libsql", link)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return nil, err
	}
	query := parsed.Query()
	query.Set("authToken", authToken)
	parsed.RawQuery = query.Encode()
	return sql.Open("libsql", parsed.String())
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var ErrInvalidTableName = errors.New("invalid table name")

// ValidateTableName only accepts plain SQL identifiers since the table name
// is interpolated into statements.
func ValidateTableName(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}
	return nil
}

// Store is an open connection to the database holding the GDP table. Callers
// must Close it.
type Store struct {
	db  *sql.DB
	tel telemetry.API
}

func OpenStore(config DatabaseConfig, tel telemetry.API) (Store, error) {
	db, err := config.OpenDB()
	if err != nil {
		tel.ReportBroken(report_store_open, err)
		return Store{}, etlerr.New(etlerr.StageLoad, etlerr.KindDatabase, fmt.Errorf("open database: %w", err))
	}
	return Store{db: db, tel: tel}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// ReplaceTable drops table, recreates it and inserts every record of the
// dataset, all in one transaction. Previous contents are discarded.
func (s Store) ReplaceTable(ctx context.Context, table string, dataset gdp.Dataset) error {
	ctx, span := tracer.Start(ctx, "ReplaceTable")
	defer span.End()
	span.SetAttributes(
		attribute.String("table", table),
		attribute.Int("records", dataset.Len()),
	)

	err := s.replaceTable(ctx, table, dataset)
	if err != nil {
		s.tel.ReportBroken(report_store_replace, err, table)
		span.RecordError(err)
		return etlerr.New(etlerr.StageLoad, etlerr.KindDatabase, err)
	}
	s.tel.ReportCount(report_store_replace, int64(dataset.Len()))
	return nil
}

func (s Store) replaceTable(ctx context.Context, table string, dataset gdp.Dataset) (err error) {
	err = ValidateTableName(table)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table))
	if err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE "%s" ("%s" TEXT, "%s" REAL)`,
		table, CountryColumn, GDPColumn,
	))
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO "%s" ("%s", "%s") VALUES (?, ?)`,
		table, CountryColumn, GDPColumn,
	))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, r := range dataset.Records {
		_, err = insert.ExecContext(ctx, r.Country, r.Value)
		if err != nil {
			return fmt.Errorf("insert %q: %w", r.Country, err)
		}
	}

	return tx.Commit()
}

// Query is the filter query run against the table after loading.
type Query struct {
	Table     string
	Threshold float64
}

func (q Query) Statement() string {
	return fmt.Sprintf(
		"SELECT * FROM %s WHERE %s > %s",
		q.Table, GDPColumn, strconv.FormatFloat(q.Threshold, 'f', -1, 64),
	)
}

// QueryAbove returns the rows of table whose GDP is strictly greater than
// q.Threshold, in table order.
func (s Store) QueryAbove(ctx context.Context, q Query) ([]gdp.Record, error) {
	ctx, span := tracer.Start(ctx, "QueryAbove")
	defer span.End()

	records, err := s.queryAbove(ctx, q)
	if err != nil {
		s.tel.ReportBroken(report_store_query, err, q.Statement())
		span.RecordError(err)
		return nil, etlerr.New(etlerr.StageReport, etlerr.KindDatabase, err)
	}
	return records, nil
}

func (s Store) queryAbove(ctx context.Context, q Query) ([]gdp.Record, error) {
	err := ValidateTableName(q.Table)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, q.Statement())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []gdp.Record
	for rows.Next() {
		var r gdp.Record
		err = rows.Scan(&r.Country, &r.Value)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
