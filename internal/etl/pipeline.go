package etl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gdpetl/internal/chrono"
	"gdpetl/internal/etlerr"
	"gdpetl/internal/extract"
	"gdpetl/internal/gdp"
	"gdpetl/internal/load"
	"gdpetl/internal/progress"
	"gdpetl/internal/telemetry"
	"gdpetl/internal/transform"
	"gdpetl/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("gdpetl.internal.etl")

// Pipeline runs extract, transform and load once, in that order, followed
// by the report query.
type Pipeline struct {
	config    Config
	extractor extract.Extractor
	progress  progress.Log
	tel       telemetry.API
}

func New(config Config, tel telemetry.API, clock chrono.API) (Pipeline, error) {
	var output restyutil.InstrumentOutput
	if config.Verbose && config.HttpDumpDir != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(config.HttpDumpDir)
		if err != nil {
			return Pipeline{}, err
		}
		output = fsOutput
	}

	extractTel := telemetry.NewScopedAPI("extract", tel)
	return Pipeline{
		config: config,
		extractor: extract.Extractor{
			Fetcher: extract.NewFetcher(extractTel, output),
			Marker:  config.TableMarker,
			Tel:     extractTel,
		},
		progress: progress.NewLog(config.LogPath, clock),
		tel:      tel,
	}, nil
}

// Result is what a successful run produced.
type Result struct {
	// Dataset is the loaded dataset, in billions.
	Dataset gdp.Dataset
	Query   load.Query
	// Rows are the rows matched by Query.
	Rows []gdp.Record
}

// Run executes the job. Any failure stops the run, nothing is retried and
// sinks already written are left as they are. The returned error carries an
// etlerr kind.
func (p Pipeline) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	result, err := p.run(ctx)
	if err != nil {
		span.RecordError(err)
		logErr := p.progress.Write(fmt.Sprintf("%s: %v", progress.JobFailed, err))
		if logErr != nil {
			p.tel.ReportWarning("progress.write", logErr)
		}
		return Result{}, err
	}
	return result, nil
}

func (p Pipeline) run(ctx context.Context) (Result, error) {
	err := p.progress.Write(progress.JobStarted)
	if err != nil {
		return Result{}, err
	}

	dataset, err := p.phase(progress.ExtractStarted, progress.ExtractEnded, func() (gdp.Dataset, error) {
		return p.Extract(ctx)
	})
	if err != nil {
		return Result{}, err
	}

	dataset, err = p.phase(progress.TransformStarted, progress.TransformEnded, func() (gdp.Dataset, error) {
		err := transform.ToBillions(&dataset)
		return dataset, err
	})
	if err != nil {
		return Result{}, err
	}

	_, err = p.phase(progress.LoadStarted, progress.LoadEnded+"\n"+progress.Separator, func() (gdp.Dataset, error) {
		return dataset, p.Load(ctx, dataset)
	})
	if err != nil {
		return Result{}, err
	}

	query := load.Query{Table: p.config.TableName, Threshold: p.config.QueryThreshold}
	rows, err := p.Report(ctx, query)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Dataset: dataset,
		Query:   query,
		Rows:    rows,
	}, nil
}

func (p Pipeline) phase(started, ended string, fn func() (gdp.Dataset, error)) (gdp.Dataset, error) {
	err := p.progress.Write(started)
	if err != nil {
		return gdp.Dataset{}, err
	}
	dataset, err := fn()
	if err != nil {
		return gdp.Dataset{}, err
	}
	err = p.progress.Write(ended)
	if err != nil {
		return gdp.Dataset{}, err
	}
	return dataset, nil
}

// Extract fetches the page and parses the GDP table, values are in millions.
func (p Pipeline) Extract(ctx context.Context) (gdp.Dataset, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()
	return p.extractor.Extract(ctx, p.config.SourceURL)
}

// Load writes the dataset to the JSON file then replaces the database table.
func (p Pipeline) Load(ctx context.Context, dataset gdp.Dataset) (err error) {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	err = load.WriteJSON(p.config.JSONPath, dataset)
	if err != nil {
		p.tel.ReportBroken("load.json", err, p.config.JSONPath)
		return err
	}

	store, err := load.OpenStore(p.config.Database, telemetry.NewScopedAPI("load", p.tel))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeStore(store, etlerr.StageLoad))
	}()

	return store.ReplaceTable(ctx, p.config.TableName, dataset)
}

// Report reopens the database and runs the filter query.
func (p Pipeline) Report(ctx context.Context, query load.Query) (rows []gdp.Record, err error) {
	ctx, span := tracer.Start(ctx, "Report")
	defer span.End()

	store, err := load.OpenStore(p.config.Database, telemetry.NewScopedAPI("report", p.tel))
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, closeStore(store, etlerr.StageReport))
		if err != nil {
			rows = nil
		}
	}()

	return store.QueryAbove(ctx, query)
}

func closeStore(store io.Closer, stage etlerr.Stage) error {
	err := store.Close()
	if err != nil {
		return etlerr.New(stage, etlerr.KindDatabase, fmt.Errorf("close database: %w", err))
	}
	return nil
}
