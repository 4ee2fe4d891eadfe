package config

import (
	dbsql "database/sql"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal"
	"github.com/kennedykori/credrails-reconciler/internal/csv"
	"github.com/kennedykori/credrails-reconciler/internal/local"
	"github.com/kennedykori/credrails-reconciler/internal/mongo"
	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
	"github.com/kennedykori/credrails-reconciler/internal/s3"
	"github.com/kennedykori/credrails-reconciler/internal/sql"
)

// NewRecordSource builds the record source the config names.
func NewRecordSource(c Source, logger *zap.Logger) (internal.RecordSource, error) {
	switch c.Type {
	case "csv":
		return csv.Open(c.CSV.Path, csv.WithSourceLogger(logger))
	case "sql":
		db, err := dbsql.Open("pgx", c.SQL.ConnectionString)
		if err != nil {
			return nil, err
		}
		return sql.NewSource(db,
			sql.WithSchema(c.SQL.Schema),
			sql.WithTable(c.SQL.Table),
			sql.WithQuery(c.SQL.Query),
			sql.WithLogger(logger),
		)
	case "mongo":
		uri, err := url.Parse(c.Mongo.URI)
		if err != nil {
			return nil, err
		}
		return mongo.NewSource(uri, logger)
	}
	return nil, fmt.Errorf("unknown source type: %q", c.Type)
}

// NewRepository builds the artifact repository the config names, scoped
// to the given run. A config with no repository type returns nil; the
// run then keeps no artifacts.
func NewRepository(c Repository, runID string, logger *zap.Logger) (internal.Repository, error) {
	switch c.Type {
	case "":
		return nil, nil
	case "local":
		return local.New(c.Local.Path,
			local.WithPrefix(runID),
			local.WithLogger(logger),
		), nil
	case "s3":
		prefix := c.S3.Prefix
		if prefix == "" {
			prefix = runID
		} else {
			prefix = prefix + "/" + runID
		}
		return s3.New(
			s3.WithBucket(c.S3.Bucket),
			s3.WithRegion(c.S3.Region),
			s3.WithPrefix(prefix),
			s3.WithEndpoint(c.S3.Endpoint),
			s3.WithForcePathStyle(c.S3.ForcePathStyle),
			s3.WithLogger(logger),
		)
	}
	return nil, fmt.Errorf("unknown repository type: %q", c.Type)
}

func NewDiffer(c Differ) (reconciler.Differ, error) {
	switch c.Type {
	case "", "simple":
		return reconciler.NewSimpleDiffer(), nil
	}
	return nil, fmt.Errorf("unknown differ type: %q", c.Type)
}

// InitializeReconciler wires the configured sources and differ into a
// ready-to-drive reconciler.
func InitializeReconciler(c *Config, runID string, logger *zap.Logger) (*reconciler.Reconciler, error) {
	source, err := NewRecordSource(c.Reconciler.Source, logger.Named("source"))
	if err != nil {
		return nil, err
	}

	target, err := NewRecordSource(c.Reconciler.Target, logger.Named("target"))
	if err != nil {
		source.Close()
		return nil, err
	}

	differ, err := NewDiffer(c.Reconciler.Differ)
	if err != nil {
		source.Close()
		target.Close()
		return nil, err
	}

	return reconciler.New(source, target,
		reconciler.WithID(runID),
		reconciler.WithDiffer(differ),
		reconciler.WithLogger(logger),
	), nil
}
