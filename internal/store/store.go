// Package store persists the directory data set: resource records, the
// assistance-type table, and zip centroids. Two backends exist: Postgres
// for the hosted service and SQLite for local/offline use. The matching
// engine never touches the store directly; the loader materializes the full
// in-memory set first.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/caseworks/directory-cli/internal/model"
)

// Store is the persistence interface for the directory data set.
type Store interface {
	// Bulk reads used by the loader. Each returns the complete set.
	ListResources(ctx context.Context) ([]model.Resource, error)
	ListAssistanceTypes(ctx context.Context) ([]model.AssistanceType, error)
	ListZipCentroids(ctx context.Context) ([]model.ZipCentroid, error)

	// GetZipCentroid resolves a single zip to its centroid, or nil when the
	// zip is unknown.
	GetZipCentroid(ctx context.Context, zip string) (*model.ZipCentroid, error)

	// Imports.
	UpsertResources(ctx context.Context, resources []model.Resource) (int64, error)
	UpsertAssistanceTypes(ctx context.Context, types []model.AssistanceType) (int64, error)
	UpsertZipCentroids(ctx context.Context, centroids []model.ZipCentroid) (int64, error)

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures a store backend.
type Config struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "postgres" or "sqlite"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// New opens the store named by cfg.Driver.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite", "":
		path := cfg.SQLitePath
		if path == "" {
			path = "directory.db"
		}
		return NewSQLite(path)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
