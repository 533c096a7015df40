package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/caseworks/directory-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local and
// offline use.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "store: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS resources (
	id               TEXT PRIMARY KEY,
	organization     TEXT NOT NULL,
	parent_org       TEXT,
	assist_type      TEXT,
	status           TEXT,
	status_date      TEXT,
	status_note      TEXT,
	org_hours        TEXT,
	requirements     TEXT,
	client_zip_codes TEXT,
	county           TEXT,
	city             TEXT,
	neighborhood     TEXT,
	zip              TEXT,
	latitude         REAL,
	longitude        REAL,
	phone            TEXT,
	website          TEXT,
	map_link         TEXT
);

CREATE TABLE IF NOT EXISTS assistance_types (
	code       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	type_group TEXT,
	icon       TEXT
);

CREATE TABLE IF NOT EXISTS zip_centroids (
	zip       TEXT PRIMARY KEY,
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL,
	city      TEXT,
	county    TEXT
);

CREATE INDEX IF NOT EXISTS idx_resources_assist_type ON resources (assist_type);
CREATE INDEX IF NOT EXISTS idx_resources_status ON resources (status);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "store: sqlite migrate")
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListResources returns the full record set in stable id order.
func (s *SQLiteStore) ListResources(ctx context.Context) ([]model.Resource, error) {
	query := fmt.Sprintf("SELECT %s FROM resources ORDER BY id", strings.Join(resourceColumns, ", "))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "store: sqlite list resources")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Resource
	for rows.Next() {
		var row resourceRow
		if err := rows.Scan(row.dests()...); err != nil {
			return nil, eris.Wrap(err, "store: sqlite scan resource")
		}
		out = append(out, row.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: sqlite iterate resources")
	}
	return out, nil
}

// ListAssistanceTypes returns the stored type table.
func (s *SQLiteStore) ListAssistanceTypes(ctx context.Context) ([]model.AssistanceType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, COALESCE(type_group, ''), COALESCE(icon, '') FROM assistance_types ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "store: sqlite list assistance types")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.AssistanceType
	for rows.Next() {
		var at model.AssistanceType
		if err := rows.Scan(&at.Code, &at.Name, &at.Group, &at.Icon); err != nil {
			return nil, eris.Wrap(err, "store: sqlite scan assistance type")
		}
		out = append(out, at)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: sqlite iterate assistance types")
	}
	return out, nil
}

// ListZipCentroids returns every zip centroid.
func (s *SQLiteStore) ListZipCentroids(ctx context.Context) ([]model.ZipCentroid, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT zip, latitude, longitude, COALESCE(city, ''), COALESCE(county, '') FROM zip_centroids ORDER BY zip`)
	if err != nil {
		return nil, eris.Wrap(err, "store: sqlite list zip centroids")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.ZipCentroid
	for rows.Next() {
		var zc model.ZipCentroid
		if err := rows.Scan(&zc.Zip, &zc.Latitude, &zc.Longitude, &zc.City, &zc.County); err != nil {
			return nil, eris.Wrap(err, "store: sqlite scan zip centroid")
		}
		out = append(out, zc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: sqlite iterate zip centroids")
	}
	return out, nil
}

// GetZipCentroid resolves one zip; nil when absent.
func (s *SQLiteStore) GetZipCentroid(ctx context.Context, zip string) (*model.ZipCentroid, error) {
	var zc model.ZipCentroid
	err := s.db.QueryRowContext(ctx,
		`SELECT zip, latitude, longitude, COALESCE(city, ''), COALESCE(county, '') FROM zip_centroids WHERE zip = ?`,
		zip,
	).Scan(&zc.Zip, &zc.Latitude, &zc.Longitude, &zc.City, &zc.County)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "store: sqlite get zip centroid")
	}
	return &zc, nil
}

// UpsertResources inserts or replaces records by id in one transaction.
func (s *SQLiteStore) UpsertResources(ctx context.Context, resources []model.Resource) (int64, error) {
	if len(resources) == 0 {
		return 0, nil
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(resourceColumns)), ", ")
	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO resources (%s) VALUES (%s)",
		strings.Join(resourceColumns, ", "), marks,
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "store: sqlite upsert resources begin")
	}
	defer tx.Rollback() //nolint:errcheck

	var n int64
	for _, r := range resources {
		if _, err := tx.ExecContext(ctx, query, resourceArgs(r)...); err != nil {
			return 0, eris.Wrapf(err, "store: sqlite upsert resource %s", r.ID)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "store: sqlite upsert resources commit")
	}
	return n, nil
}

// UpsertAssistanceTypes inserts or replaces type table entries.
func (s *SQLiteStore) UpsertAssistanceTypes(ctx context.Context, types []model.AssistanceType) (int64, error) {
	if len(types) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "store: sqlite upsert types begin")
	}
	defer tx.Rollback() //nolint:errcheck

	var n int64
	for _, at := range types {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO assistance_types (code, name, type_group, icon) VALUES (?, ?, ?, ?)`,
			at.Code, at.Name, nullable(at.Group), nullable(at.Icon),
		)
		if err != nil {
			return 0, eris.Wrapf(err, "store: sqlite upsert type %s", at.Code)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "store: sqlite upsert types commit")
	}
	return n, nil
}

// UpsertZipCentroids inserts or replaces centroids.
func (s *SQLiteStore) UpsertZipCentroids(ctx context.Context, centroids []model.ZipCentroid) (int64, error) {
	if len(centroids) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "store: sqlite upsert zips begin")
	}
	defer tx.Rollback() //nolint:errcheck

	var n int64
	for _, zc := range centroids {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO zip_centroids (zip, latitude, longitude, city, county) VALUES (?, ?, ?, ?, ?)`,
			zc.Zip, zc.Latitude, zc.Longitude, nullable(zc.City), nullable(zc.County),
		)
		if err != nil {
			return 0, eris.Wrapf(err, "store: sqlite upsert zip %s", zc.Zip)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "store: sqlite upsert zips commit")
	}
	return n, nil
}
