package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/caseworks/directory-cli/internal/db"
	"github.com/caseworks/directory-cli/internal/model"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres connects to the given database URL.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, eris.New("store: postgres database_url not configured")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "store: connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping postgres")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
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
	latitude         DOUBLE PRECISION,
	longitude        DOUBLE PRECISION,
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
	latitude  DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	city      TEXT,
	county    TEXT
);

CREATE INDEX IF NOT EXISTS idx_resources_assist_type ON resources (assist_type);
CREATE INDEX IF NOT EXISTS idx_resources_status ON resources (status);
`

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "store: postgres migrate")
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) listResourcesSQL() string {
	return fmt.Sprintf("SELECT %s FROM resources ORDER BY id", strings.Join(resourceColumns, ", "))
}

// ListResources returns the full record set in stable id order.
func (s *PostgresStore) ListResources(ctx context.Context) ([]model.Resource, error) {
	rows, err := s.pool.Query(ctx, s.listResourcesSQL())
	if err != nil {
		return nil, eris.Wrap(err, "store: list resources")
	}
	defer rows.Close()

	var out []model.Resource
	for rows.Next() {
		var row resourceRow
		if err := rows.Scan(row.dests()...); err != nil {
			return nil, eris.Wrap(err, "store: scan resource")
		}
		out = append(out, row.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate resources")
	}
	return out, nil
}

// ListAssistanceTypes returns the stored type table.
func (s *PostgresStore) ListAssistanceTypes(ctx context.Context) ([]model.AssistanceType, error) {
	rows, err := s.pool.Query(ctx, `SELECT code, name, COALESCE(type_group, ''), COALESCE(icon, '') FROM assistance_types ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list assistance types")
	}
	defer rows.Close()

	var out []model.AssistanceType
	for rows.Next() {
		var at model.AssistanceType
		if err := rows.Scan(&at.Code, &at.Name, &at.Group, &at.Icon); err != nil {
			return nil, eris.Wrap(err, "store: scan assistance type")
		}
		out = append(out, at)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate assistance types")
	}
	return out, nil
}

// ListZipCentroids returns every zip centroid.
func (s *PostgresStore) ListZipCentroids(ctx context.Context) ([]model.ZipCentroid, error) {
	rows, err := s.pool.Query(ctx, `SELECT zip, latitude, longitude, COALESCE(city, ''), COALESCE(county, '') FROM zip_centroids ORDER BY zip`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list zip centroids")
	}
	defer rows.Close()

	var out []model.ZipCentroid
	for rows.Next() {
		var zc model.ZipCentroid
		if err := rows.Scan(&zc.Zip, &zc.Latitude, &zc.Longitude, &zc.City, &zc.County); err != nil {
			return nil, eris.Wrap(err, "store: scan zip centroid")
		}
		out = append(out, zc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate zip centroids")
	}
	return out, nil
}

// GetZipCentroid resolves one zip; nil when absent.
func (s *PostgresStore) GetZipCentroid(ctx context.Context, zip string) (*model.ZipCentroid, error) {
	var zc model.ZipCentroid
	err := s.pool.QueryRow(ctx,
		`SELECT zip, latitude, longitude, COALESCE(city, ''), COALESCE(county, '') FROM zip_centroids WHERE zip = $1`,
		zip,
	).Scan(&zc.Zip, &zc.Latitude, &zc.Longitude, &zc.City, &zc.County)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "store: get zip centroid")
	}
	return &zc, nil
}

func placeholders(n, offset int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", offset+i+1)
	}
	return strings.Join(parts, ", ")
}

// UpsertResources inserts or replaces records by id in one transaction.
func (s *PostgresStore) UpsertResources(ctx context.Context, resources []model.Resource) (int64, error) {
	if len(resources) == 0 {
		return 0, nil
	}

	updates := make([]string, 0, len(resourceColumns)-1)
	for _, col := range resourceColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	sql := fmt.Sprintf(
		"INSERT INTO resources (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		strings.Join(resourceColumns, ", "),
		placeholders(len(resourceColumns), 0),
		strings.Join(updates, ", "),
	)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "store: upsert resources begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var n int64
	for _, r := range resources {
		if _, err := tx.Exec(ctx, sql, resourceArgs(r)...); err != nil {
			return 0, eris.Wrapf(err, "store: upsert resource %s", r.ID)
		}
		n++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "store: upsert resources commit")
	}
	return n, nil
}

// UpsertAssistanceTypes inserts or replaces type table entries.
func (s *PostgresStore) UpsertAssistanceTypes(ctx context.Context, types []model.AssistanceType) (int64, error) {
	if len(types) == 0 {
		return 0, nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "store: upsert types begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var n int64
	for _, at := range types {
		_, err := tx.Exec(ctx, `
			INSERT INTO assistance_types (code, name, type_group, icon) VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, type_group = EXCLUDED.type_group, icon = EXCLUDED.icon`,
			at.Code, at.Name, nullable(at.Group), nullable(at.Icon),
		)
		if err != nil {
			return 0, eris.Wrapf(err, "store: upsert type %s", at.Code)
		}
		n++
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "store: upsert types commit")
	}
	return n, nil
}

// UpsertZipCentroids bulk-merges centroids through a temp table; centroid
// imports run to tens of thousands of rows, so this goes through COPY.
func (s *PostgresStore) UpsertZipCentroids(ctx context.Context, centroids []model.ZipCentroid) (int64, error) {
	if len(centroids) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(centroids))
	for i, zc := range centroids {
		rows[i] = []any{zc.Zip, zc.Latitude, zc.Longitude, nullable(zc.City), nullable(zc.County)}
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "zip_centroids",
		Columns:      []string{"zip", "latitude", "longitude", "city", "county"},
		ConflictKeys: []string{"zip"},
	}, rows)
}
