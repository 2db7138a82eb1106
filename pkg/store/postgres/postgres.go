// Package postgres backs the resolver collaborators with a PostgreSQL
// metadata database, mirroring the sqlite store for deployments whose catalog
// and saved queries live in Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/querygate/querygate/pkg/paths"
	"github.com/querygate/querygate/pkg/perms"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS metadata_tables (
	id     BIGINT PRIMARY KEY,
	db_id  BIGINT NOT NULL,
	schema TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS collections (
	id   BIGINT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cards (
	id            BIGINT PRIMARY KEY,
	collection_id BIGINT REFERENCES collections(id)
);
`

// Store implements perms.Catalog, perms.CardStore and
// perms.CollectionPermissions over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against databaseURL and bootstraps the metadata
// schema.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrapping metadata schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// AddTable registers a table in the catalog.
func (s *Store) AddTable(ctx context.Context, tableID, databaseID int64, schema string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO metadata_tables (id, db_id, schema) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET db_id = $2, schema = $3`,
		tableID, databaseID, schema)
	return err
}

// AddCollection registers a collection.
func (s *Store) AddCollection(ctx context.Context, collectionID int64, name string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO collections (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = $2`,
		collectionID, name)
	return err
}

// AddCard registers a saved query. collectionID 0 places the card in the root
// collection.
func (s *Store) AddCard(ctx context.Context, cardID, collectionID int64) error {
	var coll any
	if collectionID != 0 {
		coll = collectionID
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cards (id, collection_id) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET collection_id = $2`,
		cardID, coll)
	return err
}

// TableSchemas resolves schemas for the given ids in a single query.
func (s *Store) TableSchemas(ctx context.Context, tableIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(tableIDs))
	if len(tableIDs) == 0 {
		return out, nil
	}

	rows, err := s.pool.Query(ctx,
		"SELECT id, schema FROM metadata_tables WHERE id = ANY($1)", tableIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var schema string
		if err := rows.Scan(&id, &schema); err != nil {
			return nil, err
		}
		out[id] = schema
	}
	return out, rows.Err()
}

// CardCollection returns the collection owning cardID. A card without a
// collection belongs to the root collection. Returns an error wrapping
// perms.ErrNotFound when the card does not exist.
func (s *Store) CardCollection(ctx context.Context, cardID int64) (perms.Collection, error) {
	var collID *int64
	var name *string
	err := s.pool.QueryRow(ctx, `
		SELECT c.collection_id, col.name
		FROM cards c
		LEFT JOIN collections col ON col.id = c.collection_id
		WHERE c.id = $1`, cardID).Scan(&collID, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return perms.Collection{}, fmt.Errorf("%w: card %d", perms.ErrNotFound, cardID)
	}
	if err != nil {
		return perms.Collection{}, err
	}
	coll := perms.Collection{}
	if collID != nil {
		coll.ID = *collID
	}
	if name != nil {
		coll.Name = *name
	}
	return coll, nil
}

// ReadPermissions derives the read-permission set for a collection.
func (s *Store) ReadPermissions(_ context.Context, c perms.Collection) (paths.Set, error) {
	return paths.NewSet(paths.CollectionRead(c.ID)), nil
}
