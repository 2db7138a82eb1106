// Package sqlite backs the resolver collaborators with a SQLite metadata
// database: table schemas for the catalog and card/collection ownership for
// saved-query resolution.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/querygate/querygate/pkg/paths"
	"github.com/querygate/querygate/pkg/perms"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS metadata_tables (
	id     INTEGER PRIMARY KEY,
	db_id  INTEGER NOT NULL,
	schema TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS collections (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cards (
	id            INTEGER PRIMARY KEY,
	collection_id INTEGER REFERENCES collections(id)
);
`

// Store implements perms.Catalog, perms.CardStore and
// perms.CollectionPermissions over a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the metadata database at dataSourceName and
// bootstraps its schema. Use ":memory:" for an ephemeral store.
func Open(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrapping metadata schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// AddTable registers a table in the catalog.
func (s *Store) AddTable(ctx context.Context, tableID, databaseID int64, schema string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO metadata_tables (id, db_id, schema) VALUES (?, ?, ?)",
		tableID, databaseID, schema)
	return err
}

// AddCollection registers a collection.
func (s *Store) AddCollection(ctx context.Context, collectionID int64, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO collections (id, name) VALUES (?, ?)",
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
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO cards (id, collection_id) VALUES (?, ?)",
		cardID, coll)
	return err
}

// TableSchemas resolves schemas for the given ids in a single query.
func (s *Store) TableSchemas(ctx context.Context, tableIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(tableIDs))
	if len(tableIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tableIDs)), ",")
	args := make([]any, len(tableIDs))
	for i, id := range tableIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, schema FROM metadata_tables WHERE id IN ("+placeholders+")", args...)
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
	var collID sql.NullInt64
	var name sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT c.collection_id, col.name
		FROM cards c
		LEFT JOIN collections col ON col.id = c.collection_id
		WHERE c.id = ?`, cardID).Scan(&collID, &name)
	if err == sql.ErrNoRows {
		return perms.Collection{}, fmt.Errorf("%w: card %d", perms.ErrNotFound, cardID)
	}
	if err != nil {
		return perms.Collection{}, err
	}
	return perms.Collection{ID: collID.Int64, Name: name.String}, nil
}

// ReadPermissions derives the read-permission set for a collection.
func (s *Store) ReadPermissions(_ context.Context, c perms.Collection) (paths.Set, error) {
	return paths.NewSet(paths.CollectionRead(c.ID)), nil
}
