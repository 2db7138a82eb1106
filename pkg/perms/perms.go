// Package perms computes the permission-path set required to run an ad-hoc
// query, before it executes.
//
// The Resolver is the authorization pre-flight gate: it derives exactly which
// protected resources a query will touch (tables, whole databases for native
// statements, or a saved query's collection) and emits the permission paths an
// external checker must find among a principal's grants. It enforces nothing
// itself.
//
// The permission set is always a superset sufficient to cover everything the
// query can read. It may be broader than necessary, never narrower. When shape
// resolution fails, the set degrades to the deny-all sentinel rather than
// failing the caller, so one corrupt query cannot break bulk operations;
// callers that need the underlying error opt in with WithPropagateErrors.
package perms

import (
	"context"

	"github.com/querygate/querygate/pkg/paths"
	"github.com/querygate/querygate/pkg/query"
)

// Normalizer expands a structured query into its canonical {database, tables}
// shape.
//
// Normalization is a function of the query alone: implementations must not
// consult or require any principal or authorization context, since the result
// feeds permission derivation itself.
type Normalizer interface {
	Normalize(ctx context.Context, q *query.Query) (*query.Query, error)
}

// Catalog resolves table schemas. TableSchemas is a single batched lookup;
// the resolver never issues one call per table.
type Catalog interface {
	TableSchemas(ctx context.Context, tableIDs []int64) (map[int64]string, error)
}

// Collection identifies the collection owning a saved query. ID 0 denotes the
// root collection.
type Collection struct {
	ID   int64
	Name string
}

// CardStore looks up saved queries ("source cards"). CardCollection returns
// an error wrapping ErrNotFound when no card has the given id.
//
// Card resolution is non-recursive by contract: reading a card requires read
// permission on its collection, never re-entering query shape resolution, so
// circular card references cannot occur here.
type CardStore interface {
	CardCollection(ctx context.Context, cardID int64) (Collection, error)
}

// CollectionPermissions derives the permission set required to read a
// collection-owned entity. How collection permissions are computed is owned by
// the implementation; the resolver only consumes the resulting paths.
type CollectionPermissions interface {
	ReadPermissions(ctx context.Context, c Collection) (paths.Set, error)
}
