package perms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/querygate/querygate/pkg/paths"
	"github.com/querygate/querygate/pkg/query"
)

// Resolver computes required permission sets. It is stateless beyond its
// collaborator handles and safe for concurrent use; each call resolves
// independently with no caching.
type Resolver struct {
	normalizer  Normalizer
	catalog     Catalog
	cards       CardStore
	collections CollectionPermissions
	logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for contained resolution failures.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver builds a Resolver around its four collaborators.
func NewResolver(n Normalizer, c Catalog, cards CardStore, collections CollectionPermissions, opts ...Option) *Resolver {
	r := &Resolver{
		normalizer:  n,
		catalog:     c,
		cards:       cards,
		collections: collections,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ComputeOption adjusts one RequiredPermissions call.
type ComputeOption func(*computeOptions)

type computeOptions struct {
	propagateErrors   bool
	alreadyNormalized bool
}

// WithPropagateErrors surfaces resolution failures to the caller instead of
// degrading to the deny-all sentinel set.
func WithPropagateErrors() ComputeOption {
	return func(o *computeOptions) {
		o.propagateErrors = true
	}
}

// WithAlreadyNormalized skips the normalization collaborator call. Use only
// when the caller guarantees the query is already in canonical shape.
func WithAlreadyNormalized() ComputeOption {
	return func(o *computeOptions) {
		o.alreadyNormalized = true
	}
}

// RequiredPermissions is the sole entry point: it returns the permission-path
// set a principal must hold to run q.
//
// A nil or untyped query requires nothing. A native query requires exactly the
// native path for its database. A structured query is resolved through
// source-card delegation or shape resolution; any failure there is logged and
// contained as {DenyAll} unless WithPropagateErrors is given. An unknown query
// type is a caller bug and always returns ErrInvalidInput.
func (r *Resolver) RequiredPermissions(ctx context.Context, q *query.Query, opts ...ComputeOption) (paths.Set, error) {
	var o computeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if q == nil || q.Type == "" {
		return paths.NewSet(), nil
	}
	switch q.Type {
	case query.TypeNative:
		return paths.NewSet(paths.Native(q.Database)), nil
	case query.TypeStructured:
		return r.structuredPermissions(ctx, q, o)
	default:
		return nil, fmt.Errorf("%w: unknown query type %q", ErrInvalidInput, q.Type)
	}
}

// structuredPermissions wraps resolveStructured with the failure policy:
// propagate when asked, otherwise warn and fall back to the deny-all sentinel
// so the offending query stays invisible to ordinary principals without
// failing the caller.
func (r *Resolver) structuredPermissions(ctx context.Context, q *query.Query, o computeOptions) (paths.Set, error) {
	set, err := r.resolveStructured(ctx, q, o.alreadyNormalized)
	if err != nil {
		if o.propagateErrors {
			return nil, err
		}
		r.logger.Warn("permission resolution failed, requiring deny-all sentinel",
			"error", err,
			"database", q.Database)
		return paths.NewSet(paths.DenyAll), nil
	}
	return set, nil
}

func (r *Resolver) resolveStructured(ctx context.Context, q *query.Query, normalized bool) (paths.Set, error) {
	if q.Structured == nil {
		return nil, fmt.Errorf("structured query has no query body")
	}

	// A source card switches the whole permission model to the card's
	// collection; table-level resolution is skipped entirely.
	if cardID := q.Structured.SourceCardID(); cardID != 0 {
		return r.cardReadPermissions(ctx, cardID)
	}

	nq := q
	if !normalized {
		var err error
		nq, err = r.normalizer.Normalize(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNormalization, err)
		}
		if nq == nil || nq.Structured == nil {
			return nil, fmt.Errorf("%w: normalization produced no query body", ErrNormalization)
		}
	}
	return r.tablePaths(ctx, nq.Database, query.SourceRefs(nq.Structured))
}

// cardReadPermissions resolves the permission set needed to read a saved
// query: read permission on its owning collection.
func (r *Resolver) cardReadPermissions(ctx context.Context, cardID int64) (paths.Set, error) {
	coll, err := r.cards.CardCollection(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return r.collections.ReadPermissions(ctx, coll)
}

// tablePaths converts a source-ref sequence into paths for one database.
// Bare table ids are resolved in a single batched catalog call; resolved
// references emit directly. Duplicates collapse in the set.
func (r *Resolver) tablePaths(ctx context.Context, databaseID int64, refs []query.SourceRef) (paths.Set, error) {
	set := paths.NewSet()
	var bare []int64
	seen := make(map[int64]struct{})

	for _, ref := range refs {
		switch t := ref.(type) {
		case query.NativeRef:
			set.Add(paths.Native(databaseID))
		case query.TableID:
			if _, ok := seen[int64(t)]; !ok {
				seen[int64(t)] = struct{}{}
				bare = append(bare, int64(t))
			}
		case query.Table:
			set.Add(paths.Table(databaseID, t.Schema, t.Ident()))
		}
	}

	if len(bare) > 0 {
		schemas, err := r.catalog.TableSchemas(ctx, bare)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
		}
		for _, id := range bare {
			schema, ok := schemas[id]
			if !ok {
				return nil, fmt.Errorf("%w: no schema for table %d", ErrCatalog, id)
			}
			set.Add(paths.Table(databaseID, schema, id))
		}
	}
	return set, nil
}
