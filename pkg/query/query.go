// Package query defines the ad-hoc query model consumed by the permission
// pre-flight layer.
//
// A Query is a tagged union: either a native statement (opaque, engine-specific
// text that is never parsed here) or a structured expression tree. Structured
// queries nest arbitrarily deep through their source-query relation, and any
// level may instead reference a saved query ("source card") or carry a native
// sub-statement.
package query

// Type discriminates the two query variants. The zero value marks an absent
// query.
type Type string

const (
	// TypeNative tags an opaque, engine-specific statement.
	TypeNative Type = "native"
	// TypeStructured tags a composable expression tree.
	TypeStructured Type = "structured"
)

// Query is the outer query value handed to the permission resolver.
// Exactly one of Native and Structured is set, matching Type.
type Query struct {
	Type     Type
	Database int64

	Native     *Native
	Structured *Structured
}

// Native holds an opaque statement. The permission layer never inspects
// Statement; native access is granted per database, not per table.
type Native struct {
	Statement string
	Params    []any
}

// Structured is one level of a structured query tree.
//
// At each level, the data source is one of:
//   - Native: a non-empty native sub-statement, making this level an opaque
//     leaf (nothing below it can be decomposed into tables)
//   - SourceCard: a saved-query reference, governed by collection permissions
//   - SourceQuery: a nested level
//   - SourceTable: a table reference
//
// Joins list additional tables read at this level.
type Structured struct {
	Native      string
	SourceCard  int64
	SourceQuery *Structured
	SourceTable TableRef
	Joins       []TableRef
}

// SourceCardID walks the nested source-query chain and returns the first
// source-card id it declares, or 0 when the query is table-backed. Only
// levels reachable without normalization are consulted.
func (sq *Structured) SourceCardID() int64 {
	for ; sq != nil; sq = sq.SourceQuery {
		if sq.SourceCard != 0 {
			return sq.SourceCard
		}
	}
	return 0
}

// TableRef identifies a table read by a structured query. It comes in two
// shapes: a bare TableID that still needs a catalog lookup to learn its
// schema, and a resolved Table that already carries one. Both shapes are
// equivalent inputs to permission-path construction.
type TableRef interface {
	tableRef()
}

// TableID is a bare table reference. The schema must be resolved through the
// catalog before a permission path can be built.
type TableID int64

func (TableID) tableRef() {}

// Table is a resolved table reference. An empty Schema is a valid resolved
// schema (schemaless engines), not an unresolved one.
type Table struct {
	ID       int64
	LegacyID int64 // legacy "table-id" field, consulted when ID is zero
	Schema   string
}

func (Table) tableRef() {}

// Ident returns the table id, preferring ID over the legacy field.
func (t Table) Ident() int64 {
	if t.ID != 0 {
		return t.ID
	}
	return t.LegacyID
}

// SourceRef is one entry in the flat source sequence produced by SourceRefs.
// It is either the native-leaf marker or one of the two table reference
// shapes.
type SourceRef interface {
	sourceRef()
}

// NativeRef marks a native leaf: permission must cover whole-database native
// access for the query's database.
type NativeRef struct{}

func (NativeRef) sourceRef() {}
func (TableID) sourceRef()   {}
func (Table) sourceRef()     {}

// SourceRefs flattens a structured query into the ordered sequence of source
// references its permissions must account for.
//
// A native sub-statement at any level short-circuits to a single NativeRef:
// native content is opaque and is never decomposed further. Otherwise the walk
// descends through nested source queries until it reaches a leaf, where the
// sequence is the primary source table followed by every join table declared
// at that level. Source cards are never resolved here; callers dispatch on
// SourceCardID before shape resolution because a card switches the entire
// permission model.
func SourceRefs(sq *Structured) []SourceRef {
	for sq != nil {
		if sq.Native != "" {
			return []SourceRef{NativeRef{}}
		}
		if sq.SourceQuery != nil {
			sq = sq.SourceQuery
			continue
		}
		refs := make([]SourceRef, 0, 1+len(sq.Joins))
		if sq.SourceTable != nil {
			refs = append(refs, sq.SourceTable.(SourceRef))
		}
		for _, j := range sq.Joins {
			if j != nil {
				refs = append(refs, j.(SourceRef))
			}
		}
		return refs
	}
	return nil
}
