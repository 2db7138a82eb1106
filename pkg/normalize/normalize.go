// Package normalize provides the reference implementation of the query
// normalization collaborator.
//
// Canonicalization is purely structural: it validates the query tree and
// prunes degenerate entries. It is a function of the query alone and never
// consults a principal, since its output feeds permission derivation.
package normalize

import (
	"context"
	"errors"
	"fmt"

	"github.com/querygate/querygate/pkg/query"
)

// ErrMalformed marks a query whose tree cannot be canonicalized.
var ErrMalformed = errors.New("malformed structured query")

// Canonicalizer implements perms.Normalizer.
type Canonicalizer struct{}

// New returns a Canonicalizer.
func New() *Canonicalizer {
	return &Canonicalizer{}
}

// Normalize validates a structured query and returns a canonical copy with
// empty join entries pruned. The input is never mutated.
func (c *Canonicalizer) Normalize(_ context.Context, q *query.Query) (*query.Query, error) {
	if q == nil || q.Type != query.TypeStructured || q.Structured == nil {
		return nil, fmt.Errorf("%w: not a structured query", ErrMalformed)
	}
	if q.Database == 0 {
		return nil, fmt.Errorf("%w: no database", ErrMalformed)
	}
	sq, err := canonicalize(q.Structured, 0)
	if err != nil {
		return nil, err
	}
	out := *q
	out.Structured = sq
	return &out, nil
}

// maxDepth bounds the nesting walk; nesting depth is caller-controlled input.
const maxDepth = 128

func canonicalize(sq *query.Structured, depth int) (*query.Structured, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: source queries nested deeper than %d", ErrMalformed, maxDepth)
	}

	out := &query.Structured{
		Native:      sq.Native,
		SourceCard:  sq.SourceCard,
		SourceTable: sq.SourceTable,
	}
	for _, j := range sq.Joins {
		if j != nil {
			out.Joins = append(out.Joins, j)
		}
	}

	// A native sub-statement is an opaque leaf; anything below it is
	// unreachable and dropped.
	if sq.Native != "" {
		out.SourceQuery = nil
		return out, nil
	}
	if sq.SourceQuery != nil {
		inner, err := canonicalize(sq.SourceQuery, depth+1)
		if err != nil {
			return nil, err
		}
		out.SourceQuery = inner
		return out, nil
	}
	if sq.SourceTable == nil && sq.SourceCard == 0 {
		return nil, fmt.Errorf("%w: query level has no source", ErrMalformed)
	}
	return out, nil
}
