package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRefsNativeLeaf(t *testing.T) {
	sq := &Structured{Native: "SELECT * FROM venues"}
	assert.Equal(t, []SourceRef{NativeRef{}}, SourceRefs(sq))
}

func TestSourceRefsNativeLeafIgnoresTables(t *testing.T) {
	// A native sub-statement makes the level opaque; declared tables at the
	// same level do not widen the sequence.
	sq := &Structured{
		Native:      "SELECT 1",
		SourceTable: TableID(3),
		Joins:       []TableRef{TableID(4)},
	}
	assert.Equal(t, []SourceRef{NativeRef{}}, SourceRefs(sq))
}

func TestSourceRefsSourceTableAndJoins(t *testing.T) {
	sq := &Structured{
		SourceTable: TableID(3),
		Joins: []TableRef{
			Table{ID: 4, Schema: "public"},
			TableID(5),
		},
	}
	refs := SourceRefs(sq)
	require.Len(t, refs, 3)
	assert.Equal(t, TableID(3), refs[0])
	assert.Equal(t, Table{ID: 4, Schema: "public"}, refs[1])
	assert.Equal(t, TableID(5), refs[2])
}

func TestSourceRefsRecursesIntoSourceQuery(t *testing.T) {
	sq := &Structured{
		SourceQuery: &Structured{
			SourceQuery: &Structured{
				SourceTable: TableID(7),
			},
		},
	}
	assert.Equal(t, []SourceRef{TableID(7)}, SourceRefs(sq))
}

func TestSourceRefsNestedNativeLeaf(t *testing.T) {
	sq := &Structured{
		SourceQuery: &Structured{Native: "SELECT 1"},
	}
	assert.Equal(t, []SourceRef{NativeRef{}}, SourceRefs(sq))
}

func TestSourceRefsNil(t *testing.T) {
	assert.Nil(t, SourceRefs(nil))
	assert.Empty(t, SourceRefs(&Structured{}))
}

func TestSourceCardID(t *testing.T) {
	assert.EqualValues(t, 0, (&Structured{SourceTable: TableID(1)}).SourceCardID())
	assert.EqualValues(t, 11, (&Structured{SourceCard: 11}).SourceCardID())

	nested := &Structured{
		SourceQuery: &Structured{
			SourceQuery: &Structured{SourceCard: 42},
		},
	}
	assert.EqualValues(t, 42, nested.SourceCardID())
}

func TestTableIdent(t *testing.T) {
	assert.EqualValues(t, 9, Table{ID: 9, LegacyID: 4}.Ident())
	assert.EqualValues(t, 4, Table{LegacyID: 4}.Ident())
}

func TestUnmarshalNativeQuery(t *testing.T) {
	var q Query
	err := json.Unmarshal([]byte(`{
		"type": "native",
		"database": 2,
		"native": {"statement": "SELECT * FROM venues", "params": [1]}
	}`), &q)
	require.NoError(t, err)

	assert.Equal(t, TypeNative, q.Type)
	assert.EqualValues(t, 2, q.Database)
	require.NotNil(t, q.Native)
	assert.Equal(t, "SELECT * FROM venues", q.Native.Statement)
	assert.Nil(t, q.Structured)
}

func TestUnmarshalStructuredQuery(t *testing.T) {
	var q Query
	err := json.Unmarshal([]byte(`{
		"type": "structured",
		"database": 1,
		"query": {
			"source-table": 3,
			"joins": [{"id": 4, "schema": "public"}, 5]
		}
	}`), &q)
	require.NoError(t, err)

	assert.Equal(t, TypeStructured, q.Type)
	require.NotNil(t, q.Structured)
	assert.Equal(t, TableID(3), q.Structured.SourceTable)
	require.Len(t, q.Structured.Joins, 2)
	assert.Equal(t, Table{ID: 4, Schema: "public"}, q.Structured.Joins[0])
	assert.Equal(t, TableID(5), q.Structured.Joins[1])
}

func TestUnmarshalNestedSourceQuery(t *testing.T) {
	var q Query
	err := json.Unmarshal([]byte(`{
		"type": "structured",
		"database": 1,
		"query": {"source-query": {"source-card": 12}}
	}`), &q)
	require.NoError(t, err)

	require.NotNil(t, q.Structured)
	require.NotNil(t, q.Structured.SourceQuery)
	assert.EqualValues(t, 12, q.Structured.SourceQuery.SourceCard)
	assert.EqualValues(t, 12, q.Structured.SourceCardID())
}

func TestUnmarshalLegacyTableID(t *testing.T) {
	ref, err := decodeTableRef([]byte(`{"table-id": 8, "schema": "legacy"}`))
	require.NoError(t, err)
	tbl, ok := ref.(Table)
	require.True(t, ok)
	assert.EqualValues(t, 8, tbl.Ident())
}

func TestUnmarshalBadTableRef(t *testing.T) {
	_, err := decodeTableRef([]byte(`"venues"`))
	assert.Error(t, err)
}

func TestUnmarshalUnknownTypePassesThrough(t *testing.T) {
	// Type validation belongs to the resolver, not the decoder.
	var q Query
	err := json.Unmarshal([]byte(`{"type": "bogus", "database": 1}`), &q)
	require.NoError(t, err)
	assert.Equal(t, Type("bogus"), q.Type)
}
