package query

import (
	"encoding/json"
	"fmt"
)

// JSON decoding for operator tooling. The wire shape mirrors how callers
// describe queries:
//
//	{"type": "structured", "database": 1,
//	 "query": {"source-table": 3,
//	           "joins": [{"id": 4, "schema": "public"}]}}
//
//	{"type": "native", "database": 2,
//	 "native": {"statement": "SELECT 1"}}
//
// A table reference is either a bare number or an object carrying
// "id"/"table-id" and "schema".

type queryJSON struct {
	Type       Type            `json:"type"`
	Database   int64           `json:"database"`
	Native     *Native         `json:"native"`
	Structured json.RawMessage `json:"query"`
}

type nativeJSON struct {
	Statement string `json:"statement"`
	Params    []any  `json:"params"`
}

type structuredJSON struct {
	Native      string            `json:"native"`
	SourceCard  int64             `json:"source-card"`
	SourceQuery json.RawMessage   `json:"source-query"`
	SourceTable json.RawMessage   `json:"source-table"`
	Joins       []json.RawMessage `json:"joins"`
}

type tableJSON struct {
	ID       int64  `json:"id"`
	LegacyID int64  `json:"table-id"`
	Schema   string `json:"schema"`
}

// UnmarshalJSON decodes the wire shape above.
func (q *Query) UnmarshalJSON(data []byte) error {
	var raw queryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.Type = raw.Type
	q.Database = raw.Database
	q.Native = raw.Native
	q.Structured = nil
	if len(raw.Structured) > 0 && string(raw.Structured) != "null" {
		sq, err := decodeStructured(raw.Structured)
		if err != nil {
			return err
		}
		q.Structured = sq
	}
	return nil
}

// UnmarshalJSON decodes a native sub-statement object.
func (n *Native) UnmarshalJSON(data []byte) error {
	var raw nativeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Statement = raw.Statement
	n.Params = raw.Params
	return nil
}

func decodeStructured(data []byte) (*Structured, error) {
	var raw structuredJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	sq := &Structured{
		Native:     raw.Native,
		SourceCard: raw.SourceCard,
	}
	if len(raw.SourceQuery) > 0 && string(raw.SourceQuery) != "null" {
		inner, err := decodeStructured(raw.SourceQuery)
		if err != nil {
			return nil, err
		}
		sq.SourceQuery = inner
	}
	if len(raw.SourceTable) > 0 && string(raw.SourceTable) != "null" {
		ref, err := decodeTableRef(raw.SourceTable)
		if err != nil {
			return nil, err
		}
		sq.SourceTable = ref
	}
	for _, j := range raw.Joins {
		ref, err := decodeTableRef(j)
		if err != nil {
			return nil, err
		}
		sq.Joins = append(sq.Joins, ref)
	}
	return sq, nil
}

// decodeTableRef accepts the two table reference shapes: a bare number yields
// a TableID, an object yields a resolved Table.
func decodeTableRef(data []byte) (TableRef, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty table reference")
	}
	if data[0] == '{' {
		var raw tableJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return Table{ID: raw.ID, LegacyID: raw.LegacyID, Schema: raw.Schema}, nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("table reference must be a number or object: %w", err)
	}
	return TableID(id), nil
}
