// Package paths defines permission-path identifiers and the set type the
// resolver produces.
//
// Paths are opaque values with a fixed textual format; they are constructed
// here and compared for membership by the external authorization checker, but
// never parsed back.
package paths

import (
	"fmt"
	"slices"
)

// Path is one unit of grantable access.
type Path string

// String returns the path text.
func (p Path) String() string {
	return string(p)
}

// Native returns the path granting native-query access on a whole database.
func Native(databaseID int64) Path {
	return Path(fmt.Sprintf("db/%d/native/", databaseID))
}

// Table returns the path granting access to one table. An empty schema keeps
// its (empty) segment so that schemaless engines produce stable paths.
func Table(databaseID int64, schema string, tableID int64) Path {
	return Path(fmt.Sprintf("db/%d/schema/%s/table/%d/", databaseID, schema, tableID))
}

// CollectionRead returns the path granting read access to a saved-query
// collection. Collection id 0 denotes the root collection.
func CollectionRead(collectionID int64) Path {
	if collectionID == 0 {
		return "collection/root/read/"
	}
	return Path(fmt.Sprintf("collection/%d/read/", collectionID))
}

// DenyAll is the sentinel path returned when resolution fails. Database ids
// start at 1, so no grant can ever cover database 0; non-superusers can never
// satisfy this path.
var DenyAll = Native(0)

// Set is an unordered, duplicate-free collection of paths.
type Set map[Path]struct{}

// NewSet builds a set from the given paths.
func NewSet(ps ...Path) Set {
	s := make(Set, len(ps))
	s.Add(ps...)
	return s
}

// Add inserts paths into the set.
func (s Set) Add(ps ...Path) {
	for _, p := range ps {
		s[p] = struct{}{}
	}
}

// Contains reports whether p is in the set.
func (s Set) Contains(p Path) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of distinct paths.
func (s Set) Len() int {
	return len(s)
}

// Equal reports set equality, independent of construction order.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Contains(p) {
			return false
		}
	}
	return true
}

// Slice returns the paths sorted lexicographically, for stable output.
func (s Set) Slice() []Path {
	out := make([]Path, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
