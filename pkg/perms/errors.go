package perms

import "errors"

// Error taxonomy. ErrInvalidInput signals a caller bug and is always raised.
// The others are, by default, contained at the structured-query boundary and
// converted to the deny-all sentinel set; see Resolver.RequiredPermissions.
var (
	// ErrInvalidInput marks an unrecognized query type.
	ErrInvalidInput = errors.New("invalid query input")

	// ErrNotFound marks a source-card reference to a card that does not exist.
	ErrNotFound = errors.New("source card not found")

	// ErrNormalization marks a failure in the external normalization step.
	ErrNormalization = errors.New("query normalization failed")

	// ErrCatalog marks a failed or incomplete catalog schema lookup.
	ErrCatalog = errors.New("catalog lookup failed")
)
