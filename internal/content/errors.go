package content

import (
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

var (
	// ErrMalformedSnapshot indicates the query result is not valid JSON of the expected shape.
	ErrMalformedSnapshot = errors.SnapshotError("content graph snapshot is malformed").Build()

	// ErrMissingKey indicates an expected top-level key is absent from the query result.
	ErrMissingKey = errors.SnapshotError("content graph is missing an expected top-level key").Build()

	// ErrQueryErrors indicates the CMS reported GraphQL errors alongside the data.
	ErrQueryErrors = errors.SnapshotError("content graph query returned errors").Build()

	// ErrUnknownProductType indicates a product node outside the closed product variant set.
	ErrUnknownProductType = errors.SnapshotError("product node has an unknown type").Build()
)
