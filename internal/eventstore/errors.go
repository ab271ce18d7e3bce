package eventstore

import (
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// Operations named in event store errors.
const (
	opOpen   = "open"
	opSchema = "schema"
	opAppend = "append"
	opQuery  = "query"
	opScan   = "scan"
	opDecode = "decode"
)

func storeError(op string, cause error) *errors.ErrorBuilder {
	return errors.WrapError(cause, errors.CategoryEventStore, "event store "+op+" failed").
		WithContext("op", op)
}
