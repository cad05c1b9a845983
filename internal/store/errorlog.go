package store

import "context"

// ErrorLogStore is the append-only diagnostic sink. Writes are
// best-effort, on a connection outside the failed transaction, and a
// failed write must never fail the surrounding request further.
type ErrorLogStore interface {
	Record(ctx context.Context, errText string) error
}
