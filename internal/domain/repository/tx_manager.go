package repository

import "context"

// TxManager runs fn inside one storage transaction. Repositories called with
// the context handed to fn join that transaction; an error returned by fn
// rolls everything back.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
