package borrower

import "context"

type Repository interface {
	Get(ctx context.Context, address string) (*Borrower, error)
	Create(ctx context.Context, b *Borrower) error
}
