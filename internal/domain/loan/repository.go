package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error

	// GetOpenByBorrowerAndPool returns the borrower's non-terminal loan in
	// the pool, if any (at most one may exist).
	GetOpenByBorrowerAndPool(ctx context.Context, borrower string, poolID uint64) (*Loan, error)
	ListIDsByBorrower(ctx context.Context, borrower string) ([]uint64, error)
}
