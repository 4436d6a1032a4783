package uow

import (
	"context"

	"p2ploans-backend/internal/domain/borrower"
	"p2ploans-backend/internal/domain/custody"
	"p2ploans-backend/internal/domain/loan"
	"p2ploans-backend/internal/domain/pool"
)

type Repos struct {
	Pools         pool.Repository
	Contributions pool.ContributionRepository
	Loans         loan.Repository
	Borrowers     borrower.Repository
	Custody       custody.Repository
}

// UnitOfWork runs fn inside one DB transaction; either every mutation in fn
// commits or none do. The convenience variants lock the named row first so
// read-then-write sequences on shared liquidity are indivisible.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock pool row first, then pass it in
	WithinPoolTx(ctx context.Context, poolID uint64, fn func(r Repos, p *pool.Pool) error) error
	// lock loan row first, then its pool, then pass both in
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan, p *pool.Pool) error) error
}
