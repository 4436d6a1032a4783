package mysql

import (
	"context"

	"p2ploans-backend/internal/domain/loan"
	"p2ploans-backend/internal/domain/pool"
	"p2ploans-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Pools:         &PoolRepository{db: tx},
		Contributions: &ContributionRepository{db: tx},
		Loans:         &LoanRepository{db: tx},
		Borrowers:     &BorrowerRepository{db: tx},
		Custody:       &CustodyRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinPoolTx(ctx context.Context, poolID uint64, fn func(r uow.Repos, p *pool.Pool) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the pool row up-front so liquidity checks cannot race
		p, err := r.Pools.GetByIDForUpdate(ctx, poolID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *loan.Loan, p *pool.Pool) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		l, err := r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		p, err := r.Pools.GetByIDForUpdate(ctx, l.PoolID)
		if err != nil {
			return err
		}
		return fn(r, l, p)
	})
}
