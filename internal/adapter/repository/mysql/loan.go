package mysql

import (
	"context"

	loanDomain "p2ploans-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetOpenByBorrowerAndPool(ctx context.Context, borrower string, poolID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower = ? AND pool_id = ? AND is_payed = ? AND settled = ?", borrower, poolID, false, false).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListIDsByBorrower(ctx context.Context, borrower string) ([]uint64, error) {
	var ids []uint64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("borrower = ?", borrower).
		Order("id ASC").
		Pluck("id", &ids)
	return ids, res.Error
}
