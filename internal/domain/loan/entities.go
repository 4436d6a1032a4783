package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("loan not found")
	ErrNotBorrower     = errors.New("caller is not the loan's borrower")
	ErrAlreadySettled  = errors.New("loan already settled")
	ErrInvalidDuration = errors.New("loan duration out of range")
	ErrFeeExceedsMax   = errors.New("pool fee exceeds caller maximum")
	ErrNotExpired      = errors.New("loan term has not expired")
	ErrOpenLoanExists  = errors.New("borrower already has an open loan in pool")
)

// Loan is a borrowing record against one pool. Total is principal plus the
// fee fixed at origination; Left is monotonically non-increasing.
// CollateralLocked is released exactly once: back to the borrower on full
// repayment, or seized on default settlement, never both.
type Loan struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"id"`
	Borrower string `gorm:"column:borrower;size:40;not null;index:idx_loans_borrower" json:"borrower"`
	PoolID   uint64 `gorm:"column:pool_id;not null;index:idx_loans_pool" json:"pool_id"`

	Principal        uint64    `gorm:"column:principal;not null" json:"-"`
	Total            uint64    `gorm:"column:total;not null" json:"total"`
	Left             uint64    `gorm:"column:left_amount;not null" json:"left"`
	CollateralLocked uint64    `gorm:"column:collateral_locked;not null" json:"collateral_locked"`
	LoanStart        time.Time `gorm:"column:loan_start;not null" json:"loan_start"`
	DurationDays     uint64    `gorm:"column:duration_days;not null" json:"duration_days"`

	// IsPayed holds the observed read-model spelling. Settled marks default
	// settlement; a loan is terminal once either flag is set.
	IsPayed bool `gorm:"column:is_payed;not null" json:"is_payed"`
	Settled bool `gorm:"column:settled;not null" json:"settled"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Terminal reports whether the loan can no longer be repaid or settled.
func (l *Loan) Terminal() bool { return l.IsPayed || l.Settled }

// ExpiresAt is the end of the agreed term.
func (l *Loan) ExpiresAt() time.Time {
	return l.LoanStart.Add(time.Duration(l.DurationDays) * 24 * time.Hour)
}
