package loan

import (
	"time"

	loanDomain "p2ploans-backend/internal/domain/loan"
)

type LoanDTO struct {
	ID               uint64    `json:"id"`
	Borrower         string    `json:"borrower"`
	PoolID           uint64    `json:"pool_id"`
	Total            uint64    `json:"total"`
	Left             uint64    `json:"left"`
	CollateralLocked uint64    `json:"collateral_locked"`
	LoanStart        time.Time `json:"loan_start"`
	DurationDays     uint64    `json:"duration_days"`
	IsPayed          bool      `json:"is_payed"`
	Settled          bool      `json:"settled"`
}

func toDTO(l *loanDomain.Loan) *LoanDTO {
	return &LoanDTO{
		ID:               l.ID,
		Borrower:         l.Borrower,
		PoolID:           l.PoolID,
		Total:            l.Total,
		Left:             l.Left,
		CollateralLocked: l.CollateralLocked,
		LoanStart:        l.LoanStart,
		DurationDays:     l.DurationDays,
		IsPayed:          l.IsPayed,
		Settled:          l.Settled,
	}
}
