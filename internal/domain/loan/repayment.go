package loan

import "p2ploans-backend/pkg/money"

// SplitRepayment splits a payment into its principal and fee portions.
// Payments apply principal-first: liquidity is restored to the pool before
// any fee income accrues, so lender principal is made whole before rewards.
func (l *Loan) SplitRepayment(amount uint64) (principalPart, feePart uint64, err error) {
	repaid, err := money.Sub(l.Total, l.Left)
	if err != nil {
		return 0, 0, err
	}
	principalPaid := min(repaid, l.Principal)
	newRepaid, err := money.Add(repaid, amount)
	if err != nil {
		return 0, 0, err
	}
	principalPart = min(newRepaid, l.Principal) - principalPaid
	feePart = amount - principalPart
	return principalPart, feePart, nil
}
