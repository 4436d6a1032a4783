package pool

import (
	"errors"

	"p2ploans-backend/pkg/money"
)

var ErrNothingToClaim = errors.New("nothing to claim")

// AccrueFee books fee income into the pool and advances the per-share
// accumulator. Accrual against the pool's historical total means lenders
// earn on liquidity even while it is locked in loans; the truncated
// remainder stays in FeeIncome as unclaimable dust.
func AccrueFee(p *Pool, fee uint64) error {
	if fee == 0 {
		return nil
	}
	income, err := money.Add(p.FeeIncome, fee)
	if err != nil {
		return err
	}
	delta, err := money.PerShareDelta(fee, p.TotalAmount)
	if err != nil {
		return err
	}
	acc, err := money.Add(p.AccFeePerShare, delta)
	if err != nil {
		return err
	}
	p.FeeIncome = income
	p.AccFeePerShare = acc
	return nil
}

// PendingReward is the reward earned by c since its last checkpoint.
func PendingReward(p *Pool, c *Contribution) (uint64, error) {
	gross, err := money.ShareOf(c.Amount, p.AccFeePerShare)
	if err != nil {
		return 0, err
	}
	// checkpoint is always taken at a lower or equal accumulator reading
	return money.Sub(gross, c.RewardDebt)
}

// SettleRewards moves the pending delta into the accrued bucket. It must be
// called before any change to c.Amount, and by claims before paying out.
func SettleRewards(p *Pool, c *Contribution) error {
	pending, err := PendingReward(p, c)
	if err != nil {
		return err
	}
	accrued, err := money.Add(c.RewardAccrued, pending)
	if err != nil {
		return err
	}
	c.RewardAccrued = accrued
	return nil
}

// RefreshDebt re-checkpoints c against the current accumulator; call after
// c.Amount changes (with rewards already settled).
func RefreshDebt(p *Pool, c *Contribution) error {
	debt, err := money.ShareOf(c.Amount, p.AccFeePerShare)
	if err != nil {
		return err
	}
	c.RewardDebt = debt
	return nil
}
