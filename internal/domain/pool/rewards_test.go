package pool

import (
	"testing"
)

func TestAccrueAndClaimFullShare(t *testing.T) {
	p := &Pool{TotalAmount: 100, CurrentAmount: 50}
	c := &Contribution{PoolID: 1, Lender: "aa", Amount: 100}

	if err := AccrueFee(p, 4); err != nil {
		t.Fatalf("AccrueFee: %v", err)
	}
	if p.FeeIncome != 4 {
		t.Fatalf("FeeIncome = %d", p.FeeIncome)
	}

	pending, err := PendingReward(p, c)
	if err != nil || pending != 4 {
		t.Fatalf("pending = %d, %v", pending, err)
	}

	if err := SettleRewards(p, c); err != nil {
		t.Fatalf("SettleRewards: %v", err)
	}
	if err := RefreshDebt(p, c); err != nil {
		t.Fatalf("RefreshDebt: %v", err)
	}
	if c.RewardAccrued != 4 {
		t.Fatalf("RewardAccrued = %d", c.RewardAccrued)
	}

	// second settle yields nothing new
	if err := SettleRewards(p, c); err != nil {
		t.Fatalf("SettleRewards: %v", err)
	}
	if c.RewardAccrued != 4 {
		t.Fatalf("RewardAccrued after re-settle = %d", c.RewardAccrued)
	}
}

func TestProportionalSplit(t *testing.T) {
	p := &Pool{TotalAmount: 100}
	a := &Contribution{Lender: "aa", Amount: 75}
	b := &Contribution{Lender: "bb", Amount: 25}

	if err := AccrueFee(p, 8); err != nil {
		t.Fatalf("AccrueFee: %v", err)
	}

	pa, _ := PendingReward(p, a)
	pb, _ := PendingReward(p, b)
	if pa != 6 || pb != 2 {
		t.Fatalf("split = %d/%d, want 6/2", pa, pb)
	}
	if pa+pb > p.FeeIncome {
		t.Fatalf("claims %d exceed income %d", pa+pb, p.FeeIncome)
	}
}

func TestLateContributorEarnsNoPastFees(t *testing.T) {
	p := &Pool{TotalAmount: 100}
	if err := AccrueFee(p, 10); err != nil {
		t.Fatalf("AccrueFee: %v", err)
	}

	// joins after the accrual: checkpoint at current reading
	c := &Contribution{Lender: "cc", Amount: 50}
	if err := RefreshDebt(p, c); err != nil {
		t.Fatalf("RefreshDebt: %v", err)
	}
	pending, err := PendingReward(p, c)
	if err != nil || pending != 0 {
		t.Fatalf("pending = %d, %v, want 0", pending, err)
	}
}

func TestAccrueFeeZeroIsNoop(t *testing.T) {
	p := &Pool{TotalAmount: 0}
	if err := AccrueFee(p, 0); err != nil {
		t.Fatalf("AccrueFee(0): %v", err)
	}
	if p.FeeIncome != 0 || p.AccFeePerShare != 0 {
		t.Fatalf("pool mutated: %+v", p)
	}
}
