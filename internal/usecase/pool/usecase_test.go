package pool

import (
	"context"
	"errors"
	"testing"

	custodyDomain "p2ploans-backend/internal/domain/custody"
	"p2ploans-backend/internal/domain/event"
	poolDomain "p2ploans-backend/internal/domain/pool"
	"p2ploans-backend/internal/testutil/ledgermock"
	"p2ploans-backend/pkg/money"
)

const lender = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func newUsecase(s *ledgermock.Store) *Usecase {
	return NewUsecase(s, s.PoolRepo(), s.ContributionRepo(), s)
}

func TestCreate_WithInitialDeposit(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 100)
	uc := newUsecase(s)

	dto, err := uc.Create(context.Background(), CreatePoolInput{Caller: lender, FeeRate: 8, InitialDeposit: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.ID != 1 || dto.TotalAmount != 100 || dto.CurrentAmount != 100 || !dto.IsActive {
		t.Fatalf("unexpected pool: %+v", dto)
	}
	if got := s.BalanceOf(lender, custodyDomain.AssetNative); got != 0 {
		t.Fatalf("deposit not debited, balance = %d", got)
	}
	c := s.Contribs["1/"+lender]
	if c == nil || c.Amount != 100 {
		t.Fatalf("contribution not seeded: %+v", c)
	}
	if len(s.Events) != 1 || s.Events[0].Type != event.TypePoolCreated {
		t.Fatalf("events: %+v", s.Events)
	}
}

func TestCreate_FeeRate100Rejected(t *testing.T) {
	uc := newUsecase(ledgermock.New())
	_, err := uc.Create(context.Background(), CreatePoolInput{Caller: lender, FeeRate: 100})
	if !errors.Is(err, money.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestCreate_EmptyPoolWithAllowlistIsActive(t *testing.T) {
	s := ledgermock.New()
	uc := newUsecase(s)
	dto, err := uc.Create(context.Background(), CreatePoolInput{Caller: lender, FeeRate: 5, Allowlist: []string{lender}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !dto.IsActive || dto.TotalAmount != 0 {
		t.Fatalf("unexpected pool: %+v", dto)
	}
}

func TestCreate_DepositDebitFailureRollsBack(t *testing.T) {
	s := ledgermock.New()
	uc := newUsecase(s)
	_, err := uc.Create(context.Background(), CreatePoolInput{Caller: lender, FeeRate: 8, InitialDeposit: 100})
	if !errors.Is(err, custodyDomain.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if len(s.Pools) != 0 {
		t.Fatalf("pool created despite failed deposit")
	}
}

func TestContributeWithdraw_RoundTrip(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 150)
	uc := newUsecase(s)
	ctx := context.Background()

	if _, err := uc.Create(ctx, CreatePoolInput{Caller: lender, FeeRate: 8, InitialDeposit: 50}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	before := *s.Pools[1]

	if _, err := uc.Contribute(ctx, lender, 1, 100); err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	dto, err := uc.Withdraw(ctx, lender, 1, 100)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if dto.CurrentAmount != before.CurrentAmount {
		t.Fatalf("current = %d, want %d", dto.CurrentAmount, before.CurrentAmount)
	}
	if c := s.Contribs["1/"+lender]; c.Amount != 50 {
		t.Fatalf("contribution = %d, want 50", c.Amount)
	}
	if got := s.BalanceOf(lender, custodyDomain.AssetNative); got != 100 {
		t.Fatalf("lender balance = %d, want 100", got)
	}
}

func TestContribute_UnknownPool(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 10)
	uc := newUsecase(s)
	_, err := uc.Contribute(context.Background(), lender, 77, 10)
	if !errors.Is(err, poolDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestContribute_NotAllowlisted(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 10)
	uc := newUsecase(s)
	ctx := context.Background()

	other := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	if _, err := uc.Create(ctx, CreatePoolInput{Caller: other, FeeRate: 5, Allowlist: []string{other}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := uc.Contribute(ctx, lender, 1, 10)
	if !errors.Is(err, poolDomain.ErrNotAllowlisted) {
		t.Fatalf("want ErrNotAllowlisted, got %v", err)
	}
	if got := s.BalanceOf(lender, custodyDomain.AssetNative); got != 10 {
		t.Fatalf("balance mutated on rejected call: %d", got)
	}
}

func TestContribute_ZeroAmount(t *testing.T) {
	uc := newUsecase(ledgermock.New())
	if _, err := uc.Contribute(context.Background(), lender, 1, 0); !errors.Is(err, money.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestWithdraw_MoreThanContribution(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 100)
	uc := newUsecase(s)
	ctx := context.Background()

	if _, err := uc.Create(ctx, CreatePoolInput{Caller: lender, FeeRate: 8, InitialDeposit: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := uc.Withdraw(ctx, lender, 1, 101)
	if !errors.Is(err, money.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestWithdraw_LiquidityLockedInLoans(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 100)
	uc := newUsecase(s)
	ctx := context.Background()

	if _, err := uc.Create(ctx, CreatePoolInput{Caller: lender, FeeRate: 8, InitialDeposit: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// 60 of the pool is out on loan: uncommitted liquidity is 40
	s.Pools[1].CurrentAmount = 40

	_, err := uc.Withdraw(ctx, lender, 1, 80)
	if !errors.Is(err, poolDomain.ErrInsufficientLiquidity) {
		t.Fatalf("want ErrInsufficientLiquidity, got %v", err)
	}
	if s.Pools[1].CurrentAmount != 40 {
		t.Fatalf("pool mutated on rejected withdrawal")
	}
}

func TestContribute_ReactivatesExhaustedPool(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 150)
	uc := newUsecase(s)
	ctx := context.Background()

	if _, err := uc.Create(ctx, CreatePoolInput{Caller: lender, FeeRate: 8, InitialDeposit: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Pools[1].CurrentAmount = 0
	s.Pools[1].IsActive = false

	dto, err := uc.Contribute(ctx, lender, 1, 50)
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if !dto.IsActive || dto.CurrentAmount != 50 {
		t.Fatalf("pool not reactivated: %+v", dto)
	}
}

func TestCurrentNeverExceedsTotal(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 1000)
	uc := newUsecase(s)
	ctx := context.Background()

	if _, err := uc.Create(ctx, CreatePoolInput{Caller: lender, FeeRate: 8, InitialDeposit: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	steps := []struct {
		withdraw bool
		amount   uint64
	}{
		{false, 30}, {true, 50}, {false, 200}, {true, 1}, {true, 279}, {false, 7},
	}
	for i, st := range steps {
		var err error
		if st.withdraw {
			_, err = uc.Withdraw(ctx, lender, 1, st.amount)
		} else {
			_, err = uc.Contribute(ctx, lender, 1, st.amount)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		p := s.Pools[1]
		if p.CurrentAmount > p.TotalAmount {
			t.Fatalf("step %d: current %d > total %d", i, p.CurrentAmount, p.TotalAmount)
		}
	}
}

func TestLenderPosition(t *testing.T) {
	s := ledgermock.New()
	s.SeedBalance(lender, custodyDomain.AssetNative, 100)
	uc := newUsecase(s)
	ctx := context.Background()

	if _, err := uc.Create(ctx, CreatePoolInput{Caller: lender, FeeRate: 8, InitialDeposit: 100}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := uc.LenderPosition(ctx, 1, lender)
	if err != nil || got != 100 {
		t.Fatalf("position = %d, %v", got, err)
	}
	got, err = uc.LenderPosition(ctx, 1, "cccccccccccccccccccccccccccccccccccccccc")
	if err != nil || got != 0 {
		t.Fatalf("stranger position = %d, %v", got, err)
	}
	if _, err := uc.LenderPosition(ctx, 9, lender); !errors.Is(err, poolDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
