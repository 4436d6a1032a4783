package loan

import (
	"context"
	"errors"
	"log"
	"time"

	borrowerDomain "p2ploans-backend/internal/domain/borrower"
	custodyDomain "p2ploans-backend/internal/domain/custody"
	"p2ploans-backend/internal/domain/event"
	loanDomain "p2ploans-backend/internal/domain/loan"
	poolDomain "p2ploans-backend/internal/domain/pool"
	"p2ploans-backend/internal/domain/uow"
	"p2ploans-backend/pkg/money"

	"gorm.io/gorm"
)

// ErrNotAuthorized gates the settlement operation to the configured owner.
var ErrNotAuthorized = errors.New("caller may not settle loans")

type Usecase struct {
	uow   uow.UnitOfWork
	loans loanDomain.Repository
	pub   event.Publisher

	maxDurationDays uint64
	owner           string
	now             func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, loans loanDomain.Repository, pub event.Publisher, maxDurationDays uint64, owner string) *Usecase {
	return &Usecase{
		uow:             tx,
		loans:           loans,
		pub:             pub,
		maxDurationDays: maxDurationDays,
		owner:           owner,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

type BorrowInput struct {
	Caller           string
	PoolID           uint64
	BorrowAmount     uint64
	CollateralAmount uint64
	DurationDays     uint64
	MaxFeeRate       uint64
}

// Borrow originates a loan against one pool. The client may have filtered
// pools by fee and liquidity already; eligibility is re-validated here under
// the pool row lock, so two requests racing for the last unit of liquidity
// resolve to exactly one success.
//
// The collateral ratio is borrower-selected: the ledger requires collateral
// to be posted and custodied atomically but does not enforce a minimum
// ratio, so an under-collateralized default shortens the pool.
func (u *Usecase) Borrow(ctx context.Context, in BorrowInput) (*LoanDTO, error) {
	if in.BorrowAmount == 0 || in.CollateralAmount == 0 {
		return nil, money.ErrInvalidAmount
	}
	if in.DurationDays == 0 || in.DurationDays > u.maxDurationDays {
		return nil, loanDomain.ErrInvalidDuration
	}

	var l *loanDomain.Loan
	err := u.uow.WithinPoolTx(ctx, in.PoolID, func(r uow.Repos, p *poolDomain.Pool) error {
		b, err := r.Borrowers.Get(ctx, in.Caller)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !b.IsActive) {
			return borrowerDomain.ErrNotRegistered
		}
		if err != nil {
			return err
		}

		if p.FeeRate > in.MaxFeeRate {
			return loanDomain.ErrFeeExceedsMax
		}
		if !p.IsActive || p.CurrentAmount < in.BorrowAmount {
			return poolDomain.ErrInsufficientLiquidity
		}

		_, err = r.Loans.GetOpenByBorrowerAndPool(ctx, in.Caller, p.ID)
		if err == nil {
			return loanDomain.ErrOpenLoanExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		fee, err := money.Fee(in.BorrowAmount, p.FeeRate)
		if err != nil {
			return err
		}
		total, err := money.Add(in.BorrowAmount, fee)
		if err != nil {
			return err
		}

		// collateral custody and loan creation commit or roll back together
		if err := r.Custody.Debit(ctx, in.Caller, custodyDomain.AssetCollateral, in.CollateralAmount); err != nil {
			return err
		}
		if err := r.Custody.Credit(ctx, custodyDomain.LoanEscrowHolder, custodyDomain.AssetCollateral, in.CollateralAmount); err != nil {
			return err
		}
		if err := r.Custody.Credit(ctx, in.Caller, custodyDomain.AssetNative, in.BorrowAmount); err != nil {
			return err
		}

		l = &loanDomain.Loan{
			Borrower:         in.Caller,
			PoolID:           p.ID,
			Principal:        in.BorrowAmount,
			Total:            total,
			Left:             total,
			CollateralLocked: in.CollateralAmount,
			LoanStart:        u.now(),
			DurationDays:     in.DurationDays,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		// the fee is owed, not held: liquidity drops by principal only
		p.CurrentAmount -= in.BorrowAmount
		if p.CurrentAmount == 0 {
			p.IsActive = false
		}
		return r.Pools.Save(ctx, p)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, poolDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.publish(ctx, event.Event{Type: event.TypeLoanCreated, Caller: in.Caller, PoolID: in.PoolID, LoanID: l.ID, Amount: in.BorrowAmount, At: time.Now().UTC()})
	return toDTO(l), nil
}

// Repay reduces the outstanding balance. The payment restores pool
// liquidity principal-first; the fee portion accrues as lender reward
// income. Full repayment releases the locked collateral.
func (u *Usecase) Repay(ctx context.Context, caller string, loanID, amount uint64) (*LoanDTO, error) {
	if amount == 0 {
		return nil, money.ErrInvalidAmount
	}
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan, p *poolDomain.Pool) error {
		if l.Borrower != caller {
			return loanDomain.ErrNotBorrower
		}
		if l.Terminal() {
			return loanDomain.ErrAlreadySettled
		}
		if amount > l.Left {
			return money.ErrInvalidAmount
		}

		if err := r.Custody.Debit(ctx, caller, custodyDomain.AssetNative, amount); err != nil {
			return err
		}

		principalPart, feePart, err := l.SplitRepayment(amount)
		if err != nil {
			return err
		}
		current, err := money.Add(p.CurrentAmount, principalPart)
		if err != nil {
			return err
		}
		p.CurrentAmount = current
		if err := poolDomain.AccrueFee(p, feePart); err != nil {
			return err
		}
		if p.CurrentAmount > 0 {
			p.IsActive = true
		}

		l.Left -= amount
		if l.Left == 0 {
			l.IsPayed = true
			if err := r.Custody.Debit(ctx, custodyDomain.LoanEscrowHolder, custodyDomain.AssetCollateral, l.CollateralLocked); err != nil {
				return err
			}
			if err := r.Custody.Credit(ctx, caller, custodyDomain.AssetCollateral, l.CollateralLocked); err != nil {
				return err
			}
		}

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.publish(ctx, event.Event{Type: event.TypeLoanRepaid, Caller: caller, LoanID: loanID, Amount: amount, At: time.Now().UTC()})
	return dto, nil
}

// Settle liquidates an expired loan's collateral. The pool is credited with
// the lesser of collateral and the outstanding balance; any shortfall is a
// pool loss. Only the configured owner may settle.
func (u *Usecase) Settle(ctx context.Context, caller string, loanID uint64) (*LoanDTO, error) {
	if u.owner == "" || caller != u.owner {
		return nil, ErrNotAuthorized
	}
	var (
		dto      *LoanDTO
		coverage uint64
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan, p *poolDomain.Pool) error {
		if l.Terminal() {
			return loanDomain.ErrAlreadySettled
		}
		if !u.now().After(l.ExpiresAt()) {
			return loanDomain.ErrNotExpired
		}

		coverage = min(l.CollateralLocked, l.Left)
		principalPart, feePart, err := l.SplitRepayment(coverage)
		if err != nil {
			return err
		}
		current, err := money.Add(p.CurrentAmount, principalPart)
		if err != nil {
			return err
		}
		p.CurrentAmount = current
		if err := poolDomain.AccrueFee(p, feePart); err != nil {
			return err
		}
		if p.CurrentAmount > 0 {
			p.IsActive = true
		}

		// the full locked collateral moves from loan escrow to the pool's
		// collateral account, never back to the borrower
		if err := r.Custody.Debit(ctx, custodyDomain.LoanEscrowHolder, custodyDomain.AssetCollateral, l.CollateralLocked); err != nil {
			return err
		}
		if err := r.Custody.Credit(ctx, custodyDomain.PoolHolder(p.ID), custodyDomain.AssetCollateral, l.CollateralLocked); err != nil {
			return err
		}

		l.Left -= coverage
		l.Settled = true
		if l.Left == 0 {
			l.IsPayed = true
		}

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.publish(ctx, event.Event{Type: event.TypeLoanSettled, Caller: caller, LoanID: loanID, Amount: coverage, At: time.Now().UTC()})
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*LoanDTO, error) {
	l, err := u.loans.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) BorrowerLoans(ctx context.Context, borrower string) ([]uint64, error) {
	return u.loans.ListIDsByBorrower(ctx, borrower)
}

func (u *Usecase) publish(ctx context.Context, ev event.Event) {
	if err := u.pub.Publish(ctx, ev); err != nil {
		log.Printf("publish %s: %v", ev.Type, err)
	}
}
