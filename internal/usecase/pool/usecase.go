package pool

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	custodyDomain "p2ploans-backend/internal/domain/custody"
	"p2ploans-backend/internal/domain/event"
	poolDomain "p2ploans-backend/internal/domain/pool"
	"p2ploans-backend/internal/domain/uow"
	"p2ploans-backend/pkg/money"

	"gorm.io/gorm"
)

type Usecase struct {
	uow      uow.UnitOfWork
	pools    poolDomain.Repository
	contribs poolDomain.ContributionRepository
	pub      event.Publisher
}

func NewUsecase(tx uow.UnitOfWork, pools poolDomain.Repository, contribs poolDomain.ContributionRepository, pub event.Publisher) *Usecase {
	return &Usecase{uow: tx, pools: pools, contribs: contribs, pub: pub}
}

type CreatePoolInput struct {
	Caller         string
	FeeRate        uint64
	Allowlist      []string
	InitialDeposit uint64
}

func (u *Usecase) Create(ctx context.Context, in CreatePoolInput) (*PoolDTO, error) {
	if in.FeeRate >= 100 {
		return nil, fmt.Errorf("fee rate must be below 100: %w", money.ErrInvalidAmount)
	}

	var p *poolDomain.Pool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// deposit custody debit commits or rolls back with the pool record
		if in.InitialDeposit > 0 {
			if err := r.Custody.Debit(ctx, in.Caller, custodyDomain.AssetNative, in.InitialDeposit); err != nil {
				return err
			}
		}
		p = &poolDomain.Pool{
			TotalAmount:   in.InitialDeposit,
			CurrentAmount: in.InitialDeposit,
			FeeRate:       in.FeeRate,
			IsActive:      in.InitialDeposit > 0 || len(in.Allowlist) > 0,
		}
		if err := r.Pools.Create(ctx, p); err != nil {
			return err
		}
		if err := r.Pools.AddAllowedLenders(ctx, p.ID, in.Allowlist); err != nil {
			return err
		}
		if in.InitialDeposit > 0 {
			return r.Contributions.Create(ctx, &poolDomain.Contribution{
				PoolID: p.ID,
				Lender: in.Caller,
				Amount: in.InitialDeposit,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.publish(ctx, event.Event{Type: event.TypePoolCreated, Caller: in.Caller, PoolID: p.ID, Amount: in.InitialDeposit, At: time.Now().UTC()})
	return toDTO(p), nil
}

func (u *Usecase) Contribute(ctx context.Context, caller string, poolID, amount uint64) (*PoolDTO, error) {
	if amount == 0 {
		return nil, money.ErrInvalidAmount
	}
	var dto *PoolDTO
	err := u.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		size, err := r.Pools.AllowlistSize(ctx, p.ID)
		if err != nil {
			return err
		}
		if size > 0 {
			allowed, err := r.Pools.IsLenderAllowed(ctx, p.ID, caller)
			if err != nil {
				return err
			}
			if !allowed {
				return poolDomain.ErrNotAllowlisted
			}
		}

		if err := r.Custody.Debit(ctx, caller, custodyDomain.AssetNative, amount); err != nil {
			return err
		}

		total, err := money.Add(p.TotalAmount, amount)
		if err != nil {
			return err
		}
		current, err := money.Add(p.CurrentAmount, amount)
		if err != nil {
			return err
		}

		c, err := r.Contributions.GetForUpdate(ctx, p.ID, caller)
		created := false
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c = &poolDomain.Contribution{PoolID: p.ID, Lender: caller}
			created = true
		} else if err != nil {
			return err
		}

		// settle at the old amount, then re-checkpoint at the new one
		if err := poolDomain.SettleRewards(p, c); err != nil {
			return err
		}
		next, err := money.Add(c.Amount, amount)
		if err != nil {
			return err
		}
		c.Amount = next
		if err := poolDomain.RefreshDebt(p, c); err != nil {
			return err
		}

		p.TotalAmount = total
		p.CurrentAmount = current
		// a pool deactivated by exhausted liquidity becomes lendable again
		p.IsActive = true

		if created {
			if err := r.Contributions.Create(ctx, c); err != nil {
				return err
			}
		} else if err := r.Contributions.Save(ctx, c); err != nil {
			return err
		}
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, poolDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.publish(ctx, event.Event{Type: event.TypePoolContribution, Caller: caller, PoolID: poolID, Amount: amount, At: time.Now().UTC()})
	return dto, nil
}

func (u *Usecase) Withdraw(ctx context.Context, caller string, poolID, amount uint64) (*PoolDTO, error) {
	if amount == 0 {
		return nil, money.ErrInvalidAmount
	}
	var dto *PoolDTO
	err := u.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		c, err := r.Contributions.GetForUpdate(ctx, p.ID, caller)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return money.ErrInvalidAmount
		}
		if err != nil {
			return err
		}
		if amount > c.Amount {
			return money.ErrInvalidAmount
		}
		// liquidity is shared and first-come: a lender's nominal share can
		// exceed what is presently uncommitted
		if amount > p.CurrentAmount {
			return poolDomain.ErrInsufficientLiquidity
		}

		if err := poolDomain.SettleRewards(p, c); err != nil {
			return err
		}
		c.Amount -= amount
		if err := poolDomain.RefreshDebt(p, c); err != nil {
			return err
		}
		p.CurrentAmount -= amount

		if err := r.Custody.Credit(ctx, caller, custodyDomain.AssetNative, amount); err != nil {
			return err
		}
		if err := r.Contributions.Save(ctx, c); err != nil {
			return err
		}
		if err := r.Pools.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, poolDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.publish(ctx, event.Event{Type: event.TypePoolWithdrawal, Caller: caller, PoolID: poolID, Amount: amount, At: time.Now().UTC()})
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*PoolDTO, error) {
	p, err := u.pools.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, poolDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) Count(ctx context.Context) (int64, error) {
	return u.pools.Count(ctx)
}

// LenderPosition returns the lender's net contribution; no row means zero.
func (u *Usecase) LenderPosition(ctx context.Context, poolID uint64, lender string) (uint64, error) {
	if _, err := u.pools.GetByID(ctx, poolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, poolDomain.ErrNotFound
		}
		return 0, err
	}
	c, err := u.contribs.Get(ctx, poolID, lender)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.Amount, nil
}

func (u *Usecase) publish(ctx context.Context, ev event.Event) {
	if err := u.pub.Publish(ctx, ev); err != nil {
		log.Printf("publish %s: %v", ev.Type, err)
	}
}
