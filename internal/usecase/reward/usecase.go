package reward

import (
	"context"
	"errors"
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
	uow uow.UnitOfWork
	pub event.Publisher
}

func NewUsecase(tx uow.UnitOfWork, pub event.Publisher) *Usecase {
	return &Usecase{uow: tx, pub: pub}
}

type ClaimDTO struct {
	PoolID uint64 `json:"pool_id"`
	Lender string `json:"lender"`
	Amount uint64 `json:"amount"`
}

// Claim pays out the caller's share of the pool's fee income accrued since
// their last claim. The per-contribution checkpoint guarantees each unit of
// income is paid at most once without iterating over all lenders.
func (u *Usecase) Claim(ctx context.Context, caller string, poolID uint64) (*ClaimDTO, error) {
	var payout uint64
	err := u.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		c, err := r.Contributions.GetForUpdate(ctx, p.ID, caller)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return poolDomain.ErrNothingToClaim
		}
		if err != nil {
			return err
		}

		if err := poolDomain.SettleRewards(p, c); err != nil {
			return err
		}
		if err := poolDomain.RefreshDebt(p, c); err != nil {
			return err
		}
		payout = c.RewardAccrued
		if payout == 0 {
			return poolDomain.ErrNothingToClaim
		}

		// claims can never exceed accumulated fee income
		unclaimed, err := money.Sub(p.FeeIncome, p.FeeClaimed)
		if err != nil || payout > unclaimed {
			return money.ErrInvalidAmount
		}

		claimed, err := money.Add(p.FeeClaimed, payout)
		if err != nil {
			return err
		}
		lifetime, err := money.Add(c.RewardClaimed, payout)
		if err != nil {
			return err
		}
		p.FeeClaimed = claimed
		c.RewardAccrued = 0
		c.RewardClaimed = lifetime

		if err := r.Custody.Credit(ctx, caller, custodyDomain.AssetNative, payout); err != nil {
			return err
		}
		if err := r.Contributions.Save(ctx, c); err != nil {
			return err
		}
		return r.Pools.Save(ctx, p)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, poolDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ev := event.Event{Type: event.TypeRewardClaimed, Caller: caller, PoolID: poolID, Amount: payout, At: time.Now().UTC()}
	if perr := u.pub.Publish(ctx, ev); perr != nil {
		log.Printf("publish %s: %v", ev.Type, perr)
	}
	return &ClaimDTO{PoolID: poolID, Lender: caller, Amount: payout}, nil
}
