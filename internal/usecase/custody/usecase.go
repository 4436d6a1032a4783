package custody

import (
	"context"

	custodyDomain "p2ploans-backend/internal/domain/custody"
	"p2ploans-backend/internal/domain/uow"
	"p2ploans-backend/pkg/money"
)

// Usecase is the ledger-side end of the external asset-transfer channel.
// Callers fund their native and collateral balances here before lending or
// borrowing; the two assets are accounted independently and never converted.
type Usecase struct {
	uow      uow.UnitOfWork
	accounts custodyDomain.Repository
}

func NewUsecase(tx uow.UnitOfWork, accounts custodyDomain.Repository) *Usecase {
	return &Usecase{uow: tx, accounts: accounts}
}

type BalanceDTO struct {
	Asset   custodyDomain.Asset `json:"asset"`
	Balance uint64              `json:"balance"`
}

func (u *Usecase) Deposit(ctx context.Context, caller string, asset custodyDomain.Asset, amount uint64) error {
	if amount == 0 || !asset.Valid() {
		return money.ErrInvalidAmount
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Custody.Credit(ctx, caller, asset, amount)
	})
}

func (u *Usecase) Withdraw(ctx context.Context, caller string, asset custodyDomain.Asset, amount uint64) error {
	if amount == 0 || !asset.Valid() {
		return money.ErrInvalidAmount
	}
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Custody.Debit(ctx, caller, asset, amount)
	})
}

func (u *Usecase) Balances(ctx context.Context, caller string) ([]BalanceDTO, error) {
	accs, err := u.accounts.ListByHolder(ctx, caller)
	if err != nil {
		return nil, err
	}
	out := make([]BalanceDTO, 0, len(accs))
	for _, a := range accs {
		out = append(out, BalanceDTO{Asset: a.Asset, Balance: a.Balance})
	}
	return out, nil
}
