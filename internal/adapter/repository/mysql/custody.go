package mysql

import (
	"context"
	"errors"

	custodyDomain "p2ploans-backend/internal/domain/custody"
	"p2ploans-backend/pkg/money"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustodyRepository struct{ db *gorm.DB }

func NewCustodyRepository(db *gorm.DB) *CustodyRepository { return &CustodyRepository{db: db} }

func (r *CustodyRepository) getForUpdate(ctx context.Context, holder string, asset custodyDomain.Asset) (*custodyDomain.Account, error) {
	var out custodyDomain.Account
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("holder = ? AND asset = ?", holder, asset).
		First(&out)
	return &out, res.Error
}

func (r *CustodyRepository) Credit(ctx context.Context, holder string, asset custodyDomain.Asset, amount uint64) error {
	acc, err := r.getForUpdate(ctx, holder, asset)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		acc = &custodyDomain.Account{Holder: holder, Asset: asset, Balance: amount}
		return r.db.WithContext(ctx).Create(acc).Error
	}
	if err != nil {
		return err
	}
	next, err := money.Add(acc.Balance, amount)
	if err != nil {
		return err
	}
	acc.Balance = next
	return r.db.WithContext(ctx).Save(acc).Error
}

func (r *CustodyRepository) Debit(ctx context.Context, holder string, asset custodyDomain.Asset, amount uint64) error {
	acc, err := r.getForUpdate(ctx, holder, asset)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return asset.DebitErr()
	}
	if err != nil {
		return err
	}
	next, err := money.Sub(acc.Balance, amount)
	if err != nil {
		return asset.DebitErr()
	}
	acc.Balance = next
	return r.db.WithContext(ctx).Save(acc).Error
}

func (r *CustodyRepository) Balance(ctx context.Context, holder string, asset custodyDomain.Asset) (uint64, error) {
	var out custodyDomain.Account
	res := r.db.WithContext(ctx).
		Where("holder = ? AND asset = ?", holder, asset).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return out.Balance, res.Error
}

func (r *CustodyRepository) ListByHolder(ctx context.Context, holder string) ([]custodyDomain.Account, error) {
	var out []custodyDomain.Account
	res := r.db.WithContext(ctx).
		Where("holder = ?", holder).
		Order("asset ASC").
		Find(&out)
	return out, res.Error
}
