package mysql

import (
	"context"

	poolDomain "p2ploans-backend/internal/domain/pool"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PoolRepository struct{ db *gorm.DB }

func NewPoolRepository(db *gorm.DB) *PoolRepository { return &PoolRepository{db: db} }

func (r *PoolRepository) Create(ctx context.Context, p *poolDomain.Pool) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PoolRepository) Save(ctx context.Context, p *poolDomain.Pool) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PoolRepository) GetByID(ctx context.Context, id uint64) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *PoolRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *PoolRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&poolDomain.Pool{}).Count(&n)
	return n, res.Error
}

func (r *PoolRepository) AddAllowedLenders(ctx context.Context, poolID uint64, addrs []string) error {
	if len(addrs) == 0 {
		return nil
	}
	rows := make([]poolDomain.PoolLender, 0, len(addrs))
	for _, a := range addrs {
		rows = append(rows, poolDomain.PoolLender{PoolID: poolID, Address: a})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *PoolRepository) AllowlistSize(ctx context.Context, poolID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&poolDomain.PoolLender{}).
		Where("pool_id = ?", poolID).Count(&n)
	return n, res.Error
}

func (r *PoolRepository) IsLenderAllowed(ctx context.Context, poolID uint64, addr string) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&poolDomain.PoolLender{}).
		Where("pool_id = ? AND address = ?", poolID, addr).Count(&n)
	return n > 0, res.Error
}
