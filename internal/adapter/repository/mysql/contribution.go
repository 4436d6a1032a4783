package mysql

import (
	"context"

	poolDomain "p2ploans-backend/internal/domain/pool"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContributionRepository struct{ db *gorm.DB }

func NewContributionRepository(db *gorm.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

func (r *ContributionRepository) Create(ctx context.Context, c *poolDomain.Contribution) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContributionRepository) Save(ctx context.Context, c *poolDomain.Contribution) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContributionRepository) Get(ctx context.Context, poolID uint64, lender string) (*poolDomain.Contribution, error) {
	var out poolDomain.Contribution
	res := r.db.WithContext(ctx).
		Where("pool_id = ? AND lender = ?", poolID, lender).
		First(&out)
	return &out, res.Error
}

func (r *ContributionRepository) GetForUpdate(ctx context.Context, poolID uint64, lender string) (*poolDomain.Contribution, error) {
	var out poolDomain.Contribution
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pool_id = ? AND lender = ?", poolID, lender).
		First(&out)
	return &out, res.Error
}
