package pool

import "context"

type Repository interface {
	Create(ctx context.Context, p *Pool) error
	GetByID(ctx context.Context, id uint64) (*Pool, error)
	// GetByIDForUpdate locks the pool row; every write path that checks
	// liquidity must go through it so check and decrement are indivisible.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Pool, error)
	Save(ctx context.Context, p *Pool) error
	Count(ctx context.Context) (int64, error)

	AddAllowedLenders(ctx context.Context, poolID uint64, addrs []string) error
	AllowlistSize(ctx context.Context, poolID uint64) (int64, error)
	IsLenderAllowed(ctx context.Context, poolID uint64, addr string) (bool, error)
}

type ContributionRepository interface {
	Create(ctx context.Context, c *Contribution) error
	Get(ctx context.Context, poolID uint64, lender string) (*Contribution, error)
	GetForUpdate(ctx context.Context, poolID uint64, lender string) (*Contribution, error)
	Save(ctx context.Context, c *Contribution) error
}
