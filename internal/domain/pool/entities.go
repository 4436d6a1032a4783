package pool

import (
	"errors"
	"time"
)

var (
	ErrNotFound              = errors.New("pool not found")
	ErrNotAllowlisted        = errors.New("lender not allowlisted for pool")
	ErrInsufficientLiquidity = errors.New("insufficient pool liquidity")
)

// Pool is one lending reservoir. IDs are auto-increment and never reused;
// pools are archival records and are never deleted.
//
// Invariants: CurrentAmount <= TotalAmount at all times. CurrentAmount only
// decreases on loan origination and only increases on contribution or
// repayment. An inactive pool accepts no new loans but still accepts
// repayments and withdrawals.
type Pool struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"id"`
	TotalAmount   uint64 `gorm:"column:total_amount;not null" json:"total_amount"`
	CurrentAmount uint64 `gorm:"column:current_amount;not null" json:"current_amount"`
	FeeRate       uint64 `gorm:"column:fee_rate;not null" json:"fee_rate"`
	IsActive      bool   `gorm:"column:is_active;not null" json:"is_active"`

	// Fee income bookkeeping for reward distribution. AccFeePerShare is a
	// running accumulator scaled by money.RewardScale; FeeClaimed never
	// exceeds FeeIncome.
	FeeIncome      uint64 `gorm:"column:fee_income;not null" json:"-"`
	FeeClaimed     uint64 `gorm:"column:fee_claimed;not null" json:"-"`
	AccFeePerShare uint64 `gorm:"column:acc_fee_per_share;not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Pool) TableName() string { return "pools" }

// PoolLender is one allowlist row. A pool with zero rows is open to any
// lender; a pool with rows restricts contributions to listed addresses.
type PoolLender struct {
	ID      uint64 `gorm:"primaryKey;column:id"`
	PoolID  uint64 `gorm:"column:pool_id;not null;uniqueIndex:ux_pool_lenders,priority:1"`
	Address string `gorm:"column:address;size:40;not null;uniqueIndex:ux_pool_lenders,priority:2"`
}

func (PoolLender) TableName() string { return "pool_lenders" }

// Contribution is a lender's net position in one pool, keyed by
// (lender, pool). Amount never goes negative; a zero balance is a valid
// terminal state, rows are never deleted.
type Contribution struct {
	ID     uint64 `gorm:"primaryKey;column:id"`
	PoolID uint64 `gorm:"column:pool_id;not null;uniqueIndex:ux_contributions,priority:1"`
	Lender string `gorm:"column:lender;size:40;not null;uniqueIndex:ux_contributions,priority:2"`
	Amount uint64 `gorm:"column:amount;not null"`

	// RewardDebt is the accumulator checkpoint (Amount * AccFeePerShare /
	// RewardScale at last settle). RewardAccrued holds rewards settled on
	// contribution changes but not yet claimed. RewardClaimed is lifetime.
	RewardDebt    uint64 `gorm:"column:reward_debt;not null"`
	RewardAccrued uint64 `gorm:"column:reward_accrued;not null"`
	RewardClaimed uint64 `gorm:"column:reward_claimed;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Contribution) TableName() string { return "contributions" }
