package event

import (
	"context"
	"time"
)

// Event types mirror the contract notifications the presentation layer
// subscribes to for refreshing its read model.
const (
	TypeBorrowerRegistered = "BorrowerRegistered"
	TypePoolCreated        = "PoolCreated"
	TypePoolContribution   = "PoolContribution"
	TypePoolWithdrawal     = "PoolWithdrawal"
	TypeLoanCreated        = "LoanCreated"
	TypeLoanRepaid         = "LoanRepaid"
	TypeLoanSettled        = "LoanSettled"
	TypeRewardClaimed      = "RewardClaimed"
)

type Event struct {
	Type   string    `json:"type"`
	Caller string    `json:"caller,omitempty"`
	PoolID uint64    `json:"pool_id,omitempty"`
	LoanID uint64    `json:"loan_id,omitempty"`
	Amount uint64    `json:"amount,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher delivers events after the owning transaction commits. Delivery
// is best-effort: publish failures are logged and never roll back a write.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards events; used where no bus is wired (tests, tools).
type Nop struct{}

func (Nop) Publish(ctx context.Context, ev Event) error { return nil }
