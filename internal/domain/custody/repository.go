package custody

import "context"

type Repository interface {
	// Credit adds amount to the holder's balance in asset, creating the
	// account row on first use.
	Credit(ctx context.Context, holder string, asset Asset, amount uint64) error
	// Debit subtracts amount under a row lock; it fails with the asset's
	// taxonomy error when the balance is short, mutating nothing.
	Debit(ctx context.Context, holder string, asset Asset, amount uint64) error
	Balance(ctx context.Context, holder string, asset Asset) (uint64, error)
	ListByHolder(ctx context.Context, holder string) ([]Account, error)
}
