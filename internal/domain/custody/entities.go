package custody

import (
	"errors"
	"strconv"
	"time"
)

var (
	// ErrInsufficientFunds is a failed native-value debit.
	ErrInsufficientFunds = errors.New("insufficient custody balance")
	// ErrCollateralTransferFailed is a failed collateral-asset debit.
	ErrCollateralTransferFailed = errors.New("collateral transfer failed")
)

// Asset names one of the two independently accounted balances. Native value
// (principal, contributions, rewards) and the collateral asset never share
// a row and are never converted into each other by the ledger.
type Asset string

const (
	AssetNative     Asset = "native"
	AssetCollateral Asset = "collateral"
)

func (a Asset) Valid() bool { return a == AssetNative || a == AssetCollateral }

// LoanEscrowHolder is the ledger's own account holding collateral locked
// behind open loans.
const LoanEscrowHolder = "custody:loans"

// PoolHolder names the ledger-side account that receives a pool's seized
// collateral at settlement.
func PoolHolder(poolID uint64) string { return "pool:" + strconv.FormatUint(poolID, 10) }

// DebitErr returns the taxonomy error for a failed debit of this asset.
func (a Asset) DebitErr() error {
	if a == AssetCollateral {
		return ErrCollateralTransferFailed
	}
	return ErrInsufficientFunds
}

// Account is one holder's balance in one asset. Holders are caller
// addresses plus the ledger's own escrow ids (LoanEscrowHolder,
// PoolHolder); every internal move is a matched debit and credit.
type Account struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	Holder    string    `gorm:"column:holder;size:40;not null;uniqueIndex:ux_custody,priority:1"`
	Asset     Asset     `gorm:"column:asset;size:16;not null;uniqueIndex:ux_custody,priority:2"`
	Balance   uint64    `gorm:"column:balance;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Account) TableName() string { return "custody_accounts" }
