package borrower

import (
	"errors"
	"time"
)

var ErrNotRegistered = errors.New("caller is not a registered borrower")

// Borrower is a registry flag per caller address. Once set active it is
// never reset (no un-registration).
type Borrower struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	Address   string    `gorm:"column:address;size:40;not null;uniqueIndex:ux_borrowers_address"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Borrower) TableName() string { return "borrowers" }
