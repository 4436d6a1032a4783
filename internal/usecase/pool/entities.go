package pool

import (
	"time"

	poolDomain "p2ploans-backend/internal/domain/pool"
)

type PoolDTO struct {
	ID            uint64    `json:"id"`
	TotalAmount   uint64    `json:"total_amount"`
	CurrentAmount uint64    `json:"current_amount"`
	FeeRate       uint64    `json:"fee_rate"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func toDTO(p *poolDomain.Pool) *PoolDTO {
	return &PoolDTO{
		ID:            p.ID,
		TotalAmount:   p.TotalAmount,
		CurrentAmount: p.CurrentAmount,
		FeeRate:       p.FeeRate,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
	}
}
