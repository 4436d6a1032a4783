package mysql

import (
	"context"
	"errors"
	"testing"

	poolDomain "p2ploans-backend/internal/domain/pool"

	"gorm.io/gorm"
)

const testLender = "1111111111111111111111111111111111111111"

func TestContributionCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	c := &poolDomain.Contribution{PoolID: 1, Lender: testLender, Amount: 250, RewardDebt: 10}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, 1, testLender)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Amount != 250 || got.RewardDebt != 10 {
		t.Errorf("unexpected contribution: %+v", got)
	}

	// same lender in a different pool is a separate row
	if _, err := repo.Get(ctx, 2, testLender); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found in other pool, got %v", err)
	}
}

func TestContributionSaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	c := &poolDomain.Contribution{PoolID: 1, Lender: testLender, Amount: 100}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	c.Amount = 40
	c.RewardAccrued = 7
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, 1, testLender)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Amount != 40 || got.RewardAccrued != 7 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestContributionGetForUpdate_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewContributionRepository(db)

	_, err := repo.GetForUpdate(context.Background(), 9, testLender)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
