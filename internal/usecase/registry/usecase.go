package registry

import (
	"context"
	"errors"
	"log"
	"time"

	borrowerDomain "p2ploans-backend/internal/domain/borrower"
	"p2ploans-backend/internal/domain/event"
	"p2ploans-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	uow       uow.UnitOfWork
	borrowers borrowerDomain.Repository
	pub       event.Publisher
}

func NewUsecase(tx uow.UnitOfWork, borrowers borrowerDomain.Repository, pub event.Publisher) *Usecase {
	return &Usecase{uow: tx, borrowers: borrowers, pub: pub}
}

type BorrowerDTO struct {
	Address  string `json:"address"`
	IsActive bool   `json:"is_active"`
}

// BecomeBorrower registers the caller. Registering twice is a no-op, not an
// error; the flag is never reset.
func (u *Usecase) BecomeBorrower(ctx context.Context, caller string) (*BorrowerDTO, error) {
	registered := false
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Borrowers.Get(ctx, caller)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		err = r.Borrowers.Create(ctx, &borrowerDomain.Borrower{Address: caller, IsActive: true})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a first-registration race; treat as already registered
			return nil
		}
		if err != nil {
			return err
		}
		registered = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if registered {
		u.publish(ctx, event.Event{Type: event.TypeBorrowerRegistered, Caller: caller, At: time.Now().UTC()})
	}
	return &BorrowerDTO{Address: caller, IsActive: true}, nil
}

// Get reports the registry flag; an unknown address is simply inactive.
func (u *Usecase) Get(ctx context.Context, address string) (*BorrowerDTO, error) {
	b, err := u.borrowers.Get(ctx, address)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &BorrowerDTO{Address: address, IsActive: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &BorrowerDTO{Address: b.Address, IsActive: b.IsActive}, nil
}

func (u *Usecase) publish(ctx context.Context, ev event.Event) {
	if err := u.pub.Publish(ctx, ev); err != nil {
		log.Printf("publish %s: %v", ev.Type, err)
	}
}
