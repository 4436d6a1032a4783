// Package ledgermock is an in-memory UnitOfWork + repository fake with real
// rollback semantics: every WithinTx snapshots the store and restores it
// when fn fails, so tests can assert that rejected calls mutate nothing.
package ledgermock

import (
	"context"
	"fmt"
	"sync"

	borrowerDomain "p2ploans-backend/internal/domain/borrower"
	custodyDomain "p2ploans-backend/internal/domain/custody"
	"p2ploans-backend/internal/domain/event"
	loanDomain "p2ploans-backend/internal/domain/loan"
	poolDomain "p2ploans-backend/internal/domain/pool"
	"p2ploans-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type Store struct {
	mu sync.Mutex

	Pools     map[uint64]*poolDomain.Pool
	Allowed   map[uint64][]string
	Contribs  map[string]*poolDomain.Contribution // poolID/lender
	Loans     map[uint64]*loanDomain.Loan
	Borrowers map[string]*borrowerDomain.Borrower
	Accounts  map[string]*custodyDomain.Account // holder/asset

	nextPoolID uint64
	nextLoanID uint64

	Events []event.Event
}

func New() *Store {
	return &Store{
		Pools:     map[uint64]*poolDomain.Pool{},
		Allowed:   map[uint64][]string{},
		Contribs:  map[string]*poolDomain.Contribution{},
		Loans:     map[uint64]*loanDomain.Loan{},
		Borrowers: map[string]*borrowerDomain.Borrower{},
		Accounts:  map[string]*custodyDomain.Account{},
	}
}

func ckey(poolID uint64, lender string) string { return fmt.Sprintf("%d/%s", poolID, lender) }
func akey(holder string, asset custodyDomain.Asset) string {
	return fmt.Sprintf("%s/%s", holder, asset)
}

// Publish implements event.Publisher.
func (s *Store) Publish(ctx context.Context, ev event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, ev)
	return nil
}

func (s *Store) repos() uow.Repos {
	return uow.Repos{
		Pools:         (*poolRepo)(s),
		Contributions: (*contribRepo)(s),
		Loans:         (*loanRepo)(s),
		Borrowers:     (*borrowerRepo)(s),
		Custody:       (*custodyRepo)(s),
	}
}

// ---- snapshot/rollback ----

type snapshot struct {
	pools     map[uint64]*poolDomain.Pool
	allowed   map[uint64][]string
	contribs  map[string]*poolDomain.Contribution
	loans     map[uint64]*loanDomain.Loan
	borrowers map[string]*borrowerDomain.Borrower
	accounts  map[string]*custodyDomain.Account
	nextPool  uint64
	nextLoan  uint64
}

func (s *Store) snap() snapshot {
	sn := snapshot{
		pools:     map[uint64]*poolDomain.Pool{},
		allowed:   map[uint64][]string{},
		contribs:  map[string]*poolDomain.Contribution{},
		loans:     map[uint64]*loanDomain.Loan{},
		borrowers: map[string]*borrowerDomain.Borrower{},
		accounts:  map[string]*custodyDomain.Account{},
		nextPool:  s.nextPoolID,
		nextLoan:  s.nextLoanID,
	}
	for k, v := range s.Pools {
		cp := *v
		sn.pools[k] = &cp
	}
	for k, v := range s.Allowed {
		sn.allowed[k] = append([]string(nil), v...)
	}
	for k, v := range s.Contribs {
		cp := *v
		sn.contribs[k] = &cp
	}
	for k, v := range s.Loans {
		cp := *v
		sn.loans[k] = &cp
	}
	for k, v := range s.Borrowers {
		cp := *v
		sn.borrowers[k] = &cp
	}
	for k, v := range s.Accounts {
		cp := *v
		sn.accounts[k] = &cp
	}
	return sn
}

func (s *Store) restore(sn snapshot) {
	s.Pools = sn.pools
	s.Allowed = sn.allowed
	s.Contribs = sn.contribs
	s.Loans = sn.loans
	s.Borrowers = sn.borrowers
	s.Accounts = sn.accounts
	s.nextPoolID = sn.nextPool
	s.nextLoanID = sn.nextLoan
}

// ---- uow.UnitOfWork ----

func (s *Store) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.snap()
	if err := fn(s.repos()); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

func (s *Store) WithinPoolTx(ctx context.Context, poolID uint64, fn func(r uow.Repos, p *poolDomain.Pool) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.snap()
	p, ok := s.Pools[poolID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	if err := fn(s.repos(), &cp); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

func (s *Store) WithinLoanTx(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *loanDomain.Loan, p *poolDomain.Pool) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.snap()
	l, ok := s.Loans[loanID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p, ok := s.Pools[l.PoolID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	lc, pc := *l, *p
	if err := fn(s.repos(), &lc, &pc); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

// Read-side repo accessors for wiring usecases in tests.

func (s *Store) PoolRepo() poolDomain.Repository                 { return (*poolRepo)(s) }
func (s *Store) ContributionRepo() poolDomain.ContributionRepository { return (*contribRepo)(s) }
func (s *Store) LoanRepo() loanDomain.Repository                 { return (*loanRepo)(s) }
func (s *Store) BorrowerRepo() borrowerDomain.Repository         { return (*borrowerRepo)(s) }
func (s *Store) CustodyRepo() custodyDomain.Repository           { return (*custodyRepo)(s) }

// Seed helpers for tests.

func (s *Store) SeedBorrower(addr string) {
	s.Borrowers[addr] = &borrowerDomain.Borrower{Address: addr, IsActive: true}
}

func (s *Store) SeedBalance(holder string, asset custodyDomain.Asset, amount uint64) {
	s.Accounts[akey(holder, asset)] = &custodyDomain.Account{Holder: holder, Asset: asset, Balance: amount}
}

func (s *Store) BalanceOf(holder string, asset custodyDomain.Asset) uint64 {
	if a, ok := s.Accounts[akey(holder, asset)]; ok {
		return a.Balance
	}
	return 0
}

// AssetTotal sums one asset's balance over every custody account.
func (s *Store) AssetTotal(asset custodyDomain.Asset) uint64 {
	var total uint64
	for _, a := range s.Accounts {
		if a.Asset == asset {
			total += a.Balance
		}
	}
	return total
}
