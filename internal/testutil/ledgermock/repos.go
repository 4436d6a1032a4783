package ledgermock

import (
	"context"
	"sort"

	borrowerDomain "p2ploans-backend/internal/domain/borrower"
	custodyDomain "p2ploans-backend/internal/domain/custody"
	loanDomain "p2ploans-backend/internal/domain/loan"
	poolDomain "p2ploans-backend/internal/domain/pool"
	"p2ploans-backend/pkg/money"

	"gorm.io/gorm"
)

// Repo views over the store. Gets hand out copies so changes only land via
// Save, mirroring how gorm materializes rows.

type poolRepo Store

func (r *poolRepo) Create(ctx context.Context, p *poolDomain.Pool) error {
	r.nextPoolID++
	p.ID = r.nextPoolID
	cp := *p
	r.Pools[p.ID] = &cp
	return nil
}

func (r *poolRepo) GetByID(ctx context.Context, id uint64) (*poolDomain.Pool, error) {
	p, ok := r.Pools[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *poolRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*poolDomain.Pool, error) {
	return r.GetByID(ctx, id)
}

func (r *poolRepo) Save(ctx context.Context, p *poolDomain.Pool) error {
	cp := *p
	r.Pools[p.ID] = &cp
	return nil
}

func (r *poolRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.Pools)), nil
}

func (r *poolRepo) AddAllowedLenders(ctx context.Context, poolID uint64, addrs []string) error {
	r.Allowed[poolID] = append(r.Allowed[poolID], addrs...)
	return nil
}

func (r *poolRepo) AllowlistSize(ctx context.Context, poolID uint64) (int64, error) {
	return int64(len(r.Allowed[poolID])), nil
}

func (r *poolRepo) IsLenderAllowed(ctx context.Context, poolID uint64, addr string) (bool, error) {
	for _, a := range r.Allowed[poolID] {
		if a == addr {
			return true, nil
		}
	}
	return false, nil
}

type contribRepo Store

func (r *contribRepo) Create(ctx context.Context, c *poolDomain.Contribution) error {
	cp := *c
	r.Contribs[ckey(c.PoolID, c.Lender)] = &cp
	return nil
}

func (r *contribRepo) Get(ctx context.Context, poolID uint64, lender string) (*poolDomain.Contribution, error) {
	c, ok := r.Contribs[ckey(poolID, lender)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *contribRepo) GetForUpdate(ctx context.Context, poolID uint64, lender string) (*poolDomain.Contribution, error) {
	return r.Get(ctx, poolID, lender)
}

func (r *contribRepo) Save(ctx context.Context, c *poolDomain.Contribution) error {
	cp := *c
	r.Contribs[ckey(c.PoolID, c.Lender)] = &cp
	return nil
}

type loanRepo Store

func (r *loanRepo) Create(ctx context.Context, l *loanDomain.Loan) error {
	r.nextLoanID++
	l.ID = r.nextLoanID
	cp := *l
	r.Loans[l.ID] = &cp
	return nil
}

func (r *loanRepo) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	l, ok := r.Loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *loanRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	return r.GetByID(ctx, id)
}

func (r *loanRepo) Save(ctx context.Context, l *loanDomain.Loan) error {
	cp := *l
	r.Loans[l.ID] = &cp
	return nil
}

func (r *loanRepo) GetOpenByBorrowerAndPool(ctx context.Context, borrower string, poolID uint64) (*loanDomain.Loan, error) {
	for _, l := range r.Loans {
		if l.Borrower == borrower && l.PoolID == poolID && !l.Terminal() {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *loanRepo) ListIDsByBorrower(ctx context.Context, borrower string) ([]uint64, error) {
	var ids []uint64
	for _, l := range r.Loans {
		if l.Borrower == borrower {
			ids = append(ids, l.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type borrowerRepo Store

func (r *borrowerRepo) Get(ctx context.Context, address string) (*borrowerDomain.Borrower, error) {
	b, ok := r.Borrowers[address]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *borrowerRepo) Create(ctx context.Context, b *borrowerDomain.Borrower) error {
	cp := *b
	r.Borrowers[b.Address] = &cp
	return nil
}

type custodyRepo Store

func (r *custodyRepo) Credit(ctx context.Context, holder string, asset custodyDomain.Asset, amount uint64) error {
	k := akey(holder, asset)
	acc, ok := r.Accounts[k]
	if !ok {
		r.Accounts[k] = &custodyDomain.Account{Holder: holder, Asset: asset, Balance: amount}
		return nil
	}
	next, err := money.Add(acc.Balance, amount)
	if err != nil {
		return err
	}
	acc.Balance = next
	return nil
}

func (r *custodyRepo) Debit(ctx context.Context, holder string, asset custodyDomain.Asset, amount uint64) error {
	acc, ok := r.Accounts[akey(holder, asset)]
	if !ok {
		return asset.DebitErr()
	}
	next, err := money.Sub(acc.Balance, amount)
	if err != nil {
		return asset.DebitErr()
	}
	acc.Balance = next
	return nil
}

func (r *custodyRepo) Balance(ctx context.Context, holder string, asset custodyDomain.Asset) (uint64, error) {
	if acc, ok := r.Accounts[akey(holder, asset)]; ok {
		return acc.Balance, nil
	}
	return 0, nil
}

func (r *custodyRepo) ListByHolder(ctx context.Context, holder string) ([]custodyDomain.Account, error) {
	var out []custodyDomain.Account
	for _, a := range r.Accounts {
		if a.Holder == holder {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	return out, nil
}
