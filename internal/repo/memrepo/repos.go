package memrepo

import (
	"context"
	"errors"
	"strconv"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/pkg/money"
)

// ErrNegativeBalance mirrors the wallets balance CHECK constraint.
var ErrNegativeBalance = errors.New(`new row for relation "wallets" violates check constraint "wallets_balance_non_negative"`)

func newest[T any](rows []T) []T {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}

type Users struct{ s *Store }

func (s *Store) Users() *Users { return &Users{s: s} }

func (r *Users) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.s.injected("users.FindByEmail"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users.rows(txFrom(ctx)) {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *Users) GetByID(ctx context.Context, id int) (*domain.User, error) {
	if err := r.s.injected("users.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users.get(txFrom(ctx), id); ok {
		return &u, nil
	}
	return nil, nil
}

func (r *Users) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.s.injected("users.Create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.users.taken(user.Email) {
		return nil, domain.ErrEmailTaken
	}
	user.ID = r.s.nextID()
	user.IsAdmin = false
	user.IsVerified = false
	user.CreatedAt = r.s.now()
	r.s.users.put(txFrom(ctx), user.ID, *user)
	return user, nil
}

func (r *Users) IsAdmin(ctx context.Context, userID int) (bool, error) {
	t, err := requireTx(ctx)
	if err != nil {
		return false, err
	}
	if err := r.s.injected("users.IsAdmin"); err != nil {
		return false, err
	}
	if err := r.s.lock(ctx, t, r.s.users.lockKey(userID)); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users.get(t, userID)
	return ok && u.IsAdmin, nil
}

func (r *Users) ListIDs(ctx context.Context, afterID, limit int) ([]int, error) {
	if err := r.s.injected("users.ListIDs"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int
	for _, u := range r.s.users.rows(txFrom(ctx)) {
		if u.ID > afterID && len(ids) < limit {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

type Wallets struct{ s *Store }

func (s *Store) Wallets() *Wallets { return &Wallets{s: s} }

func (r *Wallets) findID(t *tx, userID int) (int, bool) {
	for _, w := range r.s.wallets.rows(t) {
		if w.UserID == userID {
			return w.ID, true
		}
	}
	return 0, false
}

func (r *Wallets) GetByUserID(ctx context.Context, userID int) (*domain.Wallet, error) {
	if err := r.s.injected("wallets.GetByUserID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := txFrom(ctx)
	id, ok := r.findID(t, userID)
	if !ok {
		return nil, nil
	}
	w, _ := r.s.wallets.get(t, id)
	return &w, nil
}

func (r *Wallets) Create(ctx context.Context, userID int, currency string) (*domain.Wallet, error) {
	if err := r.s.injected("wallets.Create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.wallets.taken(strconv.Itoa(userID)) {
		return nil, domain.Conflict("wallet already exists", nil)
	}
	w := domain.Wallet{ID: r.s.nextID(), UserID: userID, Balance: money.Zero, Currency: currency, CreatedAt: r.s.now()}
	r.s.wallets.put(txFrom(ctx), w.ID, w)
	return &w, nil
}

func (r *Wallets) LockByUserID(ctx context.Context, userID int) (*domain.Wallet, error) {
	t, err := requireTx(ctx)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	id, ok := r.findID(t, userID)
	r.s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.LockByID(ctx, id)
}

func (r *Wallets) LockByID(ctx context.Context, walletID int) (*domain.Wallet, error) {
	t, err := requireTx(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.s.injected("wallets.Lock"); err != nil {
		return nil, err
	}
	if err := r.s.lock(ctx, t, r.s.wallets.lockKey(walletID)); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets.get(t, walletID)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *Wallets) UpdateBalance(ctx context.Context, walletID int, balance money.Money) error {
	if err := r.s.injected("wallets.UpdateBalance"); err != nil {
		return err
	}
	if balance.IsNegative() {
		return ErrNegativeBalance
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := txFrom(ctx)
	w, ok := r.s.wallets.get(t, walletID)
	if !ok {
		return domain.ErrWalletNotFound
	}
	w.Balance = balance
	r.s.wallets.put(t, walletID, w)
	return nil
}

type Transactions struct{ s *Store }

func (s *Store) Transactions() *Transactions { return &Transactions{s: s} }

func (r *Transactions) Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if err := r.s.injected("transactions.Create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.transactions.taken(txn.Reference) {
		return nil, domain.ErrDuplicateReference
	}
	txn.ID = r.s.nextID()
	txn.CreatedAt = r.s.now()
	r.s.transactions.put(txFrom(ctx), txn.ID, *txn)
	return txn, nil
}

func (r *Transactions) ListByUserID(ctx context.Context, userID, limit int) ([]domain.Transaction, error) {
	if err := r.s.injected("transactions.ListByUserID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Transaction
	for _, txn := range newest(r.s.transactions.rows(txFrom(ctx))) {
		if txn.UserID == userID && len(out) < limit {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r *Transactions) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, txn := range r.s.transactions.rows(txFrom(ctx)) {
		if txn.Reference == reference {
			return &txn, nil
		}
	}
	return nil, nil
}

func (r *Transactions) Totals(ctx context.Context, userID int) (domain.LedgerTotals, error) {
	if err := r.s.injected("transactions.Totals"); err != nil {
		return domain.LedgerTotals{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var totals domain.LedgerTotals
	for _, txn := range r.s.transactions.rows(txFrom(ctx)) {
		if txn.UserID != userID || txn.Status != domain.TransactionSuccess {
			continue
		}
		if txn.Direction == domain.Credit {
			totals.Credits = totals.Credits.Add(txn.Amount)
		} else {
			totals.Debits = totals.Debits.Add(txn.Amount)
		}
	}
	return totals, nil
}

type Loans struct{ s *Store }

func (s *Store) Loans() *Loans { return &Loans{s: s} }

func (r *Loans) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	if err := r.s.injected("loans.Create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loan.ID = r.s.nextID()
	loan.CreatedAt = r.s.now()
	r.s.loans.put(txFrom(ctx), loan.ID, *loan)
	return loan, nil
}

func (r *Loans) ListByUserID(ctx context.Context, userID int) ([]domain.Loan, error) {
	if err := r.s.injected("loans.ListByUserID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Loan
	for _, l := range newest(r.s.loans.rows(txFrom(ctx))) {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *Loans) LockByID(ctx context.Context, loanID int) (*domain.Loan, error) {
	t, err := requireTx(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.s.injected("loans.Lock"); err != nil {
		return nil, err
	}
	if err := r.s.lock(ctx, t, r.s.loans.lockKey(loanID)); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.loans.get(t, loanID)
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *Loans) Update(ctx context.Context, loan *domain.Loan) error {
	if err := r.s.injected("loans.Update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := txFrom(ctx)
	current, ok := r.s.loans.get(t, loan.ID)
	if !ok {
		return domain.ErrLoanNotFound
	}
	current.Status = loan.Status
	current.RepaymentAmount = loan.RepaymentAmount
	current.DueDate = loan.DueDate
	r.s.loans.put(t, loan.ID, current)
	return nil
}

type Plans struct{ s *Store }

func (s *Store) Plans() *Plans { return &Plans{s: s} }

func (r *Plans) Create(ctx context.Context, plan *domain.SavingsPlan) (*domain.SavingsPlan, error) {
	if err := r.s.injected("plans.Create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	plan.ID = r.s.nextID()
	plan.CreatedAt = r.s.now()
	r.s.plans.put(txFrom(ctx), plan.ID, *plan)
	return plan, nil
}

func (r *Plans) ListByUserID(ctx context.Context, userID int) ([]domain.SavingsPlan, error) {
	if err := r.s.injected("plans.ListByUserID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.SavingsPlan
	for _, p := range newest(r.s.plans.rows(txFrom(ctx))) {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Plans) LockByID(ctx context.Context, planID int) (*domain.SavingsPlan, error) {
	t, err := requireTx(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.s.lock(ctx, t, r.s.plans.lockKey(planID)); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans.get(t, planID)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *Plans) UpdateBalance(ctx context.Context, planID int, balance money.Money) error {
	if err := r.s.injected("plans.UpdateBalance"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := txFrom(ctx)
	p, ok := r.s.plans.get(t, planID)
	if !ok {
		return domain.ErrPlanNotFound
	}
	p.CurrentBalance = balance
	r.s.plans.put(t, planID, p)
	return nil
}

type Investments struct{ s *Store }

func (s *Store) Investments() *Investments { return &Investments{s: s} }

func (r *Investments) CreateOpportunity(ctx context.Context, o *domain.InvestmentOpportunity) (*domain.InvestmentOpportunity, error) {
	if err := r.s.injected("investments.CreateOpportunity"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.nextID()
	o.CreatedAt = r.s.now()
	r.s.opportunities.put(txFrom(ctx), o.ID, *o)
	return o, nil
}

func (r *Investments) ListActive(ctx context.Context) ([]domain.InvestmentOpportunity, error) {
	if err := r.s.injected("investments.ListActive"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.InvestmentOpportunity
	for _, o := range newest(r.s.opportunities.rows(txFrom(ctx))) {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *Investments) ShareOpportunity(ctx context.Context, id int) (*domain.InvestmentOpportunity, error) {
	t, err := requireTx(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.s.lock(ctx, t, r.s.opportunities.lockKey(id)); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.opportunities.get(t, id)
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *Investments) CreateHolding(ctx context.Context, inv *domain.UserInvestment) (*domain.UserInvestment, error) {
	if err := r.s.injected("investments.CreateHolding"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv.ID = r.s.nextID()
	inv.CreatedAt = r.s.now()
	r.s.holdings.put(txFrom(ctx), inv.ID, *inv)
	return inv, nil
}

func (r *Investments) ListHoldings(ctx context.Context, userID int) ([]domain.Holding, error) {
	if err := r.s.injected("investments.ListHoldings"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := txFrom(ctx)
	var out []domain.Holding
	for _, inv := range newest(r.s.holdings.rows(t)) {
		if inv.UserID != userID {
			continue
		}
		o, _ := r.s.opportunities.get(t, inv.InvestmentID)
		out = append(out, domain.Holding{UserInvestment: inv, Title: o.Title, ROIPercentage: o.ROIPercentage})
	}
	return out, nil
}
