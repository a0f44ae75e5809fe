// Package memrepo is an in-process implementation of the repositories with
// real unit-of-work semantics: writes stay private to a unit until commit,
// row locks block other units until commit or rollback, and any repository
// call can be made to fail on demand.
package memrepo

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/pg"
)

type tx struct {
	held []string
}

type txKey struct{}

func txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

func requireTx(ctx context.Context) (*tx, error) {
	t := txFrom(ctx)
	if t == nil {
		return nil, pg.ErrNoTx
	}
	return t, nil
}

type rowLock struct {
	owner    *tx
	released chan struct{}
}

type txTable interface {
	commit(t *tx)
	rollback(t *tx)
}

type table[T any] struct {
	name      string
	committed map[int]T
	pending   map[*tx]map[int]T
	unique    func(T) string
}

func newTable[T any](name string, unique func(T) string) *table[T] {
	return &table[T]{
		name:      name,
		committed: make(map[int]T),
		pending:   make(map[*tx]map[int]T),
		unique:    unique,
	}
}

func (tb *table[T]) lockKey(id int) string {
	return tb.name + ":" + strconv.Itoa(id)
}

func (tb *table[T]) get(t *tx, id int) (T, bool) {
	if t != nil {
		if row, ok := tb.pending[t][id]; ok {
			return row, true
		}
	}
	row, ok := tb.committed[id]
	return row, ok
}

func (tb *table[T]) put(t *tx, id int, row T) {
	if t == nil {
		tb.committed[id] = row
		return
	}
	if tb.pending[t] == nil {
		tb.pending[t] = make(map[int]T)
	}
	tb.pending[t][id] = row
}

// rows returns the rows visible to t ordered by id.
func (tb *table[T]) rows(t *tx) []T {
	merged := make(map[int]T, len(tb.committed))
	for id, row := range tb.committed {
		merged[id] = row
	}
	if t != nil {
		for id, row := range tb.pending[t] {
			merged[id] = row
		}
	}
	ids := make([]int, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, merged[id])
	}
	return out
}

// taken reports whether key is used by any committed row or any pending row.
func (tb *table[T]) taken(key string) bool {
	if tb.unique == nil {
		return false
	}
	for _, row := range tb.committed {
		if tb.unique(row) == key {
			return true
		}
	}
	for _, rows := range tb.pending {
		for _, row := range rows {
			if tb.unique(row) == key {
				return true
			}
		}
	}
	return false
}

func (tb *table[T]) commit(t *tx) {
	for id, row := range tb.pending[t] {
		tb.committed[id] = row
	}
	delete(tb.pending, t)
}

func (tb *table[T]) rollback(t *tx) {
	delete(tb.pending, t)
}

type Store struct {
	mu       sync.Mutex
	seq      int
	locks    map[string]*rowLock
	failures map[string]error
	now      func() time.Time

	users         *table[domain.User]
	wallets       *table[domain.Wallet]
	transactions  *table[domain.Transaction]
	loans         *table[domain.Loan]
	plans         *table[domain.SavingsPlan]
	opportunities *table[domain.InvestmentOpportunity]
	holdings      *table[domain.UserInvestment]
	tables        []txTable
}

func New() *Store {
	s := &Store{
		locks:    make(map[string]*rowLock),
		failures: make(map[string]error),
		now:      time.Now,

		users:         newTable("users", func(u domain.User) string { return u.Email }),
		wallets:       newTable("wallets", func(w domain.Wallet) string { return strconv.Itoa(w.UserID) }),
		transactions:  newTable("transactions", func(t domain.Transaction) string { return t.Reference }),
		loans:         newTable[domain.Loan]("loans", nil),
		plans:         newTable[domain.SavingsPlan]("savings_plans", nil),
		opportunities: newTable[domain.InvestmentOpportunity]("investment_opportunities", nil),
		holdings:      newTable[domain.UserInvestment]("user_investments", nil),
	}
	s.tables = []txTable{s.users, s.wallets, s.transactions, s.loans, s.plans, s.opportunities, s.holdings}
	return s
}

// FailOn makes every call of op ("transactions.Create", "wallets.UpdateBalance", ...) return err.
// A nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// SetAdmin flips the admin flag of a committed user.
func (s *Store) SetAdmin(userID int, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users.committed[userID]; ok {
		u.IsAdmin = admin
		s.users.committed[userID] = u
	}
}

func (s *Store) injected(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[op]
}

// nextID must be called with mu held. Like a database sequence it never rolls back.
func (s *Store) nextID() int {
	s.seq++
	return s.seq
}

func (s *Store) lock(ctx context.Context, t *tx, key string) error {
	for {
		s.mu.Lock()
		l, ok := s.locks[key]
		if !ok {
			s.locks[key] = &rowLock{owner: t, released: make(chan struct{})}
			t.held = append(t.held, key)
			s.mu.Unlock()
			return nil
		}
		if l.owner == t {
			s.mu.Unlock()
			return nil
		}
		wait := l.released
		s.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Store) finish(t *tx, commit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tb := range s.tables {
		if commit {
			tb.commit(t)
		} else {
			tb.rollback(t)
		}
	}
	for _, key := range t.held {
		if l, ok := s.locks[key]; ok && l.owner == t {
			close(l.released)
			delete(s.locks, key)
		}
	}
	t.held = nil
}

type TXManager struct {
	store   *Store
	timeout time.Duration
}

func (s *Store) TxManager() *TXManager {
	return &TXManager{store: s, timeout: 5 * time.Second}
}

func (m *TXManager) Begin(ctx context.Context, fn pg.TransactionalFn) (err error) {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()

	t := &tx{}
	defer func() {
		if p := recover(); p != nil {
			m.store.finish(t, false)
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		m.store.finish(t, false)
		return err
	}
	if err = m.store.injected("tx.Commit"); err != nil {
		m.store.finish(t, false)
		return err
	}
	m.store.finish(t, true)
	return nil
}

var _ pg.TXManager = (*TXManager)(nil)
