package repo

import (
	"testing"

	"github.com/GlebRadaev/fortvest/internal/pg"
	investmentrepo "github.com/GlebRadaev/fortvest/internal/repo/investment-repo"
	loanrepo "github.com/GlebRadaev/fortvest/internal/repo/loan-repo"
	"github.com/GlebRadaev/fortvest/internal/repo/memrepo"
	savingsrepo "github.com/GlebRadaev/fortvest/internal/repo/savings-repo"
	transactionrepo "github.com/GlebRadaev/fortvest/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/fortvest/internal/repo/user-repo"
	walletrepo "github.com/GlebRadaev/fortvest/internal/repo/wallet-repo"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.TxManager)
	assert.IsType(t, &userrepo.Repository{}, repo.Users)
	assert.IsType(t, &walletrepo.Repository{}, repo.Wallets)
	assert.IsType(t, &transactionrepo.Repository{}, repo.Transactions)
	assert.IsType(t, &loanrepo.Repository{}, repo.Loans)
	assert.IsType(t, &savingsrepo.Repository{}, repo.Plans)
	assert.IsType(t, &investmentrepo.Repository{}, repo.Investments)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}

// The in-memory store stands in for Postgres in service tests, so it must keep satisfying the same contracts.
func TestMemrepoSatisfiesRepositories(t *testing.T) {
	s := memrepo.New()
	repos := &Repositories{
		TxManager:    s.TxManager(),
		Users:        s.Users(),
		Wallets:      s.Wallets(),
		Transactions: s.Transactions(),
		Loans:        s.Loans(),
		Plans:        s.Plans(),
		Investments:  s.Investments(),
	}
	assert.NotNil(t, repos.Users)
}
