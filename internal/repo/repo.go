package repo

import (
	"github.com/GlebRadaev/fortvest/internal/ledger"
	"github.com/GlebRadaev/fortvest/internal/pg"
	"github.com/GlebRadaev/fortvest/internal/reconcile"
	investmentrepo "github.com/GlebRadaev/fortvest/internal/repo/investment-repo"
	loanrepo "github.com/GlebRadaev/fortvest/internal/repo/loan-repo"
	savingsrepo "github.com/GlebRadaev/fortvest/internal/repo/savings-repo"
	transactionrepo "github.com/GlebRadaev/fortvest/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/fortvest/internal/repo/user-repo"
	walletrepo "github.com/GlebRadaev/fortvest/internal/repo/wallet-repo"
	"github.com/GlebRadaev/fortvest/internal/service/authservice"
	"github.com/GlebRadaev/fortvest/internal/service/investmentservice"
	"github.com/GlebRadaev/fortvest/internal/service/loanservice"
	"github.com/GlebRadaev/fortvest/internal/service/savingsservice"
	"github.com/GlebRadaev/fortvest/internal/service/walletservice"
)

// UserRepo is everything the services ask of the users table.
type UserRepo interface {
	authservice.Repo
	reconcile.UserRepo
}

type WalletRepo interface {
	authservice.WalletRepo
	walletservice.WalletRepo
	ledger.WalletRepo
}

type TransactionRepo interface {
	ledger.TransactionRepo
	walletservice.TransactionRepo
	reconcile.TransactionRepo
}

type Repositories struct {
	TxManager    pg.TXManager
	Users        UserRepo
	Wallets      WalletRepo
	Transactions TransactionRepo
	Loans        loanservice.Repo
	Plans        savingsservice.Repo
	Investments  investmentservice.Repo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		TxManager:    txManager,
		Users:        userrepo.New(conn),
		Wallets:      walletrepo.New(conn),
		Transactions: transactionrepo.New(conn),
		Loans:        loanrepo.New(conn),
		Plans:        savingsrepo.New(conn),
		Investments:  investmentrepo.New(conn),
	}
}
