package service

import (
	"github.com/GlebRadaev/fortvest/internal/config"
	"github.com/GlebRadaev/fortvest/internal/handlers/admin"
	"github.com/GlebRadaev/fortvest/internal/handlers/auth"
	"github.com/GlebRadaev/fortvest/internal/handlers/investments"
	"github.com/GlebRadaev/fortvest/internal/handlers/loans"
	"github.com/GlebRadaev/fortvest/internal/handlers/savings"
	"github.com/GlebRadaev/fortvest/internal/handlers/wallet"
	"github.com/GlebRadaev/fortvest/internal/ledger"
	"github.com/GlebRadaev/fortvest/internal/reconcile"

	pkgauth "github.com/GlebRadaev/fortvest/pkg/auth"

	"github.com/GlebRadaev/fortvest/internal/repo"
	authservice "github.com/GlebRadaev/fortvest/internal/service/authservice"
	investmentservice "github.com/GlebRadaev/fortvest/internal/service/investmentservice"
	loanservice "github.com/GlebRadaev/fortvest/internal/service/loanservice"
	savingsservice "github.com/GlebRadaev/fortvest/internal/service/savingsservice"
	walletservice "github.com/GlebRadaev/fortvest/internal/service/walletservice"
)

type Services struct {
	AuthService       auth.Service
	WalletService     wallet.Service
	LoanService       loans.Service
	SavingsService    savings.Service
	InvestmentService investments.Service
	AdminLoanService  admin.LoanService
	Auditor           admin.Auditor

	JWT       pkgauth.JWTServiceInterface
	Reconcile *reconcile.Service
}

func New(repo *repo.Repositories, cfg *config.Config) *Services {
	jwtService := pkgauth.NewJWTService(cfg.JWTSecret)
	postings := ledger.New(repo.Wallets, repo.Transactions)

	authService := authservice.New(repo.TxManager, repo.Users, repo.Wallets, pkgauth.NewHashService(0), jwtService, cfg.WalletCurrency, cfg.TokenTTL)
	walletService := walletservice.New(repo.TxManager, repo.Wallets, repo.Transactions, postings)
	loanService := loanservice.New(repo.TxManager, repo.Loans, repo.Users, repo.Wallets, postings, cfg.LoanInterestRate)
	savingsService := savingsservice.New(repo.TxManager, repo.Plans, repo.Wallets, postings, cfg.SavingsInterestRate)
	investmentService := investmentservice.New(repo.TxManager, repo.Investments, repo.Users, repo.Wallets, postings)
	reconcileService := reconcile.New(repo.TxManager, repo.Users, repo.Wallets, repo.Transactions, cfg.ReconcileInterval, cfg.ReconcileWorkers)

	return &Services{
		AuthService:       authService,
		WalletService:     walletService,
		LoanService:       loanService,
		SavingsService:    savingsService,
		InvestmentService: investmentService,
		AdminLoanService:  loanService,
		Auditor:           reconcileService,
		JWT:               jwtService,
		Reconcile:         reconcileService,
	}
}
