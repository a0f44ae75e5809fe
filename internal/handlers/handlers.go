package handlers

import (
	"net/http"
	"time"

	_ "github.com/GlebRadaev/fortvest/docs"
	adminhandlers "github.com/GlebRadaev/fortvest/internal/handlers/admin"
	authhandlers "github.com/GlebRadaev/fortvest/internal/handlers/auth"
	investmenthandlers "github.com/GlebRadaev/fortvest/internal/handlers/investments"
	loanhandlers "github.com/GlebRadaev/fortvest/internal/handlers/loans"
	savingshandlers "github.com/GlebRadaev/fortvest/internal/handlers/savings"
	wallethandlers "github.com/GlebRadaev/fortvest/internal/handlers/wallet"
	"github.com/GlebRadaev/fortvest/internal/idempotency"
	"github.com/GlebRadaev/fortvest/internal/service"
	"github.com/GlebRadaev/fortvest/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate mockgen -destination=mock_handlers.go -source=handlers.go -package=handlers
type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	Fund(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	ListTransactions(w http.ResponseWriter, r *http.Request)
}

type LoanHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	Repay(w http.ResponseWriter, r *http.Request)
}

type SavingsHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	TopUp(w http.ResponseWriter, r *http.Request)
}

type InvestmentHandler interface {
	ListActive(w http.ResponseWriter, r *http.Request)
	CreateOpportunity(w http.ResponseWriter, r *http.Request)
	Invest(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	ApproveLoan(w http.ResponseWriter, r *http.Request)
	RejectLoan(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler       AuthHandler
	WalletHandler     WalletHandler
	LoanHandler       LoanHandler
	SavingsHandler    SavingsHandler
	InvestmentHandler InvestmentHandler
	AdminHandler      AdminHandler

	// Authenticate guards every route except register and login.
	Authenticate func(http.Handler) http.Handler
	// Idempotent wraps the routes that move money.
	Idempotent func(http.Handler) http.Handler
}

func New(s *service.Services, store idempotency.Store, idempotencyTTL time.Duration) *Handlers {
	return &Handlers{
		AuthHandler:       authhandlers.New(s.AuthService),
		WalletHandler:     wallethandlers.New(s.WalletService),
		LoanHandler:       loanhandlers.New(s.LoanService),
		SavingsHandler:    savingshandlers.New(s.SavingsService),
		InvestmentHandler: investmenthandlers.New(s.InvestmentService),
		AdminHandler:      adminhandlers.New(s.AdminLoanService, s.Auditor),
		Authenticate:      auth.Middleware(s.JWT),
		Idempotent:        idempotency.Middleware(store, idempotencyTTL),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.AuthHandler.Register)
		r.Post("/auth/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)
			r.Get("/auth/profile", h.AuthHandler.Profile)

			r.Route("/wallet", func(r chi.Router) {
				r.With(h.Idempotent).Post("/fund", h.WalletHandler.Fund)
				r.Get("/balance", h.WalletHandler.GetBalance)
				r.Get("/transactions", h.WalletHandler.ListTransactions)
			})
			r.Route("/loans", func(r chi.Router) {
				r.Post("/apply", h.LoanHandler.Apply)
				r.Get("/my-loans", h.LoanHandler.ListByUser)
				r.With(h.Idempotent).Post("/{id}/repay", h.LoanHandler.Repay)
			})
			r.Route("/savings", func(r chi.Router) {
				r.Post("/", h.SavingsHandler.Create)
				r.Get("/", h.SavingsHandler.List)
				r.With(h.Idempotent).Post("/{id}/topup", h.SavingsHandler.TopUp)
			})
			r.Route("/investments", func(r chi.Router) {
				r.Get("/", h.InvestmentHandler.ListActive)
				r.Post("/", h.InvestmentHandler.CreateOpportunity)
				r.Get("/my-investments", h.InvestmentHandler.ListByUser)
				r.With(h.Idempotent).Post("/{id}/invest", h.InvestmentHandler.Invest)
			})
			r.Route("/admin", func(r chi.Router) {
				r.With(h.Idempotent).Patch("/loans/{id}/approve", h.AdminHandler.ApproveLoan)
				r.Patch("/loans/{id}/reject", h.AdminHandler.RejectLoan)
				r.Get("/reconciliation/{userID}", h.AdminHandler.Reconcile)
			})
		})
	})

	return r
}
