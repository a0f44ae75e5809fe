package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/dto"
	"github.com/GlebRadaev/fortvest/pkg/auth"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	loans   *MockLoanService
	auditor *MockAuditor
}

func NewMock(t *testing.T) (*AdminHandler, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{loans: NewMockLoanService(ctrl), auditor: NewMockAuditor(ctrl)}
	handler := New(m.loans, m.auditor)
	defer ctrl.Finish()
	return handler, m
}

func request(method, target, param, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	ctx := context.WithValue(context.Background(), auth.UserIDKey, 1)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return httptest.NewRequest(method, target, nil).WithContext(ctx)
}

func TestApproveLoanHandler(t *testing.T) {
	handler, m := NewMock(t)

	tests := []struct {
		name         string
		loanID       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Loan approved and disbursed",
			loanID: "4",
			prepareMock: func() {
				m.loans.EXPECT().Approve(gomock.Any(), 1, 4).Return(&domain.LoanPosting{
					Loan: domain.Loan{ID: 4, UserID: 7, Status: domain.LoanActive, RepaymentAmount: 330000},
					Posting: domain.Posting{
						Transaction: domain.Transaction{UserID: 7, Amount: 300000, Direction: domain.Credit, Category: domain.CategoryLoanDisbursement},
						Balance:     300000,
					},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Caller is not an admin",
			loanID: "4",
			prepareMock: func() {
				m.loans.EXPECT().Approve(gomock.Any(), 1, 4).Return(nil, domain.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:   "Already approved",
			loanID: "4",
			prepareMock: func() {
				m.loans.EXPECT().Approve(gomock.Any(), 1, 4).Return(nil, domain.ErrLoanNotPending)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Invalid loan id",
			loanID:       "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := request(http.MethodPatch, "/api/admin/loans/"+tt.loanID+"/approve", "id", tt.loanID)
			w := httptest.NewRecorder()

			handler.ApproveLoan(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.LoanPostingResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, "ACTIVE", body.Loan.Status)
				assert.Equal(t, "LOAN_DISBURSEMENT", body.Posting.Transaction.Category)
			}
		})
	}
}

func TestRejectLoanHandler(t *testing.T) {
	handler, m := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Loan rejected",
			prepareMock: func() {
				m.loans.EXPECT().Reject(gomock.Any(), 1, 4).Return(&domain.Loan{ID: 4, Status: domain.LoanRejected}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Unknown loan",
			prepareMock: func() {
				m.loans.EXPECT().Reject(gomock.Any(), 1, 4).Return(nil, domain.ErrLoanNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := request(http.MethodPatch, "/api/admin/loans/4/reject", "id", "4")
			w := httptest.NewRecorder()

			handler.RejectLoan(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestReconcileHandler(t *testing.T) {
	handler, m := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedBody dto.ReconciliationResponseDTO
	}{
		{
			name: "Balanced wallet",
			prepareMock: func() {
				m.auditor.EXPECT().Audit(gomock.Any(), 1, 7).Return(&domain.Reconciliation{
					UserID:   7,
					Balance:  170000,
					Totals:   domain.LedgerTotals{Credits: 800000, Debits: 630000},
					Balanced: true,
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: dto.ReconciliationResponseDTO{UserID: 7, Balance: 170000, Credits: money.Money(800000), Debits: 630000, Balanced: true},
		},
		{
			name: "Caller is not an admin",
			prepareMock: func() {
				m.auditor.EXPECT().Audit(gomock.Any(), 1, 7).Return(nil, domain.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := request(http.MethodGet, "/api/admin/reconciliation/7", "userID", "7")
			w := httptest.NewRecorder()

			handler.Reconcile(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.ReconciliationResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, tt.expectedBody, body)
			}
		})
	}
}
