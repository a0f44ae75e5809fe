package investments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GlebRadaev/fortvest/internal/domain"
	"github.com/GlebRadaev/fortvest/internal/dto"
	"github.com/GlebRadaev/fortvest/pkg/auth"
	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*InvestmentsHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func userCtx() context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, 1)
}

func TestListActiveHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedLen  int
	}{
		{
			name: "Open opportunities",
			prepareMock: func() {
				service.EXPECT().ListActive(gomock.Any()).Return([]domain.InvestmentOpportunity{
					{ID: 1, Title: "Cassava farm", UnitPrice: 50000, ROIPercentage: decimal.RequireFromString("12.5"), IsActive: true},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  1,
		},
		{
			name: "Storage failure",
			prepareMock: func() {
				service.EXPECT().ListActive(gomock.Any()).Return(nil, domain.Storage(errors.New("down")))
			},
			expectedCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodGet, "/api/investments", nil).WithContext(userCtx())
			w := httptest.NewRecorder()

			handler.ListActive(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body []dto.OpportunityResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Len(t, body, tt.expectedLen)
				assert.Equal(t, "12.5", body[0].ROIPercentage.String())
			}
		})
	}
}

func TestCreateOpportunityHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Admin publishes",
			body: `{"title":"Cassava farm","unit_price":50000,"roi_percentage":"12.5","duration_months":12}`,
			prepareMock: func() {
				service.EXPECT().
					CreateOpportunity(gomock.Any(), 1, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ int, draft domain.InvestmentOpportunity) (*domain.InvestmentOpportunity, error) {
						assert.Equal(t, "Cassava farm", draft.Title)
						assert.Equal(t, money.Money(50000), draft.UnitPrice)
						assert.True(t, draft.ROIPercentage.Equal(decimal.RequireFromString("12.5")))
						draft.ID = 1
						draft.IsActive = true
						return &draft, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Not an admin",
			body: `{"title":"Cassava farm","unit_price":50000,"roi_percentage":"12.5","duration_months":12}`,
			prepareMock: func() {
				service.EXPECT().CreateOpportunity(gomock.Any(), 1, gomock.Any()).Return(nil, domain.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "Zero unit price",
			body:         `{"title":"Cassava farm","unit_price":0}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			r := httptest.NewRequest(http.MethodPost, "/api/investments", bytes.NewBufferString(tt.body)).WithContext(userCtx())
			w := httptest.NewRecorder()

			handler.CreateOpportunity(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestInvestHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		oppID        string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:  "Units purchased",
			oppID: "1",
			body:  `{"units":2}`,
			prepareMock: func() {
				service.EXPECT().Invest(gomock.Any(), 1, 1, 2).Return(&domain.InvestmentPosting{
					Investment: domain.UserInvestment{ID: 9, UserID: 1, InvestmentID: 1, UnitsOwned: 2, AmountInvested: 100000},
					Posting: domain.Posting{
						Transaction: domain.Transaction{Amount: 100000, Direction: domain.Debit, Category: domain.CategoryInvestmentPurchase},
						Balance:     0,
					},
				}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Zero units",
			oppID:        "1",
			body:         `{"units":0}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:  "Insufficient funds",
			oppID: "1",
			body:  `{"units":3}`,
			prepareMock: func() {
				service.EXPECT().Invest(gomock.Any(), 1, 1, 3).Return(nil, domain.ErrInsufficientFunds)
			},
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name:  "Closed opportunity",
			oppID: "1",
			body:  `{"units":1}`,
			prepareMock: func() {
				service.EXPECT().Invest(gomock.Any(), 1, 1, 1).Return(nil, domain.ErrOpportunityClosed)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.oppID)
			ctx := context.WithValue(userCtx(), chi.RouteCtxKey, rctx)
			r := httptest.NewRequest(http.MethodPost, "/api/investments/"+tt.oppID+"/invest", bytes.NewBufferString(tt.body)).WithContext(ctx)
			w := httptest.NewRecorder()

			handler.Invest(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusCreated {
				var body dto.InvestmentPostingResponseDTO
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, 2, body.Investment.UnitsOwned)
				assert.Equal(t, money.Money(100000), body.Posting.Transaction.Amount)
			}
		})
	}
}

func TestListByUserHandler(t *testing.T) {
	handler, service := NewMock(t)
	service.EXPECT().ListByUser(userCtx(), 1).Return([]domain.Holding{
		{
			UserInvestment: domain.UserInvestment{ID: 9, InvestmentID: 1, UnitsOwned: 2, AmountInvested: 100000},
			Title:          "Cassava farm",
			ROIPercentage:  decimal.RequireFromString("12.5"),
		},
	}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/investments/my-investments", nil).WithContext(userCtx())
	w := httptest.NewRecorder()
	handler.ListByUser(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	var body []dto.HoldingResponseDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body, 1)
	assert.Equal(t, money.Money(112500), body[0].ExpectedReturn)
	assert.Equal(t, "Cassava farm", body[0].Title)
}
