package domain

import (
	"math"
	"testing"

	"github.com/GlebRadaev/fortvest/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvestmentOpportunity(t *testing.T) {
	opp, err := NewInvestmentOpportunity(" Cassava farm ", "Ogun", 50000, decimal.RequireFromString("12.5"), 12)
	require.NoError(t, err)
	assert.Equal(t, "Cassava farm", opp.Title)
	assert.True(t, opp.IsActive)

	_, err = NewInvestmentOpportunity("", "", 50000, decimal.NewFromInt(1), 12)
	assert.ErrorIs(t, err, ErrTitleRequired)
	_, err = NewInvestmentOpportunity("x", "", 0, decimal.NewFromInt(1), 12)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	for _, roi := range []string{"0", "-3", "1000", "12.345"} {
		_, err = NewInvestmentOpportunity("x", "", 10, decimal.RequireFromString(roi), 12)
		assert.ErrorIs(t, err, ErrInvalidROI, roi)
		assert.Equal(t, KindValidation, KindOf(err), roi)
	}
}

func TestPurchase(t *testing.T) {
	opp := InvestmentOpportunity{ID: 3, UnitPrice: 50000, IsActive: true}

	tests := []struct {
		name    string
		opp     InvestmentOpportunity
		units   int
		want    money.Money
		wantErr error
	}{
		{name: "three units", opp: opp, units: 3, want: 150000},
		{name: "no units", opp: opp, units: 0, wantErr: ErrInvalidUnits},
		{name: "closed", opp: InvestmentOpportunity{UnitPrice: 10}, units: 1, wantErr: ErrOpportunityClosed},
		{name: "overflow", opp: InvestmentOpportunity{UnitPrice: math.MaxInt64 / 2, IsActive: true}, units: 3, wantErr: ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.opp.Purchase(9, tt.units)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, inv.AmountInvested)
				assert.Equal(t, 9, inv.UserID)
				assert.Equal(t, tt.opp.ID, inv.InvestmentID)
				assert.Equal(t, tt.units, inv.UnitsOwned)
			}
		})
	}
}

func TestHoldingExpectedReturn(t *testing.T) {
	h := Holding{ROIPercentage: decimal.RequireFromString("12.5")}
	h.AmountInvested = 100001
	assert.EqualValues(t, 112501, h.ExpectedReturn())
}
