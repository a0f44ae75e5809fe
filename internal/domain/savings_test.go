package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSavingsPlan(t *testing.T) {
	rate := decimal.NewFromInt(5)

	plan, err := NewSavingsPlan(1, "  Rent ", 120000, "", rate)
	require.NoError(t, err)
	assert.Equal(t, "Rent", plan.Title)
	assert.Equal(t, SavingsFixed, plan.Type)
	assert.True(t, plan.CurrentBalance.IsZero())

	_, err = NewSavingsPlan(1, " ", 120000, SavingsTarget, rate)
	assert.ErrorIs(t, err, ErrTitleRequired)
	_, err = NewSavingsPlan(1, "Rent", 0, SavingsTarget, rate)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = NewSavingsPlan(1, "Rent", 100, "WEEKLY", rate)
	assert.ErrorIs(t, err, ErrInvalidPlanKind)
	_, err = NewSavingsPlan(1, "Rent", 100, SavingsFlexible, decimal.NewFromInt(-2))
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = NewSavingsPlan(1, "Rent", 100, SavingsFlexible, decimal.NewFromInt(1500))
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestSavingsPlanTopUp(t *testing.T) {
	plan := SavingsPlan{TargetAmount: 1000, CurrentBalance: 900}

	next, err := plan.TopUp(100)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, next.CurrentBalance)
	assert.True(t, next.Reached())
	assert.False(t, plan.Reached())

	_, err = plan.TopUp(-5)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	full := SavingsPlan{TargetAmount: 1000, CurrentBalance: math.MaxInt64}
	same, err := full.TopUp(1)
	assert.ErrorIs(t, err, ErrAmountTooLarge)
	assert.Equal(t, full, same)
}
