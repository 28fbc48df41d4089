package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/estate-accounting/internal/model"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		down     string
		months   int
		expected string
	}{
		{"even split", "50000", "10000", 10, "4000"},
		{"rounding half up", "100000", "0", 3, "33333.33"},
		{"no down payment", "1200", "0", 12, "100"},
		{"full down payment", "5000", "5000", 6, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(
				decimal.RequireFromString(tt.total),
				decimal.RequireFromString(tt.down),
				tt.months,
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"got %s, want %s", got, tt.expected)
		})
	}
}

func TestGenerateSchedule(t *testing.T) {
	contractDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	contract := &model.Contract{
		ID:             uuid.New(),
		CompanyID:      uuid.New(),
		ContractDate:   contractDate,
		DurationMonths: 10,
		TotalAmount:    decimal.NewFromInt(50000),
		DownPayment:    decimal.NewFromInt(10000),
		MonthlyPayment: decimal.NewFromInt(4000),
	}

	plans, err := GenerateSchedule(contract)
	require.NoError(t, err)
	require.Len(t, plans, 10)

	scheduled := decimal.Zero
	for i, plan := range plans {
		assert.Equal(t, i+1, plan.MonthNumber)
		assert.Equal(t, contractDate.AddDate(0, i+1, 0), plan.DueDate)
		assert.True(t, plan.ScheduledAmount.Equal(contract.MonthlyPayment))
		assert.False(t, plan.IsPaid)
		assert.Equal(t, contract.ID, plan.ContractID)
		scheduled = scheduled.Add(plan.ScheduledAmount)
	}

	// Nothing is due on the contract date itself.
	assert.True(t, plans[0].DueDate.After(contractDate))
	assert.True(t, scheduled.Equal(decimal.NewFromInt(40000)))
}

func TestGenerateScheduleMonthEndDates(t *testing.T) {
	// A Jan 31 contract clamps to the last day of February, and the
	// schedule keeps iterating from the clamped date: exactly one due
	// per calendar month.
	contract := &model.Contract{
		ID:             uuid.New(),
		ContractDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		DurationMonths: 3,
		MonthlyPayment: decimal.NewFromInt(100),
	}

	plans, err := GenerateSchedule(contract)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), plans[0].DueDate)
	assert.Equal(t, time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC), plans[1].DueDate)
	assert.Equal(t, time.Date(2026, 4, 28, 0, 0, 0, 0, time.UTC), plans[2].DueDate)
}

func TestGenerateScheduleLeapFebruary(t *testing.T) {
	contract := &model.Contract{
		ID:             uuid.New(),
		ContractDate:   time.Date(2028, 1, 31, 0, 0, 0, 0, time.UTC),
		DurationMonths: 1,
		MonthlyPayment: decimal.NewFromInt(100),
	}

	plans, err := GenerateSchedule(contract)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), plans[0].DueDate)
}

func TestGenerateScheduleRejectsZeroDuration(t *testing.T) {
	contract := &model.Contract{ID: uuid.New(), DurationMonths: 0}

	_, err := GenerateSchedule(contract)
	require.ErrorIs(t, err, ErrInvalidInput)
}
