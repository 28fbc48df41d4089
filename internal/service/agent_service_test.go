package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/estate-accounting/internal/repository"
)

func TestAgentCommissionValidation(t *testing.T) {
	db := newTestDB(t)
	principal := staffPrincipal(uuid.New())
	svc := NewAgentService(repository.NewAgentRepository(db))

	_, err := svc.Create(context.Background(), principal, AgentInput{
		FullName:             "Петров Пётр",
		CommissionPercentage: decimal.NewFromInt(101),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), principal, AgentInput{
		FullName:             "Петров Пётр",
		CommissionPercentage: decimal.NewFromInt(-1),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	agent, err := svc.Create(context.Background(), principal, AgentInput{
		FullName:             "Петров Пётр",
		CommissionPercentage: decimal.RequireFromString("2.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, agent.TotalSales)
	assert.True(t, agent.TotalCommissionEarned.IsZero())
}

func TestAgentCountersNotEditable(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()
	principal := staffPrincipal(companyID)

	apartment := seedApartment(t, db, companyID, decimal.NewFromInt(50000))
	customer := seedCustomer(t, db, companyID)
	agent := seedAgent(t, db, companyID, decimal.NewFromInt(5))

	_, err := NewContractService(db, stubPDF{}).Create(context.Background(), principal, CreateContractInput{
		CustomerID:     customer.ID,
		ApartmentID:    apartment.ID,
		AgentID:        agent.ID,
		ContractDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DownPayment:    decimal.Zero,
		DurationMonths: 10,
	})
	require.NoError(t, err)

	svc := NewAgentService(repository.NewAgentRepository(db))
	updated, err := svc.Update(context.Background(), principal, agent.ID, AgentInput{
		FullName:             "Петров П.П.",
		CommissionPercentage: decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	// Profile changed, counters untouched.
	assert.Equal(t, "Петров П.П.", updated.FullName)
	assert.Equal(t, 1, updated.TotalSales)
	assert.True(t, updated.TotalCommissionEarned.Equal(decimal.NewFromInt(2500)))
}

func TestAgentTopPerformers(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()
	principal := staffPrincipal(companyID)

	contracts := NewContractService(db, stubPDF{})
	customer := seedCustomer(t, db, companyID)

	star := seedAgent(t, db, companyID, decimal.NewFromInt(5))
	rookie := seedAgent(t, db, companyID, decimal.NewFromInt(5))

	for i := 0; i < 2; i++ {
		apartment := seedApartment(t, db, companyID, decimal.NewFromInt(50000))
		_, err := contracts.Create(context.Background(), principal, CreateContractInput{
			CustomerID:     customer.ID,
			ApartmentID:    apartment.ID,
			AgentID:        star.ID,
			ContractDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			DownPayment:    decimal.Zero,
			DurationMonths: 10,
		})
		require.NoError(t, err)
	}

	apartment := seedApartment(t, db, companyID, decimal.NewFromInt(30000))
	_, err := contracts.Create(context.Background(), principal, CreateContractInput{
		CustomerID:     customer.ID,
		ApartmentID:    apartment.ID,
		AgentID:        rookie.ID,
		ContractDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DownPayment:    decimal.Zero,
		DurationMonths: 10,
	})
	require.NoError(t, err)

	svc := NewAgentService(repository.NewAgentRepository(db))
	top, err := svc.TopPerformers(context.Background(), principal, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, star.ID, top[0].ID)
	assert.Equal(t, 2, top[0].TotalSales)
	assert.Equal(t, rookie.ID, top[1].ID)
}
