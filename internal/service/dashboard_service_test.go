package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/estate-accounting/internal/model"
	"github.com/nurpe/estate-accounting/internal/repository"
)

func TestDashboardGet(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()
	principal := staffPrincipal(companyID)

	contracts := NewContractService(db, stubPDF{})
	payments := NewPaymentService(db, stubExcel{})

	customer := seedCustomer(t, db, companyID)
	agent := seedAgent(t, db, companyID, decimal.NewFromInt(5))

	// Two sold apartments, one still on the market.
	sold1 := seedApartment(t, db, companyID, decimal.NewFromInt(50000))
	sold2 := seedApartment(t, db, companyID, decimal.NewFromInt(30000))
	seedApartment(t, db, companyID, decimal.NewFromInt(40000))

	current, err := contracts.Create(context.Background(), principal, CreateContractInput{
		CustomerID:     customer.ID,
		ApartmentID:    sold1.ID,
		AgentID:        agent.ID,
		ContractDate:   time.Now().UTC(),
		DownPayment:    decimal.Zero,
		DurationMonths: 10,
	})
	require.NoError(t, err)

	// An older contract whose first installments are already past due.
	_, err = contracts.Create(context.Background(), principal, CreateContractInput{
		CustomerID:     customer.ID,
		ApartmentID:    sold2.ID,
		AgentID:        agent.ID,
		ContractDate:   time.Now().UTC().AddDate(0, -4, 0),
		DownPayment:    decimal.Zero,
		DurationMonths: 12,
	})
	require.NoError(t, err)

	_, err = payments.Create(context.Background(), principal, CreatePaymentInput{
		ContractID:  current.ID,
		Amount:      decimal.NewFromInt(5000),
		PaymentType: model.PaymentTypeCash,
	})
	require.NoError(t, err)

	svc := NewDashboardService(
		repository.NewApartmentRepository(db),
		repository.NewContractRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewAgentRepository(db),
		6,
	)

	dashboard, err := svc.Get(context.Background(), principal)
	require.NoError(t, err)

	assert.Equal(t, 3, dashboard.TotalApartments)
	assert.Equal(t, 2, dashboard.ApartmentsSold)
	assert.Equal(t, 1, dashboard.ApartmentsAvailable)

	assert.True(t, dashboard.TotalRevenue.Equal(decimal.NewFromInt(80000)),
		"revenue: %s", dashboard.TotalRevenue)
	assert.True(t, dashboard.TotalReceived.Equal(decimal.NewFromInt(5000)))
	assert.True(t, dashboard.TotalPending.Equal(decimal.NewFromInt(75000)))
	assert.True(t, dashboard.MonthlyRevenue.Equal(decimal.NewFromInt(5000)))

	assert.Equal(t, 1, dashboard.OverdueContracts)
	assert.True(t, dashboard.OverdueAmount.Equal(decimal.NewFromInt(30000)),
		"overdue amount: %s", dashboard.OverdueAmount)

	require.Len(t, dashboard.TopAgents, 1)
	assert.Equal(t, 2, dashboard.TopAgents[0].TotalSales)

	assert.Len(t, dashboard.MonthlyTrends, 6)
	last := dashboard.MonthlyTrends[len(dashboard.MonthlyTrends)-1]
	assert.True(t, last.Revenue.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 1, last.ContractsCount)

	assert.Len(t, dashboard.RecentContracts, 2)

	_, err = svc.Get(context.Background(), agentPrincipal(companyID, agent.ID))
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDashboardScopedByCompany(t *testing.T) {
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
		ContractDate:   time.Now().UTC(),
		DownPayment:    decimal.Zero,
		DurationMonths: 10,
	})
	require.NoError(t, err)

	svc := NewDashboardService(
		repository.NewApartmentRepository(db),
		repository.NewContractRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewAgentRepository(db),
		6,
	)

	other, err := svc.Get(context.Background(), staffPrincipal(uuid.New()))
	require.NoError(t, err)
	assert.Zero(t, other.TotalApartments)
	assert.True(t, other.TotalRevenue.IsZero())
	assert.Empty(t, other.RecentContracts)
}
