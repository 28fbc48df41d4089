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

func TestApartmentCreate(t *testing.T) {
	db := newTestDB(t)
	principal := staffPrincipal(uuid.New())

	svc := NewApartmentService(repository.NewApartmentRepository(db))
	apartment, err := svc.Create(context.Background(), principal, ApartmentInput{
		ApartmentNumber:     "12",
		Block:               "A",
		Entrance:            2,
		Floor:               5,
		RoomCount:           3,
		Area:                decimal.RequireFromString("75.5"),
		PricePerSquareMeter: decimal.RequireFromString("1200.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.ApartmentStatusAvailable, apartment.Status)
	assert.True(t, apartment.TotalPrice.Equal(decimal.RequireFromString("90637.75")),
		"total: %s", apartment.TotalPrice)
}

func TestApartmentCreateValidation(t *testing.T) {
	db := newTestDB(t)
	principal := staffPrincipal(uuid.New())
	svc := NewApartmentService(repository.NewApartmentRepository(db))

	valid := ApartmentInput{
		ApartmentNumber:     "1",
		Block:               "A",
		Entrance:            1,
		Floor:               1,
		RoomCount:           1,
		Area:                decimal.NewFromInt(40),
		PricePerSquareMeter: decimal.NewFromInt(1000),
	}

	tests := []struct {
		name   string
		mutate func(*ApartmentInput)
	}{
		{"missing number", func(in *ApartmentInput) { in.ApartmentNumber = "" }},
		{"zero floor", func(in *ApartmentInput) { in.Floor = 0 }},
		{"zero area", func(in *ApartmentInput) { in.Area = decimal.Zero }},
		{"negative price", func(in *ApartmentInput) { in.PricePerSquareMeter = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), principal, input)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.Create(context.Background(), customerPrincipal(principal.CompanyID, uuid.New()), valid)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestApartmentUpdateRecomputesTotal(t *testing.T) {
	db := newTestDB(t)
	principal := staffPrincipal(uuid.New())
	apartment := seedApartment(t, db, principal.CompanyID, decimal.NewFromInt(50000))

	svc := NewApartmentService(repository.NewApartmentRepository(db))
	updated, err := svc.Update(context.Background(), principal, apartment.ID, ApartmentInput{
		ApartmentNumber:     apartment.ApartmentNumber,
		Block:               apartment.Block,
		Entrance:            apartment.Entrance,
		Floor:               apartment.Floor,
		RoomCount:           apartment.RoomCount,
		Area:                decimal.NewFromInt(60),
		PricePerSquareMeter: decimal.NewFromInt(1100),
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(66000)),
		"total: %s", updated.TotalPrice)
}

func TestApartmentDeleteRestrictedWhenReferenced(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()
	admin := adminPrincipal(companyID)

	apartment := seedApartment(t, db, companyID, decimal.NewFromInt(50000))
	customer := seedCustomer(t, db, companyID)
	agent := seedAgent(t, db, companyID, decimal.NewFromInt(5))

	_, err := NewContractService(db, stubPDF{}).Create(context.Background(), admin, CreateContractInput{
		CustomerID:     customer.ID,
		ApartmentID:    apartment.ID,
		AgentID:        agent.ID,
		ContractDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DownPayment:    decimal.Zero,
		DurationMonths: 10,
	})
	require.NoError(t, err)

	svc := NewApartmentService(repository.NewApartmentRepository(db))
	err = svc.Delete(context.Background(), admin, apartment.ID)
	require.ErrorIs(t, err, ErrConflict)

	free := seedApartment(t, db, companyID, decimal.NewFromInt(30000))
	require.NoError(t, svc.Delete(context.Background(), admin, free.ID))

	require.ErrorIs(t,
		svc.Delete(context.Background(), staffPrincipal(companyID), apartment.ID),
		ErrPermissionDenied)
}

func TestApartmentClaimForSaleIsConditional(t *testing.T) {
	db := newTestDB(t)
	companyID := uuid.New()
	apartment := seedApartment(t, db, companyID, decimal.NewFromInt(50000))

	repo := repository.NewApartmentRepository(db)
	require.NoError(t, repo.ClaimForSale(context.Background(), companyID, apartment.ID))

	// A second claim loses the conditional update.
	err := repo.ClaimForSale(context.Background(), companyID, apartment.ID)
	require.Error(t, err)

	require.NoError(t, repo.Release(context.Background(), companyID, apartment.ID))
	require.NoError(t, repo.ClaimForSale(context.Background(), companyID, apartment.ID))
}
