package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/estate-accounting/internal/model"
)

// newFKTestDB builds a database with foreign keys enforced and the
// payments table declared the way the production migrations declare it,
// with installment_plan_id referencing installment_plans(id).
func newFKTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Apartment{},
		&model.Customer{},
		&model.Agent{},
		&model.Contract{},
		&model.InstallmentPlan{},
	))
	// AutoMigrate may create payments through the contract association;
	// replace it with the production shape.
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS payments`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		contract_id TEXT NOT NULL REFERENCES contracts(id),
		installment_plan_id TEXT REFERENCES installment_plans(id),
		amount NUMERIC NOT NULL,
		payment_date DATETIME NOT NULL,
		payment_type TEXT NOT NULL,
		receipt_number TEXT,
		notes TEXT,
		recorded_by_user_id TEXT NOT NULL,
		recorded_by_name TEXT,
		created_at DATETIME
	)`).Error)
	return db
}

func TestContractNextNumberPastThousand(t *testing.T) {
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Contract{}))

	companyID := uuid.New()
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	for _, number := range []string{"RE-2026-998", "RE-2026-999", "RE-2026-1000"} {
		require.NoError(t, db.Create(&model.Contract{
			ID:             uuid.New(),
			CompanyID:      companyID,
			ContractNumber: number,
			ContractDate:   now,
			DurationMonths: 12,
			CustomerID:     uuid.New(),
			ApartmentID:    uuid.New(),
			AgentID:        uuid.New(),
		}).Error)
	}

	next, err := NewContractRepository(db).NextNumber(context.Background(), companyID, now)
	require.NoError(t, err)
	require.Equal(t, "RE-2026-1001", next)
}

func TestContractDeleteWithLinkedPayment(t *testing.T) {
	db := newFKTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()

	apartment := model.Apartment{
		ID:                  uuid.New(),
		CompanyID:           companyID,
		ApartmentNumber:     "12",
		Block:               "A",
		Entrance:            1,
		Floor:               3,
		RoomCount:           2,
		Area:                decimal.NewFromInt(50),
		PricePerSquareMeter: decimal.NewFromInt(800),
		TotalPrice:          decimal.NewFromInt(40000),
		Status:              model.ApartmentStatusSold,
	}
	customer := model.Customer{
		ID:             uuid.New(),
		CompanyID:      companyID,
		FullName:       "Ахметова Д.",
		PassportSeries: "N",
		PassportNumber: "5566771",
	}
	agent := model.Agent{
		ID:                   uuid.New(),
		CompanyID:            companyID,
		FullName:             "Серик Б.",
		CommissionPercentage: decimal.NewFromInt(5),
	}
	require.NoError(t, db.Create(&apartment).Error)
	require.NoError(t, db.Create(&customer).Error)
	require.NoError(t, db.Create(&agent).Error)

	contract := model.Contract{
		ID:             uuid.New(),
		CompanyID:      companyID,
		ContractNumber: "RE-2026-044",
		ContractDate:   time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		DurationMonths: 12,
		TotalAmount:    decimal.NewFromInt(40000),
		DownPayment:    decimal.NewFromInt(4000),
		MonthlyPayment: decimal.NewFromInt(3000),
		Status:         model.ContractStatusActive,
		CustomerID:     customer.ID,
		ApartmentID:    apartment.ID,
		AgentID:        agent.ID,
	}
	require.NoError(t, db.Create(&contract).Error)

	paymentID := uuid.New()
	paidDate := time.Date(2026, time.April, 9, 0, 0, 0, 0, time.UTC)
	plan := model.InstallmentPlan{
		ID:              uuid.New(),
		CompanyID:       companyID,
		ContractID:      contract.ID,
		MonthNumber:     1,
		DueDate:         time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC),
		ScheduledAmount: decimal.NewFromInt(3000),
		IsPaid:          true,
		PaidDate:        &paidDate,
		PaymentID:       &paymentID,
	}
	require.NoError(t, db.Create(&plan).Error)

	payment := model.Payment{
		ID:                paymentID,
		CompanyID:         companyID,
		ContractID:        contract.ID,
		InstallmentPlanID: &plan.ID,
		Amount:            decimal.NewFromInt(3000),
		PaymentDate:       paidDate,
		PaymentType:       model.PaymentTypeCash,
		RecordedByUserID:  uuid.New(),
	}
	require.NoError(t, db.Create(&payment).Error)

	repo := NewContractRepository(db)
	require.NoError(t, repo.Delete(ctx, companyID, contract.ID))

	var contracts, plans, payments int64
	require.NoError(t, db.Model(&model.Contract{}).Count(&contracts).Error)
	require.NoError(t, db.Model(&model.InstallmentPlan{}).Count(&plans).Error)
	require.NoError(t, db.Model(&model.Payment{}).Count(&payments).Error)
	require.Zero(t, contracts)
	require.Zero(t, plans)
	require.Zero(t, payments)
}
