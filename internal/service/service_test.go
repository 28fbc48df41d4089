package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/estate-accounting/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database so every pooled connection sees the
	// same in-memory store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
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
		&model.Payment{},
	))
	return db
}

func staffPrincipal(companyID uuid.UUID) model.Principal {
	return model.Principal{
		UserID:    uuid.New(),
		FullName:  "Test Accountant",
		Role:      model.RoleAccountant,
		CompanyID: companyID,
	}
}

func adminPrincipal(companyID uuid.UUID) model.Principal {
	return model.Principal{
		UserID:    uuid.New(),
		FullName:  "Test Admin",
		Role:      model.RoleAdmin,
		CompanyID: companyID,
	}
}

func agentPrincipal(companyID, agentID uuid.UUID) model.Principal {
	return model.Principal{
		UserID:    uuid.New(),
		FullName:  "Test Agent",
		Role:      model.RoleAgent,
		CompanyID: companyID,
		AgentID:   &agentID,
	}
}

func customerPrincipal(companyID, customerID uuid.UUID) model.Principal {
	return model.Principal{
		UserID:     uuid.New(),
		FullName:   "Test Customer",
		Role:       model.RoleCustomer,
		CompanyID:  companyID,
		CustomerID: &customerID,
	}
}

func seedApartment(t *testing.T, db *gorm.DB, companyID uuid.UUID, totalPrice decimal.Decimal) model.Apartment {
	t.Helper()
	apartment := model.Apartment{
		ID:                  uuid.New(),
		CompanyID:           companyID,
		ApartmentNumber:     fmt.Sprintf("A-%s", uuid.NewString()[:8]),
		Block:               "1",
		Entrance:            1,
		Floor:               3,
		RoomCount:           2,
		Area:                decimal.NewFromInt(50),
		PricePerSquareMeter: totalPrice.Div(decimal.NewFromInt(50)).Round(2),
		TotalPrice:          totalPrice,
		Status:              model.ApartmentStatusAvailable,
	}
	require.NoError(t, db.Create(&apartment).Error)
	return apartment
}

func seedCustomer(t *testing.T, db *gorm.DB, companyID uuid.UUID) model.Customer {
	t.Helper()
	customer := model.Customer{
		ID:             uuid.New(),
		CompanyID:      companyID,
		FullName:       "Иванов Иван",
		PassportSeries: "N",
		PassportNumber: uuid.NewString()[:12],
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func seedAgent(t *testing.T, db *gorm.DB, companyID uuid.UUID, commissionPct decimal.Decimal) model.Agent {
	t.Helper()
	agent := model.Agent{
		ID:                    uuid.New(),
		CompanyID:             companyID,
		FullName:              "Петров Пётр",
		CommissionPercentage:  commissionPct,
		TotalCommissionEarned: decimal.Zero,
	}
	require.NoError(t, db.Create(&agent).Error)
	return agent
}

type stubPDF struct{}

func (stubPDF) Generate(model.Contract) ([]byte, error) { return []byte("%PDF-1.4"), nil }

type stubExcel struct{}

func (stubExcel) Generate(model.PaymentRegister) ([]byte, error) { return []byte("PK"), nil }
