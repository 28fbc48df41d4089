package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Agent counters are running totals credited at contract creation, never
// recomputed from history. See ContractService.Create.
type Agent struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"companyId"`
	FullName              string          `gorm:"type:varchar(255);not null" json:"fullName"`
	PhoneNumber           string          `gorm:"type:varchar(32)" json:"phoneNumber"`
	Email                 string          `gorm:"type:varchar(255)" json:"email"`
	CommissionPercentage  decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"commissionPercentage"`
	TotalCommissionEarned decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalCommissionEarned"`
	TotalSales            int             `gorm:"not null" json:"totalSales"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

func (Agent) TableName() string {
	return "agents"
}

// CommissionFor returns the commission earned on a sale of the given amount.
func (a *Agent) CommissionFor(totalAmount decimal.Decimal) decimal.Decimal {
	return totalAmount.Mul(a.CommissionPercentage).Div(decimal.NewFromInt(100)).Round(2)
}
