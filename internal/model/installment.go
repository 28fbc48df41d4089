package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentPlan is one monthly obligation of a contract's schedule.
// Rows are created in bulk at contract creation and mutated only by the
// payment recorder.
type InstallmentPlan struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"companyId"`
	ContractID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_plan_contract_month,priority:1" json:"contractId"`
	MonthNumber     int             `gorm:"not null;uniqueIndex:uq_plan_contract_month,priority:2" json:"monthNumber"` // Месяц по счету
	DueDate         time.Time       `gorm:"not null;index" json:"dueDate"`                                             // Срок оплаты
	ScheduledAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"scheduledAmount"`
	IsPaid          bool            `gorm:"not null;default:false" json:"isPaid"`
	PaidDate        *time.Time      `json:"paidDate,omitempty"`
	PaymentID       *uuid.UUID      `gorm:"type:uuid" json:"paymentId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (InstallmentPlan) TableName() string {
	return "installment_plans"
}

func (p *InstallmentPlan) IsOverdue(now time.Time) bool {
	return !p.IsPaid && p.DueDate.Before(now)
}
