package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusCompleted ContractStatus = "COMPLETED"
	ContractStatusOverdue   ContractStatus = "OVERDUE"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

type Contract struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uq_contract_number" json:"companyId"`
	ContractNumber string          `gorm:"type:varchar(64);not null;uniqueIndex:uq_contract_number" json:"contractNumber"` // № договора
	ContractDate   time.Time       `gorm:"not null" json:"contractDate"`
	DurationMonths int             `gorm:"not null" json:"durationMonths"` // Срок (месяцы)
	TotalAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalAmount"`
	DownPayment    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"downPayment"`
	MonthlyPayment decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"monthlyPayment"` // Сумма по графику
	Status         ContractStatus  `gorm:"type:varchar(16);not null;default:'ACTIVE';index" json:"status"`

	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"customerId"`
	ApartmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"apartmentId"`
	AgentID     uuid.UUID `gorm:"type:uuid;not null;index" json:"agentId"`

	Customer  *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Apartment *Apartment `gorm:"foreignKey:ApartmentID" json:"apartment,omitempty"`
	Agent     *Agent     `gorm:"foreignKey:AgentID" json:"agent,omitempty"`

	InstallmentPlans []InstallmentPlan `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"installmentPlans,omitempty"`
	Payments         []Payment         `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Contract) TableName() string {
	return "contracts"
}

// RemainingBalance is derived from the loaded payments, never stored.
func (c *Contract) RemainingBalance() decimal.Decimal {
	balance := c.TotalAmount
	for _, p := range c.Payments {
		balance = balance.Sub(p.Amount)
	}
	return balance
}

// MonthsPaid counts schedule rows satisfied by a payment. Payments recorded
// past the schedule do not advance it.
func (c *Contract) MonthsPaid() int {
	paid := 0
	for _, plan := range c.InstallmentPlans {
		if plan.IsPaid {
			paid++
		}
	}
	return paid
}

func (c *Contract) MonthsRemaining() int {
	return c.DurationMonths - c.MonthsPaid()
}

// DeriveStatus recomputes the lifecycle state from the loaded schedule.
// Cancelled is a terminal manual state and is never overridden here.
func (c *Contract) DeriveStatus(now time.Time) ContractStatus {
	if c.Status == ContractStatusCancelled {
		return ContractStatusCancelled
	}
	unpaid := 0
	overdue := false
	for _, plan := range c.InstallmentPlans {
		if plan.IsPaid {
			continue
		}
		unpaid++
		if plan.DueDate.Before(now) {
			overdue = true
		}
	}
	switch {
	case unpaid == 0:
		return ContractStatusCompleted
	case overdue:
		return ContractStatusOverdue
	default:
		return ContractStatusActive
	}
}
