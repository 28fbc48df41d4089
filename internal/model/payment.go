package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeCash    PaymentType = "CASH"    // нал
	PaymentTypeNonCash PaymentType = "NONCASH" // безнал
)

// Payment is immutable once recorded; the only mutation is deletion, which
// releases the linked installment.
type Payment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"companyId"`
	ContractID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"contractId"`
	InstallmentPlanID *uuid.UUID      `gorm:"type:uuid" json:"installmentPlanId,omitempty"`
	Amount            decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaymentDate       time.Time       `gorm:"not null;index" json:"paymentDate"`
	PaymentType       PaymentType     `gorm:"type:varchar(16);not null" json:"paymentType"`
	ReceiptNumber     string          `gorm:"type:varchar(64)" json:"receiptNumber"`
	Notes             string          `gorm:"type:text" json:"notes"`
	RecordedByUserID  uuid.UUID       `gorm:"type:uuid;not null" json:"recordedByUserId"`
	RecordedByName    string          `gorm:"type:varchar(255)" json:"recordedByName"`

	Contract *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Payment) TableName() string {
	return "payments"
}
