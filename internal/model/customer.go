package model

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_customer_passport,priority:1" json:"companyId"`
	FullName            string    `gorm:"type:varchar(255);not null" json:"fullName"`
	PassportSeries      string    `gorm:"type:varchar(16);not null;uniqueIndex:uq_customer_passport,priority:2" json:"passportSeries"`
	PassportNumber      string    `gorm:"type:varchar(32);not null;uniqueIndex:uq_customer_passport,priority:3" json:"passportNumber"`
	PassportIssueDate   string    `gorm:"type:varchar(32)" json:"passportIssueDate"` // Дата выдачи
	PassportIssuedBy    string    `gorm:"type:varchar(255)" json:"passportIssuedBy"` // Кем выдан
	RegistrationAddress string    `gorm:"type:varchar(512)" json:"registrationAddress"`
	PhoneNumber         string    `gorm:"type:varchar(32)" json:"phoneNumber"`
	Email               string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}
