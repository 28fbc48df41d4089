package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ApartmentStatus string

const (
	ApartmentStatusAvailable ApartmentStatus = "AVAILABLE"
	ApartmentStatusReserved  ApartmentStatus = "RESERVED"
	ApartmentStatusSold      ApartmentStatus = "SOLD"
)

type Apartment struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"companyId"`
	ApartmentNumber     string          `gorm:"type:varchar(32);not null" json:"apartmentNumber"`
	Block               string          `gorm:"type:varchar(32);not null" json:"block"`
	Entrance            int             `gorm:"not null" json:"entrance"` // Подъезд
	Floor               int             `gorm:"not null" json:"floor"`
	RoomCount           int             `gorm:"not null" json:"roomCount"`
	Area                decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"area"` // Площадь, м²
	PricePerSquareMeter decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"pricePerSquareMeter"`
	TotalPrice          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"totalPrice"`
	Status              ApartmentStatus `gorm:"type:varchar(16);not null;default:'AVAILABLE';index" json:"status"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func (Apartment) TableName() string {
	return "apartments"
}

// RecalculateTotalPrice keeps the stored total in sync with area and unit
// price. It is never mutated independently.
func (a *Apartment) RecalculateTotalPrice() {
	a.TotalPrice = a.Area.Mul(a.PricePerSquareMeter).Round(2)
}
