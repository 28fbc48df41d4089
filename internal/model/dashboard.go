package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MonthlyRevenue struct {
	Month          time.Month      `json:"month"`
	Year           int             `json:"year"`
	Revenue        decimal.Decimal `json:"revenue"`
	ContractsCount int             `json:"contractsCount"`
}

type Dashboard struct {
	TotalApartments     int                    `json:"totalApartments"`
	ApartmentsSold      int                    `json:"apartmentsSold"`
	ApartmentsAvailable int                    `json:"apartmentsAvailable"`
	ApartmentsReserved  int                    `json:"apartmentsReserved"`
	ContractsByStatus   map[ContractStatus]int `json:"contractsByStatus"`
	TotalRevenue        decimal.Decimal        `json:"totalRevenue"`
	TotalReceived       decimal.Decimal        `json:"totalReceived"`
	TotalPending        decimal.Decimal        `json:"totalPending"`
	MonthlyRevenue      decimal.Decimal        `json:"monthlyRevenue"`
	OverdueContracts    int                    `json:"overdueContracts"`
	OverdueAmount       decimal.Decimal        `json:"overdueAmount"`
	TopAgents           []Agent                `json:"topAgents"`
	MonthlyTrends       []MonthlyRevenue       `json:"monthlyTrends"`
	RecentContracts     []Contract             `json:"recentContracts"`
}

// PaymentRegister is the cash / non-cash breakdown for a date range,
// feeding both the JSON report and the xlsx export.
type PaymentRegister struct {
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	TotalCash    decimal.Decimal `json:"totalCash"`
	TotalNonCash decimal.Decimal `json:"totalNonCash"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	Payments     []Payment       `json:"payments"`
}
