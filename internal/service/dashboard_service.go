package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/estate-accounting/internal/model"
	"github.com/nurpe/estate-accounting/internal/repository"
)

// DashboardService derives aggregate figures on demand; it owns no state
// and keeps no caches, so its numbers are snapshots, not pinned reads.
type DashboardService struct {
	apartments  *repository.ApartmentRepository
	contracts   *repository.ContractRepository
	payments    *repository.PaymentRepository
	agents      *repository.AgentRepository
	trendMonths int
}

func NewDashboardService(
	apartments *repository.ApartmentRepository,
	contracts *repository.ContractRepository,
	payments *repository.PaymentRepository,
	agents *repository.AgentRepository,
	trendMonths int,
) *DashboardService {
	if trendMonths < 1 {
		trendMonths = 12
	}
	return &DashboardService{
		apartments:  apartments,
		contracts:   contracts,
		payments:    payments,
		agents:      agents,
		trendMonths: trendMonths,
	}
}

func (s *DashboardService) Get(ctx context.Context, principal model.Principal) (*model.Dashboard, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	companyID := principal.CompanyID
	now := time.Now().UTC()

	apartments, err := s.apartments.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	dashboard := &model.Dashboard{
		TotalApartments: len(apartments),
	}
	for _, a := range apartments {
		switch a.Status {
		case model.ApartmentStatusSold:
			dashboard.ApartmentsSold++
		case model.ApartmentStatusAvailable:
			dashboard.ApartmentsAvailable++
		case model.ApartmentStatusReserved:
			dashboard.ApartmentsReserved++
		}
	}

	dashboard.ContractsByStatus, err = s.contracts.CountByStatus(ctx, companyID)
	if err != nil {
		return nil, err
	}
	dashboard.TotalRevenue, err = s.contracts.SumTotalAmount(ctx, companyID)
	if err != nil {
		return nil, err
	}
	dashboard.TotalReceived, err = s.payments.SumAmount(ctx, companyID, nil, nil)
	if err != nil {
		return nil, err
	}
	dashboard.TotalPending = dashboard.TotalRevenue.Sub(dashboard.TotalReceived)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	dashboard.MonthlyRevenue, err = s.payments.SumAmount(ctx, companyID, &monthStart, &monthEnd)
	if err != nil {
		return nil, err
	}

	overdue, err := s.contracts.ListOverdue(ctx, companyID, now)
	if err != nil {
		return nil, err
	}
	dashboard.OverdueContracts = len(overdue)
	dashboard.OverdueAmount = decimal.Zero
	for i := range overdue {
		dashboard.OverdueAmount = dashboard.OverdueAmount.Add(overdue[i].RemainingBalance())
	}

	dashboard.TopAgents, err = s.agents.TopPerformers(ctx, companyID, 5)
	if err != nil {
		return nil, err
	}
	dashboard.MonthlyTrends, err = s.MonthlyTrends(ctx, principal, s.trendMonths)
	if err != nil {
		return nil, err
	}
	dashboard.RecentContracts, err = s.contracts.ListRecent(ctx, companyID, 10)
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}

// MonthlyTrends groups received payments and closed contracts by calendar
// month for the trailing window, oldest first.
func (s *DashboardService) MonthlyTrends(ctx context.Context, principal model.Principal, months int) ([]model.MonthlyRevenue, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if months < 1 {
		months = s.trendMonths
	}
	companyID := principal.CompanyID
	now := time.Now().UTC()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	windowEnd := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)

	payments, err := s.payments.ListByDateRange(ctx, companyID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	contracts, err := s.contracts.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		year  int
		month time.Month
	}
	revenue := make(map[bucket]decimal.Decimal, months)
	closed := make(map[bucket]int, months)
	for _, p := range payments {
		key := bucket{p.PaymentDate.Year(), p.PaymentDate.Month()}
		revenue[key] = revenue[key].Add(p.Amount)
	}
	for _, c := range contracts {
		if c.ContractDate.Before(windowStart) || !c.ContractDate.Before(windowEnd) {
			continue
		}
		key := bucket{c.ContractDate.Year(), c.ContractDate.Month()}
		closed[key]++
	}

	trends := make([]model.MonthlyRevenue, 0, months)
	for cursor := windowStart; cursor.Before(windowEnd); cursor = cursor.AddDate(0, 1, 0) {
		key := bucket{cursor.Year(), cursor.Month()}
		trends = append(trends, model.MonthlyRevenue{
			Month:          cursor.Month(),
			Year:           cursor.Year(),
			Revenue:        revenue[key],
			ContractsCount: closed[key],
		})
	}
	return trends, nil
}
