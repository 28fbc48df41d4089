package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/estate-accounting/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetWithDetails loads the full aggregate: parties, schedule and payments.
func (r *ContractRepository) GetWithDetails(ctx context.Context, companyID, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Apartment").
		Preload("Agent").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, created_at ASC")
		}).
		Preload("InstallmentPlans", func(db *gorm.DB) *gorm.DB {
			return db.Order("month_number ASC")
		}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) GetByNumber(ctx context.Context, companyID uuid.UUID, number string) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND contract_number = ?", companyID, number).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) List(ctx context.Context, companyID uuid.UUID) ([]model.Contract, error) {
	return r.list(ctx, r.scope(companyID))
}

func (r *ContractRepository) ListByCustomer(ctx context.Context, companyID, customerID uuid.UUID) ([]model.Contract, error) {
	return r.list(ctx, r.scope(companyID).Where("customer_id = ?", customerID))
}

func (r *ContractRepository) ListByAgent(ctx context.Context, companyID, agentID uuid.UUID) ([]model.Contract, error) {
	return r.list(ctx, r.scope(companyID).Where("agent_id = ?", agentID))
}

func (r *ContractRepository) ListByStatus(ctx context.Context, companyID uuid.UUID, status model.ContractStatus) ([]model.Contract, error) {
	return r.list(ctx, r.scope(companyID).Where("status = ?", status))
}

// ListOverdue is a live filter: active contracts with at least one unpaid
// installment past due, regardless of what the stored status says. The
// stored status is a cache that the service refreshes from this result.
func (r *ContractRepository) ListOverdue(ctx context.Context, companyID uuid.UUID, now time.Time) ([]model.Contract, error) {
	return r.list(ctx, r.scope(companyID).
		Where("status = ?", model.ContractStatusActive).
		Where("EXISTS (SELECT 1 FROM installment_plans ip WHERE ip.contract_id = contracts.id AND ip.is_paid = ? AND ip.due_date < ?)", false, now))
}

func (r *ContractRepository) ListRecent(ctx context.Context, companyID uuid.UUID, limit int) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.scope(companyID).
		WithContext(ctx).
		Order("contract_date DESC").
		Limit(limit).
		Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepository) list(ctx context.Context, query *gorm.DB) ([]model.Contract, error) {
	var contracts []model.Contract
	err := query.WithContext(ctx).
		Preload("Customer").
		Preload("Apartment").
		Preload("Agent").
		Preload("Payments").
		Preload("InstallmentPlans").
		Order("contract_date DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepository) scope(companyID uuid.UUID) *gorm.DB {
	return r.db.Model(&model.Contract{}).Where("contracts.company_id = ?", companyID)
}

func (r *ContractRepository) Update(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).
		Omit("Customer", "Apartment", "Agent", "Payments", "InstallmentPlans").
		Save(contract).Error
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status model.ContractStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("status", status).Error
}

// Delete removes the contract and cascades to its schedule and payments.
// Payments go first: they hold the FK onto installment_plans.
func (r *ContractRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND contract_id = ?", companyID, id).
		Delete(&model.Payment{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND contract_id = ?", companyID, id).
		Delete(&model.InstallmentPlan{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.Contract{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContractRepository) SumTotalAmount(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("company_id = ?", companyID).
		Select("CAST(SUM(total_amount) AS TEXT)").
		Scan(&raw).Error
	if err != nil || raw == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(*raw)
}

func (r *ContractRepository) CountByStatus(ctx context.Context, companyID uuid.UUID) (map[model.ContractStatus]int, error) {
	var rows []struct {
		Status model.ContractStatus
		Count  int
	}
	err := r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.ContractStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// NextNumber produces the next sequence number in the RE-YYYY-NNN form.
func (r *ContractRepository) NextNumber(ctx context.Context, companyID uuid.UUID, now time.Time) (string, error) {
	prefix := fmt.Sprintf("RE-%d-", now.Year())

	// Lexicographic order alone breaks past -999; longer suffixes sort
	// first, then lexicographic within the same width.
	var numbers []string
	err := r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("company_id = ? AND contract_number LIKE ?", companyID, prefix+"%").
		Order("LENGTH(contract_number) DESC, contract_number DESC").
		Limit(1).
		Pluck("contract_number", &numbers).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(numbers) > 0 {
		if n, convErr := strconv.Atoi(strings.TrimPrefix(numbers[0], prefix)); convErr == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next), nil
}
