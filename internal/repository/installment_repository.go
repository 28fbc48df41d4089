package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/estate-accounting/internal/model"
)

type InstallmentRepository struct {
	db *gorm.DB
}

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, plans []model.InstallmentPlan) error {
	if len(plans) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&plans).Error
}

func (r *InstallmentRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.InstallmentPlan, error) {
	var plan model.InstallmentPlan
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *InstallmentRepository) ListByContract(ctx context.Context, companyID, contractID uuid.UUID) ([]model.InstallmentPlan, error) {
	var plans []model.InstallmentPlan
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND contract_id = ?", companyID, contractID).
		Order("month_number ASC").
		Find(&plans).Error
	return plans, err
}

// ListUnpaid returns the open schedule tail ordered by month number, the
// order in which unattributed payments are applied.
func (r *InstallmentRepository) ListUnpaid(ctx context.Context, companyID, contractID uuid.UUID) ([]model.InstallmentPlan, error) {
	var plans []model.InstallmentPlan
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND contract_id = ? AND is_paid = ?", companyID, contractID, false).
		Order("month_number ASC").
		Find(&plans).Error
	return plans, err
}

// ClaimUnpaid marks a plan paid only if it is still unpaid, so two
// concurrent payments cannot both satisfy the same installment. Returns
// ErrRecordNotFound when the row was already claimed or does not exist.
func (r *InstallmentRepository) ClaimUnpaid(ctx context.Context, companyID, planID, paymentID uuid.UUID, paidAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.InstallmentPlan{}).
		Where("company_id = ? AND id = ? AND is_paid = ?", companyID, planID, false).
		Updates(map[string]interface{}{
			"is_paid":    true,
			"paid_date":  paidAt,
			"payment_id": paymentID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Release reverts the installment satisfied by a deleted payment.
func (r *InstallmentRepository) Release(ctx context.Context, companyID, planID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.InstallmentPlan{}).
		Where("company_id = ? AND id = ?", companyID, planID).
		Updates(map[string]interface{}{
			"is_paid":    false,
			"paid_date":  nil,
			"payment_id": nil,
		}).Error
}

// DeleteUnpaidByContract drops the unpaid schedule tail before it is
// regenerated after a contract edit.
func (r *InstallmentRepository) DeleteUnpaidByContract(ctx context.Context, companyID, contractID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND contract_id = ? AND is_paid = ?", companyID, contractID, false).
		Delete(&model.InstallmentPlan{}).Error
}
