package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/estate-accounting/internal/model"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) List(ctx context.Context, companyID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("full_name ASC").
		Find(&customers).Error
	return customers, err
}

// FindByPassport enforces the passport series+number uniqueness check
// before insert; the unique index is the backstop.
func (r *CustomerRepository) FindByPassport(ctx context.Context, companyID uuid.UUID, series, number string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND passport_series = ? AND passport_number = ?", companyID, series, number).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// HasContracts reports whether the customer is referenced by any contract,
// which freezes the passport identity fields and restricts deletion.
func (r *CustomerRepository) HasContracts(ctx context.Context, companyID, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("company_id = ? AND customer_id = ?", companyID, id).
		Count(&count).Error
	return count > 0, err
}

func (r *CustomerRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	referenced, err := r.HasContracts(ctx, companyID, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrRestricted
	}
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
