package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/estate-accounting/internal/model"
)

type ApartmentRepository struct {
	db *gorm.DB
}

func NewApartmentRepository(db *gorm.DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

func (r *ApartmentRepository) Create(ctx context.Context, apartment *model.Apartment) error {
	return r.db.WithContext(ctx).Create(apartment).Error
}

func (r *ApartmentRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Apartment, error) {
	var apartment model.Apartment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&apartment).Error
	if err != nil {
		return nil, err
	}
	return &apartment, nil
}

func (r *ApartmentRepository) List(ctx context.Context, companyID uuid.UUID) ([]model.Apartment, error) {
	var apartments []model.Apartment
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("block ASC, entrance ASC, floor ASC").
		Find(&apartments).Error
	return apartments, err
}

func (r *ApartmentRepository) ListAvailable(ctx context.Context, companyID uuid.UUID) ([]model.Apartment, error) {
	var apartments []model.Apartment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, model.ApartmentStatusAvailable).
		Order("block ASC, entrance ASC, floor ASC").
		Find(&apartments).Error
	return apartments, err
}

func (r *ApartmentRepository) ListByBlock(ctx context.Context, companyID uuid.UUID, block string) ([]model.Apartment, error) {
	var apartments []model.Apartment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND block = ?", companyID, block).
		Order("entrance ASC, floor ASC").
		Find(&apartments).Error
	return apartments, err
}

func (r *ApartmentRepository) Update(ctx context.Context, apartment *model.Apartment) error {
	return r.db.WithContext(ctx).Save(apartment).Error
}

// ClaimForSale flips Available -> Sold as a conditional update so two
// concurrent contract creations cannot both attach to the same unit.
// Returns ErrRecordNotFound when the row was not in Available state.
func (r *ApartmentRepository) ClaimForSale(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.Apartment{}).
		Where("company_id = ? AND id = ? AND status = ?", companyID, id, model.ApartmentStatusAvailable).
		Update("status", model.ApartmentStatusSold)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Release returns a unit to the market after its contract is deleted.
func (r *ApartmentRepository) Release(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Apartment{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("status", model.ApartmentStatusAvailable).Error
}

func (r *ApartmentRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	var referenced int64
	err := r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("company_id = ? AND apartment_id = ?", companyID, id).
		Count(&referenced).Error
	if err != nil {
		return err
	}
	if referenced > 0 {
		return ErrRestricted
	}
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&model.Apartment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ErrRestricted marks a delete blocked by a referencing contract.
var ErrRestricted = errors.New("row is referenced by a contract")
