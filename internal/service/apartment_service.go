package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/estate-accounting/internal/model"
	"github.com/nurpe/estate-accounting/internal/repository"
)

type ApartmentService struct {
	repo *repository.ApartmentRepository
}

func NewApartmentService(repo *repository.ApartmentRepository) *ApartmentService {
	return &ApartmentService{repo: repo}
}

type ApartmentInput struct {
	ApartmentNumber     string
	Block               string
	Entrance            int
	Floor               int
	RoomCount           int
	Area                decimal.Decimal
	PricePerSquareMeter decimal.Decimal
}

func (in ApartmentInput) validate() error {
	if in.ApartmentNumber == "" || in.Block == "" {
		return fmt.Errorf("%w: apartment number and block are required", ErrInvalidInput)
	}
	if in.Entrance < 1 || in.Floor < 1 || in.RoomCount < 1 {
		return fmt.Errorf("%w: entrance, floor and room count must be at least 1", ErrInvalidInput)
	}
	if in.Area.IsNegative() || in.Area.IsZero() {
		return fmt.Errorf("%w: area must be positive", ErrInvalidInput)
	}
	if in.PricePerSquareMeter.IsNegative() {
		return fmt.Errorf("%w: price per square meter cannot be negative", ErrInvalidInput)
	}
	return nil
}

func (s *ApartmentService) Create(ctx context.Context, principal model.Principal, input ApartmentInput) (*model.Apartment, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	apartment := &model.Apartment{
		ID:                  uuid.New(),
		CompanyID:           principal.CompanyID,
		ApartmentNumber:     input.ApartmentNumber,
		Block:               input.Block,
		Entrance:            input.Entrance,
		Floor:               input.Floor,
		RoomCount:           input.RoomCount,
		Area:                input.Area,
		PricePerSquareMeter: input.PricePerSquareMeter,
		Status:              model.ApartmentStatusAvailable,
	}
	apartment.RecalculateTotalPrice()
	if err := s.repo.Create(ctx, apartment); err != nil {
		return nil, err
	}
	return apartment, nil
}

func (s *ApartmentService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Apartment, error) {
	apartment, err := s.repo.GetByID(ctx, principal.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: apartment", ErrNotFound)
		}
		return nil, err
	}
	return apartment, nil
}

func (s *ApartmentService) List(ctx context.Context, principal model.Principal) ([]model.Apartment, error) {
	return s.repo.List(ctx, principal.CompanyID)
}

func (s *ApartmentService) ListAvailable(ctx context.Context, principal model.Principal) ([]model.Apartment, error) {
	return s.repo.ListAvailable(ctx, principal.CompanyID)
}

func (s *ApartmentService) ListByBlock(ctx context.Context, principal model.Principal, block string) ([]model.Apartment, error) {
	return s.repo.ListByBlock(ctx, principal.CompanyID, block)
}

// Update edits the physical attributes of a unit and recomputes the total
// price. Status is owned by the contract lifecycle and cannot be set here.
func (s *ApartmentService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input ApartmentInput) (*model.Apartment, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	apartment, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	apartment.ApartmentNumber = input.ApartmentNumber
	apartment.Block = input.Block
	apartment.Entrance = input.Entrance
	apartment.Floor = input.Floor
	apartment.RoomCount = input.RoomCount
	apartment.Area = input.Area
	apartment.PricePerSquareMeter = input.PricePerSquareMeter
	apartment.RecalculateTotalPrice()
	if err := s.repo.Update(ctx, apartment); err != nil {
		return nil, err
	}
	return apartment, nil
}

func (s *ApartmentService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	err := s.repo.Delete(ctx, principal.CompanyID, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: apartment", ErrNotFound)
	case errors.Is(err, repository.ErrRestricted):
		return fmt.Errorf("%w: apartment is referenced by a contract", ErrConflict)
	default:
		return err
	}
}
