package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/estate-accounting/internal/model"
	"github.com/nurpe/estate-accounting/internal/repository"
)

type CustomerService struct {
	repo *repository.CustomerRepository
}

func NewCustomerService(repo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

type CustomerInput struct {
	FullName            string
	PassportSeries      string
	PassportNumber      string
	PassportIssueDate   string
	PassportIssuedBy    string
	RegistrationAddress string
	PhoneNumber         string
	Email               string
}

func (s *CustomerService) Create(ctx context.Context, principal model.Principal, input CustomerInput) (*model.Customer, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if input.FullName == "" || input.PassportSeries == "" || input.PassportNumber == "" {
		return nil, fmt.Errorf("%w: full name and passport are required", ErrInvalidInput)
	}
	if _, err := s.repo.FindByPassport(ctx, principal.CompanyID, input.PassportSeries, input.PassportNumber); err == nil {
		return nil, fmt.Errorf("%w: passport already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer := &model.Customer{
		ID:                  uuid.New(),
		CompanyID:           principal.CompanyID,
		FullName:            input.FullName,
		PassportSeries:      input.PassportSeries,
		PassportNumber:      input.PassportNumber,
		PassportIssueDate:   input.PassportIssueDate,
		PassportIssuedBy:    input.PassportIssuedBy,
		RegistrationAddress: input.RegistrationAddress,
		PhoneNumber:         input.PhoneNumber,
		Email:               input.Email,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Customer, error) {
	if !principal.IsStaff() {
		if !principal.IsCustomer() || principal.CustomerID == nil || *principal.CustomerID != id {
			return nil, ErrPermissionDenied
		}
	}
	customer, err := s.repo.GetByID(ctx, principal.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer", ErrNotFound)
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, principal model.Principal) ([]model.Customer, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repo.List(ctx, principal.CompanyID)
}

// Update edits contact fields. Passport identity is frozen as soon as the
// customer is referenced by a contract.
func (s *CustomerService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input CustomerInput) (*model.Customer, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	customer, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	passportChanged := input.PassportSeries != customer.PassportSeries ||
		input.PassportNumber != customer.PassportNumber
	if passportChanged {
		referenced, err := s.repo.HasContracts(ctx, principal.CompanyID, id)
		if err != nil {
			return nil, err
		}
		if referenced {
			return nil, fmt.Errorf("%w: passport cannot change after first contract", ErrConflict)
		}
		if _, err := s.repo.FindByPassport(ctx, principal.CompanyID, input.PassportSeries, input.PassportNumber); err == nil {
			return nil, fmt.Errorf("%w: passport already registered", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		customer.PassportSeries = input.PassportSeries
		customer.PassportNumber = input.PassportNumber
	}

	customer.FullName = input.FullName
	customer.PassportIssueDate = input.PassportIssueDate
	customer.PassportIssuedBy = input.PassportIssuedBy
	customer.RegistrationAddress = input.RegistrationAddress
	customer.PhoneNumber = input.PhoneNumber
	customer.Email = input.Email

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	err := s.repo.Delete(ctx, principal.CompanyID, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: customer", ErrNotFound)
	case errors.Is(err, repository.ErrRestricted):
		return fmt.Errorf("%w: customer is referenced by a contract", ErrConflict)
	default:
		return err
	}
}
