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

type AgentService struct {
	repo *repository.AgentRepository
}

func NewAgentService(repo *repository.AgentRepository) *AgentService {
	return &AgentService{repo: repo}
}

type AgentInput struct {
	FullName             string
	PhoneNumber          string
	Email                string
	CommissionPercentage decimal.Decimal
}

func (in AgentInput) validate() error {
	if in.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if in.CommissionPercentage.IsNegative() || in.CommissionPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: commission percentage must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

func (s *AgentService) Create(ctx context.Context, principal model.Principal, input AgentInput) (*model.Agent, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	agent := &model.Agent{
		ID:                    uuid.New(),
		CompanyID:             principal.CompanyID,
		FullName:              input.FullName,
		PhoneNumber:           input.PhoneNumber,
		Email:                 input.Email,
		CommissionPercentage:  input.CommissionPercentage,
		TotalCommissionEarned: decimal.Zero,
	}
	if err := s.repo.Create(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *AgentService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Agent, error) {
	if !principal.IsStaff() {
		if !principal.IsAgent() || principal.AgentID == nil || *principal.AgentID != id {
			return nil, ErrPermissionDenied
		}
	}
	agent, err := s.repo.GetByID(ctx, principal.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: agent", ErrNotFound)
		}
		return nil, err
	}
	return agent, nil
}

func (s *AgentService) List(ctx context.Context, principal model.Principal) ([]model.Agent, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repo.List(ctx, principal.CompanyID)
}

func (s *AgentService) TopPerformers(ctx context.Context, principal model.Principal, limit int) ([]model.Agent, error) {
	if limit < 1 {
		limit = 5
	}
	return s.repo.TopPerformers(ctx, principal.CompanyID, limit)
}

// Update edits profile fields only. The sale counters are credited solely
// by contract creation and are not reachable through this API.
func (s *AgentService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input AgentInput) (*model.Agent, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	agent, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	agent.FullName = input.FullName
	agent.PhoneNumber = input.PhoneNumber
	agent.Email = input.Email
	agent.CommissionPercentage = input.CommissionPercentage
	if err := s.repo.Update(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *AgentService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	err := s.repo.Delete(ctx, principal.CompanyID, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: agent", ErrNotFound)
	case errors.Is(err, repository.ErrRestricted):
		return fmt.Errorf("%w: agent is referenced by a contract", ErrConflict)
	default:
		return err
	}
}
