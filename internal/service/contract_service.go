package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/estate-accounting/internal/model"
	"github.com/nurpe/estate-accounting/internal/repository"
)

// PDFGenerator renders a printable contract with its payment schedule.
type PDFGenerator interface {
	Generate(contract model.Contract) ([]byte, error)
}

type ContractService struct {
	db  *gorm.DB
	pdf PDFGenerator
}

func NewContractService(db *gorm.DB, pdf PDFGenerator) *ContractService {
	return &ContractService{db: db, pdf: pdf}
}

type CreateContractInput struct {
	CustomerID     uuid.UUID
	ApartmentID    uuid.UUID
	AgentID        uuid.UUID
	ContractNumber string // empty means take the next RE-YYYY-NNN
	ContractDate   time.Time
	DownPayment    decimal.Decimal
	DurationMonths int
}

// Create runs the whole contract-creation flow in one transaction: claim
// the apartment, persist the contract, materialize the schedule, credit
// the agent. Any failure rolls back every step.
func (s *ContractService) Create(ctx context.Context, principal model.Principal, input CreateContractInput) (*model.Contract, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if input.DurationMonths < 1 {
		return nil, fmt.Errorf("%w: duration must be at least one month", ErrInvalidInput)
	}
	if input.DownPayment.IsNegative() {
		return nil, fmt.Errorf("%w: down payment cannot be negative", ErrInvalidInput)
	}
	if input.ContractDate.IsZero() {
		return nil, fmt.Errorf("%w: contract date is required", ErrInvalidInput)
	}

	var created *model.Contract
	err := s.db.Transaction(func(tx *gorm.DB) error {
		apartments := repository.NewApartmentRepository(tx)
		customers := repository.NewCustomerRepository(tx)
		agents := repository.NewAgentRepository(tx)
		contracts := repository.NewContractRepository(tx)
		installments := repository.NewInstallmentRepository(tx)

		apartment, err := apartments.GetByID(ctx, principal.CompanyID, input.ApartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: apartment", ErrNotFound)
			}
			return err
		}
		if apartment.Status != model.ApartmentStatusAvailable {
			return fmt.Errorf("%w: apartment is not available", ErrConflict)
		}

		if _, err := customers.GetByID(ctx, principal.CompanyID, input.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: customer", ErrNotFound)
			}
			return err
		}
		agent, err := agents.GetByID(ctx, principal.CompanyID, input.AgentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: agent", ErrNotFound)
			}
			return err
		}

		number := input.ContractNumber
		if number == "" {
			number, err = contracts.NextNumber(ctx, principal.CompanyID, time.Now().UTC())
			if err != nil {
				return err
			}
		}
		if _, err := contracts.GetByNumber(ctx, principal.CompanyID, number); err == nil {
			return fmt.Errorf("%w: contract number already exists", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if input.DownPayment.GreaterThan(apartment.TotalPrice) {
			return fmt.Errorf("%w: down payment exceeds apartment price", ErrInvalidInput)
		}

		contract := &model.Contract{
			ID:             uuid.New(),
			CompanyID:      principal.CompanyID,
			ContractNumber: number,
			ContractDate:   input.ContractDate,
			DurationMonths: input.DurationMonths,
			TotalAmount:    apartment.TotalPrice, // snapshot, not a live reference
			DownPayment:    input.DownPayment,
			MonthlyPayment: MonthlyPayment(apartment.TotalPrice, input.DownPayment, input.DurationMonths),
			Status:         model.ContractStatusActive,
			CustomerID:     input.CustomerID,
			ApartmentID:    input.ApartmentID,
			AgentID:        input.AgentID,
		}

		// Conditional flip Available -> Sold. A concurrent creation that
		// got here first makes this a Conflict, not a double sale.
		if err := apartments.ClaimForSale(ctx, principal.CompanyID, apartment.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: apartment is not available", ErrConflict)
			}
			return err
		}

		if err := contracts.Create(ctx, contract); err != nil {
			return err
		}

		plans, err := GenerateSchedule(contract)
		if err != nil {
			return err
		}
		if err := installments.CreateBatch(ctx, plans); err != nil {
			return err
		}

		if err := agents.Credit(ctx, principal.CompanyID, agent.ID, agent.CommissionFor(contract.TotalAmount)); err != nil {
			return err
		}

		contract.InstallmentPlans = plans
		created = contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ContractService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Contract, error) {
	contract, err := repository.NewContractRepository(s.db).GetWithDetails(ctx, principal.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return nil, err
	}
	if !canViewContract(principal, contract) {
		return nil, ErrPermissionDenied
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, principal model.Principal) ([]model.Contract, error) {
	contracts := repository.NewContractRepository(s.db)
	switch {
	case principal.IsStaff():
		return contracts.List(ctx, principal.CompanyID)
	case principal.IsAgent() && principal.AgentID != nil:
		return contracts.ListByAgent(ctx, principal.CompanyID, *principal.AgentID)
	case principal.IsCustomer() && principal.CustomerID != nil:
		return contracts.ListByCustomer(ctx, principal.CompanyID, *principal.CustomerID)
	default:
		return nil, ErrPermissionDenied
	}
}

func (s *ContractService) ListByCustomer(ctx context.Context, principal model.Principal, customerID uuid.UUID) ([]model.Contract, error) {
	if !principal.IsStaff() {
		if !principal.IsCustomer() || principal.CustomerID == nil || *principal.CustomerID != customerID {
			return nil, ErrPermissionDenied
		}
	}
	return repository.NewContractRepository(s.db).ListByCustomer(ctx, principal.CompanyID, customerID)
}

func (s *ContractService) ListByAgent(ctx context.Context, principal model.Principal, agentID uuid.UUID) ([]model.Contract, error) {
	if !principal.IsStaff() {
		if !principal.IsAgent() || principal.AgentID == nil || *principal.AgentID != agentID {
			return nil, ErrPermissionDenied
		}
	}
	return repository.NewContractRepository(s.db).ListByAgent(ctx, principal.CompanyID, agentID)
}

// ListOverdue reads the live filter and lazily refreshes the stored status
// of any contract it returns, so the cached column catches up with reality
// without a background sweep.
func (s *ContractService) ListOverdue(ctx context.Context, principal model.Principal) ([]model.Contract, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	contracts := repository.NewContractRepository(s.db)
	now := time.Now().UTC()
	overdue, err := contracts.ListOverdue(ctx, principal.CompanyID, now)
	if err != nil {
		return nil, err
	}
	for i := range overdue {
		if overdue[i].Status == model.ContractStatusOverdue {
			continue
		}
		if err := contracts.UpdateStatus(ctx, principal.CompanyID, overdue[i].ID, model.ContractStatusOverdue); err != nil {
			return nil, err
		}
		overdue[i].Status = model.ContractStatusOverdue
	}
	return overdue, nil
}

type UpdateContractInput struct {
	ContractDate   time.Time
	DurationMonths int
	DownPayment    decimal.Decimal
	Status         model.ContractStatus // empty keeps the current status
}

// Update recomputes the monthly payment and regenerates the schedule.
// Edits to the financial terms are rejected once any installment is paid;
// the alternative (a schedule inconsistent with the recomputed monthly
// figure) is not allowed to exist.
func (s *ContractService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input UpdateContractInput) (*model.Contract, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if input.DurationMonths < 1 {
		return nil, fmt.Errorf("%w: duration must be at least one month", ErrInvalidInput)
	}
	if input.DownPayment.IsNegative() {
		return nil, fmt.Errorf("%w: down payment cannot be negative", ErrInvalidInput)
	}

	var updated *model.Contract
	err := s.db.Transaction(func(tx *gorm.DB) error {
		contracts := repository.NewContractRepository(tx)
		installments := repository.NewInstallmentRepository(tx)

		contract, err := contracts.GetWithDetails(ctx, principal.CompanyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: contract", ErrNotFound)
			}
			return err
		}
		if input.DownPayment.GreaterThan(contract.TotalAmount) {
			return fmt.Errorf("%w: down payment exceeds contract amount", ErrInvalidInput)
		}

		termsChanged := input.DurationMonths != contract.DurationMonths ||
			!input.DownPayment.Equal(contract.DownPayment)
		if termsChanged && contract.MonthsPaid() > 0 {
			return fmt.Errorf("%w: cannot change terms after installments were paid", ErrConflict)
		}

		if !input.ContractDate.IsZero() {
			contract.ContractDate = input.ContractDate
		}
		contract.DurationMonths = input.DurationMonths
		contract.DownPayment = input.DownPayment
		contract.MonthlyPayment = MonthlyPayment(contract.TotalAmount, contract.DownPayment, contract.DurationMonths)
		if input.Status != "" {
			contract.Status = input.Status
		}

		if termsChanged {
			if err := installments.DeleteUnpaidByContract(ctx, principal.CompanyID, contract.ID); err != nil {
				return err
			}
			plans, err := GenerateSchedule(contract)
			if err != nil {
				return err
			}
			if err := installments.CreateBatch(ctx, plans); err != nil {
				return err
			}
			contract.InstallmentPlans = plans
		}

		if err := contracts.Update(ctx, contract); err != nil {
			return err
		}
		updated = contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the contract with its schedule and payments and returns
// the apartment to the market. The agent's sale counters are deliberately
// left as they were: commission is earned at sale time.
func (s *ContractService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		contracts := repository.NewContractRepository(tx)
		apartments := repository.NewApartmentRepository(tx)

		contract, err := contracts.GetByID(ctx, principal.CompanyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: contract", ErrNotFound)
			}
			return err
		}
		if err := apartments.Release(ctx, principal.CompanyID, contract.ApartmentID); err != nil {
			return err
		}
		return contracts.Delete(ctx, principal.CompanyID, contract.ID)
	})
}

// RefreshStatus re-derives the stored status from the schedule state.
// Idempotent; called after every payment create/delete.
func (s *ContractService) RefreshStatus(ctx context.Context, companyID, contractID uuid.UUID) (model.ContractStatus, error) {
	return refreshContractStatus(ctx, s.db, companyID, contractID)
}

func refreshContractStatus(ctx context.Context, db *gorm.DB, companyID, contractID uuid.UUID) (model.ContractStatus, error) {
	contracts := repository.NewContractRepository(db)
	contract, err := contracts.GetWithDetails(ctx, companyID, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: contract", ErrNotFound)
		}
		return "", err
	}
	derived := contract.DeriveStatus(time.Now().UTC())
	if derived != contract.Status {
		if err := contracts.UpdateStatus(ctx, companyID, contract.ID, derived); err != nil {
			return "", err
		}
	}
	return derived, nil
}

// RenderPDF produces the printable contract form with its schedule.
func (s *ContractService) RenderPDF(ctx context.Context, principal model.Principal, id uuid.UUID) (string, []byte, error) {
	contract, err := s.Get(ctx, principal, id)
	if err != nil {
		return "", nil, err
	}
	content, err := s.pdf.Generate(*contract)
	if err != nil {
		return "", nil, err
	}
	name := fmt.Sprintf("contract-%s.pdf", sanitizeFileName(contract.ContractNumber))
	return name, content, nil
}
