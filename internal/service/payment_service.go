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

// ExcelGenerator renders a payment register as an xlsx workbook.
type ExcelGenerator interface {
	Generate(register model.PaymentRegister) ([]byte, error)
}

type PaymentService struct {
	db    *gorm.DB
	excel ExcelGenerator
}

func NewPaymentService(db *gorm.DB, excel ExcelGenerator) *PaymentService {
	return &PaymentService{db: db, excel: excel}
}

type CreatePaymentInput struct {
	ContractID        uuid.UUID
	Amount            decimal.Decimal
	PaymentDate       time.Time
	PaymentType       model.PaymentType
	InstallmentPlanID *uuid.UUID // nil applies the payment FIFO against the schedule
	ReceiptNumber     string
	Notes             string
}

// Create records a payment and reconciles it against the schedule. With an
// explicit installment the payment satisfies exactly that row; without one
// it claims the lowest-numbered unpaid row. When the schedule is already
// fully paid the payment is recorded unlinked: extra payments are allowed
// and simply do not advance the schedule.
func (s *PaymentService) Create(ctx context.Context, principal model.Principal, input CreatePaymentInput) (*model.Payment, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if input.PaymentType != model.PaymentTypeCash && input.PaymentType != model.PaymentTypeNonCash {
		return nil, fmt.Errorf("%w: unknown payment type", ErrInvalidInput)
	}
	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	var created *model.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		contracts := repository.NewContractRepository(tx)
		installments := repository.NewInstallmentRepository(tx)
		payments := repository.NewPaymentRepository(tx)

		contract, err := contracts.GetByID(ctx, principal.CompanyID, input.ContractID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: contract", ErrNotFound)
			}
			return err
		}

		payment := &model.Payment{
			ID:               uuid.New(),
			CompanyID:        principal.CompanyID,
			ContractID:       contract.ID,
			Amount:           input.Amount,
			PaymentDate:      paymentDate,
			PaymentType:      input.PaymentType,
			ReceiptNumber:    input.ReceiptNumber,
			Notes:            input.Notes,
			RecordedByUserID: principal.UserID,
			RecordedByName:   principal.FullName,
		}

		now := time.Now().UTC()
		if input.InstallmentPlanID != nil {
			plan, err := installments.GetByID(ctx, principal.CompanyID, *input.InstallmentPlanID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: installment plan", ErrNotFound)
				}
				return err
			}
			if plan.ContractID != contract.ID {
				return fmt.Errorf("%w: installment plan does not belong to contract", ErrNotFound)
			}
			if err := installments.ClaimUnpaid(ctx, principal.CompanyID, plan.ID, payment.ID, now); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: installment is already paid", ErrConflict)
				}
				return err
			}
			payment.InstallmentPlanID = &plan.ID
		} else {
			unpaid, err := installments.ListUnpaid(ctx, principal.CompanyID, contract.ID)
			if err != nil {
				return err
			}
			// Claim-if-unpaid per row: a concurrent payment racing for the
			// same month loses the conditional update and takes the next one.
			for i := range unpaid {
				claimErr := installments.ClaimUnpaid(ctx, principal.CompanyID, unpaid[i].ID, payment.ID, now)
				if claimErr == nil {
					payment.InstallmentPlanID = &unpaid[i].ID
					break
				}
				if !errors.Is(claimErr, gorm.ErrRecordNotFound) {
					return claimErr
				}
			}
		}

		if err := payments.Create(ctx, payment); err != nil {
			return err
		}
		if _, err := refreshContractStatus(ctx, tx, principal.CompanyID, contract.ID); err != nil {
			return err
		}
		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PaymentService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Payment, error) {
	payment, err := repository.NewPaymentRepository(s.db).GetByID(ctx, principal.CompanyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment", ErrNotFound)
		}
		return nil, err
	}
	if !principal.IsStaff() {
		contract, err := repository.NewContractRepository(s.db).GetByID(ctx, principal.CompanyID, payment.ContractID)
		if err != nil {
			return nil, err
		}
		if !canViewContract(principal, contract) {
			return nil, ErrPermissionDenied
		}
	}
	return payment, nil
}

func (s *PaymentService) ListByContract(ctx context.Context, principal model.Principal, contractID uuid.UUID) ([]model.Payment, error) {
	contract, err := repository.NewContractRepository(s.db).GetByID(ctx, principal.CompanyID, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return nil, err
	}
	if !canViewContract(principal, contract) {
		return nil, ErrPermissionDenied
	}
	return repository.NewPaymentRepository(s.db).ListByContract(ctx, principal.CompanyID, contractID)
}

// Delete reverses the payment: the satisfied installment reverts to unpaid
// and the contract status is re-derived. Partial reversal is never visible.
func (s *PaymentService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsStaff() {
		return ErrPermissionDenied
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		payments := repository.NewPaymentRepository(tx)
		installments := repository.NewInstallmentRepository(tx)

		payment, err := payments.GetByID(ctx, principal.CompanyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment", ErrNotFound)
			}
			return err
		}
		if payment.InstallmentPlanID != nil {
			if err := installments.Release(ctx, principal.CompanyID, *payment.InstallmentPlanID); err != nil {
				return err
			}
		}
		if err := payments.Delete(ctx, principal.CompanyID, payment.ID); err != nil {
			return err
		}
		_, err = refreshContractStatus(ctx, tx, principal.CompanyID, payment.ContractID)
		return err
	})
}

// Register builds the cash / non-cash breakdown for a date range. The end
// date is inclusive.
func (s *PaymentService) Register(ctx context.Context, principal model.Principal, from, to time.Time) (*model.PaymentRegister, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}
	start := dateOnly(from)
	end := dateOnly(to)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date must not be after end date", ErrInvalidInput)
	}

	rows, err := repository.NewPaymentRepository(s.db).
		ListByDateRange(ctx, principal.CompanyID, start, end.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	register := &model.PaymentRegister{
		StartDate:    start,
		EndDate:      end,
		TotalCash:    decimal.Zero,
		TotalNonCash: decimal.Zero,
		Payments:     rows,
	}
	for _, p := range rows {
		switch p.PaymentType {
		case model.PaymentTypeCash:
			register.TotalCash = register.TotalCash.Add(p.Amount)
		case model.PaymentTypeNonCash:
			register.TotalNonCash = register.TotalNonCash.Add(p.Amount)
		}
	}
	register.GrandTotal = register.TotalCash.Add(register.TotalNonCash)
	return register, nil
}

// ExportRegister renders the register as an xlsx download.
func (s *PaymentService) ExportRegister(ctx context.Context, principal model.Principal, from, to time.Time) (string, []byte, error) {
	register, err := s.Register(ctx, principal, from, to)
	if err != nil {
		return "", nil, err
	}
	content, err := s.excel.Generate(*register)
	if err != nil {
		return "", nil, err
	}
	name := fmt.Sprintf("payments-%s-%s.xlsx",
		register.StartDate.Format("20060102"), register.EndDate.Format("20060102"))
	return name, content, nil
}
