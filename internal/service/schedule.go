package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/estate-accounting/internal/model"
)

// MonthlyPayment computes the fixed installment amount for a contract,
// rounded half-up to two decimals. The last installment does not absorb
// the rounding remainder; the scheduled sum may differ from
// totalAmount-downPayment by up to durationMonths*0.005.
func MonthlyPayment(totalAmount, downPayment decimal.Decimal, durationMonths int) decimal.Decimal {
	return totalAmount.Sub(downPayment).
		Div(decimal.NewFromInt(int64(durationMonths))).
		Round(2)
}

// GenerateSchedule materializes the installment rows for a contract.
// The first installment is due exactly one month after the contract date;
// nothing is due on the contract date itself. Callers persist the rows in
// the same transaction that creates the contract.
func GenerateSchedule(contract *model.Contract) ([]model.InstallmentPlan, error) {
	if contract.DurationMonths < 1 {
		return nil, fmt.Errorf("%w: duration must be at least one month", ErrInvalidInput)
	}

	plans := make([]model.InstallmentPlan, 0, contract.DurationMonths)
	due := contract.ContractDate
	for month := 1; month <= contract.DurationMonths; month++ {
		due = addMonth(due)
		plans = append(plans, model.InstallmentPlan{
			ID:              uuid.New(),
			CompanyID:       contract.CompanyID,
			ContractID:      contract.ID,
			MonthNumber:     month,
			DueDate:         due,
			ScheduledAmount: contract.MonthlyPayment,
			IsPaid:          false,
		})
	}
	return plans, nil
}

// addMonth advances one calendar month, clamping to the last day of the
// target month instead of letting the overflow spill into the next one:
// Jan 31 becomes Feb 28, not Mar 3. Successive dues iterate from the
// clamped date.
func addMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	hour, minute, sec := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		hour, minute, sec, t.Nanosecond(), t.Location())
}
