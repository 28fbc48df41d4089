package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/estate-accounting/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the payment register workbook: a summary sheet with the
// cash / non-cash totals and a detail sheet listing every payment in the
// period.
func (g *Generator) Generate(register model.PaymentRegister) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Сводка"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, register); err != nil {
		return nil, err
	}

	detailSheet := "Платежи"
	file.NewSheet(detailSheet)
	if err := g.writeDetail(file, detailSheet, register); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, register model.PaymentRegister) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Реестр платежей")
	set("A2", "Начало периода")
	set("B2", formatDate(register.StartDate))
	set("A3", "Конец периода")
	set("B3", formatDate(register.EndDate))
	set("A4", "Количество платежей")
	set("B4", len(register.Payments))

	set("A6", "Наличные")
	set("B6", formatAmount(register.TotalCash))
	set("A7", "Безналичные")
	set("B7", formatAmount(register.TotalNonCash))
	set("A8", "Итого")
	set("B8", formatAmount(register.GrandTotal))

	_ = file.SetColWidth(sheet, "A", "A", 30)
	_ = file.SetColWidth(sheet, "B", "B", 20)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, register model.PaymentRegister) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Дата",
		"Договор",
		"Сумма",
		"Форма оплаты",
		"Квитанция",
		"Принял",
		"Примечание",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, payment := range register.Payments {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), formatDate(payment.PaymentDate))
		set(fmt.Sprintf("B%d", row), contractNumber(payment))
		set(fmt.Sprintf("C%d", row), formatAmount(payment.Amount))
		set(fmt.Sprintf("D%d", row), paymentTypeLabel(payment.PaymentType))
		set(fmt.Sprintf("E%d", row), payment.ReceiptNumber)
		set(fmt.Sprintf("F%d", row), payment.RecordedByName)
		set(fmt.Sprintf("G%d", row), payment.Notes)
	}

	totalsRow := 3 + len(register.Payments)
	set(fmt.Sprintf("B%d", totalsRow), "Итого")
	set(fmt.Sprintf("C%d", totalsRow), formatAmount(register.GrandTotal))

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	_ = file.SetColWidth(sheet, "C", "C", 16)
	_ = file.SetColWidth(sheet, "D", "D", 16)
	_ = file.SetColWidth(sheet, "E", "F", 24)
	_ = file.SetColWidth(sheet, "G", "G", 40)
	return nil
}

func contractNumber(payment model.Payment) string {
	if payment.Contract == nil {
		return payment.ContractID.String()
	}
	return payment.Contract.ContractNumber
}

func paymentTypeLabel(paymentType model.PaymentType) string {
	switch paymentType {
	case model.PaymentTypeCash:
		return "Наличные"
	case model.PaymentTypeNonCash:
		return "Безналичные"
	default:
		return string(paymentType)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}
