package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/estate-accounting/internal/model"
)

type Generator struct {
	fontName string
	fontData []byte
}

// NewGenerator loads the UTF-8 font used for the Cyrillic contract text.
// The built-in core fonts are cp1252-only, so a TTF is mandatory.
func NewGenerator(fontPath string) (*Generator, error) {
	fontData, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	if len(fontData) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	return &Generator{fontName: "NotoSans", fontData: fontData}, nil
}

// Generate renders the installment sale contract as a printable document:
// header, parties, apartment details, the payment schedule and signatures.
func (g *Generator) Generate(contract model.Contract) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.AddUTF8FontFromBytes(g.fontName, "", g.fontData)
	pdf.AddUTF8FontFromBytes(g.fontName, "B", g.fontData)

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "ДОГОВОР купли-продажи квартиры в рассрочку", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Договор № %s от %s", contract.ContractNumber, formatDate(contract.ContractDate)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if contract.Customer != nil {
		addPartyBlock(pdf, g.fontName, "Покупатель", []string{
			contract.Customer.FullName,
			fmt.Sprintf("Паспорт: %s %s", safeValue(contract.Customer.PassportSeries), safeValue(contract.Customer.PassportNumber)),
			fmt.Sprintf("Адрес: %s", safeValue(contract.Customer.RegistrationAddress)),
			fmt.Sprintf("Телефон: %s", safeValue(contract.Customer.PhoneNumber)),
		})
		pdf.Ln(2)
	}
	if contract.Agent != nil {
		addPartyBlock(pdf, g.fontName, "Агент", []string{
			contract.Agent.FullName,
			fmt.Sprintf("Телефон: %s", safeValue(contract.Agent.PhoneNumber)),
		})
		pdf.Ln(2)
	}

	if contract.Apartment != nil {
		apartment := contract.Apartment
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Предмет договора", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		lines := []string{
			fmt.Sprintf("Квартира № %s, блок %s, подъезд %d, этаж %d", apartment.ApartmentNumber, apartment.Block, apartment.Entrance, apartment.Floor),
			fmt.Sprintf("Комнат: %d, площадь: %s м²", apartment.RoomCount, apartment.Area.StringFixed(2)),
			fmt.Sprintf("Цена за м²: %s тг., стоимость: %s тг.", apartment.PricePerSquareMeter.StringFixed(2), apartment.TotalPrice.StringFixed(2)),
		}
		for _, line := range lines {
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
		pdf.Ln(2)
	}

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Условия рассрочки", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Стоимость: %s тг., первоначальный взнос: %s тг.", contract.TotalAmount.StringFixed(2), contract.DownPayment.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Срок: %d мес., ежемесячный платёж: %s тг.", contract.DurationMonths, contract.MonthlyPayment.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(contract.InstallmentPlans) > 0 {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "График платежей", "", 1, "L", false, 0, "")

		headers := []string{"Месяц", "Срок оплаты", "Сумма", "Статус"}
		colWidths := []float64{25, 50, 55, 50}
		drawTableRow(pdf, g.fontName, headers, colWidths, true)

		total := decimal.Zero
		for _, plan := range contract.InstallmentPlans {
			status := "не оплачен"
			if plan.IsPaid {
				status = "оплачен"
				if plan.PaidDate != nil {
					status = fmt.Sprintf("оплачен %s", formatDate(*plan.PaidDate))
				}
			}
			row := []string{
				fmt.Sprintf("%d", plan.MonthNumber),
				formatDate(plan.DueDate),
				plan.ScheduledAmount.StringFixed(2),
				status,
			}
			drawTableRow(pdf, g.fontName, row, colWidths, false)
			total = total.Add(plan.ScheduledAmount)
		}

		pdf.Ln(2)
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("Итого по графику: %s тг.", total.StringFixed(2)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Подписи сторон", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)

	customerName := ""
	if contract.Customer != nil {
		customerName = contract.Customer.FullName
	}
	agentName := ""
	if contract.Agent != nil {
		agentName = contract.Agent.FullName
	}
	signatureBlock(pdf, g.fontName, "Покупатель", customerName)
	signatureBlock(pdf, g.fontName, "Агент", agentName)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addPartyBlock(pdf *gofpdf.Fpdf, fontName, title string, lines []string) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i == 0 || i == 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func signatureBlock(pdf *gofpdf.Fpdf, fontName, label, name string) {
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s: ______________________ /%s/", label, safeValue(name)), "", 1, "L", false, 0, "")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02.01.2006")
}
