package settlement

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// ReceiptParty is the payee printed on a settlement receipt.
type ReceiptParty struct {
	Name     string
	Document string
	Phone    string
	Address  string
}

// WriteReceipt renders a one page PDF receipt for a settlement.
func WriteReceipt(w io.Writer, s *Settlement, payee ReceiptParty, currency string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Settlement %d", s.ID), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Settlement receipt #%d", s.ID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		pdf.CellFormat(60, 8, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	line("Paid to", payee.Name)
	if payee.Document != "" {
		line("Document", payee.Document)
	}
	if payee.Phone != "" {
		line("Phone", payee.Phone)
	}
	if payee.Address != "" {
		line("Address", payee.Address)
	}
	line("Scope", string(s.Scope))
	line("Period", fmt.Sprintf("%s to %s", s.PeriodStart.Format(dateLayout), s.PeriodEnd.Format(dateLayout)))
	line("Payment date", s.PaymentDate.Format(dateLayout))
	line("Time entries", fmt.Sprintf("%d", len(s.TimeEntryIDs)))
	pdf.Ln(4)

	money := func(label string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 12)
		pdf.CellFormat(60, 8, label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, fmt.Sprintf("%s %s", amount.StringFixed(2), currency), "B", 1, "R", false, 0, "")
	}
	money("Gross", s.GrossAmount, false)
	money("Loan deduction", s.LoanDeduction, false)
	money("Social security", s.SocialSecurityDeduction, false)
	money("Total paid", s.TotalAmount, true)

	return pdf.Output(w)
}
