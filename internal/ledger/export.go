package ledger

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Ledger"

var exportHeader = []interface{}{
	"Date", "Description", "Contact ID", "Phone", "Address",
	"Income", "Expense", "Running Income", "Running Expense", "Running Balance",
}

// WriteWorkbook renders the report as a single-sheet xlsx with running totals and a totals row.
func WriteWorkbook(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "J", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	rowNum := 1
	var writeErr error
	r.RunningTotals(func(tx Transaction, income, expense, balance decimal.Decimal) {
		if writeErr != nil {
			return
		}
		rowNum++

		var contactID interface{} = ""
		if tx.Contact.ID != nil {
			contactID = *tx.Contact.ID
		}
		var in, out interface{} = "", ""
		if tx.Type == TypeIncome {
			in = tx.Amount.InexactFloat64()
		} else {
			out = tx.Amount.InexactFloat64()
		}

		values := []interface{}{
			tx.Date.Format(dateLayout), tx.Description, contactID, tx.Contact.Phone, tx.Contact.Address,
			in, out, income.InexactFloat64(), expense.InexactFloat64(), balance.InexactFloat64(),
		}
		writeErr = setRow(f, rowNum, values)
	})
	if writeErr != nil {
		return writeErr
	}

	rowNum++
	totals := []interface{}{
		"TOTAL", "", "", "", "",
		r.TotalIncome.InexactFloat64(), r.TotalExpense.InexactFloat64(), "", "", r.FinalBalance.InexactFloat64(),
	}
	if err := setRow(f, rowNum, totals); err != nil {
		return err
	}

	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetRowStyle(sheetName, rowNum, rowNum, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	return f.Write(w)
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
