package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Sunay4826/AI-finance-platform/internal/log"
)

// handleExportTransactions streams the caller's transactions as an
// XLSX workbook, newest first, optionally scoped to one account.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	transactions, err := s.ledger.ListTransactions(r.Context(), user.ID, listOptions(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("creating worksheet: %w", err))
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Type", "Amount", "Category", "Description", "Account", "Recurring"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx := range transactions {
		t := &transactions[idx]
		row := idx + 2
		recurring := ""
		if t.IsRecurring {
			recurring = string(t.RecurringInterval)
		}
		amount := t.SignedAmount()

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), string(t.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.AccountID)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), recurring)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 16)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 24)
	f.SetColWidth(sheetName, "G", "G", 10)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		"transactions_"+time.Now().Format("20060102")+".xlsx"))

	if err := f.Write(w); err != nil {
		s.logger.ErrorContext(r.Context(), "writing export",
			log.FieldUserID, user.ID, log.FieldError, err.Error())
	}
}
