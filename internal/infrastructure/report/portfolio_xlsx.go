package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
)

const (
	resultsSheet  = "Harmonization"
	failuresSheet = "Failures"
	summarySheet  = "Summary"
)

var resultHeadings = []string{
	"Loan ID", "Schedule Consistent", "Regenerated", "Corrected Rate (%)",
	"Total Scheduled", "Total Paid", "Outstanding", "Days In Arrears", "Entries Reallocated",
}

// WritePortfolioXLSX renders a batch run as a workbook with one row per
// harmonized loan, a failures sheet and a summary sheet.
func WritePortfolioXLSX(w io.Writer, resp dto.PortfolioResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, resultsSheet, 1, toAny(resultHeadings)); err != nil {
		return err
	}
	for i, r := range resp.Results {
		row := []any{
			r.LoanID,
			r.ScheduleConsistent,
			r.Regenerated,
			r.CorrectedInterestRate.InexactFloat64(),
			r.TotalScheduledAmount.InexactFloat64(),
			r.TotalPaidAmount.InexactFloat64(),
			r.CalculatedOutstanding.InexactFloat64(),
			r.DaysInArrears,
			r.EntriesReallocated,
		}
		if err := writeRow(f, resultsSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := styleHeader(f, resultsSheet, len(resultHeadings)); err != nil {
		return err
	}

	if _, err := f.NewSheet(failuresSheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", failuresSheet, err)
	}
	if err := writeRow(f, failuresSheet, 1, []any{"Loan ID", "Error"}); err != nil {
		return err
	}
	for i, fl := range resp.Failures {
		if err := writeRow(f, failuresSheet, i+2, []any{fl.LoanID, fl.Error}); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", summarySheet, err)
	}
	summary := [][]any{
		{"Tenant", resp.TenantID},
		{"Started", resp.StartedAt.Format("2006-01-02 15:04:05")},
		{"Finished", resp.FinishedAt.Format("2006-01-02 15:04:05")},
		{"Loans", resp.Total},
		{"Harmonized", len(resp.Results)},
		{"Regenerated", resp.Regenerated},
		{"Failed", len(resp.Failures)},
	}
	for i, row := range summary {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, rowNo, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
