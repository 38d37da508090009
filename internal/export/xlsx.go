package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/bankrec/bankrec/internal/transaction"
)

// xlsxHeaders is the fixed column order of the spreadsheet export.
var xlsxHeaders = []string{
	"ID", "Post Date", "Value Date", "Description", "Doctor Name", "Reference",
	"Amount", "Balance", "Specialist",
	"Registration", "Yearly", "Exam", "Certificate", "Newsletters", "Other", "Visa",
	"Unspecified", "Summary", "Commission", "Total", "Difference",
	"Inward Number", "Inward Date", "Notes",
	"Is Locked", "Completed By", "Completed At", "Created At",
}

// WriteXLSX streams the filtered transactions as a spreadsheet with the full
// derived view.
func (s *Service) WriteXLSX(ctx context.Context, filter transaction.ListFilter, w io.Writer) error {
	rows, err := s.rows(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, header := range xlsxHeaders {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}

		if err := f.SetCellValue(sheet, cellName, header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, r := range rows {
		t := r.tx

		values := []any{
			t.ID.String(),
			formatDate(t.PostDate),
			formatDate(t.ValueDate),
			t.Description,
			t.DoctorName,
			t.Reference,
			t.Amount.InexactFloat64(),
			t.Balance.InexactFloat64(),
			t.Specialist.InexactFloat64(),
			t.Registration.InexactFloat64(),
			t.Yearly.InexactFloat64(),
			t.Exam.InexactFloat64(),
			t.Certificate.InexactFloat64(),
			t.Newsletters.InexactFloat64(),
			t.Other.InexactFloat64(),
			t.Visa.InexactFloat64(),
			r.figures.Unspecified.InexactFloat64(),
			r.figures.Summary.InexactFloat64(),
			r.figures.Commission.InexactFloat64(),
			r.figures.Total.InexactFloat64(),
			r.figures.Difference.InexactFloat64(),
			t.InwardNumber,
			formatDate(t.InwardDate),
			t.Notes,
			yesNo(t.IsLocked),
			t.CompleterName,
			formatTimestamp(t.CompletedAt),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		}

		for col, v := range values {
			cellName, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}

			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				return fmt.Errorf("writing row %d: %w", i+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}

	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}
