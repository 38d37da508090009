package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/bankrec/bankrec/internal/transaction"
)

// pdfColumn describes one column of the report table.
type pdfColumn struct {
	title string
	width float64
}

var pdfColumns = []pdfColumn{
	{"ID", 14},
	{"Post Date", 18},
	{"Description", 40},
	{"Doctor Name", 28},
	{"Amount", 16},
	{"Registration", 16},
	{"Yearly", 14},
	{"Exam", 14},
	{"Certificate", 16},
	{"Newsletters", 16},
	{"Other", 14},
	{"Visa", 14},
	{"Summary", 16},
	{"Commission", 16},
	{"Total", 16},
	{"Difference", 16},
	{"Status", 14},
}

// WritePDF renders the filtered transactions as a landscape A4 report with a
// totals row for every numeric column.
func (s *Service) WritePDF(ctx context.Context, filter transaction.ListFilter, w io.Writer) error {
	rows, err := s.rows(ctx, filter)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Bank Reconciliation Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 5, "Generated on: "+time.Now().Format(time.DateTime), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	writeHeader(pdf)

	pdf.SetFont("Arial", "", 6)

	for _, r := range rows {
		if pdf.GetY() > 185 {
			pdf.AddPage()
			writeHeader(pdf)
			pdf.SetFont("Arial", "", 6)
		}

		t := r.tx

		cells := []string{
			shortID(t.ID.String()),
			formatDate(t.PostDate),
			clip(t.Description, 38),
			clip(t.DoctorName, 26),
			amount(t.Amount),
			amount(t.Registration),
			amount(t.Yearly),
			amount(t.Exam),
			amount(t.Certificate),
			amount(t.Newsletters),
			amount(t.Other),
			amount(t.Visa),
			amount(r.figures.Summary),
			amount(r.figures.Commission),
			amount(r.figures.Total),
			amount(r.figures.Difference),
			lockStatus(t.IsLocked),
		}

		for i, c := range cells {
			pdf.CellFormat(pdfColumns[i].width, 5, c, "1", 0, "C", false, 0, "")
		}

		pdf.Ln(-1)
	}

	writeTotals(pdf, sumRows(rows))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}

	return nil
}

func writeHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 6)
	pdf.SetFillColor(242, 242, 242)

	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 6, col.title, "1", 0, "C", true, 0, "")
	}

	pdf.Ln(-1)
}

func writeTotals(pdf *fpdf.Fpdf, sum totals) {
	pdf.SetFont("Arial", "B", 6)
	pdf.SetFillColor(248, 249, 250)

	// The first four columns collapse into one label cell.
	labelWidth := pdfColumns[0].width + pdfColumns[1].width + pdfColumns[2].width + pdfColumns[3].width
	pdf.CellFormat(labelWidth, 6, "TOTALS", "1", 0, "C", true, 0, "")

	values := []decimal.Decimal{
		sum.Amount, sum.Registration, sum.Yearly, sum.Exam, sum.Certificate,
		sum.Newsletters, sum.Other, sum.Visa,
		sum.Summary, sum.Commission, sum.Total, sum.Difference,
	}

	for i, v := range values {
		pdf.CellFormat(pdfColumns[i+4].width, 6, amount(v), "1", 0, "C", true, 0, "")
	}

	pdf.CellFormat(pdfColumns[16].width, 6, "", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)
}

func amount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

// clip truncates to n runes. Byte slicing would split multibyte characters
// in accented names.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n-3]) + "..."
}
