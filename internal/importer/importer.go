// Package importer turns uploaded bank-statement files (xlsx or csv) into
// transactions. Only fields the registry classifies as imported are taken
// from the file; manual categories always start at 0. Rows fail
// independently: one malformed row never aborts its siblings.
package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankrec/bankrec/internal/transaction"
)

// table is a parsed tabular file: one header row plus data rows.
type table struct {
	headers []string
	rows    [][]string
}

// headerKey normalizes a statement column header to a canonical attribute
// name: trimmed, lower-cased, spaces collapsed to underscores.
func headerKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}

// cell safely reads a trimmed value from a row.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// dateLayouts are the statement date formats accepted on import.
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02.01.2006",
	"2006-01-02 15:04:05",
}

// parseDate normalizes a statement date. Unparseable values become nil
// rather than an error; a bad date never rejects the row.
func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}

	return nil
}

// parseMoney coerces a statement amount. Non-numeric values become 0,
// never an error.
func parseMoney(raw string) decimal.Decimal {
	clean := strings.ReplaceAll(raw, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")

	if clean == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}

	return d.Round(2)
}

// importSetters maps each canonical imported attribute to the coercion that
// writes it. Custom descriptors with no backing column are skipped by the
// service, since there is nowhere to store them.
var importSetters = map[string]func(t *transaction.Transaction, raw string){
	transaction.FieldPostDate:     func(t *transaction.Transaction, raw string) { t.PostDate = parseDate(raw) },
	transaction.FieldValueDate:    func(t *transaction.Transaction, raw string) { t.ValueDate = parseDate(raw) },
	transaction.FieldDescription:  func(t *transaction.Transaction, raw string) { t.Description = raw },
	transaction.FieldDoctorName:   func(t *transaction.Transaction, raw string) { t.DoctorName = raw },
	transaction.FieldReference:    func(t *transaction.Transaction, raw string) { t.Reference = raw },
	transaction.FieldAmount:       func(t *transaction.Transaction, raw string) { t.Amount = parseMoney(raw) },
	transaction.FieldBalance:      func(t *transaction.Transaction, raw string) { t.Balance = parseMoney(raw) },
	transaction.FieldSpecialist:   func(t *transaction.Transaction, raw string) { t.Specialist = parseMoney(raw) },
	transaction.FieldInwardNumber: func(t *transaction.Transaction, raw string) { t.InwardNumber = raw },
	transaction.FieldInwardDate:   func(t *transaction.Transaction, raw string) { t.InwardDate = parseDate(raw) },
}
