// Package export serializes the full derived view of transactions, either as
// tabular spreadsheet rows or as a formatted PDF report with column totals.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankrec/bankrec/internal/transaction"
)

// Lister supplies the transactions matching a filter, fully materialized.
//
//go:generate mockgen -source=service.go -destination=service_mock.go -package=export
type Lister interface {
	ListAll(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// row is one transaction flattened to the derived export view: stored values
// plus the recomputed figures, everything rounded at this boundary.
type row struct {
	tx      *transaction.Transaction
	figures transaction.Figures
}

func (s *Service) rows(ctx context.Context, filter transaction.ListFilter) ([]row, error) {
	txs, err := s.transactions.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions for export: %w", err)
	}

	rows := make([]row, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, row{tx: t, figures: transaction.Derive(t).Rounded()})
	}

	return rows, nil
}

// totals accumulates every numeric column across the export.
type totals struct {
	Amount       decimal.Decimal
	Balance      decimal.Decimal
	Specialist   decimal.Decimal
	Registration decimal.Decimal
	Yearly       decimal.Decimal
	Exam         decimal.Decimal
	Certificate  decimal.Decimal
	Newsletters  decimal.Decimal
	Other        decimal.Decimal
	Visa         decimal.Decimal
	Unspecified  decimal.Decimal
	Summary      decimal.Decimal
	Commission   decimal.Decimal
	Total        decimal.Decimal
	Difference   decimal.Decimal
}

func sumRows(rows []row) totals {
	var sum totals

	for _, r := range rows {
		t := r.tx
		sum.Amount = sum.Amount.Add(t.Amount)
		sum.Balance = sum.Balance.Add(t.Balance)
		sum.Specialist = sum.Specialist.Add(t.Specialist)
		sum.Registration = sum.Registration.Add(t.Registration)
		sum.Yearly = sum.Yearly.Add(t.Yearly)
		sum.Exam = sum.Exam.Add(t.Exam)
		sum.Certificate = sum.Certificate.Add(t.Certificate)
		sum.Newsletters = sum.Newsletters.Add(t.Newsletters)
		sum.Other = sum.Other.Add(t.Other)
		sum.Visa = sum.Visa.Add(t.Visa)
		sum.Unspecified = sum.Unspecified.Add(r.figures.Unspecified)
		sum.Summary = sum.Summary.Add(r.figures.Summary)
		sum.Commission = sum.Commission.Add(r.figures.Commission)
		sum.Total = sum.Total.Add(r.figures.Total)
		sum.Difference = sum.Difference.Add(r.figures.Difference)
	}

	return sum
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.DateOnly)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.DateTime)
}

func lockStatus(locked bool) string {
	if locked {
		return "Locked"
	}

	return "Open"
}
