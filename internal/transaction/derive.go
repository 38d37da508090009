package transaction

import "github.com/shopspring/decimal"

// Figures are the calculated attributes of a transaction. They are pure
// functions of the stored values, recomputed on every read and never
// persisted as independent state.
type Figures struct {
	Unspecified decimal.Decimal
	Summary     decimal.Decimal
	Commission  decimal.Decimal
	Total       decimal.Decimal
	Difference  decimal.Decimal
}

// Derive computes the calculated figures from the transaction's raw fields.
//
//	unspecified = specialist == 0 ? amount : 0
//	summary     = registration + yearly + exam + certificate + newsletters + other + visa
//	commission  = summary >= amount ? summary - amount : 0
//	total       = amount + commission
//	difference  = summary - total
//
// A zero specialist is the business sentinel for "unspecified amount", not a
// data-quality flag. Intermediate arithmetic is exact; rounding happens only
// at the serialization boundary via Rounded.
func Derive(t *Transaction) Figures {
	unspecified := decimal.Zero
	if t.Specialist.IsZero() {
		unspecified = t.Amount
	}

	summary := t.Registration.
		Add(t.Yearly).
		Add(t.Exam).
		Add(t.Certificate).
		Add(t.Newsletters).
		Add(t.Other).
		Add(t.Visa)

	commission := decimal.Zero
	if summary.GreaterThanOrEqual(t.Amount) {
		commission = summary.Sub(t.Amount)
	}

	total := t.Amount.Add(commission)

	return Figures{
		Unspecified: unspecified,
		Summary:     summary,
		Commission:  commission,
		Total:       total,
		Difference:  summary.Sub(total),
	}
}

// Rounded returns the figures rounded to two decimals for display or export.
func (f Figures) Rounded() Figures {
	return Figures{
		Unspecified: f.Unspecified.Round(2),
		Summary:     f.Summary.Round(2),
		Commission:  f.Commission.Round(2),
		Total:       f.Total.Round(2),
		Difference:  f.Difference.Round(2),
	}
}
