package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Attribute names. These match both the field_settings rows and the
// transactions table columns.
const (
	FieldPostDate     = "post_date"
	FieldValueDate    = "value_date"
	FieldDescription  = "description"
	FieldDoctorName   = "doctor_name"
	FieldReference    = "reference"
	FieldAmount       = "amount"
	FieldBalance      = "balance"
	FieldSpecialist   = "specialist"
	FieldRegistration = "registration"
	FieldYearly       = "yearly"
	FieldExam         = "exam"
	FieldCertificate  = "certificate"
	FieldNewsletters  = "newsletters"
	FieldOther        = "other"
	FieldVisa         = "visa"
	FieldInwardNumber = "inward_number"
	FieldInwardDate   = "inward_date"
	FieldNotes        = "notes"

	FieldUnspecified = "unspecified"
	FieldSummary     = "summary"
	FieldCommission  = "commission"
	FieldTotal       = "total"
	FieldDifference  = "difference"

	FieldIsLocked    = "is_locked"
	FieldCompletedBy = "completed_by_user_id"
	FieldCompletedAt = "completed_at"
)

// statusFields are not classified by the field registry; only an admin may
// write them. is_locked is the administrative lock override.
var statusFields = map[string]bool{
	FieldIsLocked:    true,
	FieldCompletedBy: true,
	FieldCompletedAt: true,
}

// Transaction is one bank-statement line plus the manual allocation entered
// against it. The calculated figures are never part of the stored state;
// see Derive.
type Transaction struct {
	ID uuid.UUID

	// Imported attributes, written only by the import pipeline or an admin.
	PostDate     *time.Time
	ValueDate    *time.Time
	Description  string
	DoctorName   string
	Reference    string
	Amount       decimal.Decimal
	Balance      decimal.Decimal
	Specialist   decimal.Decimal
	InwardNumber string
	InwardDate   *time.Time

	// Manual allocation categories, default 0.
	Registration decimal.Decimal
	Yearly       decimal.Decimal
	Exam         decimal.Decimal
	Certificate  decimal.Decimal
	Newsletters  decimal.Decimal
	Other        decimal.Decimal
	Visa         decimal.Decimal
	Notes        string

	// Lock status.
	IsLocked    bool
	CompletedBy *uuid.UUID
	CompletedAt *time.Time

	// CompleterName is joined from users for attribution; never written here.
	CompleterName string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// manualValue returns the value of a manual numeric category by name.
// The second return is false for names that are not manual numerics
// (notes is manual but text, so it never gates the auto-lock).
func (t *Transaction) manualValue(name string) (decimal.Decimal, bool) {
	switch name {
	case FieldRegistration:
		return t.Registration, true
	case FieldYearly:
		return t.Yearly, true
	case FieldExam:
		return t.Exam, true
	case FieldCertificate:
		return t.Certificate, true
	case FieldNewsletters:
		return t.Newsletters, true
	case FieldOther:
		return t.Other, true
	case FieldVisa:
		return t.Visa, true
	}

	return decimal.Decimal{}, false
}

// FieldValue is one column to write during a partial update.
type FieldValue struct {
	Column string
	Value  any
}

// Patch carries the client-supplied fields of a partial update. Nil pointers
// mean "not submitted"; only submitted fields are merged and persisted, so
// concurrent edits to disjoint fields do not clobber each other.
//
// The calculated attributes appear here only so the policy can see attempts
// to write them; they are never applied.
type Patch struct {
	PostDate     *time.Time
	ValueDate    *time.Time
	Description  *string
	DoctorName   *string
	Reference    *string
	Amount       *decimal.Decimal
	Balance      *decimal.Decimal
	Specialist   *decimal.Decimal
	InwardNumber *string
	InwardDate   *time.Time

	Registration *decimal.Decimal
	Yearly       *decimal.Decimal
	Exam         *decimal.Decimal
	Certificate  *decimal.Decimal
	Newsletters  *decimal.Decimal
	Other        *decimal.Decimal
	Visa         *decimal.Decimal
	Notes        *string

	Unspecified *decimal.Decimal
	Summary     *decimal.Decimal
	Commission  *decimal.Decimal
	Total       *decimal.Decimal
	Difference  *decimal.Decimal

	IsLocked    *bool
	CompletedBy *uuid.UUID
	CompletedAt *time.Time
}

// fieldOp is one submitted field: its name, the column value to persist,
// and the mutation to apply to the in-memory transaction.
type fieldOp struct {
	name  string
	value any
	apply func(t *Transaction)
}

// money rounds a client-supplied amount at the storage boundary.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ops expands the patch into per-field operations in a fixed order.
// Calculated attributes produce ops with a nil apply; the policy either
// drops or rejects them before the merge.
func (p *Patch) ops() []fieldOp {
	var ops []fieldOp

	if p.PostDate != nil {
		ops = append(ops, fieldOp{FieldPostDate, p.PostDate, func(t *Transaction) { t.PostDate = p.PostDate }})
	}

	if p.ValueDate != nil {
		ops = append(ops, fieldOp{FieldValueDate, p.ValueDate, func(t *Transaction) { t.ValueDate = p.ValueDate }})
	}

	if p.Description != nil {
		ops = append(ops, fieldOp{FieldDescription, *p.Description, func(t *Transaction) { t.Description = *p.Description }})
	}

	if p.DoctorName != nil {
		ops = append(ops, fieldOp{FieldDoctorName, *p.DoctorName, func(t *Transaction) { t.DoctorName = *p.DoctorName }})
	}

	if p.Reference != nil {
		ops = append(ops, fieldOp{FieldReference, *p.Reference, func(t *Transaction) { t.Reference = *p.Reference }})
	}

	if p.Amount != nil {
		v := money(*p.Amount)
		ops = append(ops, fieldOp{FieldAmount, v, func(t *Transaction) { t.Amount = v }})
	}

	if p.Balance != nil {
		v := money(*p.Balance)
		ops = append(ops, fieldOp{FieldBalance, v, func(t *Transaction) { t.Balance = v }})
	}

	if p.Specialist != nil {
		v := money(*p.Specialist)
		ops = append(ops, fieldOp{FieldSpecialist, v, func(t *Transaction) { t.Specialist = v }})
	}

	if p.InwardNumber != nil {
		ops = append(ops, fieldOp{FieldInwardNumber, *p.InwardNumber, func(t *Transaction) { t.InwardNumber = *p.InwardNumber }})
	}

	if p.InwardDate != nil {
		ops = append(ops, fieldOp{FieldInwardDate, p.InwardDate, func(t *Transaction) { t.InwardDate = p.InwardDate }})
	}

	if p.Registration != nil {
		v := money(*p.Registration)
		ops = append(ops, fieldOp{FieldRegistration, v, func(t *Transaction) { t.Registration = v }})
	}

	if p.Yearly != nil {
		v := money(*p.Yearly)
		ops = append(ops, fieldOp{FieldYearly, v, func(t *Transaction) { t.Yearly = v }})
	}

	if p.Exam != nil {
		v := money(*p.Exam)
		ops = append(ops, fieldOp{FieldExam, v, func(t *Transaction) { t.Exam = v }})
	}

	if p.Certificate != nil {
		v := money(*p.Certificate)
		ops = append(ops, fieldOp{FieldCertificate, v, func(t *Transaction) { t.Certificate = v }})
	}

	if p.Newsletters != nil {
		v := money(*p.Newsletters)
		ops = append(ops, fieldOp{FieldNewsletters, v, func(t *Transaction) { t.Newsletters = v }})
	}

	if p.Other != nil {
		v := money(*p.Other)
		ops = append(ops, fieldOp{FieldOther, v, func(t *Transaction) { t.Other = v }})
	}

	if p.Visa != nil {
		v := money(*p.Visa)
		ops = append(ops, fieldOp{FieldVisa, v, func(t *Transaction) { t.Visa = v }})
	}

	if p.Notes != nil {
		ops = append(ops, fieldOp{FieldNotes, *p.Notes, func(t *Transaction) { t.Notes = *p.Notes }})
	}

	if p.Unspecified != nil {
		ops = append(ops, fieldOp{name: FieldUnspecified})
	}

	if p.Summary != nil {
		ops = append(ops, fieldOp{name: FieldSummary})
	}

	if p.Commission != nil {
		ops = append(ops, fieldOp{name: FieldCommission})
	}

	if p.Total != nil {
		ops = append(ops, fieldOp{name: FieldTotal})
	}

	if p.Difference != nil {
		ops = append(ops, fieldOp{name: FieldDifference})
	}

	if p.IsLocked != nil {
		ops = append(ops, fieldOp{FieldIsLocked, *p.IsLocked, func(t *Transaction) { t.IsLocked = *p.IsLocked }})
	}

	if p.CompletedBy != nil {
		ops = append(ops, fieldOp{FieldCompletedBy, p.CompletedBy, func(t *Transaction) { t.CompletedBy = p.CompletedBy }})
	}

	if p.CompletedAt != nil {
		ops = append(ops, fieldOp{FieldCompletedAt, p.CompletedAt, func(t *Transaction) { t.CompletedAt = p.CompletedAt }})
	}

	return ops
}
