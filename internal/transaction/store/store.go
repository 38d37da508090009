package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.post_date, t.value_date, t.description, t.doctor_name, t.reference,
	t.amount, t.balance, t.specialist,
	t.registration, t.yearly, t.exam, t.certificate, t.newsletters, t.other, t.visa,
	t.inward_number, t.inward_date, t.notes,
	t.is_locked, t.completed_by_user_id, t.completed_at, u.name AS completer_name,
	t.created_at, t.updated_at
`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var t transaction.Transaction

	var desc, doctor, reference, inwardNumber, notes, completerName sql.NullString

	if err := s.Scan(
		&t.ID, &t.PostDate, &t.ValueDate, &desc, &doctor, &reference,
		&t.Amount, &t.Balance, &t.Specialist,
		&t.Registration, &t.Yearly, &t.Exam, &t.Certificate, &t.Newsletters, &t.Other, &t.Visa,
		&inwardNumber, &t.InwardDate, &notes,
		&t.IsLocked, &t.CompletedBy, &t.CompletedAt, &completerName,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Description = desc.String
	t.DoctorName = doctor.String
	t.Reference = reference.String
	t.InwardNumber = inwardNumber.String
	t.Notes = notes.String
	t.CompleterName = completerName.String

	return &t, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			post_date, value_date, description, doctor_name, reference,
			amount, balance, specialist,
			registration, yearly, exam, certificate, newsletters, other, visa,
			inward_number, inward_date, notes,
			is_locked, completed_by_user_id, completed_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.PostDate, t.ValueDate, t.Description, t.DoctorName, t.Reference,
		t.Amount, t.Balance, t.Specialist,
		t.Registration, t.Yearly, t.Exam, t.Certificate, t.Newsletters, t.Other, t.Visa,
		t.InwardNumber, t.InwardDate, t.Notes,
		t.IsLocked, t.CompletedBy, t.CompletedAt,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN users u ON t.completed_by_user_id = u.id
		WHERE t.id = $1`

	t, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("transaction")
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return t, nil
}

// writableColumns whitelists everything UpdateFields may touch. The column
// list is driven by client-supplied field names, so it never reaches the SQL
// text unchecked.
var writableColumns = map[string]bool{
	transaction.FieldPostDate:     true,
	transaction.FieldValueDate:    true,
	transaction.FieldDescription:  true,
	transaction.FieldDoctorName:   true,
	transaction.FieldReference:    true,
	transaction.FieldAmount:       true,
	transaction.FieldBalance:      true,
	transaction.FieldSpecialist:   true,
	transaction.FieldRegistration: true,
	transaction.FieldYearly:       true,
	transaction.FieldExam:         true,
	transaction.FieldCertificate:  true,
	transaction.FieldNewsletters:  true,
	transaction.FieldOther:        true,
	transaction.FieldVisa:         true,
	transaction.FieldInwardNumber: true,
	transaction.FieldInwardDate:   true,
	transaction.FieldNotes:        true,
	transaction.FieldIsLocked:     true,
	transaction.FieldCompletedBy:  true,
	transaction.FieldCompletedAt:  true,
}

// UpdateFields writes only the given columns. This is the partial-field merge
// the design requires: a full-row replace would clobber concurrent edits to
// other fields.
func (s *Store) UpdateFields(ctx context.Context, id uuid.UUID, fields []transaction.FieldValue) error {
	if len(fields) == 0 {
		return nil
	}

	var sb strings.Builder

	sb.WriteString("UPDATE transactions SET ")

	args := make([]any, 0, len(fields)+1)

	for i, f := range fields {
		if !writableColumns[f.Column] {
			return fmt.Errorf("column %q is not writable", f.Column)
		}

		if i > 0 {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "%s = $%d", f.Column, i+1)
		args = append(args, f.Value)
	}

	fmt.Fprintf(&sb, ", updated_at = NOW() WHERE id = $%d", len(fields)+1)
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("updating transaction fields: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("transaction")
	}

	return nil
}

// filterClause builds the WHERE tail shared by list and count.
func filterClause(filter transaction.ListFilter, args []any) (string, []any) {
	var sb strings.Builder

	if filter.Search != "" {
		fmt.Fprintf(&sb, ` AND (t.description ILIKE $%d OR t.doctor_name ILIKE $%d OR t.reference ILIKE $%d)`,
			len(args)+1, len(args)+1, len(args)+1)

		args = append(args, "%"+filter.Search+"%")
	}

	if filter.DateFrom != nil {
		fmt.Fprintf(&sb, " AND t.post_date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}

	if filter.DateTo != nil {
		fmt.Fprintf(&sb, " AND t.post_date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}

	return sb.String(), args
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN users u ON t.completed_by_user_id = u.id
		WHERE TRUE`

	clause, args := filterClause(filter, nil)
	query += clause
	query += " ORDER BY t.created_at DESC"

	if filter.PerPage > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) CountTransactions(ctx context.Context, filter transaction.ListFilter) (int, error) {
	query := `SELECT COUNT(*) FROM transactions t WHERE TRUE`

	clause, args := filterClause(filter, nil)
	query += clause

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return total, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("transaction")
	}

	return nil
}
