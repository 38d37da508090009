package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/field"
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

func scanDescriptor(s scanner) (*field.Descriptor, error) {
	var d field.Descriptor

	var kindStr string

	if err := s.Scan(&d.ID, &d.Name, &kindStr, &d.Editable, &d.Order); err != nil {
		return nil, err
	}

	d.Kind = field.Kind(kindStr)

	return &d, nil
}

const selectDescriptorColumns = `id, field_name, field_type, is_editable, display_order`

func (s *Store) ListDescriptors(ctx context.Context) ([]field.Descriptor, error) {
	query := `SELECT ` + selectDescriptorColumns + `
		FROM field_settings
		ORDER BY display_order ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing field settings: %w", err)
	}
	defer rows.Close()

	var descriptors []field.Descriptor

	for rows.Next() {
		d, err := scanDescriptor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning field setting: %w", err)
		}

		descriptors = append(descriptors, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating field settings: %w", err)
	}

	return descriptors, nil
}

func (s *Store) GetDescriptor(ctx context.Context, id uuid.UUID) (*field.Descriptor, error) {
	query := `SELECT ` + selectDescriptorColumns + ` FROM field_settings WHERE id = $1`

	d, err := scanDescriptor(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("field setting")
		}

		return nil, fmt.Errorf("getting field setting: %w", err)
	}

	return d, nil
}

func (s *Store) CreateDescriptor(ctx context.Context, d *field.Descriptor) error {
	query := `
		INSERT INTO field_settings (field_name, field_type, is_editable, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, d.Name, d.Kind, d.Editable, d.Order).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("creating field setting: %w", err)
	}

	return nil
}

func (s *Store) UpdateDescriptor(ctx context.Context, d *field.Descriptor) error {
	query := `
		UPDATE field_settings
		SET field_name = $1, field_type = $2, is_editable = $3, display_order = $4, updated_at = NOW()
		WHERE id = $5
	`

	_, err := s.db.ExecContext(ctx, query, d.Name, d.Kind, d.Editable, d.Order, d.ID)
	if err != nil {
		return fmt.Errorf("updating field setting: %w", err)
	}

	return nil
}

func (s *Store) DeleteDescriptor(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM field_settings WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting field setting: %w", err)
	}

	return nil
}
