package importer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/field"
	"github.com/bankrec/bankrec/internal/transaction"
)

// Creator persists one imported transaction. Satisfied by the transaction
// store; mocked in tests.
//
//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Creator interface {
	CreateTransaction(ctx context.Context, t *transaction.Transaction) error
}

type Service struct {
	fields  transaction.FieldSource
	creator Creator
}

func NewService(fields transaction.FieldSource, creator Creator) *Service {
	return &Service{fields: fields, creator: creator}
}

// RowError is one failed import row. It never aborts sibling rows.
type RowError struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

// Result is the per-file import summary.
type Result struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Import parses the uploaded file and creates one transaction per data row.
// Rows are processed sequentially with independent failure; there is no
// batch rollback.
func (s *Service) Import(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	tab, err := s.parse(filename, r)
	if err != nil {
		return nil, err
	}

	reg, err := s.fields.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	imported := importColumns(reg, tab.headers)

	result := &Result{}

	for i, row := range tab.rows {
		if rowEmpty(row) {
			continue
		}

		t := &transaction.Transaction{}
		for _, col := range imported {
			col.set(t, cell(row, col.idx))
		}

		if err := s.creator.CreateTransaction(ctx, t); err != nil {
			result.Failed++
			// Rows are 1-based and counted from below the header.
			result.Errors = append(result.Errors, RowError{Row: i + 2, Err: err.Error()})

			continue
		}

		result.Imported++
	}

	return result, nil
}

func (s *Service) parse(filename string, r io.Reader) (*table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return parseXLSX(r)
	case ".csv":
		return parseCSV(r)
	default:
		return nil, apperr.Validation("file", "unsupported file type %q: expected xlsx, xls or csv", filepath.Ext(filename))
	}
}

// TemplateHeaders returns the imported-field column names in display order,
// for the downloadable header-only template.
func (s *Service) TemplateHeaders(ctx context.Context) ([]string, error) {
	reg, err := s.fields.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var headers []string

	for _, name := range reg.FieldsOf(field.KindImported) {
		if _, ok := importSetters[name]; ok {
			headers = append(headers, name)
		}
	}

	if len(headers) == 0 {
		return nil, fmt.Errorf("no imported fields configured")
	}

	return headers, nil
}

// boundColumn ties one file column to the setter for the attribute it feeds.
type boundColumn struct {
	idx int
	set func(t *transaction.Transaction, raw string)
}

// importColumns matches file headers against the registry's imported fields.
// Columns for manual, calculated or unknown fields are ignored entirely, so
// a doctored file cannot smuggle allocation values in.
func importColumns(reg *field.Registry, headers []string) []boundColumn {
	importedByName := make(map[string]bool)
	for _, name := range reg.FieldsOf(field.KindImported) {
		importedByName[name] = true
	}

	var cols []boundColumn

	for idx, h := range headers {
		name := headerKey(h)
		if !importedByName[name] {
			continue
		}

		set, ok := importSetters[name]
		if !ok {
			continue
		}

		cols = append(cols, boundColumn{idx: idx, set: set})
	}

	return cols
}
