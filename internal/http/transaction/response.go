package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankrec/bankrec/internal/transaction"
)

type transactionResponse struct {
	ID           uuid.UUID       `json:"id"`
	PostDate     *string         `json:"post_date"`
	ValueDate    *string         `json:"value_date"`
	Description  string          `json:"description"`
	DoctorName   string          `json:"doctor_name"`
	Reference    string          `json:"reference"`
	Amount       decimal.Decimal `json:"amount"`
	Balance      decimal.Decimal `json:"balance"`
	Specialist   decimal.Decimal `json:"specialist"`
	InwardNumber string          `json:"inward_number"`
	InwardDate   *string         `json:"inward_date"`

	Registration decimal.Decimal `json:"registration"`
	Yearly       decimal.Decimal `json:"yearly"`
	Exam         decimal.Decimal `json:"exam"`
	Certificate  decimal.Decimal `json:"certificate"`
	Newsletters  decimal.Decimal `json:"newsletters"`
	Other        decimal.Decimal `json:"other"`
	Visa         decimal.Decimal `json:"visa"`
	Notes        string          `json:"notes"`

	Unspecified decimal.Decimal `json:"unspecified"`
	Summary     decimal.Decimal `json:"summary"`
	Commission  decimal.Decimal `json:"commission"`
	Total       decimal.Decimal `json:"total"`
	Difference  decimal.Decimal `json:"difference"`

	IsLocked        bool       `json:"is_locked"`
	CompletedBy     *uuid.UUID `json:"completed_by_user_id,omitempty"`
	CompletedByName string     `json:"completed_by_name,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// toResponse builds the full derived view: stored values plus figures
// recomputed on this read, all money rounded at the boundary.
func toResponse(t *transaction.Transaction) transactionResponse {
	figures := transaction.Derive(t).Rounded()

	return transactionResponse{
		ID:           t.ID,
		PostDate:     dateString(t.PostDate),
		ValueDate:    dateString(t.ValueDate),
		Description:  t.Description,
		DoctorName:   t.DoctorName,
		Reference:    t.Reference,
		Amount:       t.Amount.Round(2),
		Balance:      t.Balance.Round(2),
		Specialist:   t.Specialist.Round(2),
		InwardNumber: t.InwardNumber,
		InwardDate:   dateString(t.InwardDate),

		Registration: t.Registration.Round(2),
		Yearly:       t.Yearly.Round(2),
		Exam:         t.Exam.Round(2),
		Certificate:  t.Certificate.Round(2),
		Newsletters:  t.Newsletters.Round(2),
		Other:        t.Other.Round(2),
		Visa:         t.Visa.Round(2),
		Notes:        t.Notes,

		Unspecified: figures.Unspecified,
		Summary:     figures.Summary,
		Commission:  figures.Commission,
		Total:       figures.Total,
		Difference:  figures.Difference,

		IsLocked:        t.IsLocked,
		CompletedBy:     t.CompletedBy,
		CompletedByName: t.CompleterName,
		CompletedAt:     t.CompletedAt,

		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(time.DateOnly)

	return &s
}

type pageResponse struct {
	Data    []transactionResponse `json:"data"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

func toPageResponse(page *transaction.Page) pageResponse {
	data := make([]transactionResponse, 0, len(page.Items))
	for _, t := range page.Items {
		data = append(data, toResponse(t))
	}

	return pageResponse{
		Data:    data,
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}
}
