package transaction

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/auth"
	"github.com/bankrec/bankrec/internal/http/respond"
	"github.com/bankrec/bankrec/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// transactionRequest is the write payload for create and partial update.
// Dates travel as YYYY-MM-DD strings. The calculated attributes are decoded
// so the policy can see (and reject or drop) attempts to write them.
type transactionRequest struct {
	PostDate     *string          `json:"post_date"`
	ValueDate    *string          `json:"value_date"`
	Description  *string          `json:"description"`
	DoctorName   *string          `json:"doctor_name"`
	Reference    *string          `json:"reference"`
	Amount       *decimal.Decimal `json:"amount"`
	Balance      *decimal.Decimal `json:"balance"`
	Specialist   *decimal.Decimal `json:"specialist"`
	InwardNumber *string          `json:"inward_number"`
	InwardDate   *string          `json:"inward_date"`

	Registration *decimal.Decimal `json:"registration"`
	Yearly       *decimal.Decimal `json:"yearly"`
	Exam         *decimal.Decimal `json:"exam"`
	Certificate  *decimal.Decimal `json:"certificate"`
	Newsletters  *decimal.Decimal `json:"newsletters"`
	Other        *decimal.Decimal `json:"other"`
	Visa         *decimal.Decimal `json:"visa"`
	Notes        *string          `json:"notes"`

	Unspecified *decimal.Decimal `json:"unspecified"`
	Summary     *decimal.Decimal `json:"summary"`
	Commission  *decimal.Decimal `json:"commission"`
	Total       *decimal.Decimal `json:"total"`
	Difference  *decimal.Decimal `json:"difference"`

	IsLocked    *bool      `json:"is_locked"`
	CompletedBy *uuid.UUID `json:"completed_by_user_id"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (req *transactionRequest) toPatch() (transaction.Patch, error) {
	p := transaction.Patch{
		Description:  req.Description,
		DoctorName:   req.DoctorName,
		Reference:    req.Reference,
		Amount:       req.Amount,
		Balance:      req.Balance,
		Specialist:   req.Specialist,
		InwardNumber: req.InwardNumber,
		Registration: req.Registration,
		Yearly:       req.Yearly,
		Exam:         req.Exam,
		Certificate:  req.Certificate,
		Newsletters:  req.Newsletters,
		Other:        req.Other,
		Visa:         req.Visa,
		Notes:        req.Notes,
		Unspecified:  req.Unspecified,
		Summary:      req.Summary,
		Commission:   req.Commission,
		Total:        req.Total,
		Difference:   req.Difference,
		IsLocked:     req.IsLocked,
		CompletedBy:  req.CompletedBy,
		CompletedAt:  req.CompletedAt,
	}

	var err error

	if p.PostDate, err = parseDate(transaction.FieldPostDate, req.PostDate); err != nil {
		return transaction.Patch{}, err
	}

	if p.ValueDate, err = parseDate(transaction.FieldValueDate, req.ValueDate); err != nil {
		return transaction.Patch{}, err
	}

	if p.InwardDate, err = parseDate(transaction.FieldInwardDate, req.InwardDate); err != nil {
		return transaction.Patch{}, err
	}

	return p, nil
}

func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, apperr.Validation(field, "must be a date in YYYY-MM-DD format")
	}

	return &t, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Authorization("not authenticated"))
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("body", "invalid JSON: %v", err))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		respond.Error(w, err)
		return
	}

	t, err := h.svc.Create(r.Context(), actor, patch)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("id", "must be a valid UUID"))
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Authorization("not authenticated"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("id", "must be a valid UUID"))
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("body", "invalid JSON: %v", err))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		respond.Error(w, err)
		return
	}

	t, err := h.svc.Update(r.Context(), actor, id, patch)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Authorization("not authenticated"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("id", "must be a valid UUID"))
		return
	}

	if err := h.svc.Delete(r.Context(), actor, id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// filterFromQuery parses the shared list/export filter shape.
func filterFromQuery(r *http.Request) (transaction.ListFilter, error) {
	filter := transaction.ListFilter{
		Search: r.URL.Query().Get("search"),
	}

	if s := r.URL.Query().Get("date_from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, apperr.Validation("date_from", "must be a date in YYYY-MM-DD format")
		}

		filter.DateFrom = &t
	}

	if s := r.URL.Query().Get("date_to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, apperr.Validation("date_to", "must be a date in YYYY-MM-DD format")
		}

		filter.DateTo = &t
	}

	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Page = n
		}
	}

	if s := r.URL.Query().Get("per_page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.PerPage = n
		}
	}

	return filter, nil
}
