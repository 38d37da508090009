package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/export"
	"github.com/bankrec/bankrec/internal/http/respond"
	"github.com/bankrec/bankrec/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/xlsx", h.xlsx)
	r.Get("/pdf", h.pdf)
}

func (h *Handler) xlsx(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions_%s.xlsx"`, time.Now().Format("2006-01-02")))

	if err := h.svc.WriteXLSX(r.Context(), filter, w); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions_%s.pdf"`, time.Now().Format("2006-01-02")))

	if err := h.svc.WritePDF(r.Context(), filter, w); err != nil {
		return
	}
}

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

	return filter, nil
}
