package importfile

import (
	"encoding/csv"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/auth"
	"github.com/bankrec/bankrec/internal/http/respond"
	"github.com/bankrec/bankrec/internal/importer"
	"github.com/bankrec/bankrec/internal/user"
)

// 10 MB is generous for a bank statement; xlsx exports of a full year stay
// well under it.
const maxUploadSize = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRoles(user.RoleAdmin, user.RoleImporter))
		r.Post("/transactions", h.importTransactions)
	})
	r.Get("/template", h.template)
}

func (h *Handler) importTransactions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, apperr.Validation("file", "invalid multipart request: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, apperr.Validation("file", "missing file upload"))
		return
	}
	defer file.Close()

	result, err := h.svc.Import(r.Context(), header.Filename, file)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

// template serves a header-only CSV matching the configured imported fields,
// so statements can be prepared in the exact column order the importer binds.
func (h *Handler) template(w http.ResponseWriter, r *http.Request) {
	headers, err := h.svc.TemplateHeaders(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions_template.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return
	}
	cw.Flush()
}
