package field

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/auth"
	"github.com/bankrec/bankrec/internal/field"
	"github.com/bankrec/bankrec/internal/http/respond"
	"github.com/bankrec/bankrec/internal/user"
)

type Handler struct {
	svc *field.Service
}

func NewHandler(svc *field.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRoles(user.RoleAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type descriptorRequest struct {
	Name     string     `json:"field_name"`
	Kind     field.Kind `json:"field_type"`
	Editable bool       `json:"is_editable"`
	Order    int        `json:"display_order"`
}

type descriptorResponse struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"field_name"`
	Kind     field.Kind `json:"field_type"`
	Editable bool       `json:"is_editable"`
	Order    int        `json:"display_order"`
}

func toResponse(d *field.Descriptor) descriptorResponse {
	return descriptorResponse{
		ID:       d.ID,
		Name:     d.Name,
		Kind:     d.Kind,
		Editable: d.Editable,
		Order:    d.Order,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	descriptors, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := make([]descriptorResponse, 0, len(descriptors))
	for i := range descriptors {
		out = append(out, toResponse(&descriptors[i]))
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("id", "must be a valid UUID"))
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req descriptorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("body", "invalid JSON: %v", err))
		return
	}

	d, err := h.svc.Create(r.Context(), field.CreateParams{
		Name:     req.Name,
		Kind:     req.Kind,
		Editable: req.Editable,
		Order:    req.Order,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("id", "must be a valid UUID"))
		return
	}

	var req descriptorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("body", "invalid JSON: %v", err))
		return
	}

	d, err := h.svc.Update(r.Context(), id, field.UpdateParams{
		Name:     req.Name,
		Kind:     req.Kind,
		Editable: req.Editable,
		Order:    req.Order,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("id", "must be a valid UUID"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type configEntry struct {
	Name     string `json:"name"`
	Editable bool   `json:"editable"`
	Order    int    `json:"order"`
}

// Config returns the three field-kind buckets any UI needs to build its
// dynamic form.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	buckets := map[field.Kind][]configEntry{
		field.KindImported:   {},
		field.KindManual:     {},
		field.KindCalculated: {},
	}

	for _, d := range reg.Descriptors() {
		buckets[d.Kind] = append(buckets[d.Kind], configEntry{
			Name:     d.Name,
			Editable: d.Editable,
			Order:    d.Order,
		})
	}

	respond.JSON(w, http.StatusOK, buckets)
}
