package field

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bankrec/bankrec/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=field
type Repository interface {
	ListDescriptors(ctx context.Context) ([]Descriptor, error)
	GetDescriptor(ctx context.Context, id uuid.UUID) (*Descriptor, error)
	CreateDescriptor(ctx context.Context, d *Descriptor) error
	UpdateDescriptor(ctx context.Context, d *Descriptor) error
	DeleteDescriptor(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Snapshot loads the current field configuration as an immutable Registry.
// Callers hold one snapshot for the whole operation instead of re-querying
// mid-write.
func (s *Service) Snapshot(ctx context.Context) (*Registry, error) {
	descriptors, err := s.repo.ListDescriptors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading field settings: %w", err)
	}

	return NewRegistry(descriptors), nil
}

type CreateParams struct {
	Name     string
	Kind     Kind
	Editable bool
	Order    int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Descriptor, error) {
	if params.Name == "" {
		return nil, apperr.Validation("field_name", "must not be empty")
	}

	if !params.Kind.Valid() {
		return nil, apperr.Validation("field_type", "must be imported, manual or calculated")
	}

	reg, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if _, exists := reg.Classify(params.Name); exists {
		return nil, apperr.Validation("field_name", "field %q already exists", params.Name)
	}

	d := &Descriptor{
		Name:     params.Name,
		Kind:     params.Kind,
		Editable: params.Editable,
		Order:    params.Order,
	}

	if err := s.repo.CreateDescriptor(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Descriptor, error) {
	return s.repo.GetDescriptor(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Descriptor, error) {
	reg, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return reg.Descriptors(), nil
}

type UpdateParams struct {
	Name     string
	Kind     Kind
	Editable bool
	Order    int
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Descriptor, error) {
	if !params.Kind.Valid() {
		return nil, apperr.Validation("field_type", "must be imported, manual or calculated")
	}

	d, err := s.repo.GetDescriptor(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != d.Name {
		if IsCoreAttribute(d.Name) {
			return nil, apperr.Conflict("field %q classifies a core attribute and cannot be renamed", d.Name)
		}

		reg, err := s.Snapshot(ctx)
		if err != nil {
			return nil, err
		}

		if _, exists := reg.Classify(params.Name); exists {
			return nil, apperr.Validation("field_name", "field %q already exists", params.Name)
		}
	}

	d.Name = params.Name
	d.Kind = params.Kind
	d.Editable = params.Editable
	d.Order = params.Order

	if err := s.repo.UpdateDescriptor(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// Delete removes a descriptor. Descriptors classifying core transaction
// attributes are permanent; removing one would orphan the stored data.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.repo.GetDescriptor(ctx, id)
	if err != nil {
		return err
	}

	if IsCoreAttribute(d.Name) {
		return apperr.Conflict("field %q classifies a core attribute and cannot be deleted", d.Name)
	}

	return s.repo.DeleteDescriptor(ctx, id)
}

// EnsureDefaults seeds the canonical descriptors for every missing attribute.
// Called at startup; existing rows keep any admin adjustments.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	reg, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	for _, def := range Defaults {
		if _, exists := reg.Classify(def.Name); exists {
			continue
		}

		d := def
		if err := s.repo.CreateDescriptor(ctx, &d); err != nil {
			return fmt.Errorf("seeding field %q: %w", def.Name, err)
		}
	}

	return nil
}
