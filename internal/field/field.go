package field

import (
	"sort"

	"github.com/google/uuid"
)

// Kind classifies a transaction attribute. It drives both the dynamic form
// shape on the frontend and the write-authorization rules; all kind-dependent
// behavior goes through the Registry and the transaction policy, never ad-hoc
// string comparison at call sites.
type Kind string

const (
	// KindImported: populated only by the import pipeline or an admin correction.
	KindImported Kind = "imported"
	// KindManual: allocation values entered by staff.
	KindManual Kind = "manual"
	// KindCalculated: derived on every read, never independently stored.
	KindCalculated Kind = "calculated"
)

// Valid reports whether the kind is one of the closed enumeration.
func (k Kind) Valid() bool {
	switch k {
	case KindImported, KindManual, KindCalculated:
		return true
	}

	return false
}

// Descriptor is one field-settings row. Kind is immutable in practice once
// data exists for the field; changing it would orphan the stored values.
type Descriptor struct {
	ID       uuid.UUID
	Name     string
	Kind     Kind
	Editable bool
	Order    int
}

// Registry is an immutable classification snapshot loaded once per operation,
// so a single request never observes two different field configurations.
type Registry struct {
	byName map[string]Descriptor
	sorted []Descriptor
}

// NewRegistry builds a snapshot from descriptor rows, ordered by display order.
func NewRegistry(descriptors []Descriptor) *Registry {
	sorted := make([]Descriptor, len(descriptors))
	copy(sorted, descriptors)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	byName := make(map[string]Descriptor, len(sorted))
	for _, d := range sorted {
		byName[d.Name] = d
	}

	return &Registry{byName: byName, sorted: sorted}
}

// Classify returns the kind of a field. The second return is false for
// names with no descriptor.
func (r *Registry) Classify(name string) (Kind, bool) {
	d, ok := r.byName[name]
	return d.Kind, ok
}

// FieldsOf returns the names of all fields of the given kind, in display order.
func (r *Registry) FieldsOf(kind Kind) []string {
	var names []string

	for _, d := range r.sorted {
		if d.Kind == kind {
			names = append(names, d.Name)
		}
	}

	return names
}

// IsEditable reports whether the field is flagged editable. Unknown names
// are not editable.
func (r *Registry) IsEditable(name string) bool {
	d, ok := r.byName[name]
	return ok && d.Editable
}

// Descriptors returns all descriptors in display order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.sorted))
	copy(out, r.sorted)

	return out
}

// Defaults is the canonical classification of every transaction attribute.
// It seeds the field_settings table and marks which descriptors classify a
// core attribute (those may never be deleted while the column exists).
var Defaults = []Descriptor{
	{Name: "post_date", Kind: KindImported, Editable: false, Order: 1},
	{Name: "value_date", Kind: KindImported, Editable: false, Order: 2},
	{Name: "description", Kind: KindImported, Editable: false, Order: 3},
	{Name: "doctor_name", Kind: KindImported, Editable: false, Order: 4},
	{Name: "reference", Kind: KindImported, Editable: false, Order: 5},
	{Name: "amount", Kind: KindImported, Editable: false, Order: 6},
	{Name: "balance", Kind: KindImported, Editable: false, Order: 7},
	{Name: "specialist", Kind: KindImported, Editable: false, Order: 8},

	{Name: "registration", Kind: KindManual, Editable: true, Order: 9},
	{Name: "yearly", Kind: KindManual, Editable: true, Order: 10},
	{Name: "exam", Kind: KindManual, Editable: true, Order: 11},
	{Name: "certificate", Kind: KindManual, Editable: true, Order: 12},
	{Name: "newsletters", Kind: KindManual, Editable: true, Order: 13},
	{Name: "other", Kind: KindManual, Editable: true, Order: 14},
	{Name: "visa", Kind: KindManual, Editable: true, Order: 15},

	{Name: "unspecified", Kind: KindCalculated, Editable: false, Order: 16},
	{Name: "summary", Kind: KindCalculated, Editable: false, Order: 17},
	{Name: "commission", Kind: KindCalculated, Editable: false, Order: 18},
	{Name: "total", Kind: KindCalculated, Editable: false, Order: 19},
	{Name: "difference", Kind: KindCalculated, Editable: false, Order: 20},

	{Name: "inward_number", Kind: KindImported, Editable: false, Order: 21},
	{Name: "inward_date", Kind: KindImported, Editable: false, Order: 22},
	{Name: "notes", Kind: KindManual, Editable: true, Order: 23},
}

// IsCoreAttribute reports whether name is a transaction column the rest of
// the system depends on.
func IsCoreAttribute(name string) bool {
	for _, d := range Defaults {
		if d.Name == name {
			return true
		}
	}

	return false
}
