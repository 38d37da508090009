package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/field"
	"github.com/bankrec/bankrec/internal/user"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields []FieldValue) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	CountTransactions(ctx context.Context, filter ListFilter) (int, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// FieldSource supplies the immutable field-classification snapshot a single
// operation works against.
type FieldSource interface {
	Snapshot(ctx context.Context) (*field.Registry, error)
}

// Options tune behavior that the product left open.
type Options struct {
	// ClearCompletionOnUnlock wipes completed_by/completed_at when an admin
	// force-unlocks a transaction without overwriting the stamps explicitly.
	ClearCompletionOnUnlock bool
}

type Service struct {
	repo   Repository
	fields FieldSource
	opts   Options
	now    func() time.Time
}

func NewService(repo Repository, fields FieldSource, opts Options) *Service {
	return &Service{
		repo:   repo,
		fields: fields,
		opts:   opts,
		now:    time.Now,
	}
}

// ListFilter selects transactions by free-text search over description,
// doctor_name and reference, and/or a post_date range. The same shape serves
// the list endpoint and the exporters.
type ListFilter struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PerPage  int
}

const defaultPerPage = 50

func (f ListFilter) normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}

	return f
}

// Page is one page of the transaction list.
type Page struct {
	Items   []*Transaction
	Total   int
	Page    int
	PerPage int
}

// Create inserts a new transaction from a manual entry. The same field-level
// policy as Update applies, so an editor can only seed manual values while an
// admin can set imported attributes too. Manual categories default to 0, and
// the auto-lock fires immediately if the entry arrives complete.
func (s *Service) Create(ctx context.Context, actor *user.User, patch Patch) (*Transaction, error) {
	// The field policy only sees submitted fields, so an empty patch would
	// slip past it. Creation itself is a write and needs a writing role.
	if actor.Role != user.RoleAdmin && actor.Role != user.RoleEditor {
		return nil, apperr.Authorization("role %s may not create transactions", actor.Role)
	}

	reg, err := s.fields.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ops, err := authorize(actor, reg, false, patch.ops())
	if err != nil {
		return nil, err
	}

	t := &Transaction{}
	for _, op := range ops {
		op.apply(t)
	}

	s.evaluateAutoLock(t, reg, actor, false, patch.IsLocked != nil)

	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	filter = filter.normalized()

	total, err := s.repo.CountTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Page{Items: items, Total: total, Page: filter.Page, PerPage: filter.PerPage}, nil
}

// ListAll returns every transaction matching the filter, ignoring pagination.
// Used by the exporters, which materialize the full result set.
func (s *Service) ListAll(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	filter.Page = 0
	filter.PerPage = 0

	return s.repo.ListTransactions(ctx, filter)
}

// Update applies a partial-field merge: only submitted fields are validated,
// authorized and written, so concurrent edits to disjoint fields survive each
// other. The auto-lock transition is evaluated against the merged post-write
// state, never the pre-write one.
func (s *Service) Update(ctx context.Context, actor *user.User, id uuid.UUID, patch Patch) (*Transaction, error) {
	reg, err := s.fields.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	ops, err := authorize(actor, reg, t.IsLocked, patch.ops())
	if err != nil {
		return nil, err
	}

	if len(ops) == 0 {
		return t, nil
	}

	wasLocked := t.IsLocked

	writes := make([]FieldValue, 0, len(ops)+3)

	for _, op := range ops {
		op.apply(t)
		writes = append(writes, FieldValue{Column: op.name, Value: op.value})
	}

	writes = s.applyTransitions(t, reg, actor, wasLocked, &patch, writes)

	if err := s.repo.UpdateFields(ctx, id, writes); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	// Re-read so the caller sees the persisted state with the completer join.
	return s.repo.GetTransaction(ctx, id)
}

// applyTransitions runs the lock state machine on the merged state and
// appends any status columns the transition writes.
func (s *Service) applyTransitions(t *Transaction, reg *field.Registry, actor *user.User, wasLocked bool, patch *Patch, writes []FieldValue) []FieldValue {
	explicitLock := patch.IsLocked != nil

	if locked := s.evaluateAutoLock(t, reg, actor, wasLocked, explicitLock); locked {
		writes = append(writes,
			FieldValue{Column: FieldIsLocked, Value: true},
			FieldValue{Column: FieldCompletedBy, Value: t.CompletedBy},
			FieldValue{Column: FieldCompletedAt, Value: t.CompletedAt},
		)

		return writes
	}

	// Administrative force-unlock. The completion stamps survive unless
	// configured otherwise or overwritten in the same request.
	if explicitLock && !*patch.IsLocked && wasLocked && s.opts.ClearCompletionOnUnlock {
		if patch.CompletedBy == nil {
			t.CompletedBy = nil
			writes = append(writes, FieldValue{Column: FieldCompletedBy, Value: nil})
		}

		if patch.CompletedAt == nil {
			t.CompletedAt = nil
			writes = append(writes, FieldValue{Column: FieldCompletedAt, Value: nil})
		}
	}

	return writes
}

// evaluateAutoLock fires the Open -> Locked transition when every manual
// numeric category on the merged state is non-zero. The transition is never
// user-invoked: it is a consequence of data completeness. It does not fire
// on an already-locked transaction or when the request sets is_locked
// explicitly (the administrative override wins). A value of 0 counts as
// incomplete.
func (s *Service) evaluateAutoLock(t *Transaction, reg *field.Registry, actor *user.User, wasLocked, explicitLock bool) bool {
	if wasLocked || explicitLock {
		return false
	}

	for _, name := range reg.FieldsOf(field.KindManual) {
		v, numeric := t.manualValue(name)
		if !numeric {
			continue
		}

		if v.IsZero() {
			return false
		}
	}

	now := s.now()
	actorID := actor.ID

	t.IsLocked = true
	t.CompletedBy = &actorID
	t.CompletedAt = &now

	return true
}

// Delete removes a transaction. Admin only.
func (s *Service) Delete(ctx context.Context, actor *user.User, id uuid.UUID) error {
	if actor.Role != user.RoleAdmin {
		return apperr.Authorization("role %s may not delete transactions", actor.Role)
	}

	return s.repo.DeleteTransaction(ctx, id)
}
