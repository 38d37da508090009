package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/field"
	"github.com/bankrec/bankrec/internal/transaction"
	"github.com/bankrec/bankrec/internal/user"
)

func actor(role user.Role) *user.User {
	return &user.User{ID: uuid.New(), Name: "Test User", Email: "test@example.com", Role: role}
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func sp(s string) *string { return &s }

func bp(b bool) *bool { return &b }

// almostComplete has every manual numeric category non-zero except visa.
func almostComplete() *transaction.Transaction {
	return &transaction.Transaction{
		ID:           uuid.New(),
		Amount:       decimal.RequireFromString("100"),
		Registration: decimal.RequireFromString("20"),
		Yearly:       decimal.RequireFromString("20"),
		Exam:         decimal.RequireFromString("20"),
		Certificate:  decimal.RequireFromString("20"),
		Newsletters:  decimal.RequireFromString("10"),
		Other:        decimal.RequireFromString("10"),
	}
}

func columnMap(writes []transaction.FieldValue) map[string]any {
	m := make(map[string]any, len(writes))
	for _, w := range writes {
		m[w.Column] = w.Value
	}

	return m
}

func newService(t *testing.T, opts transaction.Options) (*transaction.Service, *transaction.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := transaction.NewMockRepository(ctrl)

	fields := transaction.NewMockFieldSource(ctrl)
	fields.EXPECT().
		Snapshot(gomock.Any()).
		Return(field.NewRegistry(field.Defaults), nil).
		AnyTimes()

	return transaction.NewService(repo, fields, opts), repo
}

func TestService_Update_EditorManualField(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	tx := &transaction.Transaction{ID: uuid.New()}

	var captured []transaction.FieldValue

	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().
		UpdateFields(gomock.Any(), tx.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, fields []transaction.FieldValue) error {
			captured = fields
			return nil
		})
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	_, err := svc.Update(context.Background(), actor(user.RoleEditor), tx.ID, transaction.Patch{
		Registration: dp("50"),
	})
	require.NoError(t, err)

	// One manual category alone never completes the allocation, so only the
	// patched column is written.
	cols := columnMap(captured)
	assert.Len(t, cols, 1)
	assert.Contains(t, cols, transaction.FieldRegistration)
}

func TestService_Update_AutoLock(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	tx := almostComplete()
	editor := actor(user.RoleEditor)

	var captured []transaction.FieldValue

	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().
		UpdateFields(gomock.Any(), tx.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, fields []transaction.FieldValue) error {
			captured = fields
			return nil
		})
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	_, err := svc.Update(context.Background(), editor, tx.ID, transaction.Patch{
		Visa: dp("10"),
	})
	require.NoError(t, err)

	cols := columnMap(captured)
	assert.Equal(t, true, cols[transaction.FieldIsLocked])

	completedBy, ok := cols[transaction.FieldCompletedBy].(*uuid.UUID)
	require.True(t, ok)
	assert.Equal(t, editor.ID, *completedBy)

	completedAt, ok := cols[transaction.FieldCompletedAt].(*time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), *completedAt, time.Minute)
}

func TestService_Update_ZeroCategoryBlocksAutoLock(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	tx := almostComplete()

	var captured []transaction.FieldValue

	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().
		UpdateFields(gomock.Any(), tx.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, fields []transaction.FieldValue) error {
			captured = fields
			return nil
		})
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	// Explicit 0 means "not allocated yet", not "allocated nothing".
	_, err := svc.Update(context.Background(), actor(user.RoleEditor), tx.ID, transaction.Patch{
		Visa: dp("0"),
	})
	require.NoError(t, err)

	cols := columnMap(captured)
	assert.NotContains(t, cols, transaction.FieldIsLocked)
	assert.NotContains(t, cols, transaction.FieldCompletedBy)
}

func TestService_Update_NoRestampWhenLocked(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	previousCompleter := uuid.New()
	previousStamp := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	tx := almostComplete()
	tx.Visa = decimal.RequireFromString("10")
	tx.IsLocked = true
	tx.CompletedBy = &previousCompleter
	tx.CompletedAt = &previousStamp

	var captured []transaction.FieldValue

	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().
		UpdateFields(gomock.Any(), tx.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, fields []transaction.FieldValue) error {
			captured = fields
			return nil
		})
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	_, err := svc.Update(context.Background(), actor(user.RoleAdmin), tx.ID, transaction.Patch{
		Description: sp("corrected narrative"),
	})
	require.NoError(t, err)

	// An admin edit on a locked transaction must not re-fire the transition
	// or steal attribution from the original completer.
	cols := columnMap(captured)
	assert.Len(t, cols, 1)
	assert.Contains(t, cols, transaction.FieldDescription)
}

func TestService_Update_EditorLockedConflict(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	tx := &transaction.Transaction{ID: uuid.New(), IsLocked: true}
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	_, err := svc.Update(context.Background(), actor(user.RoleEditor), tx.ID, transaction.Patch{
		Registration: dp("50"),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestService_Update_RoleDenied(t *testing.T) {
	type testCase struct {
		name  string
		role  user.Role
		patch transaction.Patch
	}

	tests := []testCase{
		{name: "ViewerManual", role: user.RoleViewer, patch: transaction.Patch{Registration: dp("50")}},
		{name: "ImporterManual", role: user.RoleImporter, patch: transaction.Patch{Registration: dp("50")}},
		{name: "EditorImported", role: user.RoleEditor, patch: transaction.Patch{Description: sp("edited")}},
		{name: "EditorStatus", role: user.RoleEditor, patch: transaction.Patch{IsLocked: bp(true)}},
		{name: "EditorCalculated", role: user.RoleEditor, patch: transaction.Patch{Summary: dp("100")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t, transaction.Options{})

			tx := &transaction.Transaction{ID: uuid.New()}
			repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

			_, err := svc.Update(context.Background(), actor(tt.role), tx.ID, tt.patch)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindAuthorization))
		})
	}
}

func TestService_Update_AdminCalculatedDropped(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	tx := &transaction.Transaction{ID: uuid.New()}

	var captured []transaction.FieldValue

	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().
		UpdateFields(gomock.Any(), tx.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, fields []transaction.FieldValue) error {
			captured = fields
			return nil
		})
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	_, err := svc.Update(context.Background(), actor(user.RoleAdmin), tx.ID, transaction.Patch{
		Description: sp("edited"),
		Summary:     dp("999"),
	})
	require.NoError(t, err)

	// The submitted summary is discarded; figures are always re-derived.
	cols := columnMap(captured)
	assert.Len(t, cols, 1)
	assert.Contains(t, cols, transaction.FieldDescription)
}

func TestService_Update_OnlyCalculatedIsNoop(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	tx := &transaction.Transaction{ID: uuid.New()}
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	got, err := svc.Update(context.Background(), actor(user.RoleAdmin), tx.ID, transaction.Patch{
		Summary: dp("999"),
	})
	require.NoError(t, err)
	assert.Equal(t, tx, got)
}

func TestService_Update_ExplicitLockSuppressesAutoLock(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	tx := almostComplete()

	var captured []transaction.FieldValue

	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
	repo.EXPECT().
		UpdateFields(gomock.Any(), tx.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, fields []transaction.FieldValue) error {
			captured = fields
			return nil
		})
	repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

	// The request completes the allocation but pins is_locked to false; the
	// administrative override wins over the transition.
	_, err := svc.Update(context.Background(), actor(user.RoleAdmin), tx.ID, transaction.Patch{
		Visa:     dp("10"),
		IsLocked: bp(false),
	})
	require.NoError(t, err)

	cols := columnMap(captured)
	assert.Equal(t, false, cols[transaction.FieldIsLocked])
	assert.NotContains(t, cols, transaction.FieldCompletedBy)
	assert.NotContains(t, cols, transaction.FieldCompletedAt)
}

func TestService_Update_ForceUnlock(t *testing.T) {
	type testCase struct {
		name        string
		opts        transaction.Options
		wantCleared bool
	}

	tests := []testCase{
		{name: "KeepsStampsByDefault", opts: transaction.Options{}, wantCleared: false},
		{name: "ClearsStampsWhenConfigured", opts: transaction.Options{ClearCompletionOnUnlock: true}, wantCleared: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t, tt.opts)

			completer := uuid.New()
			stamp := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

			tx := almostComplete()
			tx.Visa = decimal.RequireFromString("10")
			tx.IsLocked = true
			tx.CompletedBy = &completer
			tx.CompletedAt = &stamp

			var captured []transaction.FieldValue

			repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
			repo.EXPECT().
				UpdateFields(gomock.Any(), tx.ID, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ uuid.UUID, fields []transaction.FieldValue) error {
					captured = fields
					return nil
				})
			repo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

			_, err := svc.Update(context.Background(), actor(user.RoleAdmin), tx.ID, transaction.Patch{
				IsLocked: bp(false),
			})
			require.NoError(t, err)

			cols := columnMap(captured)
			assert.Equal(t, false, cols[transaction.FieldIsLocked])

			if tt.wantCleared {
				require.Contains(t, cols, transaction.FieldCompletedBy)
				require.Contains(t, cols, transaction.FieldCompletedAt)
				assert.Nil(t, cols[transaction.FieldCompletedBy])
				assert.Nil(t, cols[transaction.FieldCompletedAt])
			} else {
				assert.NotContains(t, cols, transaction.FieldCompletedBy)
				assert.NotContains(t, cols, transaction.FieldCompletedAt)
			}
		})
	}
}

func TestService_Create(t *testing.T) {
	t.Run("EditorCompleteEntryLocksImmediately", func(t *testing.T) {
		svc, repo := newService(t, transaction.Options{})

		editor := actor(user.RoleEditor)

		var created *transaction.Transaction

		repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
				tx.ID = uuid.New()
				created = tx
				return nil
			})

		got, err := svc.Create(context.Background(), editor, transaction.Patch{
			Registration: dp("20"),
			Yearly:       dp("20"),
			Exam:         dp("20"),
			Certificate:  dp("20"),
			Newsletters:  dp("10"),
			Other:        dp("10"),
			Visa:         dp("10"),
		})
		require.NoError(t, err)
		require.NotNil(t, got)

		require.NotNil(t, created)
		assert.True(t, created.IsLocked)
		require.NotNil(t, created.CompletedBy)
		assert.Equal(t, editor.ID, *created.CompletedBy)
		assert.NotNil(t, created.CompletedAt)
	})

	t.Run("EditorImportedFieldDenied", func(t *testing.T) {
		svc, _ := newService(t, transaction.Options{})

		_, err := svc.Create(context.Background(), actor(user.RoleEditor), transaction.Patch{
			Amount: dp("100"),
		})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	})

	t.Run("NonWritingRolesDenied", func(t *testing.T) {
		// An empty patch carries no fields for the policy to inspect; the
		// role gate alone must stop the insert.
		for _, role := range []user.Role{user.RoleViewer, user.RoleImporter} {
			svc, _ := newService(t, transaction.Options{})

			_, err := svc.Create(context.Background(), actor(role), transaction.Patch{})
			require.Error(t, err, "role %s", role)
			assert.True(t, apperr.Is(err, apperr.KindAuthorization), "role %s", role)
		}
	})

	t.Run("AdminManualEntryStaysOpen", func(t *testing.T) {
		svc, repo := newService(t, transaction.Options{})

		var created *transaction.Transaction

		repo.EXPECT().
			CreateTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
				created = tx
				return nil
			})

		_, err := svc.Create(context.Background(), actor(user.RoleAdmin), transaction.Patch{
			Description: sp("manual entry"),
			Amount:      dp("250"),
		})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.False(t, created.IsLocked)
		assert.Nil(t, created.CompletedBy)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("Admin", func(t *testing.T) {
		svc, repo := newService(t, transaction.Options{})

		id := uuid.New()
		repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), actor(user.RoleAdmin), id))
	})

	t.Run("EditorDenied", func(t *testing.T) {
		svc, _ := newService(t, transaction.Options{})

		err := svc.Delete(context.Background(), actor(user.RoleEditor), uuid.New())
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	})
}

func TestService_List_NormalizesPagination(t *testing.T) {
	svc, repo := newService(t, transaction.Options{})

	var captured transaction.ListFilter

	repo.EXPECT().
		CountTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.ListFilter) (int, error) {
			captured = filter
			return 3, nil
		})
	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		Return([]*transaction.Transaction{{}, {}, {}}, nil)

	page, err := svc.List(context.Background(), transaction.ListFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 50, captured.PerPage)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 3)
}
