package field_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bankrec/bankrec/internal/apperr"
	"github.com/bankrec/bankrec/internal/field"
)

func newService(t *testing.T) (*field.Service, *field.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := field.NewMockRepository(ctrl)

	return field.NewService(repo), repo
}

func TestService_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().ListDescriptors(gomock.Any()).Return(field.Defaults, nil)
		repo.EXPECT().
			CreateDescriptor(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d *field.Descriptor) error {
				d.ID = uuid.New()
				return nil
			})

		got, err := svc.Create(context.Background(), field.CreateParams{
			Name:     "bank_branch",
			Kind:     field.KindImported,
			Editable: false,
			Order:    24,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "bank_branch", got.Name)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().ListDescriptors(gomock.Any()).Return(field.Defaults, nil)

		_, err := svc.Create(context.Background(), field.CreateParams{
			Name: "registration",
			Kind: field.KindManual,
		})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("EmptyName", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(context.Background(), field.CreateParams{Kind: field.KindManual})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("InvalidKind", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Create(context.Background(), field.CreateParams{
			Name: "bank_branch",
			Kind: field.Kind("derived"),
		})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestService_Update(t *testing.T) {
	t.Run("RenameCoreAttributeRejected", func(t *testing.T) {
		svc, repo := newService(t)

		id := uuid.New()
		repo.EXPECT().GetDescriptor(gomock.Any(), id).Return(&field.Descriptor{
			ID:   id,
			Name: "amount",
			Kind: field.KindImported,
		}, nil)

		_, err := svc.Update(context.Background(), id, field.UpdateParams{
			Name: "gross_amount",
			Kind: field.KindImported,
		})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("ReorderCoreAttribute", func(t *testing.T) {
		svc, repo := newService(t)

		id := uuid.New()
		repo.EXPECT().GetDescriptor(gomock.Any(), id).Return(&field.Descriptor{
			ID:    id,
			Name:  "amount",
			Kind:  field.KindImported,
			Order: 6,
		}, nil)
		repo.EXPECT().UpdateDescriptor(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Update(context.Background(), id, field.UpdateParams{
			Name:  "amount",
			Kind:  field.KindImported,
			Order: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, got.Order)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("CoreAttributeRejected", func(t *testing.T) {
		svc, repo := newService(t)

		id := uuid.New()
		repo.EXPECT().GetDescriptor(gomock.Any(), id).Return(&field.Descriptor{
			ID:   id,
			Name: "registration",
			Kind: field.KindManual,
		}, nil)

		err := svc.Delete(context.Background(), id)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("CustomField", func(t *testing.T) {
		svc, repo := newService(t)

		id := uuid.New()
		repo.EXPECT().GetDescriptor(gomock.Any(), id).Return(&field.Descriptor{
			ID:   id,
			Name: "bank_branch",
			Kind: field.KindImported,
		}, nil)
		repo.EXPECT().DeleteDescriptor(gomock.Any(), id).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), id))
	})
}

func TestService_EnsureDefaults(t *testing.T) {
	t.Run("SeedsOnlyMissing", func(t *testing.T) {
		svc, repo := newService(t)

		// Everything but the last two defaults already exists.
		existing := field.Defaults[:len(field.Defaults)-2]
		repo.EXPECT().ListDescriptors(gomock.Any()).Return(existing, nil)
		repo.EXPECT().CreateDescriptor(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		require.NoError(t, svc.EnsureDefaults(context.Background()))
	})

	t.Run("NoopWhenComplete", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().ListDescriptors(gomock.Any()).Return(field.Defaults, nil)

		require.NoError(t, svc.EnsureDefaults(context.Background()))
	})
}

func TestRegistry(t *testing.T) {
	reg := field.NewRegistry(field.Defaults)

	kind, ok := reg.Classify("registration")
	require.True(t, ok)
	assert.Equal(t, field.KindManual, kind)

	_, ok = reg.Classify("nonexistent")
	assert.False(t, ok)

	manual := reg.FieldsOf(field.KindManual)
	assert.Equal(t, []string{"registration", "yearly", "exam", "certificate", "newsletters", "other", "visa", "notes"}, manual)

	assert.True(t, reg.IsEditable("registration"))
	assert.False(t, reg.IsEditable("amount"))
	assert.False(t, reg.IsEditable("nonexistent"))
}
