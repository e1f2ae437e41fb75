package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/internal/domain/document"
	"horizon/internal/shared/apperrors"
)

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	created, err := s.Create(ctx, "banks", "bank-1", map[string]any{"userId": "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "bank-1", created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Get(ctx, "banks", "bank-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.Fields["userId"])
}

func TestStore_CreateAssignsID(t *testing.T) {
	s := NewStore()

	created, err := s.Create(context.Background(), "banks", "", map[string]any{})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Create(ctx, "users", "u-1", nil)
	require.NoError(t, err)

	_, err = s.Create(ctx, "users", "u-1", nil)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := NewStore().Get(context.Background(), "banks", "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s := NewStore().WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	_, _ = s.Create(ctx, "banks", "b-1", map[string]any{"userId": "u-1", "kind": "a"})
	_, _ = s.Create(ctx, "banks", "b-2", map[string]any{"userId": "u-2", "kind": "a"})
	_, _ = s.Create(ctx, "banks", "b-3", map[string]any{"userId": "u-1", "kind": "b"})
	_, _ = s.Create(ctx, "banks", "b-4", map[string]any{"userId": "u-1", "kind": "a"})

	docs, err := s.List(ctx, "banks", document.Eq("userId", "u-1"))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "b-1", docs[0].ID)
	assert.Equal(t, "b-3", docs[1].ID)
	assert.Equal(t, "b-4", docs[2].ID)

	docs, err = s.List(ctx, "banks", document.Eq("userId", "u-1"), document.Eq("kind", "a"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b-1", docs[0].ID)
	assert.Equal(t, "b-4", docs[1].ID)
}

func TestStore_ListEmptyCollection(t *testing.T) {
	docs, err := NewStore().List(context.Background(), "transactions")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	fields := map[string]any{"name": "before"}

	_, err := s.Create(ctx, "users", "u-1", fields)
	require.NoError(t, err)
	fields["name"] = "mutated"

	got, err := s.Get(ctx, "users", "u-1")
	require.NoError(t, err)
	got.Fields["name"] = "also mutated"

	again, err := s.Get(ctx, "users", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "before", again.Fields["name"])
}
