package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/internal/domain/document"
	"horizon/internal/shared/apperrors"
)

// newEmulatorStore talks to the emulator at FIRESTORE_EMULATOR_HOST and
// ticks its clock a second per write so creation order is deterministic.
func newEmulatorStore(t *testing.T) (*Store, string) {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "horizon-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s := &Store{client: client, now: func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}}
	return s, "test-" + document.NewID()
}

func TestStore_CreateAndGet(t *testing.T) {
	s, coll := newEmulatorStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, coll, "bank-1", map[string]any{"userId": "u-1", "accountId": "acc-1"})
	require.NoError(t, err)
	assert.Equal(t, "bank-1", created.ID)

	got, err := s.Get(ctx, coll, "bank-1")
	require.NoError(t, err)
	assert.Equal(t, "bank-1", got.ID)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, map[string]any{"userId": "u-1", "accountId": "acc-1"}, got.Fields)
}

func TestStore_CreateGeneratesID(t *testing.T) {
	s, coll := newEmulatorStore(t)

	doc, err := s.Create(context.Background(), coll, "", map[string]any{"userId": "u-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
}

func TestStore_CreateDuplicateID(t *testing.T) {
	s, coll := newEmulatorStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, coll, "user-1", map[string]any{"email": "a@example.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx, coll, "user-1", map[string]any{"email": "b@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestStore_GetMissing(t *testing.T) {
	s, coll := newEmulatorStore(t)

	_, err := s.Get(context.Background(), coll, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ListFiltersInCreationOrder(t *testing.T) {
	s, coll := newEmulatorStore(t)
	ctx := context.Background()

	for _, row := range []struct{ id, user, account string }{
		{"b-3", "u-1", "acc-3"},
		{"b-1", "u-1", "acc-1"},
		{"b-9", "u-2", "acc-9"},
		{"b-2", "u-1", "acc-1"},
	} {
		_, err := s.Create(ctx, coll, row.id, map[string]any{"userId": row.user, "accountId": row.account})
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		filters []document.Filter
		want    []string
	}{
		{"no filter", nil, []string{"b-3", "b-1", "b-9", "b-2"}},
		{"one filter", []document.Filter{document.Eq("userId", "u-1")}, []string{"b-3", "b-1", "b-2"}},
		{"two filters", []document.Filter{document.Eq("userId", "u-1"), document.Eq("accountId", "acc-1")}, []string{"b-1", "b-2"}},
		{"no match", []document.Filter{document.Eq("userId", "u-404")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := s.List(ctx, coll, tt.filters...)
			require.NoError(t, err)

			var got []string
			for _, d := range docs {
				got = append(got, d.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
