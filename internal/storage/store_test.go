package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe-bot/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "cafe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func reservation(id, date, tm string, status models.Status) *models.Request {
	return &models.Request{
		ID:        id,
		Kind:      models.KindReservation,
		Name:      "Ana",
		Phone:     "11999998888",
		Email:     "ana@example.com",
		Status:    status,
		CreatedAt: time.Now().UTC(),
		Date:      date,
		Time:      tm,
		PartySize: 2,
	}
}

func TestInsertAndGetReservation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	req := reservation("r1", "2024-06-01", "19:00", models.StatusPending)
	require.NoError(t, store.Insert(ctx, req))

	got, err := store.Get(ctx, models.KindReservation, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, models.KindReservation, got.Kind)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "2024-06-01", got.Date)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.ResolvedAt)
}

func TestInsertAndGetOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &models.Request{
		ID:        "o1",
		Kind:      models.KindOrder,
		Name:      "Bruno",
		Phone:     "11988887777",
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
		Items:     "1x Tiramisù",
		Total:     "R$ 25,00",
	}))

	got, err := store.Get(ctx, models.KindOrder, "o1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1x Tiramisù", got.Items)

	// The collections are separate; the id does not exist as a reservation.
	other, err := store.Get(ctx, models.KindReservation, "o1")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), models.KindReservation, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCountActive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	slot := models.SlotKey{Date: "2024-06-01", Time: "19:00"}

	require.NoError(t, store.Insert(ctx, reservation("r1", "2024-06-01", "19:00", models.StatusPending)))
	require.NoError(t, store.Insert(ctx, reservation("r2", "2024-06-01", "19:00", models.StatusConfirmed)))
	require.NoError(t, store.Insert(ctx, reservation("r3", "2024-06-01", "19:00", models.StatusDeclined)))
	require.NoError(t, store.Insert(ctx, reservation("r4", "2024-06-01", "20:00", models.StatusPending)))

	count, err := store.CountActive(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "pending and confirmed count, declined does not")

	count, err = store.CountActive(ctx, models.SlotKey{Date: "2024-06-02", Time: "19:00"})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestResolveOnlyOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, reservation("r1", "2024-06-01", "19:00", models.StatusPending)))

	changed, err := store.Resolve(ctx, models.KindReservation, "r1", models.StatusConfirmed)
	require.NoError(t, err)
	assert.True(t, changed)

	// A second decision, same or different, never touches the row.
	changed, err = store.Resolve(ctx, models.KindReservation, "r1", models.StatusDeclined)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := store.Get(ctx, models.KindReservation, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.NotNil(t, got.ResolvedAt)
}

func TestResolveMissing(t *testing.T) {
	store := newTestStore(t)

	changed, err := store.Resolve(context.Background(), models.KindOrder, "nope", models.StatusConfirmed)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSetOperatorMessageID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, reservation("r1", "2024-06-01", "19:00", models.StatusPending)))
	require.NoError(t, store.SetOperatorMessageID(ctx, models.KindReservation, "r1", "msg-9"))

	got, err := store.Get(ctx, models.KindReservation, "r1")
	require.NoError(t, err)
	assert.Equal(t, "msg-9", got.OperatorMsgID)

	err = store.SetOperatorMessageID(ctx, models.KindReservation, "nope", "msg-9")
	require.Error(t, err)
}

func TestListByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r1 := reservation("r1", "2024-06-01", "19:00", models.StatusPending)
	r1.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.Insert(ctx, r1))
	require.NoError(t, store.Insert(ctx, reservation("r2", "2024-06-01", "19:00", models.StatusPending)))
	require.NoError(t, store.Insert(ctx, reservation("r3", "2024-06-01", "19:00", models.StatusConfirmed)))

	pending, err := store.ListByStatus(ctx, models.KindReservation, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "r1", pending[0].ID, "oldest first")
	assert.Equal(t, models.KindReservation, pending[0].Kind)
}
