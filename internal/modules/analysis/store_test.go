package analysis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresHistoryRoundTrip runs against ECOROUTE_TEST_DSN with migrations/0001_init.sql applied.
func TestPostgresHistoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("ECOROUTE_TEST_DSN")
	if dsn == "" {
		t.Skip("ECOROUTE_TEST_DSN not set; skipping DB-backed tests")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	store := NewPostgresHistory(db)
	clientID := "store" + uuid.NewString()[:8]
	rec := Record{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Request:   sampleRequest(),
		Analysis:  *sampleAnalysis(434),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Save(ctx, rec))
	t.Cleanup(func() { _, _ = db.Exec(context.Background(), "DELETE FROM analyses WHERE client_id = $1", clientID) })

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Request, got.Request)
	assert.Equal(t, 434.0, got.Analysis.DistanceKm)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))

	list, err := store.ListByClient(ctx, clientID, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = store.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSlotRoundTrip(t *testing.T) {
	addr := os.Getenv("ECOROUTE_TEST_REDIS")
	if addr == "" {
		t.Skip("ECOROUTE_TEST_REDIS not set; skipping Redis-backed tests")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	slot := NewRedisSlot(client, time.Minute)
	clientID := "slot" + uuid.NewString()[:8]
	t.Cleanup(func() { client.Del(context.Background(), latestKey(clientID)) })

	_, err := slot.Get(ctx, clientID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, slot.Set(ctx, Record{ID: "a", ClientID: clientID, Analysis: *sampleAnalysis(1)}))
	require.NoError(t, slot.Set(ctx, Record{ID: "b", ClientID: clientID, Analysis: *sampleAnalysis(2)}))

	got, err := slot.Get(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
	assert.Equal(t, 2.0, got.Analysis.DistanceKm)
}

func TestMemorySlot(t *testing.T) {
	slot := NewMemorySlot()
	ctx := context.Background()

	_, err := slot.Get(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, slot.Set(ctx, Record{ID: "x", ClientID: "c1"}))
	got, err := slot.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)
	assert.Equal(t, "analysis:latest:c1", latestKey("c1"))
}
