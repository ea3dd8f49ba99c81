package dataaccess

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func record(id string, typ entities.RecordType, keys map[string]string) *entities.Record {
	return &entities.Record{
		ID:      id,
		Type:    typ,
		Keys:    keys,
		Payload: json.RawMessage(`{"id":"` + id + `"}`),
	}
}

// testStore runs the behaviour every Store implementation must share.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "ticket:1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, record("ticket:1", entities.TypeTicket, map[string]string{"owner": "u1", "panel": "p1", "state": "open"})))
	require.NoError(t, s.Put(ctx, record("ticket:2", entities.TypeTicket, map[string]string{"owner": "u1", "panel": "p2", "state": "open"})))
	require.NoError(t, s.Put(ctx, record("ticket:3", entities.TypeTicket, map[string]string{"owner": "u2", "panel": "p1", "state": "closed"})))
	require.NoError(t, s.Put(ctx, record("panel:1", entities.TypePanel, map[string]string{"guild": "g1"})))

	got, err := s.Get(ctx, "ticket:1")
	require.NoError(t, err)
	require.Equal(t, entities.TypeTicket, got.Type)
	require.Equal(t, "u1", got.Keys["owner"])
	require.JSONEq(t, `{"id":"ticket:1"}`, string(got.Payload))

	all, err := s.Scan(ctx, entities.TypeTicket)
	require.NoError(t, err)
	require.Len(t, all, 3)

	found, err := s.Find(ctx, entities.TypeTicket, map[string]string{"owner": "u1", "panel": "p1", "state": "open"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "ticket:1", found[0].ID)

	// Overwriting replaces the index keys.
	require.NoError(t, s.Put(ctx, record("ticket:1", entities.TypeTicket, map[string]string{"owner": "u1", "panel": "p1", "state": "closed"})))
	found, err = s.Find(ctx, entities.TypeTicket, map[string]string{"owner": "u1", "panel": "p1", "state": "open"})
	require.NoError(t, err)
	require.Empty(t, found)

	require.NoError(t, s.Delete(ctx, "ticket:1"))
	require.NoError(t, s.Delete(ctx, "ticket:1"))
	_, err = s.Get(ctx, "ticket:1")
	require.ErrorIs(t, err, ErrNotFound)

	found, err = s.Find(ctx, entities.TypeTicket, map[string]string{"owner": "u1"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "ticket:2", found[0].ID)

	require.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, record("panel:1", entities.TypePanel, map[string]string{"guild": "g1"})))

	got, err := s.Get(ctx, "panel:1")
	require.NoError(t, err)
	got.Keys["guild"] = "changed"

	again, err := s.Get(ctx, "panel:1")
	require.NoError(t, err)
	require.Equal(t, "g1", again.Keys["guild"])
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "wolf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	testStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.FlushDB(context.Background()).Err())

	s := NewRedisStore(client)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	testStore(t, s)
}
