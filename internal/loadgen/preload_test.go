package loadgen

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/journal"
)

func TestPreloadIDs_None(t *testing.T) {
	ids, err := PreloadIDs(context.Background(), Preload{})
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestPreloadIDs_UnknownSource(t *testing.T) {
	_, err := PreloadIDs(context.Background(), Preload{Source: "redis", Path: "x"})
	assert.ErrorContains(t, err, "unknown preload source")
}

func TestPreloadIDs_MissingFileSkips(t *testing.T) {
	ids, err := PreloadIDs(context.Background(), Preload{
		Source: PreloadBackend,
		Path:   filepath.Join(t.TempDir(), "missing.db"),
	})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPreloadIDs_Backend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE orders (id TEXT PRIMARY KEY, customer_name TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO orders (id, customer_name) VALUES ('o1', 'Ann'), ('o2', 'Bob')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ids, err := PreloadIDs(context.Background(), Preload{Source: PreloadBackend, Path: path})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"o1", "o2"}, ids)
}

func TestPreloadIDs_BackendWithoutOrdersTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE unrelated (x INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = PreloadIDs(context.Background(), Preload{Source: PreloadBackend, Path: path})
	assert.ErrorContains(t, err, "query orders")
}

func TestPreloadIDs_Journal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	ctx := context.Background()
	for i, id := range []string{"a", "b"} {
		_, err := j.Record(ctx, api.Call{Op: api.OpCreateOrder, OrderID: id, RequestID: string(rune('0' + i)), StatusCode: 201})
		require.NoError(t, err)
	}
	_, err = j.Record(ctx, api.Call{Op: api.OpDeleteOrder, OrderID: "a", RequestID: "9", StatusCode: 200})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	ids, err := PreloadIDs(ctx, Preload{Source: PreloadJournal, Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}
