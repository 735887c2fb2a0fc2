package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_AppliesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(DefaultSettings(dbPath))
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	for _, table := range []string{"campaign_records", "analysis_runs"} {
		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, table)
	}

	// reopening an initialized database is a no-op
	again, err := NewDB(DefaultSettings(dbPath))
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestNewDB_RequiresPath(t *testing.T) {
	_, err := NewDB(Settings{})
	assert.Error(t, err)
}

func TestInTransaction(t *testing.T) {
	db, err := NewDB(Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	insert := func(ctx context.Context) error {
		_, err := Executor(ctx, db).ExecContext(ctx,
			`INSERT INTO campaign_records (batch_id, channel, ingested_at) VALUES ('b1', 'Email', '2025-01-01T00:00:00Z')`)
		return err
	}

	err = InTransaction(ctx, db, func(ctx context.Context) error {
		require.NotNil(t, GetTransaction(ctx))
		if err := insert(ctx); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM campaign_records").Scan(&count))
	assert.Equal(t, 0, count)

	require.NoError(t, InTransaction(ctx, db, insert))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM campaign_records").Scan(&count))
	assert.Equal(t, 1, count)
}
