package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// Burn increments from parallel writers must all land; the busy timeout lets
// each writer wait its turn instead of failing with SQLITE_BUSY.
func TestConcurrentAccess_IncrementBurnLosesNothing(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	org := testutil.SeedOrganization(t, database)
	clients := NewSQLiteClientRepo(database)

	c := testutil.NewTestClient(org.ID, "TechCorp")
	require.NoError(t, clients.Create(ctx, c))

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if err := clients.IncrementBurn(ctx, c.ID, 10); err != nil {
					t.Errorf("writer %d: increment %d: %v", writer, i, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	got, err := clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(writers*perWriter*10), got.AccumulatedBurnTotal)
}

func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	org := testutil.SeedOrganization(t, database)
	logs := NewSQLiteWorkLogRepo(database)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			w := testutil.NewTestWorkLog(org.ID, fmt.Sprintf("Client deliverable %d", i), 30)
			if err := logs.Create(ctx, w); err != nil {
				t.Errorf("writer: create work log %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				got, err := logs.List(ctx, WorkLogFilter{})
				if err != nil {
					t.Errorf("reader %d: list work logs: %v", reader, err)
					return
				}
				for _, w := range got {
					if w.ID == "" || w.DurationMinutes != 30 {
						t.Errorf("reader %d: got half-written work log %+v", reader, w)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	all, err := logs.List(ctx, WorkLogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
