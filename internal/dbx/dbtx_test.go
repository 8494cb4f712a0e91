package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// A minimal in-process driver that records transaction outcomes. It avoids
// pulling a real database into what is purely a control-flow test.

type txRecord struct {
	mu         sync.Mutex
	committed  bool
	rolledBack bool
	execs      int
}

var record = &txRecord{}

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return &stubConn{}, nil }

type stubConn struct{}

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return &stubTx{}, nil }

func (c *stubConn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	record.mu.Lock()
	defer record.mu.Unlock()
	record.execs++
	return driver.ResultNoRows, nil
}

type stubTx struct{}

func (stubTx) Commit() error {
	record.mu.Lock()
	defer record.mu.Unlock()
	record.committed = true
	return nil
}

func (stubTx) Rollback() error {
	record.mu.Lock()
	defer record.mu.Unlock()
	record.rolledBack = true
	return nil
}

var registerOnce sync.Once

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	registerOnce.Do(func() { sql.Register("dbxstub", stubDriver{}) })

	*record = txRecord{}

	db, err := sql.Open("dbxstub", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `UPDATE vehicles SET price = 1`)
		return err
	})
	require.NoError(t, err)
	require.True(t, record.committed, "must commit on success")
	require.False(t, record.rolledBack)
	require.Equal(t, 1, record.execs)
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	require.True(t, record.rolledBack, "must rollback when fn returns error")
	require.False(t, record.committed)
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	require.Panics(t, func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			panic("boom")
		})
	})
	require.True(t, record.rolledBack, "must rollback on panic")
	require.False(t, record.committed)
}
