package sql

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querykit/querykit/dialect"
)

func statsDriver(t *testing.T, opts ...StatsOption) (*StatsDriver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStatsDriver(OpenDB(dialect.Postgres, db), opts...), mock
}

func TestStatsDriverCounts(t *testing.T) {
	drv, mock := statsDriver(t)
	ctx := context.Background()

	mock.ExpectQuery("select 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("select 2").WillReturnRows(sqlmock.NewRows([]string{"2"}).AddRow(2))
	mock.ExpectExec("insert").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("select boom").WillReturnError(errors.New("boom"))

	rows := &Rows{}
	require.NoError(t, drv.Query(ctx, "select 1", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, drv.Query(ctx, "select 2", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, drv.Exec(ctx, "insert into t values (1)", []any{}, nil))
	require.Error(t, drv.Query(ctx, "select boom", []any{}, rows))

	s := drv.QueryStats().Stats()
	assert.Equal(t, int64(3), s.TotalQueries)
	assert.Equal(t, int64(1), s.TotalExecs)
	assert.Equal(t, int64(1), s.Errors)
	assert.Greater(t, s.TotalDuration, time.Duration(0))
	assert.Greater(t, s.AvgQueryDuration(), time.Duration(0))

	drv.QueryStats().Reset()
	s = drv.QueryStats().Stats()
	assert.Equal(t, int64(0), s.TotalQueries)
	assert.Equal(t, int64(0), s.TotalExecs)
	assert.Equal(t, int64(0), s.Errors)
	assert.Equal(t, time.Duration(0), s.TotalDuration)
}

func TestSlowQueryHook(t *testing.T) {
	var (
		mu     sync.Mutex
		calls  int
		lastQ  string
		lastAr []any
	)
	drv, mock := statsDriver(t,
		// A zero threshold marks every statement as slow.
		WithSlowThreshold(0),
		WithSlowQueryHook(func(_ context.Context, query string, args []any, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			lastQ = query
			lastAr = args
		}),
	)

	mock.ExpectQuery(`select name from users where id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Ada"))

	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "select name from users where id = $1", []any{7}, rows))
	require.NoError(t, rows.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	assert.Equal(t, "select name from users where id = $1", lastQ)
	assert.Equal(t, []any{7}, lastAr)
	assert.Equal(t, int64(1), drv.QueryStats().Stats().SlowQueries)
}

func TestSlowThresholdAccessors(t *testing.T) {
	drv, _ := statsDriver(t, WithSlowThreshold(200*time.Millisecond))
	assert.Equal(t, 200*time.Millisecond, drv.SlowThreshold())

	drv.SetSlowThreshold(time.Second)
	assert.Equal(t, time.Second, drv.SlowThreshold())
}

func TestStatsSnapshotString(t *testing.T) {
	s := StatsSnapshot{
		TotalQueries:  2,
		TotalExecs:    1,
		TotalDuration: 3 * time.Millisecond,
		SlowQueries:   1,
		Errors:        0,
	}
	out := s.String()
	assert.Contains(t, out, "queries=2")
	assert.Contains(t, out, "execs=1")
	assert.Contains(t, out, "slow=1")
	assert.Contains(t, out, "errors=0")
	assert.Equal(t, time.Millisecond, s.AvgQueryDuration())
}

func TestAvgQueryDurationZero(t *testing.T) {
	assert.Equal(t, time.Duration(0), StatsSnapshot{}.AvgQueryDuration())
}

func TestStatsTx(t *testing.T) {
	drv, mock := statsDriver(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("insert").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("select").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "insert into t values (1)", []any{}, nil))

	rows := &Rows{}
	require.NoError(t, tx.Query(ctx, "select id from t", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	s := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), s.TotalQueries)
	assert.Equal(t, int64(1), s.TotalExecs)
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var (
		mu   sync.Mutex
		logs []string
	)
	drv := NewDebugDriver(OpenDB(dialect.Postgres, db), DebugWithLog(func(_ context.Context, v ...any) {
		mu.Lock()
		defer mu.Unlock()
		parts := make([]string, len(v))
		for i := range v {
			parts[i], _ = v[i].(string)
		}
		logs = append(logs, strings.Join(parts, " "))
	}))
	ctx := context.Background()

	mock.ExpectQuery("select 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("insert").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectBegin()
	mock.ExpectExec("update").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows := &Rows{}
	require.NoError(t, drv.Query(ctx, "select 1", []any{}, rows))
	require.NoError(t, rows.Close())
	require.NoError(t, drv.Exec(ctx, "insert into t values (1)", []any{}, nil))

	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "update t set a = 1", []any{}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	mu.Lock()
	defer mu.Unlock()
	joined := strings.Join(logs, "\n")
	assert.Contains(t, joined, "query: select 1")
	assert.Contains(t, joined, "insert into t values (1)")
	assert.Contains(t, joined, "begin transaction")
	assert.Contains(t, joined, "tx exec: update t set a = 1")
	assert.Contains(t, joined, "commit transaction")
}
