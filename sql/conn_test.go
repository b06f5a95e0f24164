package sql

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func newTestConn(t *testing.T, conn driver.Conn, opts ...Option) (*trackedConn, *testBackend) {
	t.Helper()
	backend := newTestBackend(t)
	cfg := newConfig(append(backend.opts, opts...)...)
	return newTrackedConn(conn, cfg), backend
}

func TestTrackedConn_ExecContext(t *testing.T) {
	type args struct {
		execErr error
	}

	tests := []struct {
		name       string
		args       args
		wantErr    assert.ErrorAssertionFunc
		wantStatus string
	}{
		{
			name:       "given successful exec, then records OK data point",
			args:       args{execErr: nil},
			wantErr:    assert.NoError,
			wantStatus: "OK",
		},
		{
			name:       "given failing exec, then records ERROR data point",
			args:       args{execErr: assert.AnError},
			wantErr:    assert.Error,
			wantStatus: "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, backend := newTestConn(t, &fakeConn{execErr: tt.args.execErr})

			_, err := conn.ExecContext(context.Background(), "UPDATE users SET active = true", nil)

			tt.wantErr(t, err)

			points := backend.latencyPoints(t)
			require.Len(t, points, 1)
			method, _ := attrValue(points[0].Attributes, "go_sql_method")
			status, _ := attrValue(points[0].Attributes, "go_sql_status")
			assert.Equal(t, methodConnExec, method)
			assert.Equal(t, tt.wantStatus, status)

			spans := backend.spans.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, methodConnExec, spans[0].Name())
		})
	}
}

func TestTrackedConn_ExecContext_Skip(t *testing.T) {
	t.Run("given conn without ExecerContext, then returns ErrSkip untracked", func(t *testing.T) {
		conn, backend := newTestConn(t, &legacyConn{})

		_, err := conn.ExecContext(context.Background(), "UPDATE users SET active = true", nil)

		assert.ErrorIs(t, err, driver.ErrSkip)
		assert.Empty(t, backend.spans.Ended())
		assert.Empty(t, backend.latencyPoints(t))
	})
}

func TestTrackedConn_QueryContext(t *testing.T) {
	t.Run("given successful query, then records OK data point and span", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{})

		rows, err := conn.QueryContext(context.Background(), "SELECT id FROM users", nil)

		require.NoError(t, err)
		require.NotNil(t, rows)

		points := backend.latencyPoints(t)
		require.Len(t, points, 1)
		method, _ := attrValue(points[0].Attributes, "go_sql_method")
		assert.Equal(t, methodConnQuery, method)

		spans := backend.spans.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status().Code)
	})

	t.Run("given failing query, then span status is error", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{queryErr: assert.AnError})

		_, err := conn.QueryContext(context.Background(), "SELECT id FROM users", nil)

		require.Error(t, err)
		spans := backend.spans.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)

		points := backend.latencyPoints(t)
		require.Len(t, points, 1)
		errTag, ok := attrValue(points[0].Attributes, "go_sql_error")
		require.True(t, ok)
		assert.Equal(t, assert.AnError.Error(), errTag)
	})

	t.Run("given conn without QueryerContext, then returns ErrSkip untracked", func(t *testing.T) {
		conn, backend := newTestConn(t, &legacyConn{})

		_, err := conn.QueryContext(context.Background(), "SELECT 1", nil)

		assert.ErrorIs(t, err, driver.ErrSkip)
		assert.Empty(t, backend.spans.Ended())
	})
}

func TestTrackedConn_QueryContext_SQLAnnotation(t *testing.T) {
	t.Run("given annotation flag, then query span carries sql attribute", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{},
			WithTraceOptions(AnnotateTracesWithSQL),
		)

		_, err := conn.QueryContext(context.Background(), "SELECT 1", nil)

		require.NoError(t, err)
		spans := backend.spans.Ended()
		require.Len(t, spans, 1)
		sql, ok := spanAttr(spans[0], "sql")
		require.True(t, ok)
		assert.Equal(t, "SELECT 1", sql)
	})

	t.Run("given no flag, then query span carries db.operation but no sql", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{})

		_, err := conn.QueryContext(context.Background(), "SELECT 1", nil)

		require.NoError(t, err)
		spans := backend.spans.Ended()
		require.Len(t, spans, 1)

		_, hasSQL := spanAttr(spans[0], "sql")
		assert.False(t, hasSQL)

		op, ok := spanAttr(spans[0], "db.operation")
		require.True(t, ok)
		assert.Equal(t, "SELECT", op)
	})
}

func TestTrackedConn_Ping(t *testing.T) {
	t.Run("given successful ping, then records OK data point", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{})

		require.NoError(t, conn.Ping(context.Background()))

		points := backend.latencyPoints(t)
		require.Len(t, points, 1)
		method, _ := attrValue(points[0].Attributes, "go_sql_method")
		assert.Equal(t, methodConnPing, method)
	})

	t.Run("given failing ping, then returns error and records ERROR", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{pingErr: assert.AnError})

		err := conn.Ping(context.Background())

		assert.ErrorIs(t, err, assert.AnError)
		points := backend.latencyPoints(t)
		require.Len(t, points, 1)
		status, _ := attrValue(points[0].Attributes, "go_sql_status")
		assert.Equal(t, "ERROR", status)
	})
}

func TestTrackedConn_PrepareContext(t *testing.T) {
	t.Run("given successful prepare, then returns tracked statement", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{})

		stmt, err := conn.PrepareContext(context.Background(), "SELECT id FROM users WHERE id = ?")

		require.NoError(t, err)
		assert.IsType(t, &trackedStmt{}, stmt)

		points := backend.latencyPoints(t)
		require.Len(t, points, 1)
		method, _ := attrValue(points[0].Attributes, "go_sql_method")
		assert.Equal(t, methodConnPrepare, method)
	})

	t.Run("given conn without ConnPrepareContext, then falls back to Prepare", func(t *testing.T) {
		conn, _ := newTestConn(t, &legacyConn{})

		stmt, err := conn.PrepareContext(context.Background(), "SELECT 1")

		require.NoError(t, err)
		assert.IsType(t, &trackedStmt{}, stmt)
	})

	t.Run("given failing prepare, then records ERROR data point", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{prepareErr: assert.AnError})

		_, err := conn.PrepareContext(context.Background(), "SELECT 1")

		require.Error(t, err)
		points := backend.latencyPoints(t)
		require.Len(t, points, 1)
		status, _ := attrValue(points[0].Attributes, "go_sql_status")
		assert.Equal(t, "ERROR", status)
	})
}

func TestTrackedConn_BeginTx(t *testing.T) {
	t.Run("given successful begin, then returns tracked transaction", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{})

		tx, err := conn.BeginTx(context.Background(), driver.TxOptions{})

		require.NoError(t, err)
		assert.IsType(t, &trackedTx{}, tx)

		spans := backend.spans.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, methodConnBegin, spans[0].Name())
	})

	t.Run("given failing begin, then records ERROR data point", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{beginErr: assert.AnError})

		_, err := conn.BeginTx(context.Background(), driver.TxOptions{})

		require.Error(t, err)
		points := backend.latencyPoints(t)
		require.Len(t, points, 1)
		status, _ := attrValue(points[0].Attributes, "go_sql_status")
		assert.Equal(t, "ERROR", status)
	})
}

func TestTrackedConn_Passthrough(t *testing.T) {
	t.Run("given legacy Prepare and Begin, then wrappers delegate untracked", func(t *testing.T) {
		conn, backend := newTestConn(t, &fakeConn{})

		stmt, err := conn.Prepare("SELECT 1")
		require.NoError(t, err)
		assert.IsType(t, &trackedStmt{}, stmt)

		tx, err := conn.Begin()
		require.NoError(t, err)
		assert.IsType(t, &trackedTx{}, tx)

		assert.Empty(t, backend.spans.Ended())
	})

	t.Run("given conn without Validator, then IsValid defaults to true", func(t *testing.T) {
		conn, _ := newTestConn(t, &fakeConn{})

		assert.True(t, conn.IsValid())
		assert.NoError(t, conn.ResetSession(context.Background()))
	})
}
