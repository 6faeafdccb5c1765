package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(t *testing.T, level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode_ClonesLevel(t *testing.T) {
	gl, _ := newObservedGormLogger(t, gormlogger.Info)

	clone := gl.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gl.level)
	cloned, ok := clone.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, cloned.level)
}

func TestGormLogger_LevelsGateMessages(t *testing.T) {
	gl, recorded := newObservedGormLogger(t, gormlogger.Warn)

	gl.Info(context.Background(), "migrating %s", "recipes")
	assert.Empty(t, recorded.All())

	gl.Warn(context.Background(), "connection pool at %d", 95)
	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	assert.Contains(t, logs[0].Message, "connection pool at 95")
}

func TestGormLogger_Trace_QueryFailed(t *testing.T) {
	gl, recorded := newObservedGormLogger(t, gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM recipes", 0), errors.New("connection reset"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "query failed", logs[0].Message)
}

func TestGormLogger_Trace_SkipsNotFoundByDefault(t *testing.T) {
	gl, recorded := newObservedGormLogger(t, gormlogger.Error)

	gl.Trace(context.Background(), time.Now(),
		traceQuery("SELECT * FROM recipes WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_NotFoundLoggingOptIn(t *testing.T) {
	gl, recorded := newObservedGormLogger(t, gormlogger.Error, WithNotFoundLogging())

	gl.Trace(context.Background(), time.Now(),
		traceQuery("SELECT * FROM recipes WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

	require.Len(t, recorded.All(), 1)
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(t, gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

	begin := time.Now().Add(-time.Second)
	gl.Trace(context.Background(), begin, traceQuery("SELECT * FROM sub_recipe_links", 40), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "slow query", logs[0].Message)
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	gl, recorded := newObservedGormLogger(t, gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM recipes", 5), nil)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_CarriesRequestID(t *testing.T) {
	gl, recorded := newObservedGormLogger(t, gormlogger.Info)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")

	gl.Trace(ctx, time.Now(), traceQuery("SELECT * FROM ingredients", 5), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)

	found := false
	for _, field := range logs[0].Context {
		if field.Key == "request_id" {
			found = true
			assert.Equal(t, "req-42", field.String)
		}
	}
	assert.True(t, found)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
