package zap

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/refcache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("refresh started", refcache.Fields{"cache": "rules", "timeout": time.Second})
	l.Warn("refresh failed", refcache.Fields{"cache": "rules", "err": errors.New("boom")})
	l.Info("no fields", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "refcache", entries[0].LoggerName)
	assert.Equal(t, "rules", entries[0].ContextMap()["cache"])
	assert.Equal(t, time.Second, entries[0].ContextMap()["timeout"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["err"])

	assert.Empty(t, entries[2].Context)
}

func TestNewNilLogger(t *testing.T) {
	l := New(nil)
	assert.NotPanics(t, func() { l.Error("dropped", refcache.Fields{"k": 1}) })
}

func TestFieldsSorted(t *testing.T) {
	f := fields(refcache.Fields{"b": 1, "a": 2, "c": 3})
	require.Len(t, f, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{f[0].Key, f[1].Key, f[2].Key})
}
