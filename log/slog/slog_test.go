package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/refcache"
)

func TestLoggerWritesAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug})
	l := New(stdslog.New(h))

	l.Info("serving stale value", refcache.Fields{"cache": "rules", "version": 7})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "serving stale value", rec["msg"])
	assert.Equal(t, "refcache", rec["component"])
	assert.Equal(t, "rules", rec["cache"])
	assert.EqualValues(t, 7, rec["version"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelWarn})
	l := New(stdslog.New(h))

	l.Debug("hidden", refcache.Fields{"cache": "rules"})
	assert.Zero(t, buf.Len())

	l.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}
