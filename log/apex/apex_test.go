package apex

import (
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/refcache"
)

func TestLoggerEntries(t *testing.T) {
	h := memory.New()
	l := New(&log.Logger{Handler: h, Level: log.DebugLevel})

	l.Debug("refresh joined", refcache.Fields{"cache": "neighbors"})
	l.Error("refresh failed", refcache.Fields{"cache": "neighbors", "err": errors.New("boom")})

	require.Len(t, h.Entries, 2)
	assert.Equal(t, log.DebugLevel, h.Entries[0].Level)
	assert.Equal(t, "refresh joined", h.Entries[0].Message)
	assert.Equal(t, "neighbors", h.Entries[0].Fields["cache"])
	assert.Equal(t, "refcache", h.Entries[0].Fields["component"])

	assert.Equal(t, log.ErrorLevel, h.Entries[1].Level)
	assert.Equal(t, "boom", h.Entries[1].Fields["error"])
	_, hasErr := h.Entries[1].Fields["err"]
	assert.False(t, hasErr)
}

func TestLoggerLevelFilter(t *testing.T) {
	h := memory.New()
	l := New(&log.Logger{Handler: h, Level: log.WarnLevel})
	l.Info("dropped", nil)
	l.Warn("kept", nil)
	require.Len(t, h.Entries, 1)
	assert.Equal(t, "kept", h.Entries[0].Message)
}
