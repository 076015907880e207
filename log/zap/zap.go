// Package zap adapts a *zap.Logger to refcache.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/refcache"
	"go.uber.org/zap"
)

var _ refcache.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New wraps l. A nil l logs nowhere.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{L: l.Named("refcache")}
}

func (z Logger) Debug(msg string, f refcache.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f refcache.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f refcache.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f refcache.Fields) { z.L.Error(msg, fields(f)...) }

// fields sorts keys so encoded lines are stable.
func fields(f refcache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		switch v := f[k].(type) {
		case error:
			out = append(out, zap.NamedError(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
