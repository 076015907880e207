// Package apex adapts github.com/apex/log to refcache.Logger.
package apex

import (
	"github.com/apex/log"
	"github.com/unkn0wn-root/refcache"
)

var _ refcache.Logger = Logger{}

// Logger writes through an apex log.Interface; the package-level apex logger
// when L is nil.
type Logger struct{ L log.Interface }

func New(l log.Interface) Logger { return Logger{L: l} }

func (a Logger) Debug(msg string, f refcache.Fields) { a.entry(f).Debug(msg) }
func (a Logger) Info(msg string, f refcache.Fields)  { a.entry(f).Info(msg) }
func (a Logger) Warn(msg string, f refcache.Fields)  { a.entry(f).Warn(msg) }
func (a Logger) Error(msg string, f refcache.Fields) { a.entry(f).Error(msg) }

func (a Logger) entry(f refcache.Fields) *log.Entry {
	l := a.L
	if l == nil {
		l = log.Log
	}
	e := l.WithField("component", "refcache")
	if err, ok := f["err"].(error); ok {
		e = e.WithError(err)
	}
	fs := make(log.Fields, len(f))
	for k, v := range f {
		if k == "err" {
			continue
		}
		fs[k] = v
	}
	return e.WithFields(fs)
}
