// Package logrus adapts logrus to refcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/refcache"
)

var _ refcache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New wraps l, tagging every entry with component=refcache.
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return Logger{E: l.WithField("component", "refcache")}
}

func (l Logger) Debug(msg string, f refcache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f refcache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f refcache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f refcache.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f refcache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	// "err" goes through WithError so hooks and formatters see logrus.ErrorKey
	if err, ok := f["err"].(error); ok {
		rest := make(logrus.Fields, len(f)-1)
		for k, v := range f {
			if k != "err" {
				rest[k] = v
			}
		}
		return l.E.WithError(err).WithFields(rest)
	}
	return l.E.WithFields(logrus.Fields(f))
}
