package schedule

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/unkn0wn-root/refcache"
)

// cronLogger routes cron's own messages (skips, recovered panics) into a
// refcache.Logger.
type cronLogger struct{ l refcache.Logger }

var _ cron.Logger = cronLogger{}

func (c cronLogger) Info(msg string, kv ...any) {
	c.l.Debug("cron: "+msg, kvFields(kv))
}

func (c cronLogger) Error(err error, msg string, kv ...any) {
	f := kvFields(kv)
	f["err"] = err
	c.l.Error("cron: "+msg, f)
}

func kvFields(kv []any) refcache.Fields {
	f := make(refcache.Fields, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		f["extra"] = kv[len(kv)-1]
	}
	return f
}
