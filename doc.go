// Package refcache implements an asynchronous refreshable cache: a single
// versioned value (CachedValue) or a versioned keyed collection (CachedMap)
// whose contents come from a caller-supplied Producer.
//
// Components:
//   - Execute: runs a Producer against a timeout and a context. The first of
//     completion, timer or cancellation decides the Outcome.
//   - Outcome[T]: Success(v) | TimedOut | Canceled | Failed(err).
//   - State machine: NotInitialized, Current, UpdateInProgress, Error, with a
//     TTL staleness predicate and a version bumped on every committed change.
//   - Single-flight: at most one Producer runs per cache instance. Concurrent
//     callers wait on the running refresh and receive its Outcome.
//
// Abandon-in-place:
//
// A Producer that exceeds the timeout, or whose caller's context is canceled,
// is NOT stopped. The caller stops waiting and gets TimedOut/Canceled, while
// the Producer keeps running and its eventual result is thrown away. Producers
// receive a context that is detached from the caller's cancellation. Assume an
// abandoned Producer may still be running and may still have side effects.
//
// Commit rules:
//
//	NotInitialized --Success--> Current (version+1)
//	NotInitialized --Failed---> Error
//	Current        --Success--> Current (version+1)
//	Current        --Failed---> Current, old value kept (stale-serving)
//	Error          --Success--> Current (version+1)
//	any            --TimedOut/Canceled--> unchanged
//	any            --Clear----> NotInitialized (version+1)
//
// Usage:
//
//	rules, _ := refcache.NewMap[string, Rule](refcache.MapOptions[Rule]{
//	    Options: refcache.Options{Name: "firewall", TTL: 30 * time.Second},
//	})
//	out, err := rules.Refresh(ctx, listRules, refcache.ServeCurrentOnly, 10*time.Second)
//	if err != nil { ... }          // invalid argument only
//	if m, ok := out.Get(); ok { ... }
package refcache
