package paychan

/*
We pass context through context.Context between the host, handlers and
effects. To do so, paychan defines some common keys to store info, such as
block time and the calling account. Each extension may add its own keys to
enrich the context with specific data.

There should exist two functions for every XYZ of type T
that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to avoid lower-level modules
overwriting the value (eg. block time, caller).
*/

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain
type Context = context.Context

type contextKey int // local to the paychan module

const (
	contextKeyCaller contextKey = iota
	contextKeyBlockTime
	contextKeyLogger
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// WithCaller sets the account that invoked the current operation.
// The host sets it once per operation, from the transaction envelope.
func WithCaller(ctx Context, caller AccountID) Context {
	if _, ok := ctx.Value(contextKeyCaller).(AccountID); ok {
		panic("Caller already set")
	}
	return context.WithValue(ctx, contextKeyCaller, caller)
}

// GetCaller returns the account that invoked the current operation.
func GetCaller(ctx Context) (AccountID, bool) {
	val, ok := ctx.Value(contextKeyCaller).(AccountID)
	return val, ok
}

// WithBlockTime sets the time used by all time based checks of the current
// operation.
func WithBlockTime(ctx Context, t time.Time) Context {
	if _, ok := ctx.Value(contextKeyBlockTime).(time.Time); ok {
		panic("Block time already set")
	}
	return context.WithValue(ctx, contextKeyBlockTime, t)
}

// BlockTime returns the time of the current operation as declared by the
// host. It returns false if the time was not set.
func BlockTime(ctx Context) (time.Time, bool) {
	t, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	return t, ok
}

// Now returns the block time as a Timestamp. Check the second result to tell
// an unset block time apart from the epoch.
func Now(ctx Context) (Timestamp, bool) {
	t, ok := BlockTime(ctx)
	if !ok {
		return 0, false
	}
	return AsTimestamp(t), true
}

// WithLogger sets the logger for this context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
