package logging

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Recover logs a panic with its stack instead of letting it kill the daemon.
// Use it deferred at the top of goroutines that run callbacks.
func Recover(ctx context.Context, where string) {
	r := recover()
	if r == nil {
		return
	}
	FromContext(ctx).Error().
		Str("where", where).
		Str("panic", fmt.Sprint(r)).
		Bytes("stack", debug.Stack()).
		Msg("recovered from panic")
}
