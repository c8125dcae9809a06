package repokit

import (
	"context"
	"fmt"
	"time"
)

type guarder interface {
	Guard(context.Context) error
}

// MustGuardWithin bounds the guard check when the caller's ctx carries no
// deadline of its own
func MustGuardWithin(ctx context.Context, st guarder, timeout time.Duration) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	MustGuard(ctx, st)
}

// MustGuard runs store.Guard and panics on any error (nice for service startup)
func MustGuard(ctx context.Context, st guarder) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
