package interp

import (
	"context"
	"sync/atomic"
)

// cancelFlag is the cooperative cancellation token spec.md §5 describes:
// an atomic flag checked at statement boundaries (loop iterations,
// block-statement steps), not via goroutine interruption, so a running
// script can only be stopped at a safe point rather than mid-expression.
type cancelFlag struct {
	flag int32
	ctx  context.Context
}

func newCancelFlag(ctx context.Context) *cancelFlag {
	if ctx == nil {
		ctx = context.Background()
	}
	return &cancelFlag{ctx: ctx}
}

// Cancel requests cooperative cancellation; takes effect at the next
// statement-boundary check.
func (c *cancelFlag) Cancel() { atomic.StoreInt32(&c.flag, 1) }

// Cancelled reports whether cancellation has been requested, either
// directly via Cancel or through the supplied context.Context.
func (c *cancelFlag) Cancelled() bool {
	if atomic.LoadInt32(&c.flag) != 0 {
		return true
	}
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}
