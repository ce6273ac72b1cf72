package query

import (
	"context"
	"time"
)

// Debounce forwards a value from in only after wait has passed without a newer
// one. When in closes, a pending value is flushed and the output closes.
func Debounce[T any](ctx context.Context, in <-chan T, wait time.Duration) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)

		var (
			pending T
			has     bool
			timer   *time.Timer
			fire    <-chan time.Time
		)
		stop := func() {
			if timer != nil {
				timer.Stop()
			}
		}
		defer stop()

		emit := func() bool {
			select {
			case out <- pending:
				has = false
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					if has {
						emit()
					}
					return
				}
				pending, has = v, true
				stop()
				timer = time.NewTimer(wait)
				fire = timer.C
			case <-fire:
				fire = nil
				if has && !emit() {
					return
				}
			}
		}
	}()
	return out
}
