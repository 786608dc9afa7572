// Package poll runs a function on a fixed interval until it reports done.
package poll

import (
	"context"
	"time"
)

// Func is called once per tick. Returning done=true or an error stops
// polling.
type Func func(ctx context.Context) (done bool, err error)

// Until calls fn immediately and then every interval until fn is done,
// fn fails or ctx ends. It returns fn's error or ctx's error.
func Until(ctx context.Context, interval time.Duration, fn Func) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
