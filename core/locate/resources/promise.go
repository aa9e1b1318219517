package resources

import "context"

// promise holds the outcome of a loader goroutine. done is closed after the
// outcome has been stored, therefore every await returns the same result.
type promise[T any] struct {
	done   chan struct{}
	result T
	err    error
}

func resolve[T any](load func() (T, error)) *promise[T] {
	p := &promise[T]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.result, p.err = load()
	}()
	return p
}

func (p *promise[T]) await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		var none T
		return none, ctx.Err()
	}
}
