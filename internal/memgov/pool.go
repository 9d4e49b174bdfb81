package memgov

// Pool recycles instances of a single type. Acquire pops a pooled instance
// if one exists, otherwise constructs a new one; Release returns an
// instance to the queue. Both are O(1).
//
// Caller contract: an instance is either active in the world or pooled,
// never both. Releasing the same instance twice, or retaining a reference
// past Release, is undefined; the pool does not check for it.
type Pool[T any] struct {
	construct   func() T
	deactivate  func(T)
	reactivate  func(T)
	queue       []T
	constructed int
}

// PoolHooks customise instance lifecycle transitions. Either hook may be nil.
type PoolHooks[T any] struct {
	Deactivate func(T) // called on Release, before the instance is queued
	Reactivate func(T) // called on Acquire of a recycled instance
}

// NewPool creates a pool for instances built by construct.
func NewPool[T any](construct func() T, hooks PoolHooks[T]) *Pool[T] {
	return &Pool[T]{
		construct:  construct,
		deactivate: hooks.Deactivate,
		reactivate: hooks.Reactivate,
	}
}

// Acquire returns a recycled instance when available, constructing otherwise.
func (p *Pool[T]) Acquire() T {
	if n := len(p.queue); n > 0 {
		item := p.queue[n-1]
		p.queue = p.queue[:n-1]
		if p.reactivate != nil {
			p.reactivate(item)
		}
		return item
	}

	p.constructed++

	return p.construct()
}

// Release deactivates the instance and returns it to the queue.
func (p *Pool[T]) Release(item T) {
	if p.deactivate != nil {
		p.deactivate(item)
	}
	p.queue = append(p.queue, item)
}

// Constructed returns how many instances the pool has ever built.
func (p *Pool[T]) Constructed() int {
	return p.constructed
}

// Pooled returns how many inactive instances are queued.
func (p *Pool[T]) Pooled() int {
	return len(p.queue)
}
