package line

// Buffer is the unbounded FIFO queue in front of a station. Putting never
// blocks; taking suspends the caller's continuation until an item arrives.
// Hand-offs run inline at the current virtual instant, and waiting consumers
// are served in the order they asked, which keeps station workers fair and
// runs deterministic.
type Buffer struct {
	items   []*Unit
	waiters []func(*Unit)
}

// Len returns the number of queued units. Consumers suspended on an empty
// buffer do not count as negative queue length; an empty buffer with idle
// workers reports zero.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Put appends a unit, or hands it straight to the longest-waiting consumer
// if any is suspended.
func (b *Buffer) Put(u *Unit) {
	if len(b.waiters) > 0 {
		w := b.waiters[0]
		b.waiters = b.waiters[1:]
		w(u)
		return
	}
	b.items = append(b.items, u)
}

// Take delivers the front unit to fn, inline if one is queued, otherwise
// when the next Put arrives.
func (b *Buffer) Take(fn func(*Unit)) {
	if fn == nil {
		panic("Take: fn must not be nil")
	}
	if len(b.items) > 0 {
		u := b.items[0]
		b.items = b.items[1:]
		fn(u)
		return
	}
	b.waiters = append(b.waiters, fn)
}
