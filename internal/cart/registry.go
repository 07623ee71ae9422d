package cart

import "sync"

// Registry keeps one cart per user for the lifetime of the process.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: map[string]*Cart{}}
}

// With runs fn with exclusive access to userID's cart.
func (r *Registry) With(userID string, fn func(*Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		c = &Cart{}
		r.carts[userID] = c
	}
	return fn(c)
}

// Snapshot returns a copy of userID's lines.
func (r *Registry) Snapshot(userID string) []Line {
	var lines []Line
	_ = r.With(userID, func(c *Cart) error {
		lines = c.Lines()
		return nil
	})
	return lines
}

// Drop forgets userID's cart, e.g. on sign-out.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
}
