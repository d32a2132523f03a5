package gate

import "sync"

// guard admits one outstanding call per key. A second submit of the same
// form while the first is pending is refused, not queued.
type guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func newGuard() *guard {
	return &guard{inflight: make(map[string]struct{})}
}

// acquire returns a release func and true, or false if key is busy.
func (g *guard) acquire(key string) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[key]; busy {
		return nil, false
	}
	g.inflight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, key)
			g.mu.Unlock()
		})
	}, true
}
