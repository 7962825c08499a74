// Package task provides a group for running keyed tasks exactly once.
package task

import "sync"

// Group executes keyed tasks exactly once. It behaves much like sync.Once,
// except tasks are keyed so unrelated tasks do not block each other.
type Group struct {
	mu    sync.Mutex
	tasks map[string]*task
}

type task struct {
	done chan struct{}
	err  error
}

// NewGroup creates a new task group.
func NewGroup() *Group {
	return &Group{tasks: make(map[string]*task)}
}

// Do invokes the given function exactly once for the key. Concurrent calls
// with the same key block until the first one has finished, and return the
// error (if any) from that call. Calls with another key do not block.
func (g *Group) Do(key string, fn func() error) error {
	g.mu.Lock()
	t, ok := g.tasks[key]
	if !ok {
		t = &task{done: make(chan struct{})}
		g.tasks[key] = t
		g.mu.Unlock()

		t.err = fn()
		close(t.done)
		return t.err
	}
	g.mu.Unlock()

	<-t.done
	return t.err
}
