package textgen

import "sync"

// Scope is the liveness flag of whoever asked for an async result.
//
// Results delivered through Dispatch are applied only while the scope is
// alive. Once Close returns, no further apply callback runs. The in-flight
// work itself is not cancelled; its result is dropped.
type Scope struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewScope returns a live scope.
func NewScope() *Scope {
	return &Scope{}
}

// Alive reports whether results would still be applied.
func (s *Scope) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close tears the scope down. It waits for an apply already in progress.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Wait blocks until every dispatched task has finished or been discarded.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Dispatch runs work in a new goroutine and hands its result to apply if s
// is still alive when work returns. It reports whether the task started;
// a closed scope starts nothing.
func Dispatch[T any](s *Scope, work func() T, apply func(T)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		result := work()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		apply(result)
	}()
	return true
}
