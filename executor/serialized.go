package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/winregi/core"
)

// Serialized wraps an Executor so that actions sharing a target never run
// concurrently. Actions with disjoint targets run in parallel.
type Serialized struct {
	inner Executor

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var (
	_ Executor     = (*Serialized)(nil)
	_ StatusReader = (*Serialized)(nil)
)

// NewSerialized wraps inner.
func NewSerialized(inner Executor) (*Serialized, error) {
	if inner == nil {
		return nil, ErrExecutorRequired
	}
	return &Serialized{inner: inner, locks: make(map[string]*sync.Mutex)}, nil
}

// Execute locks every target of action, in sorted order, then runs it.
func (s *Serialized) Execute(ctx context.Context, action core.Action) error {
	targets := action.Targets()
	held := make([]*sync.Mutex, 0, len(targets))
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}()
	for _, t := range targets {
		l := s.lock(t)
		l.Lock()
		held = append(held, l)
	}
	return s.inner.Execute(ctx, action)
}

// Status delegates to the wrapped executor when it is a StatusReader. Reads
// take no target locks.
func (s *Serialized) Status(ctx context.Context, action core.Action) (*ActionStatus, error) {
	reader, ok := s.inner.(StatusReader)
	if !ok {
		return nil, fmt.Errorf("%w: %T cannot read settings", ErrStatusUnavailable, s.inner)
	}
	return reader.Status(ctx, action)
}

// SupportsRollback delegates to the wrapped executor.
func (s *Serialized) SupportsRollback(action core.Action) bool {
	return s.inner.SupportsRollback(action)
}

func (s *Serialized) lock(target string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[target]
	if !ok {
		l = &sync.Mutex{}
		s.locks[target] = l
	}
	return l
}
