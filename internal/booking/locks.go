package booking

import (
	"sync"

	"cafe-bot/internal/models"
)

// slotLocks hands out one mutex per slot key so check-then-append admission
// runs as a critical section per slot. Locks are never removed; the number
// of distinct slots a café sees is tiny.
type slotLocks struct {
	mu    sync.Mutex
	locks map[models.SlotKey]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[models.SlotKey]*sync.Mutex)}
}

func (s *slotLocks) get(key models.SlotKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}
