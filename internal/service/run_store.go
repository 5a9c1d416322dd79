package service

import (
	"sync"
	"time"

	"github.com/noah-isme/clerkship-scheduler/internal/dto"
)

// runStore keeps recent run statuses in memory, expiring them after ttl.
type runStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]dto.RunStatus
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{
		ttl:   ttl,
		items: make(map[string]dto.RunStatus),
	}
}

// Save stores status and evicts finished runs past their ttl.
func (s *runStore) Save(status dto.RunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, item := range s.items {
		if s.expired(item, now) {
			delete(s.items, id)
		}
	}
	s.items[status.ID] = status
}

// Update applies fn to a stored status. It returns false when id is unknown.
func (s *runStore) Update(id string, fn func(*dto.RunStatus)) (dto.RunStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.items[id]
	if !ok {
		return dto.RunStatus{}, false
	}
	fn(&status)
	s.items[id] = status
	return status, true
}

func (s *runStore) Get(id string) (dto.RunStatus, bool) {
	s.mu.RLock()
	status, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return dto.RunStatus{}, false
	}
	if s.expired(status, time.Now()) {
		s.Delete(id)
		return dto.RunStatus{}, false
	}
	return status, true
}

func (s *runStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *runStore) expired(status dto.RunStatus, now time.Time) bool {
	return status.FinishedAt != nil && now.Sub(*status.FinishedAt) > s.ttl
}
