package verify

import "sync"

// ActiveSet tracks users that currently have a verification flow in
// flight. Membership is checked and inserted in one step so two entry
// actions for the same user can never both proceed.
type ActiveSet struct {
	mu    sync.Mutex
	users map[string]struct{}
}

func NewActiveSet() *ActiveSet {
	return &ActiveSet{users: make(map[string]struct{})}
}

// TryAdd inserts userID and reports whether it was absent before.
func (s *ActiveSet) TryAdd(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; ok {
		return false
	}
	s.users[userID] = struct{}{}
	return true
}

func (s *ActiveSet) Remove(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

func (s *ActiveSet) Contains(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[userID]
	return ok
}

func (s *ActiveSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
