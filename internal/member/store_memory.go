package member

import (
	"context"
	"sync"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

// InMemoryStore keeps members in maps, token index included.
type InMemoryStore struct {
	mu      sync.RWMutex
	members map[id.MemberID]Member
	byToken map[id.IdentityToken]id.MemberID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		members: make(map[id.MemberID]Member),
		byToken: make(map[id.IdentityToken]id.MemberID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.ID]; ok {
		return sentinel.ErrConflict
	}
	if m.IdentityToken != nil {
		if _, ok := s.byToken[*m.IdentityToken]; ok {
			return sentinel.ErrConflict
		}
		s.byToken[*m.IdentityToken] = m.ID
	}
	s.members[m.ID] = *m
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, memberID id.MemberID) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &m, nil
}

func (s *InMemoryStore) FindByToken(_ context.Context, token id.IdentityToken) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberID, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	m := s.members[memberID]
	return &m, nil
}

func (s *InMemoryStore) BindToken(_ context.Context, memberID id.MemberID, token id.IdentityToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if owner, ok := s.byToken[token]; ok && owner != memberID {
		return sentinel.ErrConflict
	}
	if m.IdentityToken != nil {
		delete(s.byToken, *m.IdentityToken)
	}
	t := token
	m.IdentityToken = &t
	s.members[memberID] = m
	s.byToken[token] = memberID
	return nil
}
