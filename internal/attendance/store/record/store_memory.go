package record

import (
	"context"
	"sort"
	"sync"
	"time"

	"rollcall/internal/attendance/models"
	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

type pairKey struct {
	event  id.EventID
	member id.MemberID
}

// InMemoryStore implements Store with a mutex-guarded map. The mutex gives
// the same create-if-absent / update-if-unset atomicity the Postgres store
// gets from conditional statements.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[pairKey]models.AttendanceRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[pairKey]models.AttendanceRecord)}
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, rec *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{rec.EventID, rec.MemberID}
	if _, ok := s.records[key]; ok {
		return sentinel.ErrConflict
	}
	s.records[key] = *rec
	return nil
}

func (s *InMemoryStore) SetCheckOutIfUnset(_ context.Context, eventID id.EventID, memberID id.MemberID, at time.Time) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{eventID, memberID}
	rec, ok := s.records[key]
	if !ok || rec.CheckOutAt != nil {
		return nil, sentinel.ErrPreconditionFailed
	}
	t := at
	rec.CheckOutAt = &t
	rec.Status = rec.DeriveStatus()
	s.records[key] = rec
	return &rec, nil
}

func (s *InMemoryStore) Find(_ context.Context, eventID id.EventID, memberID id.MemberID) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[pairKey{eventID, memberID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

func (s *InMemoryStore) ListByEvent(_ context.Context, eventID id.EventID) ([]*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.AttendanceRecord
	for key, rec := range s.records {
		if key.event == eventID {
			r := rec
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) DeleteByEvent(_ context.Context, eventID id.EventID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key := range s.records {
		if key.event == eventID {
			delete(s.records, key)
			deleted++
		}
	}
	return deleted, nil
}
