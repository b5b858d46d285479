package suppression

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in tests and local development.
// It enforces the same (email, user) uniqueness rule as the Postgres schema.
type MemoryStore struct {
	mu          sync.Mutex
	suppression map[[2]string]Record
	bounces     []BounceEvent
	complaints  []ComplaintEvent
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{suppression: make(map[[2]string]Record)}
}

func (s *MemoryStore) UpsertSuppression(_ context.Context, email, userID string, reason Reason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppression[[2]string{email, userID}] = Record{
		Email:     email,
		UserID:    userID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	return nil
}

func (s *MemoryStore) RecordBounce(_ context.Context, email, reason, bounceType, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounces = append(s.bounces, BounceEvent{
		Email:      email,
		Reason:     reason,
		BounceType: bounceType,
		MessageID:  messageID,
		RecordedAt: time.Now(),
	})
	return nil
}

func (s *MemoryStore) RecordComplaint(_ context.Context, email, reason, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complaints = append(s.complaints, ComplaintEvent{
		Email:      email,
		Reason:     reason,
		MessageID:  messageID,
		RecordedAt: time.Now(),
	})
	return nil
}

// Suppressions returns a copy of the active suppression records.
func (s *MemoryStore) Suppressions() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.suppression))
	for _, r := range s.suppression {
		out = append(out, r)
	}
	return out
}

// Bounces returns a copy of the bounce log.
func (s *MemoryStore) Bounces() []BounceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]BounceEvent(nil), s.bounces...)
}

// Complaints returns a copy of the complaint log.
func (s *MemoryStore) Complaints() []ComplaintEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ComplaintEvent(nil), s.complaints...)
}
