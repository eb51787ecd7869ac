package store

import (
	"context"
	"sync"
	"time"

	"example.com/healthsync/internal/domain"
)

// Memory is an in-process Storage for unit tests and local development. The
// mutex stands in for the atomicity a real storage engine provides.
type Memory struct {
	mu   sync.RWMutex
	docs map[domain.Collection]map[string]domain.Document
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[domain.Collection]map[string]domain.Document)}
}

// Upsert implements Storage.
func (m *Memory) Upsert(ctx context.Context, doc domain.Document, now time.Time) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll := m.docs[doc.Collection()]
	if coll == nil {
		coll = make(map[string]domain.Document)
		m.docs[doc.Collection()] = coll
	}

	key := doc.Key().String()
	if existing, ok := coll[key]; ok {
		doc.Stamp(createdAt(existing), now)
		coll[key] = doc
		return OutcomeUpdated, nil
	}
	doc.Stamp(now, now)
	coll[key] = doc
	return OutcomeInserted, nil
}

// UserHeightMeters implements Storage.
func (m *Memory) UserHeightMeters(ctx context.Context, userID string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := (&domain.UserProfile{UserID: userID}).Key().String()
	doc, ok := m.docs[domain.CollectionUserProfile][key]
	if !ok {
		return 0, ErrNotFound
	}
	profile, ok := doc.(*domain.UserProfile)
	if !ok {
		return 0, ErrNotFound
	}
	return profile.HeightMeters, nil
}

// Get returns the stored document for a key, primarily for tests.
func (m *Memory) Get(collection domain.Collection, key domain.Key) (domain.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[collection][key.String()]
	return doc, ok
}

// Count reports how many documents a collection holds.
func (m *Memory) Count(collection domain.Collection) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs[collection])
}

func createdAt(doc domain.Document) time.Time {
	type created interface{ Created() time.Time }
	if c, ok := doc.(created); ok {
		return c.Created()
	}
	return time.Time{}
}
