package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

// MemoryRepo keeps resumes in process memory. It backs the server when no
// database is configured and is used by tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*domain.Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[uuid.UUID]*domain.Resume{}}
}

func (m *MemoryRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Resume{}
	for _, r := range m.rows {
		if r.OwnerID == ownerID {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.Clone(), nil
}

func (m *MemoryRepo) GetByPublicID(_ context.Context, publicID string) (*domain.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rows {
		if r.PublicID != "" && r.PublicID == publicID {
			return r.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MemoryRepo) Create(_ context.Context, r *domain.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[r.ID]; ok {
		return domain.ErrConflict
	}
	if r.PublicID != "" && m.publicIDTaken(r.PublicID) {
		return domain.ErrConflict
	}
	m.rows[r.ID] = r.Clone()
	return nil
}

func (m *MemoryRepo) Update(_ context.Context, r *domain.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[r.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := r.Clone()
	next.OwnerID = cur.OwnerID
	next.PublicID = cur.PublicID
	next.CreatedAt = cur.CreatedAt
	m.rows[r.ID] = next
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *MemoryRepo) SetPublicID(_ context.Context, id uuid.UUID, publicID string, now time.Time) (*domain.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.PublicID != "" {
		return r.Clone(), nil
	}
	if m.publicIDTaken(publicID) {
		return nil, domain.ErrConflict
	}
	r.PublicID = publicID
	r.UpdatedAt = now
	return r.Clone(), nil
}

func (m *MemoryRepo) publicIDTaken(publicID string) bool {
	for _, r := range m.rows {
		if r.PublicID == publicID {
			return true
		}
	}
	return false
}
