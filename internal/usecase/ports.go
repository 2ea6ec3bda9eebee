package usecase

import (
	"context"
	"errors"
	"time"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

// ResumeRepo persists resume documents. Implementations return
// domain.ErrNotFound for unknown ids and domain.ErrConflict when a public id
// is already taken by another row.
type ResumeRepo interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Resume, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error)
	GetByPublicID(ctx context.Context, publicID string) (*domain.Resume, error)
	Create(ctx context.Context, r *domain.Resume) error
	Update(ctx context.Context, r *domain.Resume) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetPublicID stores publicID only if the row has none yet and returns
	// the row as it is afterwards.
	SetPublicID(ctx context.Context, id uuid.UUID, publicID string, now time.Time) (*domain.Resume, error)
}

// ErrCacheMiss is returned by PublicCache.Get when nothing is cached.
var ErrCacheMiss = errors.New("cache miss")

// PublicCache holds shared resumes keyed by public id.
type PublicCache interface {
	Get(ctx context.Context, publicID string) (*domain.Resume, error)
	Set(ctx context.Context, r *domain.Resume) error
	Delete(ctx context.Context, publicID string) error
}

// PDFRenderer prints a standalone HTML document to PDF bytes.
type PDFRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Metrics receives export and render observations.
type Metrics interface {
	RecordExport(path string, err error, d time.Duration)
	RecordRender(variant string)
}

type nopMetrics struct{}

func (nopMetrics) RecordExport(string, error, time.Duration) {}
func (nopMetrics) RecordRender(string)                       {}
