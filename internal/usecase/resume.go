package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	publicIDBytes    = 10
	maxShareAttempts = 5
)

var validate = validator.New()

// CreateInput is the payload for a new resume.
type CreateInput struct {
	Title    string `json:"title" validate:"required,max=100"`
	Template string `json:"template" validate:"omitempty,oneof=modern classic minimal"`
}

// ReplaceInput is a full document replacement. Every field is written.
type ReplaceInput struct {
	Title    string        `json:"title" validate:"required,max=100"`
	Template string        `json:"template" validate:"omitempty,oneof=modern classic minimal"`
	Content  model.Content `json:"content"`
}

// ResumeService implements the owner-scoped document operations and the
// unauthenticated public lookup.
type ResumeService struct {
	repo  ResumeRepo
	cache PublicCache
	log   *slog.Logger
	now   func() time.Time
}

func NewResumeService(repo ResumeRepo, cache PublicCache, log *slog.Logger) *ResumeService {
	if log == nil {
		log = slog.Default()
	}
	return &ResumeService{repo: repo, cache: cache, log: log, now: time.Now}
}

// List returns the owner's resumes, most recently updated first.
func (s *ResumeService) List(ctx context.Context, ownerID string) ([]*domain.Resume, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return list, nil
}

// Get loads a resume and checks ownership.
func (s *ResumeService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Resume, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.OwnedBy(ownerID) {
		return nil, domain.ErrForbidden
	}
	return r, nil
}

// Create stores a new resume with empty content.
func (s *ResumeService) Create(ctx context.Context, ownerID string, in CreateInput) (*domain.Resume, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}
	r := domain.NewResume(ownerID, in.Title, in.Template, s.now().UTC())
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}
	s.log.Info("resume created", slog.String("resume_id", r.ID.String()), slog.String("owner_id", ownerID))
	return r, nil
}

// Replace overwrites title, template and content. Id, owner, public id and
// creation time are kept. Concurrent replaces are last-write-wins.
func (s *ResumeService) Replace(ctx context.Context, ownerID string, id uuid.UUID, in ReplaceInput) (*domain.Resume, error) {
	r, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}
	r.Title = in.Title
	if in.Template != "" {
		r.Template = in.Template
	}
	r.Content = in.Content.Normalize()
	r.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update resume: %w", err)
	}
	s.invalidate(ctx, r.PublicID)
	return r, nil
}

// Delete removes a resume and its public link.
func (s *ResumeService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	r, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	s.invalidate(ctx, r.PublicID)
	s.log.Info("resume deleted", slog.String("resume_id", id.String()), slog.String("owner_id", ownerID))
	return nil
}

// Share returns the resume's public id, minting one on first call. Repeated
// calls return the same id.
func (s *ResumeService) Share(ctx context.Context, ownerID string, id uuid.UUID) (string, error) {
	r, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	if r.IsShared() {
		return r.PublicID, nil
	}
	for attempt := 1; attempt <= maxShareAttempts; attempt++ {
		token, err := newPublicID()
		if err != nil {
			return "", fmt.Errorf("generate public id: %w", err)
		}
		updated, err := s.repo.SetPublicID(ctx, id, token, s.now().UTC())
		if errors.Is(err, domain.ErrConflict) {
			s.log.Warn("public id collision, retrying", slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("set public id: %w", err)
		}
		return updated.PublicID, nil
	}
	return "", fmt.Errorf("set public id: %w after %d attempts", domain.ErrConflict, maxShareAttempts)
}

// GetPublic looks a resume up by public id. No ownership check applies.
func (s *ResumeService) GetPublic(ctx context.Context, publicID string) (*domain.Resume, error) {
	if publicID == "" {
		return nil, domain.ErrNotFound
	}
	if s.cache != nil {
		r, err := s.cache.Get(ctx, publicID)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("public cache read failed", slog.String("public_id", publicID), slog.Any("error", err))
		}
	}
	r, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, r); err != nil {
			s.log.Warn("public cache write failed", slog.String("public_id", publicID), slog.Any("error", err))
		}
	}
	return r, nil
}

func (s *ResumeService) invalidate(ctx context.Context, publicID string) {
	if s.cache == nil || publicID == "" {
		return
	}
	if err := s.cache.Delete(ctx, publicID); err != nil {
		s.log.Warn("public cache invalidation failed", slog.String("public_id", publicID), slog.Any("error", err))
	}
}

func newPublicID() (string, error) {
	b := make([]byte, publicIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var fieldMessages = map[string]map[string]string{
	"Title": {
		"required": "Resume title is required",
		"max":      "Resume title must be at most 100 characters",
	},
	"Template": {
		"oneof": "Template must be one of modern, classic, minimal",
	},
}

// toValidationError maps validator tags to user-facing messages.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := domain.NewValidationError()
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		ve.Fields[strings.ToLower(fe.Field())] = msg
		ve.Messages = append(ve.Messages, msg)
	}
	return ve
}
