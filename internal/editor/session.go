// Package editor models one user editing one resume: a working copy, the
// last saved snapshot, and the validation state of every field.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"
	"resume-builder/internal/validation"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

// ErrUnsavedChanges is returned by Leave when the working copy is valid but
// differs from the saved one; the caller must save or discard.
var ErrUnsavedChanges = errors.New("resume has unsaved changes")

// Store is the persistence the editor needs. usecase.ResumeService
// satisfies it.
type Store interface {
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Resume, error)
	Replace(ctx context.Context, ownerID string, id uuid.UUID, in usecase.ReplaceInput) (*domain.Resume, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// Session is not safe for concurrent use.
type Session struct {
	store   Store
	ownerID string
	working *domain.Resume
	saved   *domain.Resume
	state   *validation.State
}

// Open loads a resume for ownerID and snapshots it.
func Open(ctx context.Context, store Store, ownerID string, id uuid.UUID) (*Session, error) {
	r, err := store.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return &Session{
		store:   store,
		ownerID: ownerID,
		working: r.Clone(),
		saved:   r.Clone(),
		state:   validation.NewState(),
	}, nil
}

// Resume returns a copy of the working document.
func (s *Session) Resume() *domain.Resume { return s.working.Clone() }

// State exposes the field validation state for display.
func (s *Session) State() *validation.State { return s.state }

func (s *Session) SetTitle(title string) {
	s.working.Title = title
	s.state.Edit(validation.KeyTitle, s.working.Title, s.working.Content)
}

func (s *Session) SetTemplate(v render.Variant) {
	s.working.Template = v.String()
}

// SetPersonalInfo edits a personal-info field by JSON name.
func (s *Session) SetPersonalInfo(field, value string) error {
	if !s.working.Content.PersonalInfo.SetField(field, value) {
		return fmt.Errorf("unknown personal info field %q", field)
	}
	s.state.Edit(field, s.working.Title, s.working.Content)
	return nil
}

// SetItemField edits one field of a list item.
func (s *Session) SetItemField(section model.Section, index int, field, value string) error {
	if err := s.working.Content.SetItemField(section, index, field, value); err != nil {
		return err
	}
	s.state.Edit(validation.Key(section, index, field), s.working.Title, s.working.Content)
	return nil
}

// AddItem appends a blank item and returns its index.
func (s *Session) AddItem(section model.Section) (int, error) {
	return s.working.Content.AddItem(section)
}

// RemoveItem deletes an item and drops its validation state.
func (s *Session) RemoveItem(section model.Section, index int) error {
	if err := s.working.Content.RemoveItem(section, index); err != nil {
		return err
	}
	s.state.RemoveItem(section, index)
	return nil
}

// Blur marks key touched and shows its current error, if any.
func (s *Session) Blur(key string) {
	s.state.Blur(key, s.working.Title, s.working.Content)
}

// Dirty reports whether the working copy differs from the last save.
// Nil and empty lists compare equal.
func (s *Session) Dirty() bool {
	return !cmp.Equal(s.saved, s.working, cmpopts.EquateEmpty())
}

// Validate runs every rule, marks failing fields touched, and returns the
// itemized problems, or nil when the document may be saved.
func (s *Session) Validate() *domain.ValidationError {
	s.state.ValidateAll(s.working.Title, s.working.Content)
	return validation.Validate(s.working).AsValidationError()
}

// Save validates and then replaces the stored document. Nothing is written
// when validation fails.
func (s *Session) Save(ctx context.Context) error {
	if ve := s.Validate(); ve != nil {
		return ve
	}
	updated, err := s.store.Replace(ctx, s.ownerID, s.working.ID, usecase.ReplaceInput{
		Title:    s.working.Title,
		Template: s.working.Template,
		Content:  s.working.Content,
	})
	if err != nil {
		return err
	}
	s.working = updated.Clone()
	s.saved = updated.Clone()
	return nil
}

// Leave applies the navigate-away rules. A clean session may always leave.
// Discarding unsaved changes to a draft whose working copy has neither a
// name nor an email deletes the draft. Otherwise a dirty invalid document
// returns its *domain.ValidationError and a dirty valid one returns
// ErrUnsavedChanges.
func (s *Session) Leave(ctx context.Context, discard bool) error {
	if !s.Dirty() {
		return nil
	}
	if discard {
		if s.neverFilled() {
			if err := s.store.Delete(ctx, s.ownerID, s.working.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		s.working = s.saved.Clone()
		return nil
	}
	if ve := s.Validate(); ve != nil {
		return ve
	}
	return ErrUnsavedChanges
}

func (s *Session) neverFilled() bool {
	p := s.working.Content.PersonalInfo
	return strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Email) == ""
}

// Preview renders the working copy with its selected template.
func (s *Session) Preview(r *render.Renderer) ([]byte, error) {
	return r.RenderTemplate(s.working.Content, s.working.Template)
}

// SetSkillLevel is a typed shortcut for SetItemField(skills, i, "level").
func (s *Session) SetSkillLevel(index, level int) error {
	return s.SetItemField(model.SectionSkills, index, model.FieldLevel, strconv.Itoa(level))
}
