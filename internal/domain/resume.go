package domain

import (
	"time"

	"resume-builder/internal/model"

	"github.com/google/uuid"
)

const (
	TemplateModern  = "modern"
	TemplateClassic = "classic"
	TemplateMinimal = "minimal"

	MaxTitleLength = 100
)

type Resume struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   string        `json:"ownerId"`
	Title     string        `json:"title"`
	Template  string        `json:"template"`
	Content   model.Content `json:"content"`
	PublicID  string        `json:"publicId,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewResume builds an empty resume owned by ownerID. An empty template
// selects the modern one.
func NewResume(ownerID, title, template string, now time.Time) *Resume {
	if template == "" {
		template = TemplateModern
	}
	return &Resume{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Template:  template,
		Content:   model.NewEmptyContent(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := *r
	out.Content = r.Content.Clone()
	return &out
}

// IsShared reports whether a public id has been minted.
func (r *Resume) IsShared() bool { return r.PublicID != "" }

// OwnedBy reports whether ownerID may read and modify the resume.
func (r *Resume) OwnedBy(ownerID string) bool { return r.OwnerID == ownerID }
