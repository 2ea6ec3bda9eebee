package editor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"
	"resume-builder/internal/validation"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

const owner = "user-1"

type fixture struct {
	svc *usecase.ResumeService
	id  uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := usecase.NewResumeService(repository.NewMemoryRepo(), nil, log)
	r, err := svc.Create(context.Background(), owner, usecase.CreateInput{Title: "My CV"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return fixture{svc: svc, id: r.ID}
}

func open(t *testing.T, f fixture) *Session {
	t.Helper()
	s, err := Open(context.Background(), f.svc, owner, f.id)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func fillValid(t *testing.T, s *Session) {
	t.Helper()
	must(t, s.SetPersonalInfo("name", "Jane Doe"))
	must(t, s.SetPersonalInfo("email", "jane@example.com"))
	i, err := s.AddItem(model.SectionExperience)
	must(t, err)
	must(t, s.SetItemField(model.SectionExperience, i, "company", "Acme"))
	must(t, s.SetItemField(model.SectionExperience, i, "position", "Engineer"))
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestOpen_Forbidden(t *testing.T) {
	f := newFixture(t)
	_, err := Open(context.Background(), f.svc, "someone-else", f.id)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Open() error = %v, want ErrForbidden", err)
	}
}

func TestDirty(t *testing.T) {
	f := newFixture(t)
	s := open(t, f)
	if s.Dirty() {
		t.Fatal("fresh session is dirty")
	}
	must(t, s.SetPersonalInfo("name", "Jane"))
	if !s.Dirty() {
		t.Fatal("edited session not dirty")
	}
	must(t, s.SetPersonalInfo("name", ""))
	if s.Dirty() {
		t.Error("reverting the edit should leave the session clean")
	}
}

func TestSave_BlockedByValidation(t *testing.T) {
	f := newFixture(t)
	s := open(t, f)
	s.SetTitle("")
	i, _ := s.AddItem(model.SectionEducation)
	must(t, s.SetItemField(model.SectionEducation, i, "startDate", "2020-01-01"))
	must(t, s.SetItemField(model.SectionEducation, i, "endDate", "2019-01-01"))

	err := s.Save(context.Background())
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Save() error = %v, want *ValidationError", err)
	}
	want := []string{
		validation.MsgTitleRequired,
		validation.MsgNameRequired,
		validation.MsgEmailRequired,
		"In Education #1: Institution is required",
		"In Education #1: Degree is required",
		"In Education #1: Start date must be before end date",
	}
	if diff := cmp.Diff(want, ve.Messages); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := s.State().Visible("education-0-institution"); got == "" {
		t.Error("failing field not shown after save attempt")
	}

	stored, _ := f.svc.Get(context.Background(), owner, f.id)
	if stored.Title != "My CV" {
		t.Errorf("stored title = %q, store was written despite errors", stored.Title)
	}
}

func TestValidate_MissingPosition(t *testing.T) {
	f := newFixture(t)
	s := open(t, f)
	s.SetTitle("My Resume 1")
	must(t, s.SetPersonalInfo("name", "Jane Doe"))
	must(t, s.SetPersonalInfo("email", "jane@x.com"))
	i, err := s.AddItem(model.SectionExperience)
	must(t, err)
	must(t, s.SetItemField(model.SectionExperience, i, "company", "Acme"))

	ve := s.Validate()
	if ve == nil {
		t.Fatal("Validate() = nil, want a position error")
	}
	want := map[string]string{"experience-0-position": "Position is required"}
	if diff := cmp.Diff(want, ve.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if s.State().ValidateArrayFields(s.Resume().Content) {
		t.Error("ValidateArrayFields() = true with a missing position")
	}
}

func TestSave_PersistsAndResnapshots(t *testing.T) {
	f := newFixture(t)
	s := open(t, f)
	fillValid(t, s)
	s.SetTemplate(render.Minimal)

	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if s.Dirty() {
		t.Error("session dirty after save")
	}
	stored, _ := f.svc.Get(context.Background(), owner, f.id)
	if stored.Template != "minimal" || stored.Content.Experience[0].Company != "Acme" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestLeave(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		f := newFixture(t)
		s := open(t, f)
		if err := s.Leave(context.Background(), false); err != nil {
			t.Fatalf("Leave() error = %v", err)
		}
	})

	t.Run("dirty and valid", func(t *testing.T) {
		f := newFixture(t)
		s := open(t, f)
		fillValid(t, s)
		if err := s.Leave(context.Background(), false); !errors.Is(err, ErrUnsavedChanges) {
			t.Fatalf("Leave() error = %v, want ErrUnsavedChanges", err)
		}
	})

	t.Run("dirty and invalid", func(t *testing.T) {
		f := newFixture(t)
		s := open(t, f)
		must(t, s.SetPersonalInfo("email", "not-an-email"))
		if err := s.Leave(context.Background(), false); !domain.IsValidation(err) {
			t.Fatalf("Leave() error = %v, want validation error", err)
		}
	})

	t.Run("discard deletes never-filled draft", func(t *testing.T) {
		f := newFixture(t)
		s := open(t, f)
		must(t, s.SetPersonalInfo("summary", "half typed"))
		if err := s.Leave(context.Background(), true); err != nil {
			t.Fatalf("Leave() error = %v", err)
		}
		if _, err := f.svc.Get(context.Background(), owner, f.id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get() after discard error = %v, want ErrNotFound", err)
		}
	})

	t.Run("discard on clean session keeps draft", func(t *testing.T) {
		f := newFixture(t)
		s := open(t, f)
		if err := s.Leave(context.Background(), true); err != nil {
			t.Fatalf("Leave() error = %v", err)
		}
		if _, err := f.svc.Get(context.Background(), owner, f.id); err != nil {
			t.Errorf("Get() after clean discard error = %v, want draft kept", err)
		}
	})

	t.Run("discard looks at unsaved name and email", func(t *testing.T) {
		f := newFixture(t)
		s := open(t, f)
		must(t, s.SetPersonalInfo("name", "Jane Doe"))
		if err := s.Leave(context.Background(), true); err != nil {
			t.Fatalf("Leave() error = %v", err)
		}
		if _, err := f.svc.Get(context.Background(), owner, f.id); err != nil {
			t.Errorf("Get() after discard error = %v, want draft kept", err)
		}
	})

	t.Run("discard keeps saved document", func(t *testing.T) {
		f := newFixture(t)
		s := open(t, f)
		fillValid(t, s)
		must(t, s.Save(context.Background()))
		must(t, s.SetPersonalInfo("name", "Someone Else"))
		if err := s.Leave(context.Background(), true); err != nil {
			t.Fatalf("Leave() error = %v", err)
		}
		stored, err := f.svc.Get(context.Background(), owner, f.id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if stored.Content.PersonalInfo.Name != "Jane Doe" {
			t.Errorf("name = %q, discarded edit was stored", stored.Content.PersonalInfo.Name)
		}
		if s.Dirty() {
			t.Error("session dirty after discard")
		}
	})
}

func TestRemoveItem_ClearsState(t *testing.T) {
	f := newFixture(t)
	s := open(t, f)
	i, _ := s.AddItem(model.SectionSkills)
	must(t, s.SetItemField(model.SectionSkills, i, "name", ""))
	if s.State().Error("skills-0-name") == "" {
		t.Fatal("expected error for emptied skill name")
	}
	must(t, s.RemoveItem(model.SectionSkills, i))
	if s.State().Error("skills-0-name") != "" || s.State().Touched("skills-0-name") {
		t.Error("state for removed item survived")
	}
	if n := len(s.Resume().Content.Skills); n != 0 {
		t.Errorf("skills len = %d", n)
	}
}

func TestSetSkillLevel_Clamps(t *testing.T) {
	f := newFixture(t)
	s := open(t, f)
	i, _ := s.AddItem(model.SectionSkills)
	if got := s.Resume().Content.Skills[i].Level; got != model.DefaultSkillLevel {
		t.Fatalf("new skill level = %d", got)
	}
	must(t, s.SetSkillLevel(i, 9))
	if got := s.Resume().Content.Skills[i].Level; got != 5 {
		t.Errorf("level = %d, want 5", got)
	}
	must(t, s.SetSkillLevel(i, -1))
	if got := s.Resume().Content.Skills[i].Level; got != 1 {
		t.Errorf("level = %d, want 1", got)
	}
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	s := open(t, f)
	fillValid(t, s)
	r, err := render.NewDefault()
	must(t, err)
	out, err := s.Preview(r)
	must(t, err)
	if len(out) == 0 {
		t.Fatal("empty preview")
	}
}
