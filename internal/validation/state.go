package validation

import (
	"strings"

	"resume-builder/internal/model"
)

// State tracks which fields a user has interacted with and which of them
// currently hold an error. An error is shown only once its field is touched.
// Touched keys are never reset by editing.
//
// State is not safe for concurrent use; one editor owns one State.
type State struct {
	touched map[string]bool
	errors  Errors
}

func NewState() *State {
	return &State{touched: map[string]bool{}, errors: Errors{}}
}

// Edit records a change to key. c and title must already hold the new value.
func (s *State) Edit(key, title string, c model.Content) {
	s.touched[key] = true

	msg := ValidateField(key, title, c)
	if msg == "" {
		delete(s.errors, key)
	} else if section, _, field, ok := ParseKey(key); ok && IsRequiredField(section, field) {
		s.errors[key] = msg
	}

	section, index, field, ok := ParseKey(key)
	if !ok || (field != model.FieldStartDate && field != model.FieldEndDate) {
		return
	}
	if section != model.SectionExperience && section != model.SectionEducation {
		return
	}
	drKey := DateRangeKey(section, index)
	if msg := ValidateField(drKey, title, c); msg != "" {
		s.errors[drKey] = msg
		s.touched[drKey] = true
	} else {
		delete(s.errors, drKey)
	}
}

// Blur marks key touched and stores the current result of its validator.
func (s *State) Blur(key, title string, c model.Content) {
	s.touched[key] = true
	if msg := ValidateField(key, title, c); msg != "" {
		s.errors[key] = msg
	} else {
		delete(s.errors, key)
	}
}

// ValidateArrayFields recomputes every skills, experience and education
// error from c, marks each failing key touched, and reports whether all
// items are valid.
func (s *State) ValidateArrayFields(c model.Content) bool {
	for k := range s.errors {
		if section, _, _, ok := ParseKey(k); ok && section != model.SectionProjects {
			delete(s.errors, k)
		}
	}
	errs := ValidateSections(c)
	for k, msg := range errs {
		s.errors[k] = msg
		s.touched[k] = true
	}
	return errs.Valid()
}

// ValidateAll runs the array sweep and every scalar rule, touching each
// failing key. It is what a save attempt calls.
func (s *State) ValidateAll(title string, c model.Content) bool {
	valid := s.ValidateArrayFields(c)
	for _, k := range scalarOrder {
		delete(s.errors, k)
	}
	for k, msg := range ValidateScalars(title, c.PersonalInfo) {
		s.errors[k] = msg
		s.touched[k] = true
		valid = false
	}
	return valid
}

// RemoveItem drops every error and touched flag of the item at index.
// Keys of other items are left as they are.
func (s *State) RemoveItem(section model.Section, index int) {
	prefix := itemPrefix(section, index)
	for k := range s.errors {
		if strings.HasPrefix(k, prefix) {
			delete(s.errors, k)
		}
	}
	for k := range s.touched {
		if strings.HasPrefix(k, prefix) {
			delete(s.touched, k)
		}
	}
}

// Error returns the stored message for key whether or not it is touched.
func (s *State) Error(key string) string { return s.errors[key] }

func (s *State) Touched(key string) bool { return s.touched[key] }

// Visible returns the message to display next to key: set only when the key
// is touched and has an error.
func (s *State) Visible(key string) string {
	if !s.touched[key] {
		return ""
	}
	return s.errors[key]
}

// Errors returns a copy of the error map.
func (s *State) Errors() Errors {
	out := make(Errors, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// TouchedKeys returns a copy of the touched set.
func (s *State) TouchedKeys() map[string]bool {
	out := make(map[string]bool, len(s.touched))
	for k, v := range s.touched {
		out[k] = v
	}
	return out
}
