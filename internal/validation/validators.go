// Package validation holds the field-level rules for resume documents and
// the per-field touched/error bookkeeping an editor keeps while a user types.
// Everything here is pure: no I/O, no panics, and no error returns.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"resume-builder/internal/model"
)

const (
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Please enter a valid email address"
	MsgPhoneInvalid  = "Please enter a valid phone number"
	MsgDateRange     = "Start date must be before end date"
	MsgTitleRequired = "Resume title is required"
	MsgNameRequired  = "Full name is required"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 13
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9()\-.\s]+$`)
)

// dateLayouts are tried in order; editors send date-only values but older
// documents may carry a month or a full timestamp.
var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

// required lists the fields of each section that must be non-empty, with
// the message shown when they are not.
var required = map[model.Section]map[string]string{
	model.SectionSkills: {
		model.FieldName: "Skill name is required",
	},
	model.SectionExperience: {
		model.FieldCompany:  "Company name is required",
		model.FieldPosition: "Position is required",
	},
	model.SectionEducation: {
		model.FieldInstitution: "Institution is required",
		model.FieldDegree:      "Degree is required",
	},
}

// ValidateRequiredField reports whether value has any non-space content.
func ValidateRequiredField(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidateEmail returns "" for a well-formed address.
func ValidateEmail(value string) string {
	if !ValidateRequiredField(value) {
		return MsgEmailRequired
	}
	if !emailRe.MatchString(value) {
		return MsgEmailInvalid
	}
	return ""
}

// ValidatePhone accepts an empty value. Otherwise only digits, a leading +,
// dashes, dots, parentheses and spaces are allowed, with 10 to 13 digits.
func ValidatePhone(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if !phoneRe.MatchString(value) {
		return MsgPhoneInvalid
	}
	digits := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return MsgPhoneInvalid
	}
	return ""
}

// IsRequiredField reports whether field of section must be non-empty.
func IsRequiredField(section model.Section, field string) bool {
	_, ok := required[section][field]
	return ok
}

// RequiredMessage returns the message for an empty required field, or "".
func RequiredMessage(section model.Section, field string) string {
	return required[section][field]
}

// ValidateDateRange compares calendar dates. It only reports a problem when
// both values are present, both parse, and start falls after end.
func ValidateDateRange(start, end string) string {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return ""
	}
	s, ok := parseDate(start)
	if !ok {
		return ""
	}
	e, ok := parseDate(end)
	if !ok {
		return ""
	}
	if s.After(e) {
		return MsgDateRange
	}
	return ""
}

func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
