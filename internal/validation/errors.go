package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
)

// Scalar field keys.
const (
	KeyTitle = "title"
	KeyName  = "name"
	KeyEmail = "email"
	KeyPhone = "phone"
)

// DateRange is the pseudo-field that carries cross-field date errors.
const DateRange = "dateRange"

var (
	scalarOrder  = []string{KeyTitle, KeyName, KeyEmail, KeyPhone}
	sectionOrder = []model.Section{model.SectionSkills, model.SectionExperience, model.SectionEducation, model.SectionProjects}
	sectionLabel = map[model.Section]string{
		model.SectionSkills:     "Skills",
		model.SectionExperience: "Experience",
		model.SectionEducation:  "Education",
		model.SectionProjects:   "Projects",
	}
	fieldOrder = map[string]int{
		model.FieldName:        0,
		model.FieldCompany:     0,
		model.FieldInstitution: 0,
		model.FieldPosition:    1,
		model.FieldDegree:      1,
		DateRange:              2,
	}
)

// Key builds "{section}-{index}-{field}".
func Key(section model.Section, index int, field string) string {
	return fmt.Sprintf("%s-%d-%s", section, index, field)
}

// DateRangeKey builds "{section}-{index}-dateRange".
func DateRangeKey(section model.Section, index int) string {
	return Key(section, index, DateRange)
}

// ParseKey splits an array field key. ok is false for scalar keys.
func ParseKey(key string) (section model.Section, index int, field string, ok bool) {
	parts := strings.SplitN(key, "-", 3)
	if len(parts) != 3 {
		return "", 0, "", false
	}
	section = model.Section(parts[0])
	if !section.Valid() {
		return "", 0, "", false
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return "", 0, "", false
	}
	return section, index, parts[2], true
}

func itemPrefix(section model.Section, index int) string {
	return fmt.Sprintf("%s-%d-", section, index)
}

// Errors maps a field key to the message shown next to that field.
type Errors map[string]string

func (e Errors) HasErrors() bool { return len(e) > 0 }

func (e Errors) Valid() bool { return len(e) == 0 }

// Messages lists every error in display order: scalar fields first, then
// skills, experience, education, each item in index order. Array messages are
// prefixed with their position, e.g. "In Education #2: Degree is required".
func (e Errors) Messages() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if section, index, _, ok := ParseKey(k); ok {
			out = append(out, fmt.Sprintf("In %s #%d: %s", sectionLabel[section], index+1, e[k]))
			continue
		}
		out = append(out, e[k])
	}
	return out
}

// AsValidationError converts a non-empty map to a domain error.
func (e Errors) AsValidationError() *domain.ValidationError {
	if e.Valid() {
		return nil
	}
	fields := make(map[string]string, len(e))
	for k, v := range e {
		fields[k] = v
	}
	return &domain.ValidationError{Fields: fields, Messages: e.Messages()}
}

func lessKey(a, b string) bool {
	ra, rb := keyRank(a), keyRank(b)
	for i := range ra {
		if ra[i] != rb[i] {
			return ra[i] < rb[i]
		}
	}
	return a < b
}

// keyRank orders keys by (group, index, field).
func keyRank(k string) [3]int {
	for i, s := range scalarOrder {
		if k == s {
			return [3]int{0, i, 0}
		}
	}
	section, index, field, ok := ParseKey(k)
	if !ok {
		return [3]int{len(sectionOrder) + 1, 0, 0}
	}
	group := len(sectionOrder)
	for i, s := range sectionOrder {
		if s == section {
			group = i + 1
		}
	}
	fo, known := fieldOrder[field]
	if !known {
		fo = len(fieldOrder)
	}
	return [3]int{group, index, fo}
}
