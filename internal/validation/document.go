package validation

import (
	"resume-builder/internal/domain"
	"resume-builder/internal/model"
)

// ValidateSections checks every item of the skills, experience and education
// sections: required fields and start/end ordering. Projects carry no rules.
func ValidateSections(c model.Content) Errors {
	errs := Errors{}
	for i, s := range c.Skills {
		checkRequired(errs, model.SectionSkills, i, model.FieldName, s.Name)
	}
	for i, e := range c.Experience {
		checkRequired(errs, model.SectionExperience, i, model.FieldCompany, e.Company)
		checkRequired(errs, model.SectionExperience, i, model.FieldPosition, e.Position)
		if msg := ValidateDateRange(e.StartDate, e.EndDate); msg != "" {
			errs[DateRangeKey(model.SectionExperience, i)] = msg
		}
	}
	for i, e := range c.Education {
		checkRequired(errs, model.SectionEducation, i, model.FieldInstitution, e.Institution)
		checkRequired(errs, model.SectionEducation, i, model.FieldDegree, e.Degree)
		if msg := ValidateDateRange(e.StartDate, e.EndDate); msg != "" {
			errs[DateRangeKey(model.SectionEducation, i)] = msg
		}
	}
	return errs
}

func checkRequired(errs Errors, section model.Section, index int, field, value string) {
	if !ValidateRequiredField(value) {
		errs[Key(section, index, field)] = RequiredMessage(section, field)
	}
}

// ValidateScalars checks the title and the personal-info fields that have
// rules of their own.
func ValidateScalars(title string, p model.PersonalInfo) Errors {
	errs := Errors{}
	if !ValidateRequiredField(title) {
		errs[KeyTitle] = MsgTitleRequired
	}
	if !ValidateRequiredField(p.Name) {
		errs[KeyName] = MsgNameRequired
	}
	if msg := ValidateEmail(p.Email); msg != "" {
		errs[KeyEmail] = msg
	}
	if msg := ValidatePhone(p.Phone); msg != "" {
		errs[KeyPhone] = msg
	}
	return errs
}

// Validate runs every rule against a whole resume. A nil resume yields a
// single title error so callers never save an absent document.
func Validate(r *domain.Resume) Errors {
	if r == nil {
		return Errors{KeyTitle: MsgTitleRequired}
	}
	errs := ValidateScalars(r.Title, r.Content.PersonalInfo)
	for k, v := range ValidateSections(r.Content) {
		errs[k] = v
	}
	return errs
}

// ValidateField returns the message for a single key given the document it
// belongs to, or "" when the field is valid or has no rules.
func ValidateField(key, title string, c model.Content) string {
	switch key {
	case KeyTitle:
		if !ValidateRequiredField(title) {
			return MsgTitleRequired
		}
		return ""
	case KeyName:
		if !ValidateRequiredField(c.PersonalInfo.Name) {
			return MsgNameRequired
		}
		return ""
	case KeyEmail:
		return ValidateEmail(c.PersonalInfo.Email)
	case KeyPhone:
		return ValidatePhone(c.PersonalInfo.Phone)
	}
	section, index, field, ok := ParseKey(key)
	if !ok || index >= c.Len(section) {
		return ""
	}
	if field == DateRange {
		start, _ := c.ItemField(section, index, model.FieldStartDate)
		end, _ := c.ItemField(section, index, model.FieldEndDate)
		return ValidateDateRange(start, end)
	}
	if !IsRequiredField(section, field) {
		return ""
	}
	v, err := c.ItemField(section, index, field)
	if err != nil || ValidateRequiredField(v) {
		return ""
	}
	return RequiredMessage(section, field)
}
