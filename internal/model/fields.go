package model

import (
	"fmt"
	"strconv"
)

// Field names used by editors when addressing a list item, e.g.
// "experience-0-position". They match the JSON names.
const (
	FieldInstitution  = "institution"
	FieldDegree       = "degree"
	FieldFieldOfStudy = "fieldOfStudy"
	FieldLocation     = "location"
	FieldStartDate    = "startDate"
	FieldEndDate      = "endDate"
	FieldDescription  = "description"
	FieldCompany      = "company"
	FieldPosition     = "position"
	FieldName         = "name"
	FieldLevel        = "level"
	FieldTitle        = "title"
	FieldLink         = "link"
)

// ItemField reads one field of a list item as a string.
func (c Content) ItemField(s Section, index int, field string) (string, error) {
	if index < 0 || index >= c.Len(s) {
		return "", fmt.Errorf("%s index %d out of range", s, index)
	}
	switch s {
	case SectionEducation:
		e := c.Education[index]
		switch field {
		case FieldInstitution:
			return e.Institution, nil
		case FieldDegree:
			return e.Degree, nil
		case FieldFieldOfStudy:
			return e.FieldOfStudy, nil
		case FieldLocation:
			return e.Location, nil
		case FieldStartDate:
			return e.StartDate, nil
		case FieldEndDate:
			return e.EndDate, nil
		case FieldDescription:
			return e.Description, nil
		}
	case SectionExperience:
		e := c.Experience[index]
		switch field {
		case FieldCompany:
			return e.Company, nil
		case FieldPosition:
			return e.Position, nil
		case FieldLocation:
			return e.Location, nil
		case FieldStartDate:
			return e.StartDate, nil
		case FieldEndDate:
			return e.EndDate, nil
		case FieldDescription:
			return e.Description, nil
		}
	case SectionSkills:
		sk := c.Skills[index]
		switch field {
		case FieldName:
			return sk.Name, nil
		case FieldLevel:
			return strconv.Itoa(sk.Level), nil
		}
	case SectionProjects:
		p := c.Projects[index]
		switch field {
		case FieldTitle:
			return p.Title, nil
		case FieldDescription:
			return p.Description, nil
		case FieldLink:
			return p.Link, nil
		}
	}
	return "", fmt.Errorf("unknown field %s.%s", s, field)
}

// SetItemField writes one field of a list item. Skill levels are parsed and
// clamped to [MinSkillLevel, MaxSkillLevel].
func (c *Content) SetItemField(s Section, index int, field, value string) error {
	if index < 0 || index >= c.Len(s) {
		return fmt.Errorf("%s index %d out of range", s, index)
	}
	switch s {
	case SectionEducation:
		e := &c.Education[index]
		switch field {
		case FieldInstitution:
			e.Institution = value
		case FieldDegree:
			e.Degree = value
		case FieldFieldOfStudy:
			e.FieldOfStudy = value
		case FieldLocation:
			e.Location = value
		case FieldStartDate:
			e.StartDate = value
		case FieldEndDate:
			e.EndDate = value
		case FieldDescription:
			e.Description = value
		default:
			return fmt.Errorf("unknown field %s.%s", s, field)
		}
	case SectionExperience:
		e := &c.Experience[index]
		switch field {
		case FieldCompany:
			e.Company = value
		case FieldPosition:
			e.Position = value
		case FieldLocation:
			e.Location = value
		case FieldStartDate:
			e.StartDate = value
		case FieldEndDate:
			e.EndDate = value
		case FieldDescription:
			e.Description = value
		default:
			return fmt.Errorf("unknown field %s.%s", s, field)
		}
	case SectionSkills:
		sk := &c.Skills[index]
		switch field {
		case FieldName:
			sk.Name = value
		case FieldLevel:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("skill level %q: %w", value, err)
			}
			if n < MinSkillLevel {
				n = MinSkillLevel
			}
			sk.Level = ClampLevel(n)
		default:
			return fmt.Errorf("unknown field %s.%s", s, field)
		}
	case SectionProjects:
		p := &c.Projects[index]
		switch field {
		case FieldTitle:
			p.Title = value
		case FieldDescription:
			p.Description = value
		case FieldLink:
			p.Link = value
		default:
			return fmt.Errorf("unknown field %s.%s", s, field)
		}
	}
	return nil
}

// AddItem appends a blank item to a section and returns its index.
func (c *Content) AddItem(s Section) (int, error) {
	switch s {
	case SectionEducation:
		c.Education = append(c.Education, Education{})
	case SectionExperience:
		c.Experience = append(c.Experience, Experience{})
	case SectionSkills:
		c.Skills = append(c.Skills, Skill{Level: DefaultSkillLevel})
	case SectionProjects:
		c.Projects = append(c.Projects, Project{})
	default:
		return 0, fmt.Errorf("unknown section %q", s)
	}
	return c.Len(s) - 1, nil
}

// RemoveItem deletes the item at index; later items shift down by one.
func (c *Content) RemoveItem(s Section, index int) error {
	if index < 0 || index >= c.Len(s) {
		return fmt.Errorf("%s index %d out of range", s, index)
	}
	switch s {
	case SectionEducation:
		c.Education = append(c.Education[:index:index], c.Education[index+1:]...)
	case SectionExperience:
		c.Experience = append(c.Experience[:index:index], c.Experience[index+1:]...)
	case SectionSkills:
		c.Skills = append(c.Skills[:index:index], c.Skills[index+1:]...)
	case SectionProjects:
		c.Projects = append(c.Projects[:index:index], c.Projects[index+1:]...)
	}
	return nil
}

// Field reads a personal-info field by its JSON name.
func (p PersonalInfo) Field(name string) (string, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "email":
		return p.Email, true
	case "phone":
		return p.Phone, true
	case "address":
		return p.Address, true
	case "website":
		return p.Website, true
	case "summary":
		return p.Summary, true
	case "github":
		return p.GitHub, true
	case "linkedin":
		return p.LinkedIn, true
	}
	return "", false
}

// SetField writes a personal-info field by its JSON name.
func (p *PersonalInfo) SetField(name, value string) bool {
	switch name {
	case "name":
		p.Name = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	case "address":
		p.Address = value
	case "website":
		p.Website = value
	case "summary":
		p.Summary = value
	case "github":
		p.GitHub = value
	case "linkedin":
		p.LinkedIn = value
	default:
		return false
	}
	return true
}
