package model

// Go models for the resume content document. JSON names are the storage and
// wire contract shared with editors and the public view.

const (
	DefaultSkillLevel = 3
	MinSkillLevel     = 1
	MaxSkillLevel     = 5
)

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	Location     string `json:"location"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Description  string `json:"description"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type Content struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Education    []Education  `json:"education"`
	Experience   []Experience `json:"experience"`
	Skills       []Skill      `json:"skills"`
	Projects     []Project    `json:"projects"`
}

// Section names the four list-typed groups of a resume.
type Section string

const (
	SectionEducation  Section = "education"
	SectionExperience Section = "experience"
	SectionSkills     Section = "skills"
	SectionProjects   Section = "projects"
)

func (s Section) Valid() bool {
	switch s {
	case SectionEducation, SectionExperience, SectionSkills, SectionProjects:
		return true
	}
	return false
}

// NewEmptyContent returns the shape a freshly created resume starts with.
func NewEmptyContent() Content {
	return Content{
		Education:  []Education{},
		Experience: []Experience{},
		Skills:     []Skill{},
		Projects:   []Project{},
	}
}

// Normalize returns a copy with every list non-nil and skill levels inside
// [MinSkillLevel, MaxSkillLevel]. A zero level means "unset" and becomes
// DefaultSkillLevel.
func (c Content) Normalize() Content {
	out := Content{PersonalInfo: c.PersonalInfo}
	out.Education = append([]Education{}, c.Education...)
	out.Experience = append([]Experience{}, c.Experience...)
	out.Projects = append([]Project{}, c.Projects...)
	out.Skills = make([]Skill, len(c.Skills))
	for i, s := range c.Skills {
		s.Level = ClampLevel(s.Level)
		out.Skills[i] = s
	}
	return out
}

// Clone deep-copies the content.
func (c Content) Clone() Content {
	out := Content{PersonalInfo: c.PersonalInfo}
	if c.Education != nil {
		out.Education = append([]Education{}, c.Education...)
	}
	if c.Experience != nil {
		out.Experience = append([]Experience{}, c.Experience...)
	}
	if c.Skills != nil {
		out.Skills = append([]Skill{}, c.Skills...)
	}
	if c.Projects != nil {
		out.Projects = append([]Project{}, c.Projects...)
	}
	return out
}

// Len reports the number of items in a section.
func (c Content) Len(s Section) int {
	switch s {
	case SectionEducation:
		return len(c.Education)
	case SectionExperience:
		return len(c.Experience)
	case SectionSkills:
		return len(c.Skills)
	case SectionProjects:
		return len(c.Projects)
	}
	return 0
}

func ClampLevel(level int) int {
	switch {
	case level == 0:
		return DefaultSkillLevel
	case level < MinSkillLevel:
		return MinSkillLevel
	case level > MaxSkillLevel:
		return MaxSkillLevel
	}
	return level
}
