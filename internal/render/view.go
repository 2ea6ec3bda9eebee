package render

import (
	"net/url"
	"strings"
	"time"

	"resume-builder/internal/model"

	"golang.org/x/net/publicsuffix"
)

const (
	displayDateLayout = "Jan 2006"
	presentLabel      = "Present"
)

var inputDateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339}

// view is what every template executes against. All formatting decisions
// are made here so the templates only lay things out.
type view struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	Website      string
	WebsiteLabel string
	GitHub       string
	LinkedIn     string
	Summary      string

	Experience []experienceView
	Education  []educationView
	Skills     []skillView
	Projects   []projectView
}

type experienceView struct {
	Company     string
	Position    string
	Location    string
	Start       string
	End         string
	Description string
}

type educationView struct {
	Institution  string
	Degree       string
	FieldOfStudy string
	Location     string
	Start        string
	End          string
	Description  string
}

type skillView struct {
	Name  string
	Level int
	Steps []bool
}

type projectView struct {
	Title       string
	Description string
	Link        string
}

func newView(c model.Content) view {
	c = c.Normalize()
	p := c.PersonalInfo
	v := view{
		Name:     p.Name,
		Email:    p.Email,
		Phone:    p.Phone,
		Address:  p.Address,
		GitHub:   p.GitHub,
		LinkedIn: p.LinkedIn,
		Summary:  p.Summary,
	}
	if strings.TrimSpace(p.Website) != "" {
		v.Website = withScheme(p.Website)
		v.WebsiteLabel = linkLabel(p.Website)
	}

	v.Experience = make([]experienceView, 0, len(c.Experience))
	for _, e := range c.Experience {
		v.Experience = append(v.Experience, experienceView{
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			Start:       formatDate(e.StartDate),
			End:         formatEndDate(e.EndDate),
			Description: e.Description,
		})
	}
	v.Education = make([]educationView, 0, len(c.Education))
	for _, e := range c.Education {
		v.Education = append(v.Education, educationView{
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			Location:     e.Location,
			Start:        formatDate(e.StartDate),
			End:          formatEndDate(e.EndDate),
			Description:  e.Description,
		})
	}
	v.Skills = make([]skillView, 0, len(c.Skills))
	for _, s := range c.Skills {
		v.Skills = append(v.Skills, skillView{Name: s.Name, Level: s.Level, Steps: levelSteps(s.Level)})
	}
	v.Projects = make([]projectView, 0, len(c.Projects))
	for _, p := range c.Projects {
		v.Projects = append(v.Projects, projectView{Title: p.Title, Description: p.Description, Link: p.Link})
	}
	return v
}

// formatDate renders "Jan 2020". Values that do not parse are shown as
// entered.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return s
}

func formatEndDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return presentLabel
	}
	return formatDate(s)
}

// levelSteps returns MaxSkillLevel flags with the first level set.
func levelSteps(level int) []bool {
	steps := make([]bool, model.MaxSkillLevel)
	for i := range steps {
		steps[i] = i < level
	}
	return steps
}

func withScheme(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// linkLabel shortens a URL to its registrable domain, e.g.
// "https://www.blog.example.co.uk/about" becomes "example.co.uk".
func linkLabel(raw string) string {
	parsed, err := url.Parse(withScheme(raw))
	if err != nil {
		return raw
	}
	host := parsed.Hostname()
	if host == "" {
		return raw
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}
