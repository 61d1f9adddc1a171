package services

import (
	"fmt"
	"strings"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// OtherCategory is the heading for skills without a category
const OtherCategory = "Other"

// Display is a presentation-neutral rendering of a collection
type Display struct {
	Title       string
	Placeholder string // set, and Groups empty, when there is nothing to show
	Groups      []DisplayGroup
}

// DisplayGroup is a headed run of items; Heading may be empty
type DisplayGroup struct {
	Heading string
	Items   []DisplayItem
}

// DisplayItem is one rendered record
type DisplayItem struct {
	ID      int
	Title   string
	Details []string
	Badges  []string
	Links   []string
}

// Empty reports whether the display shows its placeholder
func (d Display) Empty() bool {
	return len(d.Groups) == 0
}

// Count returns the number of rendered items
func (d Display) Count() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Items)
	}
	return n
}

// RenderProjects renders projects in backend order
func RenderProjects(projects []domain.Project) Display {
	d := Display{Title: "Projects", Placeholder: "No projects yet."}
	if len(projects) == 0 {
		return d
	}

	items := make([]DisplayItem, 0, len(projects))
	for _, p := range projects {
		item := DisplayItem{
			ID:      p.ID,
			Title:   p.Title,
			Details: []string{p.Description},
			Badges:  append([]string(nil), p.Technologies...),
		}
		if p.IsFeatured {
			item.Badges = append([]string{"featured"}, item.Badges...)
		}
		if images := p.Images(); len(images) > 0 {
			item.Details = append(item.Details, fmt.Sprintf("%d image(s)", len(images)))
		}
		item.Links = nonEmpty(domain.Deref(p.GithubURL), domain.Deref(p.ExternalURL))
		items = append(items, item)
	}
	d.Placeholder = ""
	d.Groups = []DisplayGroup{{Items: items}}
	return d
}

// RenderExperience renders experience entries in backend order
func RenderExperience(entries []domain.Experience) Display {
	d := Display{Title: "Experience", Placeholder: "No experience yet."}
	if len(entries) == 0 {
		return d
	}

	items := make([]DisplayItem, 0, len(entries))
	for _, e := range entries {
		details := []string{e.DateRange}
		for _, r := range e.Responsibilities {
			details = append(details, "• "+r)
		}
		items = append(items, DisplayItem{
			ID:      e.ID,
			Title:   e.Label(),
			Details: details,
			Links:   nonEmpty(domain.Deref(e.CompanyURL)),
		})
	}
	d.Placeholder = ""
	d.Groups = []DisplayGroup{{Items: items}}
	return d
}

// RenderSkills groups skills by category in first-seen order, with
// uncategorized skills last under "Other". Skills filed under "Other"
// explicitly share that group.
func RenderSkills(skills []domain.Skill) Display {
	d := Display{Title: "Skills", Placeholder: "No skills yet."}
	if len(skills) == 0 {
		return d
	}

	var order []string
	groups := make(map[string][]DisplayItem)
	var other []DisplayItem

	for _, s := range skills {
		item := DisplayItem{ID: s.ID, Title: s.Name}
		category := s.CategoryName()
		if category == "" || category == OtherCategory {
			other = append(other, item)
			continue
		}
		if _, seen := groups[category]; !seen {
			order = append(order, category)
		}
		groups[category] = append(groups[category], item)
	}

	for _, category := range order {
		d.Groups = append(d.Groups, DisplayGroup{Heading: category, Items: groups[category]})
	}
	if len(other) > 0 {
		d.Groups = append(d.Groups, DisplayGroup{Heading: OtherCategory, Items: other})
	}
	d.Placeholder = ""
	return d
}

// RenderContacts renders contact submissions in backend order
func RenderContacts(contacts []domain.Contact) Display {
	d := Display{Title: "Contact submissions", Placeholder: "No contact submissions yet."}
	if len(contacts) == 0 {
		return d
	}

	items := make([]DisplayItem, 0, len(contacts))
	for _, c := range contacts {
		title := c.Label()
		if subject := domain.Deref(c.Subject); subject != "" {
			title += " · " + subject
		}
		badges := []string{"email pending"}
		if c.EmailSent {
			badges = []string{"email sent"}
		}
		items = append(items, DisplayItem{
			ID:      c.ID,
			Title:   title,
			Details: []string{c.CreatedAt, strings.TrimSpace(c.Message)},
			Badges:  badges,
		})
	}
	d.Placeholder = ""
	d.Groups = []DisplayGroup{{Items: items}}
	return d
}

// RenderAbout renders the about section as a single item
func RenderAbout(about *domain.About) Display {
	d := Display{Title: "About", Placeholder: "No about section yet."}
	if about == nil || about.IsEmpty() {
		return d
	}

	var current string
	role, company := domain.Deref(about.CurrentRole), domain.Deref(about.CurrentCompany)
	switch {
	case role != "" && company != "":
		current = role + " @ " + company
	case role != "":
		current = role
	default:
		current = company
	}

	item := DisplayItem{ID: about.ID, Title: "About", Details: []string{about.Bio}}
	if current != "" {
		item.Badges = []string{current}
	}
	d.Placeholder = ""
	d.Groups = []DisplayGroup{{Items: []DisplayItem{item}}}
	return d
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
