package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// StatsService summarizes the portfolio content
type StatsService struct {
	projects   ports.Collection[domain.Project]
	experience ports.Collection[domain.Experience]
	skills     ports.Collection[domain.Skill]
	contacts   ports.Collection[domain.Contact] // nil when not logged in
}

// NewStatsService creates a new stats service; contacts may be nil
func NewStatsService(
	projects ports.Collection[domain.Project],
	experience ports.Collection[domain.Experience],
	skills ports.Collection[domain.Skill],
	contacts ports.Collection[domain.Contact],
) *StatsService {
	return &StatsService{
		projects:   projects,
		experience: experience,
		skills:     skills,
		contacts:   contacts,
	}
}

// Count is a label with a tally
type Count struct {
	Label string
	Value int
}

// StatsResponse is the content summary
type StatsResponse struct {
	Projects         int
	FeaturedProjects int
	Images           int
	Experience       int
	Skills           int
	Contacts         int
	ContactsKnown    bool
	SkillCategories  []Count // first-seen order, Other last
	Technologies     []Count // most used first
}

// Execute fetches every collection and tallies it
func (s *StatsService) Execute(ctx context.Context) (*StatsResponse, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	experience, err := s.experience.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list experience: %w", err)
	}
	skills, err := s.skills.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}

	resp := &StatsResponse{
		Projects:        len(projects),
		Experience:      len(experience),
		Skills:          len(skills),
		SkillCategories: CountSkillCategories(skills),
		Technologies:    CountTechnologies(projects),
	}
	for _, p := range projects {
		if p.IsFeatured {
			resp.FeaturedProjects++
		}
		resp.Images += len(p.Images())
	}

	if s.contacts != nil {
		contacts, err := s.contacts.List(ctx)
		switch {
		case err == nil:
			resp.Contacts = len(contacts)
			resp.ContactsKnown = true
		case domain.IsAuthError(err):
			// not logged in: leave contacts unknown
		default:
			return nil, fmt.Errorf("failed to list contacts: %w", err)
		}
	}
	return resp, nil
}

// CountSkillCategories tallies skills per category, grouped like RenderSkills
func CountSkillCategories(skills []domain.Skill) []Count {
	display := RenderSkills(skills)
	counts := make([]Count, 0, len(display.Groups))
	for _, g := range display.Groups {
		counts = append(counts, Count{Label: g.Heading, Value: len(g.Items)})
	}
	return counts
}

// CountTechnologies tallies technology use across projects, case-insensitively,
// keeping the first spelling seen
func CountTechnologies(projects []domain.Project) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, p := range projects {
		for _, tech := range p.Technologies {
			key := strings.ToLower(strings.TrimSpace(tech))
			if key == "" {
				continue
			}
			if i, ok := index[key]; ok {
				counts[i].Value++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, Count{Label: strings.TrimSpace(tech), Value: 1})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Value > counts[j].Value
	})
	return counts
}
