package site

import (
	"context"
	"fmt"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
)

// AboutReader is the public half of ports.AboutStore
type AboutReader interface {
	About(ctx context.Context) (*domain.About, error)
}

// Sources are the public collections the page is built from
type Sources struct {
	About      AboutReader
	Projects   ports.Collection[domain.Project]
	Experience ports.Collection[domain.Experience]
	Skills     ports.Collection[domain.Skill]
}

// Content is everything the public page shows
type Content struct {
	About      *domain.About
	Projects   services.Display
	Featured   []domain.Project
	Experience services.Display
	Skills     services.Display
}

// Load fetches every public collection. Any failure fails the whole page so
// visitors never see a half-rendered portfolio.
func (s Sources) Load(ctx context.Context) (*Content, error) {
	about, err := s.About.About(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load about: %w", err)
	}
	projects, err := s.Projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	experience, err := s.Experience.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load experience: %w", err)
	}
	skills, err := s.Skills.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	var featured []domain.Project
	for _, p := range projects {
		if p.IsFeatured {
			featured = append(featured, p)
		}
	}

	if about != nil && about.IsEmpty() {
		about = nil
	}
	return &Content{
		About:      about,
		Projects:   services.RenderProjects(projects),
		Featured:   featured,
		Experience: services.RenderExperience(experience),
		Skills:     services.RenderSkills(skills),
	}, nil
}
