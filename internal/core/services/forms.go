package services

import (
	"strconv"
	"strings"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// ProjectPayload is the body sent for project create/update.
// ImageURL mirrors the first gallery entry for older readers; both image
// fields are null when the gallery is empty.
type ProjectPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	GithubURL    *string  `json:"github_url"`
	ExternalURL  *string  `json:"external_url"`
	ImageURL     *string  `json:"image_url"`
	ImageURLs    []string `json:"image_urls"`
	IsFeatured   bool     `json:"is_featured"`
	DisplayOrder int      `json:"display_order"`
}

// ProjectForm maps projects onto a FormState with a gallery and technology tags
type ProjectForm struct{}

func (ProjectForm) Kind() domain.Kind { return domain.KindProject }

func (ProjectForm) NewState() *domain.FormState {
	return domain.NewFormState(domain.KindProject, []domain.FieldSpec{
		{Name: "title", Label: "Title", Kind: domain.FieldText, Required: true, MaxLen: 200},
		{Name: "description", Label: "Description", Kind: domain.FieldMultiline, Required: true, MaxLen: 2000},
		{Name: "github_url", Label: "GitHub URL", Kind: domain.FieldURL},
		{Name: "external_url", Label: "Live URL", Kind: domain.FieldURL},
		{Name: "is_featured", Label: "Featured", Kind: domain.FieldBool, Default: "false"},
		{Name: "display_order", Label: "Display order", Kind: domain.FieldInt, Default: "0"},
	}, true, true)
}

func (ProjectForm) Populate(s *domain.FormState, p domain.Project) error {
	values := map[string]string{
		"title":         p.Title,
		"description":   p.Description,
		"github_url":    domain.Deref(p.GithubURL),
		"external_url":  domain.Deref(p.ExternalURL),
		"is_featured":   strconv.FormatBool(p.IsFeatured),
		"display_order": strconv.Itoa(p.DisplayOrder),
	}
	if err := setAll(s, values); err != nil {
		return err
	}
	s.Images.Load(p.Images())
	s.Tags.Load(p.Technologies)
	return nil
}

func (ProjectForm) Check(s *domain.FormState) error {
	if s.Tags.Len() == 0 {
		return domain.NewValidationError("technologies", "add at least one technology")
	}
	return nil
}

func (ProjectForm) Payload(s *domain.FormState) (any, error) {
	order, err := s.Int("display_order")
	if err != nil {
		return nil, err
	}

	payload := ProjectPayload{
		Title:        s.Text("title"),
		Description:  s.Text("description"),
		Technologies: s.Tags.Values(),
		GithubURL:    domain.StringPtr(s.Text("github_url")),
		ExternalURL:  domain.StringPtr(s.Text("external_url")),
		IsFeatured:   s.Bool("is_featured"),
		DisplayOrder: order,
	}
	if first, ok := s.Images.First(); ok {
		payload.ImageURL = &first
		payload.ImageURLs = s.Images.URLs()
	}
	return payload, nil
}

// ExperiencePayload is the body sent for experience create/update
type ExperiencePayload struct {
	Company          string   `json:"company"`
	CompanyURL       *string  `json:"company_url"`
	Role             string   `json:"role"`
	DateRange        string   `json:"date_range"`
	Responsibilities []string `json:"responsibilities"`
	DisplayOrder     int      `json:"display_order"`
}

// ExperienceForm maps experience entries; responsibilities are one per line
type ExperienceForm struct{}

func (ExperienceForm) Kind() domain.Kind { return domain.KindExperience }

func (ExperienceForm) NewState() *domain.FormState {
	return domain.NewFormState(domain.KindExperience, []domain.FieldSpec{
		{Name: "company", Label: "Company", Kind: domain.FieldText, Required: true, MaxLen: 200},
		{Name: "company_url", Label: "Company URL", Kind: domain.FieldURL},
		{Name: "role", Label: "Role", Kind: domain.FieldText, Required: true, MaxLen: 200},
		{Name: "date_range", Label: "Dates", Kind: domain.FieldText, Required: true, MaxLen: 100},
		{Name: "responsibilities", Label: "Responsibilities (one per line)", Kind: domain.FieldMultiline},
		{Name: "display_order", Label: "Display order", Kind: domain.FieldInt, Default: "0"},
	}, false, false)
}

func (ExperienceForm) Populate(s *domain.FormState, e domain.Experience) error {
	return setAll(s, map[string]string{
		"company":          e.Company,
		"company_url":      domain.Deref(e.CompanyURL),
		"role":             e.Role,
		"date_range":       e.DateRange,
		"responsibilities": strings.Join(e.Responsibilities, "\n"),
		"display_order":    strconv.Itoa(e.DisplayOrder),
	})
}

func (ExperienceForm) Check(s *domain.FormState) error {
	if len(s.Lines("responsibilities")) == 0 {
		return domain.NewValidationError("responsibilities", "add at least one responsibility")
	}
	return nil
}

func (ExperienceForm) Payload(s *domain.FormState) (any, error) {
	order, err := s.Int("display_order")
	if err != nil {
		return nil, err
	}
	return ExperiencePayload{
		Company:          s.Text("company"),
		CompanyURL:       domain.StringPtr(s.Text("company_url")),
		Role:             s.Text("role"),
		DateRange:        s.Text("date_range"),
		Responsibilities: s.Lines("responsibilities"),
		DisplayOrder:     order,
	}, nil
}

// SkillPayload is the body sent for skill create/update
type SkillPayload struct {
	Name     string  `json:"name"`
	Category *string `json:"category"`
}

// SkillForm maps skills
type SkillForm struct{}

func (SkillForm) Kind() domain.Kind { return domain.KindSkill }

func (SkillForm) NewState() *domain.FormState {
	return domain.NewFormState(domain.KindSkill, []domain.FieldSpec{
		{Name: "name", Label: "Name", Kind: domain.FieldText, Required: true, MaxLen: 100},
		{Name: "category", Label: "Category", Kind: domain.FieldText, MaxLen: 100},
	}, false, false)
}

func (SkillForm) Populate(s *domain.FormState, sk domain.Skill) error {
	return setAll(s, map[string]string{
		"name":     sk.Name,
		"category": sk.CategoryName(),
	})
}

func (SkillForm) Check(*domain.FormState) error { return nil }

func (SkillForm) Payload(s *domain.FormState) (any, error) {
	return SkillPayload{
		Name:     s.Text("name"),
		Category: domain.StringPtr(s.Text("category")),
	}, nil
}

// AboutPayload is the body of the about upsert
type AboutPayload struct {
	Bio            string  `json:"bio"`
	CurrentCompany *string `json:"current_company"`
	CurrentRole    *string `json:"current_role"`
}

// AboutForm maps the singleton about section
type AboutForm struct{}

func (AboutForm) Kind() domain.Kind { return domain.KindAbout }

func (AboutForm) NewState() *domain.FormState {
	return domain.NewFormState(domain.KindAbout, []domain.FieldSpec{
		{Name: "bio", Label: "Bio", Kind: domain.FieldMultiline, Required: true, MaxLen: 5000},
		{Name: "current_company", Label: "Current company", Kind: domain.FieldText, MaxLen: 200},
		{Name: "current_role", Label: "Current role", Kind: domain.FieldText, MaxLen: 200},
	}, false, false)
}

func (AboutForm) Populate(s *domain.FormState, a domain.About) error {
	return setAll(s, map[string]string{
		"bio":             a.Bio,
		"current_company": domain.Deref(a.CurrentCompany),
		"current_role":    domain.Deref(a.CurrentRole),
	})
}

func (AboutForm) Check(*domain.FormState) error { return nil }

func (AboutForm) Payload(s *domain.FormState) (any, error) {
	return AboutPayload{
		Bio:            s.Text("bio"),
		CurrentCompany: domain.StringPtr(s.Text("current_company")),
		CurrentRole:    domain.StringPtr(s.Text("current_role")),
	}, nil
}

func setAll(s *domain.FormState, values map[string]string) error {
	for name, value := range values {
		if err := s.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
