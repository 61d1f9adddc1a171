package domain

import (
	"strings"
)

// Kind identifies one editable entity type
type Kind string

const (
	KindProject    Kind = "projects"
	KindExperience Kind = "experience"
	KindSkill      Kind = "skills"
	KindAbout      Kind = "about"
	KindContact    Kind = "contacts"
)

// Singular returns a human label for the kind ("project", "skill", ...)
func (k Kind) Singular() string {
	switch k {
	case KindProject:
		return "project"
	case KindExperience:
		return "experience entry"
	case KindSkill:
		return "skill"
	case KindAbout:
		return "about section"
	case KindContact:
		return "contact submission"
	default:
		return string(k)
	}
}

// Record is a persisted entity held transiently by the client
type Record interface {
	// RecordID returns the server-assigned id (0 until created)
	RecordID() int

	// Label returns the text used to identify the record in lists and searches
	Label() string
}

// Project is a portfolio project
type Project struct {
	ID           int      `json:"id,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	GithubURL    *string  `json:"github_url"`
	ExternalURL  *string  `json:"external_url"`
	ImageURL     *string  `json:"image_url"`  // legacy single image
	ImageURLs    []string `json:"image_urls"` // ordered gallery
	IsFeatured   bool     `json:"is_featured"`
	DisplayOrder int      `json:"display_order"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

func (p Project) RecordID() int { return p.ID }
func (p Project) Label() string { return p.Title }

// Images returns the gallery, falling back to the legacy single image
// for records written before galleries existed
func (p Project) Images() []string {
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs
	}
	if p.ImageURL != nil && *p.ImageURL != "" {
		return []string{*p.ImageURL}
	}
	return nil
}

// Experience is one work history entry
type Experience struct {
	ID               int      `json:"id,omitempty"`
	Company          string   `json:"company"`
	CompanyURL       *string  `json:"company_url"`
	Role             string   `json:"role"`
	DateRange        string   `json:"date_range"`
	Responsibilities []string `json:"responsibilities"`
	DisplayOrder     int      `json:"display_order"`
	CreatedAt        string   `json:"created_at,omitempty"`
}

func (e Experience) RecordID() int { return e.ID }
func (e Experience) Label() string { return e.Role + " @ " + e.Company }

// Skill is a named skill, optionally categorized
type Skill struct {
	ID        int     `json:"id,omitempty"`
	Name      string  `json:"name"`
	Category  *string `json:"category"`
	CreatedAt string  `json:"created_at,omitempty"`
}

func (s Skill) RecordID() int { return s.ID }
func (s Skill) Label() string { return s.Name }

// CategoryName returns the category or "" when unset
func (s Skill) CategoryName() string {
	if s.Category == nil {
		return ""
	}
	return strings.TrimSpace(*s.Category)
}

// About is the singleton about section
type About struct {
	ID             int     `json:"id,omitempty"`
	Bio            string  `json:"bio"`
	CurrentCompany *string `json:"current_company"`
	CurrentRole    *string `json:"current_role"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

func (a About) RecordID() int { return a.ID }
func (a About) Label() string { return "About" }

// IsEmpty reports whether the backend has no about section yet
func (a About) IsEmpty() bool {
	return a.ID == 0 && a.Bio == ""
}

// Contact is a stored contact form submission
type Contact struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Subject     *string `json:"subject"`
	Message     string  `json:"message"`
	IPAddress   *string `json:"ip_address"`
	EmailSent   bool    `json:"email_sent"`
	EmailSentAt *string `json:"email_sent_at"`
	CreatedAt   string  `json:"created_at"`
}

func (c Contact) RecordID() int { return c.ID }
func (c Contact) Label() string { return c.Name + " <" + c.Email + ">" }

// MessageResponse is the generic {message, success} reply
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// VerifyResponse is the reply of the credential check
type VerifyResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

// BackupInfo describes a snapshot produced by the backend
type BackupInfo struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	Filename    string  `json:"filename"`
	SizeKB      float64 `json:"size_kb"`
	DownloadURL string  `json:"download_url"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// BackupList is the reply of the backup listing
type BackupList struct {
	Success bool         `json:"success"`
	Backups []BackupInfo `json:"backups"`
}

// RestoreResult is the reply of a restore upload
type RestoreResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	BackupCreated  string `json:"backup_created"`
	IntegrityCheck string `json:"integrity_check"`
	BytesWritten   int    `json:"bytes_written"`
}

// SeedResult is the reply of the seed action
type SeedResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Output  string `json:"output"`
}

// HealthStatus is the reply of the health endpoint
type HealthStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database struct {
		Healthy bool   `json:"healthy"`
		Message string `json:"message"`
	} `json:"database"`
	Timestamp string `json:"timestamp"`
}

// StringPtr returns nil for blank strings, otherwise a pointer to the trimmed value
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or ""
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Keywords returns secondary search terms
func (p Project) Keywords() []string { return p.Technologies }

// Keywords returns secondary search terms
func (s Skill) Keywords() []string { return []string{s.CategoryName()} }

// Keywords returns secondary search terms
func (e Experience) Keywords() []string { return []string{e.Company, e.Role} }
