package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// Gateway defines the port for authenticated calls to the backend
type Gateway interface {
	// Call sends a request and decodes a JSON reply into out (which may be nil).
	// body is JSON-encoded unless it is a raw/multipart body.
	Call(ctx context.Context, method, endpoint string, body any, out any) error
}

// Collection defines the port for one remote entity collection
type Collection[T domain.Record] interface {
	// List fetches the whole collection in backend order
	List(ctx context.Context) ([]T, error)

	// Create posts a new record and returns what the backend stored
	Create(ctx context.Context, payload any) (T, error)

	// Update replaces the fields of the record with the given id
	Update(ctx context.Context, id int, payload any) (T, error)

	// Delete removes the record with the given id
	Delete(ctx context.Context, id int) error
}

// SessionStore defines the port for holding the Basic-Auth credential
type SessionStore interface {
	// Token returns the held credential, if any
	Token() (string, bool)

	// Username returns the user the credential belongs to, if known
	Username() string

	// Save stores a credential for the rest of the session
	Save(username, token string) error

	// Clear forgets the credential
	Clear() error
}

// Notifier defines the port for transient user notifications
type Notifier interface {
	// Notify reports a non-fatal event to the user
	Notify(message string)
}

// Confirmer defines the port for asking the user to confirm a destructive action
type Confirmer func(prompt string) bool

// NotifyFunc adapts a function to the Notifier port
type NotifyFunc func(message string)

func (f NotifyFunc) Notify(message string) { f(message) }

// AboutStore defines the port for the singleton about section
type AboutStore interface {
	About(ctx context.Context) (*domain.About, error)
	SaveAbout(ctx context.Context, payload any) (*domain.About, error)
}

// Verifier defines the port for checking the held credential
type Verifier interface {
	Verify(ctx context.Context) (*domain.VerifyResponse, error)
}

// ContactSink defines the port for public contact submissions
type ContactSink interface {
	SubmitContact(ctx context.Context, req domain.ContactRequest) (*domain.MessageResponse, error)
}

// BackupStore defines the port for server-side snapshots
type BackupStore interface {
	Backup(ctx context.Context) (*domain.BackupInfo, error)
	Backups(ctx context.Context) ([]domain.BackupInfo, error)
	DownloadBackup(ctx context.Context, filename string, w io.Writer) (int64, error)
	Restore(ctx context.Context, filename string, content []byte) (*domain.RestoreResult, error)
	Seed(ctx context.Context) (*domain.SeedResult, error)
}

// VisitStore defines the port for the public site's visitor counter
type VisitStore interface {
	// Record counts one page view for a hashed visitor
	Record(ctx context.Context, visitorHash, path string) error

	// Summary returns total views and distinct visitors
	Summary(ctx context.Context) (views, visitors int, err error)
}
