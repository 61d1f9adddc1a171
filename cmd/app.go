package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/kamal-hamza/folio-cli/internal/adapters/api"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/config"
)

// App holds every wired component of one folio run
type App struct {
	Config   *config.Config
	Settings *services.SettingsService
	Logger   *log.Logger
	Session  ports.SessionStore
	Client   *api.Client

	Auth       *services.AuthService
	Projects   *services.FormController[domain.Project]
	Experience *services.FormController[domain.Experience]
	Skills     *services.FormController[domain.Skill]
	About      *services.AboutService
	Contacts   *services.ContactService
	Backups    *services.BackupService
	Stats      *services.StatsService

	ProjectSearch    *services.SearchService[domain.Project]
	ExperienceSearch *services.SearchService[domain.Experience]
	SkillSearch      *services.SearchService[domain.Skill]
	ContactSearch    *services.SearchService[domain.Contact]

	APISource services.URLSource
}

// AppOptions are the inputs NewApp needs
type AppOptions struct {
	Config     *config.Config
	ConfigPath string
	APIFlag    string
	Session    ports.SessionStore
	BackupDir  string
	Logger     *log.Logger
	Notifier   ports.Notifier
}

// NewApp resolves the backend and wires services around one gateway
func NewApp(opts AppOptions) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = ports.NotifyFunc(func(msg string) { logger.Print(msg) })
	}

	settings := services.NewSettingsService(opts.Config, opts.ConfigPath)
	apiURL, source, err := settings.ResolveAPIURL(opts.APIFlag)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(apiURL, opts.Session,
		api.WithPublicTimeout(opts.Config.PublicTimeout()),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	projects := api.Projects(client)
	experience := api.Experience(client)
	skills := api.Skills(client)
	contacts := api.Contacts(client)

	controllerOpts := []services.ControllerOption{
		services.WithNotifier(notifier),
		services.WithLogger(logger),
	}

	a := &App{
		Config:   opts.Config,
		Settings: settings,
		Logger:   logger,
		Session:  opts.Session,
		Client:   client,

		Auth:       services.NewAuthService(opts.Session, client, logger),
		Projects:   services.NewFormController[domain.Project](services.ProjectForm{}, projects, controllerOpts...),
		Experience: services.NewFormController[domain.Experience](services.ExperienceForm{}, experience, controllerOpts...),
		Skills:     services.NewFormController[domain.Skill](services.SkillForm{}, skills, controllerOpts...),
		About:      services.NewAboutService(client),
		Contacts:   services.NewContactService(client, contacts),
		Backups:    services.NewBackupService(client, opts.BackupDir),
		Stats:      services.NewStatsService(projects, experience, skills, contacts),

		ProjectSearch:    services.NewSearchService[domain.Project](projects),
		ExperienceSearch: services.NewSearchService[domain.Experience](experience),
		SkillSearch:      services.NewSearchService[domain.Skill](skills),
		ContactSearch:    services.NewSearchService[domain.Contact](contacts),

		APISource: source,
	}

	a.Auth.Track(a.Projects, a.Experience, a.Skills, a.About)
	client.OnUnauthorized(a.Auth.HandleUnauthorized)
	return a, nil
}

// Retarget points the gateway at whatever backend the settings now resolve to
func (a *App) Retarget(flag string) (string, error) {
	apiURL, source, err := a.Settings.ResolveAPIURL(flag)
	if err != nil {
		return "", err
	}
	if err := a.Client.SetBaseURL(apiURL); err != nil {
		return "", err
	}
	a.APISource = source
	return apiURL, nil
}
