package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
)

// formOps is what the form view drives: a FormController or the about form
type formOps interface {
	State() domain.FormState
	SetField(name, value string) error
	Pending() bool
}

type galleryOps interface {
	AddImage(url string) error
	RemoveImage(index int) error
	ReorderImages(order []string) error
}

type tagOps interface {
	AddTag(value string) bool
	RemoveTag(index int) error
	RemoveLastTag()
}

// panel is one dashboard tab
type panel interface {
	Title() string
	Refresh(ctx context.Context) error
	Display(query string) services.Display
	Editable() bool
	Deletable() bool
	Form() formOps
	OpenCreate(ctx context.Context) error
	OpenEdit(ctx context.Context, id int) (bool, error)
	Cancel()
	Submit(ctx context.Context) (string, error)
	Delete(ctx context.Context, id int) error
}

// collectionPanel adapts a FormController to a tab
type collectionPanel[T domain.Record] struct {
	title  string
	ctrl   *services.FormController[T]
	render func([]T) services.Display
}

func (p *collectionPanel[T]) Title() string { return p.title }

func (p *collectionPanel[T]) Refresh(ctx context.Context) error {
	_, err := p.ctrl.Refresh(ctx)
	return err
}

func (p *collectionPanel[T]) Display(query string) services.Display {
	return p.render(services.FuzzySearch(p.ctrl.Records(), query))
}

func (p *collectionPanel[T]) Editable() bool  { return true }
func (p *collectionPanel[T]) Deletable() bool { return true }
func (p *collectionPanel[T]) Form() formOps   { return p.ctrl }

func (p *collectionPanel[T]) OpenCreate(context.Context) error {
	p.ctrl.OpenForCreate()
	return nil
}

func (p *collectionPanel[T]) OpenEdit(ctx context.Context, id int) (bool, error) {
	return p.ctrl.OpenForEdit(ctx, id)
}

func (p *collectionPanel[T]) Cancel() { p.ctrl.Cancel() }

func (p *collectionPanel[T]) Submit(ctx context.Context) (string, error) {
	saved, err := p.ctrl.Submit(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved %s #%d: %s", p.ctrl.Kind().Singular(), saved.RecordID(), saved.Label()), nil
}

// Delete runs after the dashboard's own confirmation view
func (p *collectionPanel[T]) Delete(ctx context.Context, id int) error {
	return p.ctrl.Delete(ctx, id, func(string) bool { return true })
}

// aboutPanel edits the singleton about section; create and edit both load it
type aboutPanel struct {
	about *services.AboutService
}

func (p *aboutPanel) Title() string { return "About" }

func (p *aboutPanel) Refresh(ctx context.Context) error {
	_, err := p.about.Load(ctx)
	return err
}

func (p *aboutPanel) Display(string) services.Display {
	return services.RenderAbout(p.about.Current())
}

func (p *aboutPanel) Editable() bool  { return true }
func (p *aboutPanel) Deletable() bool { return false }
func (p *aboutPanel) Form() formOps   { return p.about }

func (p *aboutPanel) OpenCreate(ctx context.Context) error {
	return p.Refresh(ctx)
}

func (p *aboutPanel) OpenEdit(ctx context.Context, _ int) (bool, error) {
	return true, p.Refresh(ctx)
}

// Cancel keeps the edits; the next open reloads the saved section
func (p *aboutPanel) Cancel() {}

func (p *aboutPanel) Submit(ctx context.Context) (string, error) {
	if _, err := p.about.Submit(ctx); err != nil {
		return "", err
	}
	return "Saved about section", nil
}

func (p *aboutPanel) Delete(context.Context, int) error {
	return fmt.Errorf("the about section cannot be deleted")
}

// contactsPanel lists received messages; they can only be deleted
type contactsPanel struct {
	contacts *services.ContactService

	mu      sync.Mutex
	records []domain.Contact
}

func (p *contactsPanel) Title() string { return "Messages" }

func (p *contactsPanel) Refresh(ctx context.Context) error {
	records, err := p.contacts.List(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.records = records
	p.mu.Unlock()
	return nil
}

func (p *contactsPanel) Display(query string) services.Display {
	p.mu.Lock()
	records := append([]domain.Contact(nil), p.records...)
	p.mu.Unlock()
	return services.RenderContacts(services.FuzzySearch(records, query))
}

func (p *contactsPanel) Editable() bool  { return false }
func (p *contactsPanel) Deletable() bool { return true }
func (p *contactsPanel) Form() formOps   { return nil }

func (p *contactsPanel) OpenCreate(context.Context) error {
	return fmt.Errorf("messages arrive through the contact form")
}

func (p *contactsPanel) OpenEdit(context.Context, int) (bool, error) {
	return false, fmt.Errorf("messages cannot be edited")
}

func (p *contactsPanel) Cancel() {}

func (p *contactsPanel) Submit(context.Context) (string, error) {
	return "", fmt.Errorf("messages cannot be edited")
}

func (p *contactsPanel) Delete(ctx context.Context, id int) error {
	if err := p.contacts.Delete(ctx, id, func(string) bool { return true }); err != nil {
		return err
	}
	return p.Refresh(ctx)
}

// newPanels builds the dashboard tabs in display order
func newPanels(a *App) []panel {
	return []panel{
		&collectionPanel[domain.Project]{title: "Projects", ctrl: a.Projects, render: services.RenderProjects},
		&collectionPanel[domain.Experience]{title: "Experience", ctrl: a.Experience, render: services.RenderExperience},
		&collectionPanel[domain.Skill]{title: "Skills", ctrl: a.Skills, render: services.RenderSkills},
		&aboutPanel{about: a.About},
		&contactsPanel{contacts: a.Contacts},
	}
}
