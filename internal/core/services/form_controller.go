package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// EntityForm describes how one entity kind maps onto a FormState
type EntityForm[T domain.Record] interface {
	// Kind identifies the entity
	Kind() domain.Kind

	// NewState builds a Create-mode form with this kind's fields and owned lists
	NewState() *domain.FormState

	// Populate copies a record into a freshly reset form
	Populate(state *domain.FormState, record T) error

	// Check validates the owned lists and any cross-field rules
	Check(state *domain.FormState) error

	// Payload builds the request body from every editor
	Payload(state *domain.FormState) (any, error)
}

// Resetter is implemented by every form that loses its content on logout
type Resetter interface {
	Reset()
}

// FormController mirrors one remote collection in a single editing session.
// It is safe for concurrent use so background commands can drive it.
type FormController[T domain.Record] struct {
	form       EntityForm[T]
	collection ports.Collection[T]
	notifier   ports.Notifier
	logger     *log.Logger

	mu              sync.Mutex
	state           *domain.FormState
	records         []T
	pending         bool
	cancelVisible   bool
	scrollRequested bool
	onRefreshed     func([]T)
}

// ControllerOption configures a FormController
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	notifier ports.Notifier
	logger   *log.Logger
}

// WithNotifier sets where transient messages go
func WithNotifier(n ports.Notifier) ControllerOption {
	return func(o *controllerOptions) { o.notifier = n }
}

// WithLogger sets the logger for background failures
func WithLogger(l *log.Logger) ControllerOption {
	return func(o *controllerOptions) { o.logger = l }
}

// NewFormController creates a controller in Create mode
func NewFormController[T domain.Record](form EntityForm[T], collection ports.Collection[T], opts ...ControllerOption) *FormController[T] {
	o := controllerOptions{
		notifier: ports.NotifyFunc(func(string) {}),
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.notifier == nil {
		o.notifier = ports.NotifyFunc(func(string) {})
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}

	return &FormController[T]{
		form:       form,
		collection: collection,
		notifier:   o.notifier,
		logger:     o.logger,
		state:      form.NewState(),
	}
}

// Kind returns the entity kind this controller edits
func (c *FormController[T]) Kind() domain.Kind {
	return c.form.Kind()
}

// OnRefreshed registers a callback run after every successful re-fetch
func (c *FormController[T]) OnRefreshed(fn func([]T)) {
	c.mu.Lock()
	c.onRefreshed = fn
	c.mu.Unlock()
}

// OpenForCreate resets the form to Create defaults
func (c *FormController[T]) OpenForCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Cancel abandons the current edit
func (c *FormController[T]) Cancel() {
	c.OpenForCreate()
}

// Reset implements Resetter
func (c *FormController[T]) Reset() {
	c.OpenForCreate()
}

func (c *FormController[T]) resetLocked() {
	c.state.Reset()
	c.cancelVisible = false
	c.scrollRequested = false
}

// OpenForEdit re-fetches the collection and binds the form to id.
// It reports false without error when id is not in the fresh copy.
func (c *FormController[T]) OpenForEdit(ctx context.Context, id int) (bool, error) {
	c.mu.Lock()
	generation := c.state.Generation
	c.mu.Unlock()

	records, err := c.collection.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", c.form.Kind(), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = records
	if c.state.Generation != generation {
		return false, domain.ErrStaleResponse
	}

	record, ok := findRecord(records, id)
	if !ok {
		c.logger.Printf("%s %d not found, edit ignored", c.form.Kind().Singular(), id)
		return false, nil
	}

	binding, err := domain.EditBinding(id, record)
	if err != nil {
		return false, err
	}

	c.state.Reset()
	if err := c.form.Populate(c.state, record); err != nil {
		c.state.Reset()
		return false, fmt.Errorf("failed to populate %s %d: %w", c.form.Kind().Singular(), id, err)
	}
	c.state.Binding = binding
	c.cancelVisible = true
	c.scrollRequested = true
	return true, nil
}

// Submit validates the form and sends it: PUT when bound, POST otherwise.
// On success the form returns to Create mode and the collection is re-fetched.
// When the form was reset or rebound while the request was in flight, the
// saved record is returned with ErrStaleResponse and the form is left alone.
func (c *FormController[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return zero, domain.ErrSubmitPending
	}
	if err := c.form.Check(c.state); err != nil {
		c.mu.Unlock()
		return zero, err
	}
	if err := c.state.Validate(); err != nil {
		c.mu.Unlock()
		return zero, err
	}
	payload, err := c.form.Payload(c.state)
	if err != nil {
		c.mu.Unlock()
		return zero, err
	}
	id, bound := c.state.Binding.ID()
	generation := c.state.Generation
	c.pending = true
	c.mu.Unlock()

	var saved T
	if bound {
		saved, err = c.collection.Update(ctx, id, payload)
	} else {
		saved, err = c.collection.Create(ctx, payload)
	}

	c.mu.Lock()
	c.pending = false
	if err != nil {
		c.mu.Unlock()
		return zero, fmt.Errorf("failed to save %s: %w", c.form.Kind().Singular(), err)
	}
	stale := c.state.Generation != generation
	if stale {
		c.logger.Printf("%s saved after the form moved on; keeping current form", c.form.Kind().Singular())
	} else {
		c.resetLocked()
	}
	c.mu.Unlock()

	if _, err := c.Refresh(ctx); err != nil {
		c.logger.Printf("refresh after save failed: %v", err)
		c.notifier.Notify(fmt.Sprintf("Saved, but reloading %s failed: %v", c.form.Kind(), err))
	}
	if stale {
		return saved, domain.ErrStaleResponse
	}
	return saved, nil
}

// Delete removes a record after confirmation and re-fetches the collection.
// Deleting the bound record resets the form.
func (c *FormController[T]) Delete(ctx context.Context, id int, confirm ports.Confirmer) error {
	prompt := fmt.Sprintf("Delete %s %d?", c.form.Kind().Singular(), id)
	if confirm == nil || !confirm(prompt) {
		return domain.ErrNotConfirmed
	}

	if err := c.collection.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", c.form.Kind().Singular(), id, err)
	}

	c.mu.Lock()
	if boundID, ok := c.state.Binding.ID(); ok && boundID == id {
		c.resetLocked()
		c.mu.Unlock()
		c.notifier.Notify(fmt.Sprintf("%s %d was deleted; form reset", c.form.Kind().Singular(), id))
	} else {
		c.mu.Unlock()
	}

	if _, err := c.Refresh(ctx); err != nil {
		c.logger.Printf("refresh after delete failed: %v", err)
		c.notifier.Notify(fmt.Sprintf("Deleted, but reloading %s failed: %v", c.form.Kind(), err))
	}
	return nil
}

// Refresh re-fetches the collection
func (c *FormController[T]) Refresh(ctx context.Context) ([]T, error) {
	records, err := c.collection.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.form.Kind(), err)
	}

	c.mu.Lock()
	c.records = records
	hook := c.onRefreshed
	c.mu.Unlock()

	if hook != nil {
		hook(records)
	}
	return records, nil
}

// Records returns the last fetched collection
func (c *FormController[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.records...)
}

// SetField assigns a form field
func (c *FormController[T]) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Set(name, value)
}

// Field returns a form field value
func (c *FormController[T]) Field(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Get(name)
}

// State returns a copy of the form for rendering
func (c *FormController[T]) State() domain.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Mode returns Create or Edit
func (c *FormController[T]) Mode() domain.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Binding.Mode()
}

// BoundID returns the id being edited, if any
func (c *FormController[T]) BoundID() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Binding.ID()
}

// Pending reports whether a submit is in flight
func (c *FormController[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// CancelVisible reports whether the cancel control should be shown
func (c *FormController[T]) CancelVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelVisible
}

// ScrollRequested reports, once, that the form was just opened for edit
func (c *FormController[T]) ScrollRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	requested := c.scrollRequested
	c.scrollRequested = false
	return requested
}

// AddImage appends a gallery URL
func (c *FormController[T]) AddImage(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Images == nil {
		return fmt.Errorf("%s has no image gallery", c.form.Kind().Singular())
	}
	return c.state.Images.Add(url)
}

// RemoveImage drops the gallery URL at index
func (c *FormController[T]) RemoveImage(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Images == nil {
		return fmt.Errorf("%s has no image gallery", c.form.Kind().Singular())
	}
	return c.state.Images.Remove(index)
}

// ReorderImages replaces the gallery order with a permutation of it
func (c *FormController[T]) ReorderImages(order []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Images == nil {
		return fmt.Errorf("%s has no image gallery", c.form.Kind().Singular())
	}
	return c.state.Images.Reorder(order)
}

// ReplaceImages swaps the whole gallery, validating every URL first.
// The gallery is left untouched when any URL is rejected.
func (c *FormController[T]) ReplaceImages(urls []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Images == nil {
		return fmt.Errorf("%s has no image gallery", c.form.Kind().Singular())
	}
	next := &domain.ImageList{}
	for _, u := range urls {
		if err := next.Add(u); err != nil {
			return err
		}
	}
	c.state.Images.Load(next.URLs())
	return nil
}

// ReplaceTags swaps the whole tag list; blanks and duplicates are dropped
func (c *FormController[T]) ReplaceTags(values []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Tags == nil {
		return fmt.Errorf("%s has no tag list", c.form.Kind().Singular())
	}
	c.state.Tags.Load(values)
	return nil
}

// AddTag appends a tag, reporting whether the list changed
func (c *FormController[T]) AddTag(value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Tags == nil {
		return false
	}
	return c.state.Tags.Add(value)
}

// RemoveTag drops the tag at index
func (c *FormController[T]) RemoveTag(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Tags == nil {
		return fmt.Errorf("%s has no tag list", c.form.Kind().Singular())
	}
	return c.state.Tags.Remove(index)
}

// RemoveLastTag drops the newest tag
func (c *FormController[T]) RemoveLastTag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Tags != nil {
		c.state.Tags.RemoveLast()
	}
}

func findRecord[T domain.Record](records []T, id int) (T, bool) {
	for _, r := range records {
		if r.RecordID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}
