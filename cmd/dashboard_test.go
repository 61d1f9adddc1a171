package cmd

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamal-hamza/folio-cli/internal/adapters/api/apitest"
	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

var galleryURLs = []string{
	"https://img.example.com/one.png",
	"https://img.example.com/two.png",
	"https://img.example.com/three.png",
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newEditForm opens project #1 for edit and returns an editor focused on the gallery
func newEditForm(t *testing.T) (formEditor, *App, *apitest.Server) {
	t.Helper()
	a, srv := newTestApp(t, true)
	srv.SeedProjects(domain.Project{
		Title:        "Folio",
		Description:  "Portfolio admin",
		Technologies: []string{"Go"},
		ImageURLs:    galleryURLs,
	})

	found, err := a.Projects.OpenForEdit(context.Background(), 1)
	if err != nil || !found {
		t.Fatalf("OpenForEdit() = %v, %v", found, err)
	}
	f := newFormEditor(a.Projects, 100)
	// the gallery is the last slot
	f, _, _ = f.Update(keyPress("shift+tab"))
	if f.current().kind != slotGallery {
		t.Fatalf("focus = %+v, want gallery", f.current())
	}
	return f, a, srv
}

func TestFormEditor_KeyboardGrabReorders(t *testing.T) {
	f, a, _ := newEditForm(t)

	f, _, _ = f.Update(keyPress("space"))
	if !f.drag.Active() {
		t.Fatal("space did not grab the selected image")
	}
	f, _, _ = f.Update(keyPress("right"))

	// nothing is committed until the drop
	if got := a.Projects.State().Images.URLs(); !reflect.DeepEqual(got, galleryURLs) {
		t.Errorf("order changed before drop: %v", got)
	}
	if view := f.View(true); !strings.Contains(view, "1 two.png") {
		t.Errorf("preview not rendered, view:\n%s", view)
	}

	f, _, _ = f.Update(keyPress("space"))
	want := []string{galleryURLs[1], galleryURLs[0], galleryURLs[2]}
	if got := a.Projects.State().Images.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if f.selected != 1 {
		t.Errorf("selected = %d, want the dropped position 1", f.selected)
	}
}

func TestFormEditor_EscAbortsGrab(t *testing.T) {
	f, a, _ := newEditForm(t)

	f, _, _ = f.Update(keyPress("space"))
	f, _, _ = f.Update(keyPress("right"))
	f, action, _ := f.Update(keyPress("esc"))
	if action != formNone {
		t.Errorf("esc during a grab closed the form")
	}
	if f.drag.Active() {
		t.Error("grab still active")
	}
	if got := a.Projects.State().Images.URLs(); !reflect.DeepEqual(got, galleryURLs) {
		t.Errorf("order = %v, want unchanged", got)
	}

	_, action, _ = f.Update(keyPress("esc"))
	if action != formCancel {
		t.Errorf("second esc action = %v, want cancel", action)
	}
}

func TestFormEditor_MouseDragReorders(t *testing.T) {
	f, a, _ := newEditForm(t)

	f, _, _ = f.Update(tea.MouseMsg{X: thumbLeft + 1, Y: galleryRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !f.drag.Active() || !f.mouseDrag {
		t.Fatal("press on the first thumbnail did not start a drag")
	}

	// right half of the third thumbnail
	third := thumbLeft + 2*(thumbWidth+thumbGap)
	f, _, _ = f.Update(tea.MouseMsg{X: third + thumbWidth - 2, Y: galleryRow, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	f, _, _ = f.Update(tea.MouseMsg{X: third + thumbWidth - 2, Y: galleryRow, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	want := []string{galleryURLs[1], galleryURLs[2], galleryURLs[0]}
	if got := a.Projects.State().Images.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if f.drag.Active() || f.selected != 2 {
		t.Errorf("after release drag=%v selected=%d", f.drag.Active(), f.selected)
	}
}

func TestFormEditor_MouseOutsideStripIgnored(t *testing.T) {
	f, _, _ := newEditForm(t)

	f, _, _ = f.Update(tea.MouseMsg{X: thumbLeft + 1, Y: galleryRow + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if f.drag.Active() {
		t.Error("press below the strip started a drag")
	}
	f, _, _ = f.Update(tea.MouseMsg{X: 0, Y: galleryRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if f.drag.Active() {
		t.Error("press left of the strip started a drag")
	}
}

func TestFormEditor_GalleryAddRemove(t *testing.T) {
	f, a, _ := newEditForm(t)

	for _, r := range "https://img.example.com/four.png" {
		f, _, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	f, _, _ = f.Update(keyPress("enter"))
	urls := a.Projects.State().Images.URLs()
	if len(urls) != 4 || urls[3] != "https://img.example.com/four.png" {
		t.Fatalf("after add images = %v", urls)
	}
	if f.selected != 3 || f.image.Value() != "" {
		t.Errorf("selected=%d input=%q", f.selected, f.image.Value())
	}

	f, _, _ = f.Update(keyPress("backspace"))
	if got := a.Projects.State().Images.URLs(); !reflect.DeepEqual(got, galleryURLs) {
		t.Errorf("after remove images = %v", got)
	}
	if f.selected != 2 {
		t.Errorf("selected = %d, want 2", f.selected)
	}
}

func TestFormEditor_Tags(t *testing.T) {
	f, a, _ := newEditForm(t)
	f, _, _ = f.Update(keyPress("shift+tab"))
	if f.current().kind != slotTags {
		t.Fatalf("focus = %+v, want tags", f.current())
	}

	f, _, _ = f.Update(keyPress("SQL"))
	f, _, _ = f.Update(keyPress("enter"))
	if got := a.Projects.State().Tags.Values(); !reflect.DeepEqual(got, []string{"Go", "SQL"}) {
		t.Errorf("tags = %v", got)
	}

	f, _, _ = f.Update(keyPress("Go"))
	f, _, cmd := f.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("duplicate tag produced no warning")
	}
	if msg, ok := cmd().(statusMsg); !ok || !strings.Contains(msg.message, "already") {
		t.Errorf("warning = %#v", msg)
	}

	f, _, _ = f.Update(keyPress("backspace"))
	if got := a.Projects.State().Tags.Values(); !reflect.DeepEqual(got, []string{"Go"}) {
		t.Errorf("tags after backspace = %v", got)
	}
}

func TestFormEditor_FieldsWriteThrough(t *testing.T) {
	a, _ := newTestApp(t, true)
	a.Projects.OpenForCreate()
	f := newFormEditor(a.Projects, 100)

	f, _, _ = f.Update(keyPress("Hello"))
	if got := a.Projects.Field("title"); got != "Hello" {
		t.Errorf("title = %q", got)
	}

	// enter on a single line field moves on; featured is the fifth field
	f, _, _ = f.Update(keyPress("enter"))
	for i := 0; i < 3; i++ {
		f, _, _ = f.Update(keyPress("tab"))
	}
	f, _, _ = f.Update(keyPress("space"))
	if got := a.Projects.Field("is_featured"); got != "true" {
		t.Errorf("is_featured = %q", got)
	}

	_, action, _ := f.Update(keyPress("ctrl+s"))
	if action != formSubmit {
		t.Errorf("ctrl+s action = %v", action)
	}
}

func TestThumbAt(t *testing.T) {
	tests := []struct {
		x, count int
		index    int
		left     int
		ok       bool
	}{
		{x: 0, count: 3},
		{x: thumbLeft, count: 3, index: 0, left: thumbLeft, ok: true},
		{x: thumbLeft + thumbWidth - 1, count: 3, index: 0, left: thumbLeft, ok: true},
		{x: thumbLeft + thumbWidth, count: 3}, // gap
		{x: thumbLeft + thumbWidth + thumbGap, count: 3, index: 1, left: thumbLeft + thumbWidth + thumbGap, ok: true},
		{x: thumbLeft + 3*(thumbWidth+thumbGap), count: 3}, // past the last
	}
	for _, tt := range tests {
		index, left, ok := thumbAt(tt.x, tt.count)
		if ok != tt.ok || (ok && (index != tt.index || left != tt.left)) {
			t.Errorf("thumbAt(%d, %d) = %d, %d, %v; want %d, %d, %v", tt.x, tt.count, index, left, ok, tt.index, tt.left, tt.ok)
		}
	}
}

func newTestDashboard(t *testing.T, loggedIn bool) (dashboardModel, *App, *apitest.Server) {
	t.Helper()
	a, srv := newTestApp(t, loggedIn)
	m := newDashboardModel(context.Background(), a)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(dashboardModel), a, srv
}

func update(t *testing.T, m dashboardModel, msg tea.Msg) (dashboardModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	return model.(dashboardModel), cmd
}

func TestDashboard_StartsAtLoginWhenLoggedOut(t *testing.T) {
	m, _, _ := newTestDashboard(t, false)
	if m.mode != modeLogin {
		t.Errorf("mode = %v, want login", m.mode)
	}
	if v := m.View(); !strings.Contains(v, "Folio login") {
		t.Errorf("login view missing title:\n%s", v)
	}
}

func TestDashboard_TabSwitching(t *testing.T) {
	m, _, _ := newTestDashboard(t, true)

	m, _ = update(t, m, keyPress("3"))
	if m.tab != 2 {
		t.Errorf("tab after '3' = %d", m.tab)
	}
	m, _ = update(t, m, keyPress("l"))
	if m.tab != 3 {
		t.Errorf("tab after 'l' = %d", m.tab)
	}
	m, _ = update(t, m, keyPress("tab"))
	m, _ = update(t, m, keyPress("tab"))
	if m.tab != 0 {
		t.Errorf("tab did not wrap, got %d", m.tab)
	}
	m, _ = update(t, m, keyPress("h"))
	if m.tab != len(m.panels)-1 {
		t.Errorf("tab after 'h' from first = %d", m.tab)
	}
	m, _ = update(t, m, keyPress("9"))
	if m.tab != len(m.panels)-1 {
		t.Errorf("out of range digit moved the tab to %d", m.tab)
	}
}

func TestDashboard_ConfirmDelete(t *testing.T) {
	m, _, srv := newTestDashboard(t, true)
	srv.SeedProjects(
		domain.Project{Title: "Alpha", Technologies: []string{"Go"}},
		domain.Project{Title: "Beta", Technologies: []string{"Go"}},
	)
	m, _ = update(t, m, m.refreshCmd(0)())
	m, _ = update(t, m, keyPress("j"))

	m, _ = update(t, m, keyPress("d"))
	if m.mode != modeConfirmDelete || m.deleteTarget == nil || m.deleteTarget.Title != "Beta" {
		t.Fatalf("mode=%v target=%+v", m.mode, m.deleteTarget)
	}

	// n cancels
	m, _ = update(t, m, keyPress("n"))
	if m.mode != modeList || len(srv.Projects()) != 2 {
		t.Fatalf("cancel deleted or stayed in confirm: mode=%v", m.mode)
	}

	m, _ = update(t, m, keyPress("d"))
	m, cmd := update(t, m, keyPress("y"))
	if cmd == nil {
		t.Fatal("confirm returned no command")
	}
	m, _ = update(t, m, cmd())

	if got := srv.Projects(); len(got) != 1 || got[0].Title != "Alpha" {
		t.Errorf("backend projects = %+v", got)
	}
	if items := m.items(); len(items) != 1 || m.cursor != 0 {
		t.Errorf("items=%d cursor=%d", len(items), m.cursor)
	}
	if !strings.Contains(m.message, "Deleted: Beta") {
		t.Errorf("message = %q", m.message)
	}
}

func TestDashboard_AuthErrorShowsLogin(t *testing.T) {
	m, _, _ := newTestDashboard(t, true)
	m.loginUser.SetValue(apitest.Username)
	m, _ = update(t, m, refreshedMsg{tab: 0, err: &domain.AuthError{Reason: "Invalid credentials"}})
	if m.mode != modeLogin {
		t.Errorf("mode = %v, want login", m.mode)
	}
	if m.loginFocus != 1 {
		t.Errorf("remembered username should focus the password, focus=%d", m.loginFocus)
	}
}

func TestDashboard_LoginFlow(t *testing.T) {
	m, a, _ := newTestDashboard(t, false)

	m.loginUser.SetValue(apitest.Username)
	m.loginFocus = 1
	m.focusLogin()
	m.loginPass.SetValue(apitest.Password)

	m, cmd := update(t, m, keyPress("enter"))
	if !m.loggingIn || cmd == nil {
		t.Fatal("enter on password did not start a login")
	}
	m, _ = update(t, m, m.loginCmd()())
	if m.mode != modeList {
		t.Errorf("mode = %v after login", m.mode)
	}
	if !a.Auth.Status().LoggedIn {
		t.Error("not logged in")
	}
}

func TestDashboard_EditOpensForm(t *testing.T) {
	m, _, srv := newTestDashboard(t, true)
	srv.SeedProjects(domain.Project{Title: "Alpha", Description: "d", Technologies: []string{"Go"}, ImageURLs: galleryURLs})
	m, _ = update(t, m, m.refreshCmd(0)())

	m, cmd := update(t, m, keyPress("e"))
	if cmd == nil {
		t.Fatal("edit returned no command")
	}
	m, _ = update(t, m, cmd())
	if m.mode != modeForm {
		t.Fatalf("mode = %v, want form", m.mode)
	}
	if v := m.View(); !strings.Contains(v, "Editing project #1") || !strings.Contains(v, "esc cancel edit") {
		t.Errorf("form view:\n%s", v)
	}

	// the strip sits on the row the mouse handler hit-tests
	lines := strings.Split(m.View(), "\n")
	if len(lines) <= galleryRow || !strings.Contains(lines[galleryRow], "one.png") {
		t.Errorf("gallery strip not on row %d", galleryRow)
	}

	m, _ = update(t, m, keyPress("esc"))
	if m.mode != modeList {
		t.Errorf("esc left mode %v", m.mode)
	}
}

// collect runs cmd and any batched commands, returning the messages they produce
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, collect(c)...)
	}
	return msgs
}

func TestDashboard_LateSaveKeepsReopenedForm(t *testing.T) {
	m, a, srv := newTestDashboard(t, true)
	srv.SeedProjects(domain.Project{Title: "Alpha", Description: "d", Technologies: []string{"Go"}})
	m, _ = update(t, m, m.refreshCmd(0)())
	m, cmd := update(t, m, keyPress("e"))
	m, _ = update(t, m, cmd())
	if m.mode != modeForm {
		t.Fatalf("mode = %v, want form", m.mode)
	}

	release := srv.Hold("PUT", "/api/admin/projects/1")
	m, cmd = update(t, m, keyPress("ctrl+s"))
	done := make(chan []tea.Msg, 1)
	go func() { done <- collect(cmd) }()

	deadline := time.Now().Add(5 * time.Second)
	for !a.Projects.Pending() {
		if time.Now().After(deadline) {
			close(release)
			t.Fatal("save never started")
		}
		time.Sleep(time.Millisecond)
	}

	// cancel the pending save's form and open the record again
	m, _ = update(t, m, keyPress("esc"))
	if m.mode != modeList {
		t.Fatalf("esc left mode %v", m.mode)
	}
	m, cmd = update(t, m, keyPress("e"))
	m, _ = update(t, m, cmd())
	if m.mode != modeForm {
		t.Fatalf("reopen mode = %v, want form", m.mode)
	}

	close(release)
	var submitted *submittedMsg
	for _, msg := range <-done {
		if sm, ok := msg.(submittedMsg); ok {
			submitted = &sm
		}
	}
	if submitted == nil {
		t.Fatal("save produced no submittedMsg")
	}
	if !errors.Is(submitted.err, domain.ErrStaleResponse) {
		t.Errorf("late save err = %v, want ErrStaleResponse", submitted.err)
	}

	m, _ = update(t, m, *submitted)
	if m.mode != modeForm {
		t.Errorf("late save closed the reopened form: mode = %v", m.mode)
	}
	if id, ok := a.Projects.State().Binding.ID(); !ok || id != 1 {
		t.Errorf("form binding = %d, %v; want #1", id, ok)
	}
	if !strings.Contains(m.message, "moved on") {
		t.Errorf("message = %q", m.message)
	}
}
