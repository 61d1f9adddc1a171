package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Launch interactive dashboard (alias: dash)",
	Long: `Launch a full-screen dashboard for editing the portfolio.

Keyboard Shortcuts:
  Navigation:
    ↑/k ↓/j     Move up / down
    ←/h →/l     Previous / next tab
    1-5         Jump to tab
    g / G       Top / bottom

  Actions:
    Enter/e     Edit selected
    n           New record
    d           Delete selected
    r           Reload tab
    /           Search
    L           Log out

  Form:
    Tab         Next field
    Ctrl+S      Save
    Esc         Cancel edit
    Space       Grab an image, ←/→ to move it, Space to drop
    Ctrl+Y      Copy image URL
    Mouse       Drag images to reorder

  General:
    ?           Show help
    q           Quit dashboard`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(getContext())
	defer cancel()

	m := newDashboardModel(ctx, app)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	// Controller notices become status lines instead of stdout writes
	previous := notify
	notify = func(msg string) { p.Send(statusMsg{message: msg, style: ui.StyleInfo}) }
	defer func() { notify = previous }()

	if err := watchConfig(ctx, app.Settings.ConfigPath(), app.Logger, func() { p.Send(configChangedMsg{}) }); err != nil {
		app.Logger.Printf("config reload disabled: %v", err)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

// Dashboard view modes
type viewMode int

const (
	modeLogin viewMode = iota
	modeList
	modeSearch
	modeForm
	modeHelp
	modeConfirmDelete
)

// Dashboard model
type dashboardModel struct {
	ctx    context.Context
	app    *App
	panels []panel

	tab    int
	cursor int
	offset int
	mode   viewMode

	searchInput textinput.Model
	form        formEditor

	loginUser  textinput.Model
	loginPass  textinput.Model
	loginFocus int
	loggingIn  bool
	spinner    spinner.Model

	deleteTarget *services.DisplayItem

	help          help.Model
	keys          keyMap
	width         int
	height        int
	ready         bool
	message       string // Status message
	messageStyle  lipgloss.Style
	messageExpiry time.Time
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Edit    key.Binding
	New     key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Search  key.Binding
	Logout  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Edit, k.New, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.NextTab, k.PrevTab},
		{k.Edit, k.New, k.Delete, k.Reload},
		{k.Search, k.Logout, k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "bottom"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("right", "l", "tab"),
		key.WithHelp("→/l", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("left", "h", "shift+tab"),
		key.WithHelp("←/h", "previous tab"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("enter/e", "edit"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "log out"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type configChangedMsg struct{}

type refreshedMsg struct {
	tab int
	err error
}

type formOpenedMsg struct {
	tab   int
	found bool
	err   error
}

type submittedMsg struct {
	tab     int
	message string
	err     error
}

type deletedMsg struct {
	tab   int
	title string
	err   error
}

type loginResultMsg struct {
	username string
	err      error
}

func newDashboardModel(ctx context.Context, a *App) dashboardModel {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100
	search.Width = 50

	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 100
	user.Width = 30
	if a.Config != nil {
		user.SetValue(a.Config.Username)
	}

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.StylePrimary

	m := dashboardModel{
		ctx:         ctx,
		app:         a,
		panels:      newPanels(a),
		mode:        modeList,
		searchInput: search,
		loginUser:   user,
		loginPass:   pass,
		spinner:     sp,
		help:        help.New(),
		keys:        keys,
	}
	if !a.Auth.Status().LoggedIn {
		m.enterLogin()
	}
	return m
}

func (m *dashboardModel) enterLogin() {
	m.mode = modeLogin
	m.loginPass.SetValue("")
	m.loggingIn = false
	if m.loginUser.Value() == "" {
		m.loginFocus = 0
	} else {
		m.loginFocus = 1
	}
	m.focusLogin()
}

func (m *dashboardModel) focusLogin() {
	if m.loginFocus == 0 {
		m.loginUser.Focus()
		m.loginPass.Blur()
	} else {
		m.loginUser.Blur()
		m.loginPass.Focus()
	}
}

func (m dashboardModel) Init() tea.Cmd {
	if m.mode == modeLogin {
		return textinput.Blink
	}
	return m.refreshAll()
}

func (m dashboardModel) refreshAll() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.panels))
	for i := range m.panels {
		cmds[i] = m.refreshCmd(i)
	}
	return tea.Batch(cmds...)
}

func (m dashboardModel) refreshCmd(tab int) tea.Cmd {
	p := m.panels[tab]
	ctx := m.ctx
	return func() tea.Msg {
		return refreshedMsg{tab: tab, err: p.Refresh(ctx)}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific key bindings
		switch m.mode {
		case modeLogin:
			return m.updateLogin(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeHelp:
			return m.updateHelp(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}

	case tea.MouseMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loggingIn {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMsg:
		return m.status(msg.message, msg.style)

	case clearMessageMsg:
		if !time.Now().Before(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case loginResultMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.loginPass.SetValue("")
			m.loginFocus = 1
			m.focusLogin()
			return m.status(describeError(msg.err), ui.StyleError)
		}
		m.mode = modeList
		m.loginUser.Blur()
		m.loginPass.Blur()
		status := m.setStatus("Logged in as "+msg.username, ui.StyleSuccess)
		return m, tea.Batch(status, m.refreshAll())

	case refreshedMsg:
		if msg.err != nil {
			if msg.tab != m.tab && !domain.IsAuthError(msg.err) {
				return m, nil
			}
			return m.fail(msg.err)
		}
		m.clampCursor()
		return m, nil

	case formOpenedMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		if !msg.found {
			status := m.setStatus("That record no longer exists", ui.StyleWarning)
			return m, tea.Batch(status, m.refreshCmd(msg.tab))
		}
		if msg.tab != m.tab || m.mode != modeList {
			return m, nil
		}
		m.openForm()
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrStaleResponse) {
				return m.status("Saved, but the form had moved on", ui.StyleWarning)
			}
			return m.fail(msg.err)
		}
		if m.mode == modeForm && msg.tab == m.tab {
			m.mode = modeList
		}
		m.clampCursor()
		return m.status(msg.message, ui.StyleSuccess)

	case deletedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrNotConfirmed) {
				return m, nil
			}
			return m.fail(msg.err)
		}
		m.clampCursor()
		return m.status("Deleted: "+msg.title, ui.StyleSuccess)

	case configChangedMsg:
		if err := m.app.Settings.Reload(); err != nil {
			return m.status("Config reload failed: "+err.Error(), ui.StyleError)
		}
		ui.SetTheme(m.app.Settings.Config().ColorTheme)
		url, err := m.app.Retarget(apiFlag)
		if err != nil {
			return m.status(err.Error(), ui.StyleError)
		}
		status := m.setStatus("Config reloaded, backend "+url, ui.StyleInfo)
		return m, tea.Batch(status, m.refreshAll())
	}

	return m, nil
}

// fail reports err, switching to the login view for auth failures
func (m dashboardModel) fail(err error) (tea.Model, tea.Cmd) {
	if domain.IsAuthError(err) {
		if m.mode == modeForm {
			m.panels[m.tab].Cancel()
		}
		m.enterLogin()
		status := m.setStatus(describeError(err), ui.StyleError)
		return m, tea.Batch(status, textinput.Blink)
	}
	return m.status(describeError(err), ui.StyleError)
}

// status sets the status line and returns the updated model
func (m dashboardModel) status(message string, style lipgloss.Style) (tea.Model, tea.Cmd) {
	cmd := m.setStatus(message, style)
	return m, cmd
}

func (m *dashboardModel) setStatus(message string, style lipgloss.Style) tea.Cmd {
	m.message = message
	m.messageStyle = style
	m.messageExpiry = time.Now().Add(3 * time.Second)
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} })
}

func (m dashboardModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		m.focusLogin()
		return m, nil
	case "enter":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.focusLogin()
			return m, nil
		}
		m.loggingIn = true
		return m, tea.Batch(m.loginCmd(), m.spinner.Tick)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.loginUser, cmd = m.loginUser.Update(msg)
	} else {
		m.loginPass, cmd = m.loginPass.Update(msg)
	}
	return m, cmd
}

func (m dashboardModel) loginCmd() tea.Cmd {
	req := services.LoginRequest{Username: m.loginUser.Value(), Password: m.loginPass.Value()}
	auth := m.app.Auth
	ctx := m.ctx
	return func() tea.Msg {
		resp, err := auth.Login(ctx, req)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{username: resp.Username}
	}
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.items()
	p := m.panels[m.tab]

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if i := int(s[0] - '1'); i < len(m.panels) {
			m.switchTab(i)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(items) - 1
		m.clampCursor()

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(m.tab + 1)

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(m.tab - 1)

	case key.Matches(msg, m.keys.Reload):
		return m, m.refreshCmd(m.tab)

	case key.Matches(msg, m.keys.Edit):
		if !p.Editable() {
			return m, nil
		}
		id := 0
		if len(items) > 0 {
			id = items[m.cursor].ID
		}
		if id == 0 && !isAbout(p) {
			return m, nil
		}
		return m, m.openEditCmd(m.tab, id)

	case key.Matches(msg, m.keys.New):
		if !p.Editable() {
			return m.status("Nothing to create here", ui.StyleWarning)
		}
		if err := p.OpenCreate(m.ctx); err != nil {
			return m.fail(err)
		}
		m.openForm()

	case key.Matches(msg, m.keys.Delete):
		if p.Deletable() && len(items) > 0 {
			item := items[m.cursor]
			m.deleteTarget = &item
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Logout):
		if err := m.app.Auth.Logout(); err != nil {
			return m.status(err.Error(), ui.StyleError)
		}
		m.enterLogin()
		return m.status("Logged out", ui.StyleInfo)

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func isAbout(p panel) bool {
	_, ok := p.(*aboutPanel)
	return ok
}

func (m dashboardModel) openEditCmd(tab, id int) tea.Cmd {
	p := m.panels[tab]
	ctx := m.ctx
	return func() tea.Msg {
		found, err := p.OpenEdit(ctx, id)
		return formOpenedMsg{tab: tab, found: found, err: err}
	}
}

func (m *dashboardModel) openForm() {
	m.form = newFormEditor(m.panels[m.tab].Form(), m.width)
	m.mode = modeForm
}

func (m *dashboardModel) switchTab(i int) {
	n := len(m.panels)
	m.tab = (i%n + n) % n
	m.cursor = 0
	m.offset = 0
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.cursor = 0
		m.offset = 0
		return m, nil

	case tea.KeyEnter:
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil

	// Only use arrow keys for navigation in search mode, not j/k
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.cursor < len(m.items())-1 {
			m.cursor++
		}
		return m, nil
	}

	m.searchInput, cmd = m.searchInput.Update(msg)
	m.cursor = 0
	m.offset = 0
	return m, cmd
}

func (m dashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	p := m.panels[m.tab]
	form, action, cmd := m.form.Update(msg)
	m.form = form

	switch action {
	case formSubmit:
		if m.form.ops.Pending() {
			return m, cmd
		}
		tab := m.tab
		ctx := m.ctx
		submit := func() tea.Msg {
			message, err := p.Submit(ctx)
			return submittedMsg{tab: tab, message: message, err: err}
		}
		return m, tea.Batch(cmd, submit)

	case formCancel:
		p.Cancel()
		m.mode = modeList
		if isAbout(p) {
			return m, tea.Batch(cmd, m.refreshCmd(m.tab))
		}
	}
	return m, cmd
}

func (m dashboardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := m.deleteTarget
		m.deleteTarget = nil
		m.mode = modeList
		if target == nil {
			return m, nil
		}
		p := m.panels[m.tab]
		tab := m.tab
		ctx := m.ctx
		return m, func() tea.Msg {
			return deletedMsg{tab: tab, title: target.Title, err: p.Delete(ctx, target.ID)}
		}

	case key.Matches(msg, m.keys.Cancel):
		m.deleteTarget = nil
		m.mode = modeList
	}
	return m, nil
}

// items flattens the current tab's display in on-screen order
func (m dashboardModel) items() []services.DisplayItem {
	var out []services.DisplayItem
	for _, g := range m.display().Groups {
		out = append(out, g.Items...)
	}
	return out
}

func (m dashboardModel) display() services.Display {
	return m.panels[m.tab].Display(m.searchInput.Value())
}

func (m *dashboardModel) clampCursor() {
	n := len(m.items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Loading dashboard..."
	}

	switch m.mode {
	case modeLogin:
		return m.viewLogin()
	case modeHelp:
		return m.viewHelp()
	case modeConfirmDelete:
		return m.viewConfirmDelete()
	case modeForm:
		return m.viewForm()
	default:
		return m.viewList()
	}
}

func (m dashboardModel) viewForm() string {
	cancelHint := false
	if cv, ok := m.form.ops.(interface{ CancelVisible() bool }); ok {
		cancelHint = cv.CancelVisible()
	}

	var s strings.Builder
	s.WriteString(m.renderHeader() + "\n")
	s.WriteString(m.renderTabs() + "\n")
	s.WriteString(m.form.View(cancelHint))
	s.WriteString("\n\n")
	s.WriteString(m.renderStatus())
	return s.String()
}

func (m dashboardModel) viewList() string {
	var s strings.Builder

	s.WriteString(m.renderHeader() + "\n")
	s.WriteString(m.renderTabs() + "\n")
	s.WriteString(m.renderSearchBar() + "\n\n")

	listWidth := m.width
	showPreview := m.width >= 90
	if showPreview {
		listWidth = int(float64(m.width) * 0.45)
	}

	listLines := strings.Split(m.renderList(listWidth), "\n")
	if showPreview {
		previewLines := strings.Split(m.renderPreview(m.width-listWidth-2), "\n")
		for len(listLines) < len(previewLines) {
			listLines = append(listLines, "")
		}
		for i := range listLines {
			line := padRight(listLines[i], listWidth)
			if i < len(previewLines) {
				line += "  " + previewLines[i]
			}
			listLines[i] = line
		}
	}
	s.WriteString(strings.Join(listLines, "\n"))
	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m dashboardModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	statsStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Align(lipgloss.Right)

	who := "not logged in"
	if st := m.app.Auth.Status(); st.LoggedIn {
		who = ui.IconLock + " " + st.Username
	}

	title := titleStyle.Render(ui.IconProject + " Folio")
	stats := statsStyle.Render(who + "  " + m.app.Client.BaseURL())

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 1 {
		spacer = 1
	}
	return title + strings.Repeat(" ", spacer) + stats
}

func (m dashboardModel) renderTabs() string {
	tabs := make([]string, len(m.panels))
	for i, p := range m.panels {
		label := fmt.Sprintf(" %d %s ", i+1, p.Title())
		if i == m.tab {
			tabs[i] = ui.StylePrimary.Copy().Reverse(true).Render(label)
		} else {
			tabs[i] = ui.StyleMuted.Render(label)
		}
	}
	return strings.Join(tabs, " ")
}

func (m dashboardModel) renderSearchBar() string {
	if m.mode == modeSearch {
		return ui.StylePrimary.Render("/ ") + m.searchInput.View()
	}
	if q := m.searchInput.Value(); q != "" {
		return ui.StyleMuted.Render("/ ") + q
	}
	return ui.StyleMuted.Render("Press / to search...")
}

func (m dashboardModel) renderList(width int) string {
	d := m.display()
	if d.Empty() {
		emptyStyle := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Padding(1, 2)
		if m.searchInput.Value() != "" {
			return emptyStyle.Render("Nothing matches your search.")
		}
		return emptyStyle.Render(d.Placeholder)
	}

	var lines []string
	cursorLine := 0
	index := 0
	for _, g := range d.Groups {
		if g.Heading != "" {
			lines = append(lines, " "+ui.StyleGroup.Render(g.Heading))
		}
		for _, item := range g.Items {
			if index == m.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderItem(item, index == m.cursor, width))
			index++
		}
	}

	// Keep the cursor inside the visible window
	height := m.height - 9
	if height < 3 {
		height = 3
	}
	start := 0
	if cursorLine >= height {
		start = cursorLine - height + 1
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func (m dashboardModel) renderItem(item services.DisplayItem, selected bool, width int) string {
	cursor := "  "
	titleStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		titleStyle = ui.StylePrimary.Copy().Bold(true)
	}

	maxTitle := width - 12
	if maxTitle < 10 {
		maxTitle = 10
	}

	line := cursor
	if item.ID > 0 {
		line += ui.StyleMuted.Render(fmt.Sprintf("#%-3d ", item.ID))
	}
	line += titleStyle.Render(truncateLabel(item.Title, maxTitle))
	if len(item.Badges) > 0 {
		line += " " + ui.StyleBadge.Render("["+strings.Join(item.Badges, "] [")+"]")
	}
	return line
}

func (m dashboardModel) renderPreview(width int) string {
	items := m.items()
	if len(items) == 0 || m.cursor >= len(items) {
		return ""
	}
	item := items[m.cursor]

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1).
		Width(width - 4)

	var b strings.Builder
	b.WriteString(ui.StyleBold.Render(item.Title))
	for _, badge := range item.Badges {
		b.WriteString(" " + ui.StyleBadge.Render("["+badge+"]"))
	}
	for _, detail := range item.Details {
		b.WriteString("\n\n" + detail)
	}
	if len(item.Links) > 0 {
		b.WriteString("\n")
		for _, link := range item.Links {
			b.WriteString("\n" + ui.StyleLink.Render(link))
		}
	}
	return style.Render(b.String())
}

func (m dashboardModel) renderStatus() string {
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		return m.messageStyle.Render(m.message)
	}
	return ui.StyleMuted.Render("Ready")
}

func (m dashboardModel) renderFooter() string {
	helpHint := ui.StyleMuted.Render("[↑↓] Navigate  [←→] Tabs  [Enter] Edit  [n] New  [d] Delete  [/] Search  [?] Help  [q] Quit")

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(), helpHint))
}

func (m dashboardModel) viewLogin() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(50)

	status := ui.StyleMuted.Render("enter sign in  tab switch  esc quit")
	if m.loggingIn {
		status = m.spinner.View() + " Signing in..."
	} else if m.message != "" && time.Now().Before(m.messageExpiry) {
		status = m.messageStyle.Render(m.message)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		ui.StyleHeader.Render(ui.IconLock+" Folio login"),
		ui.StyleMuted.Render(m.app.Client.BaseURL()),
		"",
		"Username",
		m.loginUser.View(),
		"",
		"Password",
		m.loginPass.View(),
		"",
		status,
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}

func (m dashboardModel) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 2)

	var s strings.Builder
	s.WriteString(titleStyle.Render("Folio Dashboard Help"))
	s.WriteString("\n")
	m.help.ShowAll = true
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(m.help.View(m.keys)))
	s.WriteString("\n\n")
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(ui.StyleMuted.Render(
		"In a form: tab moves between fields, ctrl+s saves, esc cancels.\n" +
			"Images: space grabs the selected image, ←/→ moves it, space drops it.\n" +
			"You can also drag images with the mouse. ctrl+y copies the selected URL.\n\n" +
			"Press ? or esc to return.")))
	return s.String()
}

func (m dashboardModel) viewConfirmDelete() string {
	if m.deleteTarget == nil {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(60).
		Align(lipgloss.Center)

	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorWarning).
		Bold(true)

	itemStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true)

	promptStyle := lipgloss.NewStyle().
		Foreground(ui.ColorDefault).
		MarginTop(1)

	content := fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
		titleStyle.Render(ui.IconWarning+"  Delete from "+m.panels[m.tab].Title()+"?"),
		itemStyle.Render(m.deleteTarget.Title),
		ui.StyleMuted.Render(fmt.Sprintf("#%d", m.deleteTarget.ID)),
		promptStyle.Render("Press 'y' to confirm, 'n' or ESC to cancel"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}
