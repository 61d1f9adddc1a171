package cmd

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

// Gallery strip geometry. The strip is drawn on a fixed screen row so mouse
// events can be hit-tested without a layout pass.
const (
	formTop    = 2 // header and tab bar
	galleryRow = formTop + 3
	thumbLeft  = 2
	thumbWidth = 18
	thumbGap   = 1
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

type slotKind int

const (
	slotField slotKind = iota
	slotTags
	slotGallery
)

type slot struct {
	kind  slotKind
	index int
}

type fieldInput struct {
	spec  domain.FieldSpec
	text  textinput.Model
	area  textarea.Model
	multi bool
}

func (f fieldInput) value() string {
	if f.multi {
		return f.area.Value()
	}
	return f.text.Value()
}

// formEditor is the create/edit view over one form
type formEditor struct {
	ops    formOps
	fields []fieldInput
	tags   textinput.Model
	image  textinput.Model
	focus  int

	selected  int
	drag      *domain.DragSession
	mouseDrag bool
	hover     int
	width     int
}

func newFormEditor(ops formOps, width int) formEditor {
	state := ops.State()

	f := formEditor{ops: ops, width: width, hover: -1}
	for _, spec := range state.Specs {
		in := fieldInput{spec: spec, multi: spec.Kind == domain.FieldMultiline}
		if in.multi {
			in.area = textarea.New()
			in.area.ShowLineNumbers = false
			in.area.SetWidth(inputWidth(width))
			in.area.SetHeight(4)
			in.area.CharLimit = spec.MaxLen
			in.area.SetValue(state.Get(spec.Name))
		} else {
			in.text = textinput.New()
			in.text.Width = inputWidth(width)
			in.text.CharLimit = spec.MaxLen
			in.text.SetValue(state.Get(spec.Name))
		}
		f.fields = append(f.fields, in)
	}

	f.tags = textinput.New()
	f.tags.Placeholder = "type and press enter"
	f.tags.Width = inputWidth(width)

	f.image = textinput.New()
	f.image.Placeholder = "https://... and press enter"
	f.image.Width = inputWidth(width)

	// Opening for edit starts at the first field
	if sr, ok := ops.(interface{ ScrollRequested() bool }); ok {
		sr.ScrollRequested()
	}
	f.setFocus(0)
	return f
}

func inputWidth(width int) int {
	if width <= 0 {
		return 60
	}
	w := width - 8
	if w > 80 {
		w = 80
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (f *formEditor) slots() []slot {
	state := f.ops.State()
	var out []slot
	for i := range f.fields {
		out = append(out, slot{kind: slotField, index: i})
	}
	if state.Tags != nil {
		out = append(out, slot{kind: slotTags})
	}
	if state.Images != nil {
		out = append(out, slot{kind: slotGallery})
	}
	return out
}

func (f *formEditor) current() slot {
	s := f.slots()
	if len(s) == 0 {
		return slot{kind: slotField, index: -1}
	}
	return s[f.focus]
}

func (f *formEditor) setFocus(i int) {
	s := f.slots()
	if len(s) == 0 {
		return
	}
	f.focus = (i + len(s)) % len(s)

	for j := range f.fields {
		f.fields[j].text.Blur()
		f.fields[j].area.Blur()
	}
	f.tags.Blur()
	f.image.Blur()

	switch cur := s[f.focus]; cur.kind {
	case slotField:
		if f.fields[cur.index].multi {
			f.fields[cur.index].area.Focus()
		} else {
			f.fields[cur.index].text.Focus()
		}
	case slotTags:
		f.tags.Focus()
	case slotGallery:
		f.image.Focus()
	}
}

// Update handles one message, reporting whether the form wants to be
// submitted or closed
func (f formEditor) Update(msg tea.Msg) (formEditor, formAction, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return f.updateMouse(msg)
	case tea.KeyMsg:
		return f.updateKey(msg)
	}
	return f, formNone, nil
}

func (f formEditor) updateKey(msg tea.KeyMsg) (formEditor, formAction, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return f, formSubmit, nil
	case "esc":
		if f.drag.Active() {
			f.drag = nil
			f.mouseDrag = false
			return f, formNone, nil
		}
		return f, formCancel, nil
	case "tab":
		f.setFocus(f.focus + 1)
		return f, formNone, nil
	case "shift+tab":
		f.setFocus(f.focus - 1)
		return f, formNone, nil
	}

	switch cur := f.current(); cur.kind {
	case slotField:
		return f.updateField(cur.index, msg)
	case slotTags:
		return f.updateTags(msg)
	case slotGallery:
		return f.updateGallery(msg)
	}
	return f, formNone, nil
}

func (f formEditor) updateField(i int, msg tea.KeyMsg) (formEditor, formAction, tea.Cmd) {
	if i < 0 {
		return f, formNone, nil
	}
	in := &f.fields[i]

	if in.spec.Kind == domain.FieldBool {
		switch msg.String() {
		case " ", "enter":
			toggled := fmt.Sprint(!parseBoolValue(in.text.Value()))
			in.text.SetValue(toggled)
			return f, formNone, f.set(in.spec.Name, toggled)
		}
		return f, formNone, nil
	}

	if !in.multi && msg.Type == tea.KeyEnter {
		f.setFocus(f.focus + 1)
		return f, formNone, nil
	}

	var cmd tea.Cmd
	if in.multi {
		in.area, cmd = in.area.Update(msg)
	} else {
		in.text, cmd = in.text.Update(msg)
	}
	return f, formNone, tea.Batch(cmd, f.set(in.spec.Name, in.value()))
}

func (f formEditor) set(name, value string) tea.Cmd {
	if err := f.ops.SetField(name, value); err != nil {
		return statusCmd(err.Error(), ui.StyleError)
	}
	return nil
}

func (f formEditor) updateTags(msg tea.KeyMsg) (formEditor, formAction, tea.Cmd) {
	tags, ok := f.ops.(tagOps)
	if !ok {
		return f, formNone, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		value := f.tags.Value()
		f.tags.SetValue("")
		if strings.TrimSpace(value) != "" && !tags.AddTag(value) {
			return f, formNone, statusCmd(fmt.Sprintf("%q is already listed", strings.TrimSpace(value)), ui.StyleWarning)
		}
		return f, formNone, nil
	case tea.KeyBackspace:
		if f.tags.Value() == "" {
			tags.RemoveLastTag()
			return f, formNone, nil
		}
	}

	var cmd tea.Cmd
	f.tags, cmd = f.tags.Update(msg)
	return f, formNone, cmd
}

func (f formEditor) updateGallery(msg tea.KeyMsg) (formEditor, formAction, tea.Cmd) {
	gallery, ok := f.ops.(galleryOps)
	if !ok {
		return f, formNone, nil
	}
	urls := f.ops.State().Images.URLs()

	// Keyboard grab mode
	if f.drag.Active() && !f.mouseDrag {
		switch msg.String() {
		case "left", "h":
			f.drag.Step(-1)
		case "right", "l":
			f.drag.Step(1)
		case " ", "enter":
			pos := f.drag.Position()
			order := f.drag.End()
			f.drag = nil
			if err := gallery.ReorderImages(order); err != nil {
				return f, formNone, statusCmd(err.Error(), ui.StyleError)
			}
			f.selected = pos
		}
		return f, formNone, nil
	}

	if msg.String() == "ctrl+y" {
		if f.selected < len(urls) {
			return f, formNone, copyCmd(urls[f.selected])
		}
		return f, formNone, nil
	}

	if f.image.Value() == "" {
		switch msg.String() {
		case "left":
			if f.selected > 0 {
				f.selected--
			}
			return f, formNone, nil
		case "right":
			if f.selected < len(urls)-1 {
				f.selected++
			}
			return f, formNone, nil
		case " ":
			if len(urls) > 1 {
				f.drag = domain.StartDrag(urls, f.selected)
				f.mouseDrag = false
			}
			return f, formNone, nil
		case "delete", "backspace":
			if len(urls) == 0 {
				return f, formNone, nil
			}
			if err := gallery.RemoveImage(f.selected); err != nil {
				return f, formNone, statusCmd(err.Error(), ui.StyleError)
			}
			if f.selected >= len(urls)-1 && f.selected > 0 {
				f.selected--
			}
			return f, formNone, nil
		}
	}

	if msg.Type == tea.KeyEnter {
		raw := strings.TrimSpace(f.image.Value())
		if raw == "" {
			return f, formNone, nil
		}
		if err := gallery.AddImage(raw); err != nil {
			return f, formNone, statusCmd(err.Error(), ui.StyleError)
		}
		f.image.SetValue("")
		f.selected = len(f.ops.State().Images.URLs()) - 1
		return f, formNone, nil
	}

	var cmd tea.Cmd
	f.image, cmd = f.image.Update(msg)
	return f, formNone, cmd
}

// thumbAt maps a screen column to a thumbnail index and its left edge
func thumbAt(x, count int) (index, left int, ok bool) {
	if x < thumbLeft {
		return 0, 0, false
	}
	index = (x - thumbLeft) / (thumbWidth + thumbGap)
	left = thumbLeft + index*(thumbWidth+thumbGap)
	if index >= count || x >= left+thumbWidth {
		return 0, 0, false
	}
	return index, left, true
}

func (f formEditor) updateMouse(msg tea.MouseMsg) (formEditor, formAction, tea.Cmd) {
	state := f.ops.State()
	gallery, ok := f.ops.(galleryOps)
	if state.Images == nil || !ok {
		return f, formNone, nil
	}
	urls := state.Images.URLs()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != galleryRow {
			return f, formNone, nil
		}
		i, _, hit := thumbAt(msg.X, len(urls))
		if !hit {
			return f, formNone, nil
		}
		f.selected = i
		f.hover = i
		f.drag = domain.StartDrag(urls, i)
		f.mouseDrag = true
		for j, s := range f.slots() {
			if s.kind == slotGallery {
				f.setFocus(j)
			}
		}

	case tea.MouseActionMotion:
		if !f.drag.Active() || !f.mouseDrag || msg.Y != galleryRow {
			return f, formNone, nil
		}
		if i, left, hit := thumbAt(msg.X, len(urls)); hit {
			f.hover = i
			f.drag.Hover(i, domain.DropPosition(msg.X, left, thumbWidth))
		}

	case tea.MouseActionRelease:
		if !f.drag.Active() || !f.mouseDrag {
			return f, formNone, nil
		}
		dragged := f.drag.Dragged()
		order := f.drag.End()
		f.drag = nil
		f.mouseDrag = false
		f.hover = -1
		if err := gallery.ReorderImages(order); err != nil {
			return f, formNone, statusCmd(err.Error(), ui.StyleError)
		}
		for i, u := range order {
			if u == dragged {
				f.selected = i
			}
		}
	}
	return f, formNone, nil
}

func (f formEditor) View(cancelHint bool) string {
	state := f.ops.State()
	var s strings.Builder

	// line 0: title, line 1: blank, lines 2-4: gallery when present
	title := "New " + state.Kind.Singular()
	if id, ok := state.Binding.ID(); ok {
		title = fmt.Sprintf("Editing %s #%d", state.Kind.Singular(), id)
	}
	if state.Kind == domain.KindAbout {
		title = "About section"
	}
	s.WriteString(ui.StyleHeader.Render(title) + "\n\n")

	cur := f.current()

	if state.Images != nil {
		label := fmt.Sprintf("Images (%d)", state.Images.Len())
		if cur.kind == slotGallery {
			label = ui.StylePrimary.Render(label)
		} else {
			label = ui.StyleBold.Render(label)
		}
		s.WriteString("  " + label + ui.StyleMuted.Render("  space grab  drag to reorder  del remove  ctrl+y copy") + "\n")
		s.WriteString(f.renderStrip(state.Images.URLs()) + "\n")
		s.WriteString("  " + f.image.View() + "\n\n")
	}

	for i, in := range f.fields {
		label := in.spec.Label
		if in.spec.Required {
			label += "*"
		}
		if cur.kind == slotField && cur.index == i {
			label = ui.StylePrimary.Render(label)
		} else {
			label = ui.StyleBold.Render(label)
		}
		s.WriteString("  " + label + "\n")
		if in.multi {
			s.WriteString(indent(in.area.View(), "  ") + "\n")
		} else if in.spec.Kind == domain.FieldBool {
			box := "[ ]"
			if parseBoolValue(in.text.Value()) {
				box = "[x]"
			}
			s.WriteString("  " + box + ui.StyleMuted.Render("  space to toggle") + "\n")
		} else {
			s.WriteString("  " + in.text.View() + "\n")
		}
	}

	if state.Tags != nil {
		label := "Tags"
		if state.Kind == domain.KindProject {
			label = "Technologies"
		}
		if cur.kind == slotTags {
			label = ui.StylePrimary.Render(label)
		} else {
			label = ui.StyleBold.Render(label)
		}
		badges := make([]string, 0, state.Tags.Len())
		for _, t := range state.Tags.Values() {
			badges = append(badges, ui.StyleBadge.Render("["+t+"]"))
		}
		s.WriteString("  " + label + " " + strings.Join(badges, " ") + "\n")
		s.WriteString("  " + f.tags.View() + "\n")
	}

	s.WriteString("\n")
	hints := []string{"tab next field", "ctrl+s save"}
	if f.ops.Pending() {
		hints = []string{ui.StyleWarning.Render("Saving...")}
	}
	if cancelHint {
		hints = append(hints, "esc cancel edit")
	} else {
		hints = append(hints, "esc back")
	}
	s.WriteString("  " + ui.StyleMuted.Render(strings.Join(hints, "  ")))
	return s.String()
}

// renderStrip draws the thumbnails. A mouse drag shows the committed order
// so hit-testing stays stable; a keyboard grab shows the preview.
func (f formEditor) renderStrip(urls []string) string {
	if len(urls) == 0 {
		return "  " + ui.StyleSubtle.Render("No images yet")
	}

	order := urls
	if f.drag.Active() && !f.mouseDrag {
		order = f.drag.Preview()
	}
	dragged := f.drag.Dragged()

	cells := make([]string, len(order))
	for i, u := range order {
		label := fmt.Sprintf("%d %s", i+1, shortURL(u))
		cell := "[" + padRight(truncateLabel(label, thumbWidth-2), thumbWidth-2) + "]"

		style := lipgloss.NewStyle()
		switch {
		case f.drag.Active() && u == dragged:
			style = ui.StyleWarning
		case f.mouseDrag && i == f.hover:
			style = ui.StyleAccent.Copy().Underline(true)
		case i == f.selected && f.current().kind == slotGallery:
			style = ui.StylePrimary
		}
		cells[i] = style.Render(cell)
	}
	return strings.Repeat(" ", thumbLeft) + strings.Join(cells, strings.Repeat(" ", thumbGap))
}

func shortURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if base := path.Base(u.Path); base != "." && base != "/" {
		return base
	}
	return u.Host
}

func truncateLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func parseBoolValue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

func statusCmd(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message: message, style: style}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{message: "Could not copy: " + err.Error(), style: ui.StyleError}
		}
		return statusMsg{message: "Copied " + text, style: ui.StyleSuccess}
	}
}
