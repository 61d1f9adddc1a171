package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
)

// RenderDisplay turns a rendered collection into terminal text.
// Empty collections show their placeholder instead of an empty list.
func RenderDisplay(d services.Display) string {
	var b strings.Builder

	b.WriteString(StyleHeader.Render(d.Title))
	if !d.Empty() {
		b.WriteString(StyleMuted.Render(fmt.Sprintf(" (%d)", d.Count())))
	}
	b.WriteString("\n\n")

	if d.Empty() {
		b.WriteString(StyleSubtle.Render("  " + d.Placeholder))
		b.WriteString("\n")
		return b.String()
	}

	for gi, group := range d.Groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		if group.Heading != "" {
			b.WriteString(StyleGroup.Render(group.Heading))
			b.WriteString("\n")
		}
		for _, item := range group.Items {
			b.WriteString(renderItem(item))
		}
	}
	return b.String()
}

func renderItem(item services.DisplayItem) string {
	var b strings.Builder

	b.WriteString("  ")
	if item.ID > 0 {
		b.WriteString(StyleMuted.Render(fmt.Sprintf("#%-4d", item.ID)))
		b.WriteString(" ")
	}
	b.WriteString(StyleBold.Render(item.Title))
	for _, badge := range item.Badges {
		b.WriteString(" ")
		b.WriteString(StyleBadge.Render("[" + badge + "]"))
	}
	b.WriteString("\n")

	for _, detail := range item.Details {
		for _, line := range strings.Split(detail, "\n") {
			b.WriteString("        ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	for _, link := range item.Links {
		b.WriteString("        ")
		b.WriteString(StyleLink.Render(link))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDisplayTable renders a compact id/title table, used by list commands
func RenderDisplayTable(d services.Display) string {
	if d.Empty() {
		return StyleSubtle.Render(d.Placeholder) + "\n"
	}

	grouped := len(d.Groups) > 1 || d.Groups[0].Heading != ""
	columns := []TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "TITLE", Max: 48},
	}
	if grouped {
		columns = append(columns, TableColumn{Header: "GROUP", Max: 24})
	}
	columns = append(columns, TableColumn{Header: "NOTES", Max: 40})

	t := NewTable(columns)
	for _, group := range d.Groups {
		for _, item := range group.Items {
			cells := []string{strconv.Itoa(item.ID), item.Title}
			if grouped {
				cells = append(cells, group.Heading)
			}
			cells = append(cells, strings.Join(item.Badges, ", "))
			t.AddRow(cells...)
		}
	}
	return t.Render()
}

// RenderForm shows a form's fields, owned lists and binding for review
func RenderForm(state domain.FormState) string {
	var b strings.Builder

	heading := "New " + state.Kind.Singular()
	if id, ok := state.Binding.ID(); ok {
		heading = fmt.Sprintf("Editing %s #%d", state.Kind.Singular(), id)
	}
	b.WriteString(StyleHeader.Render(heading))
	b.WriteString("\n")

	for _, spec := range state.Specs {
		label := spec.Label
		if spec.Required {
			label += "*"
		}
		value := state.Get(spec.Name)
		if value == "" {
			value = StyleMuted.Render("(empty)")
		}
		b.WriteString(RenderKeyValue(label, value))
		b.WriteString("\n")
	}

	if state.Images != nil {
		b.WriteString(RenderKeyValue("Images", strconv.Itoa(state.Images.Len())))
		b.WriteString("\n")
		for i, url := range state.Images.URLs() {
			b.WriteString(StyleMuted.Render(fmt.Sprintf("  %d. ", i+1)))
			b.WriteString(url)
			b.WriteString("\n")
		}
	}
	if state.Tags != nil {
		tags := make([]string, 0, state.Tags.Len())
		for _, tag := range state.Tags.Values() {
			tags = append(tags, StyleBadge.Render(tag))
		}
		b.WriteString(RenderKeyValue("Tags", strings.Join(tags, " ")))
		b.WriteString("\n")
	}
	return b.String()
}
