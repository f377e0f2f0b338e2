package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dshills/shortcuts/internal/shortcut/actionid"
	"github.com/dshills/shortcuts/internal/shortcut/container"
	"github.com/dshills/shortcuts/internal/shortcut/manager"
)

var (
	errInvalidActionID = errors.New("invalid action ID")
	errInvalidModuleID = errors.New("invalid module ID")
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Bold(true).Width(10)
	keysStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// newTable returns a table with the house border and header style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label+":")+" "+value)
}

// printConflicts lists the actions holding a key sequence.
func printConflicts(w io.Writer, title string, refs []container.Ref, name func(container.Ref) string) {
	fmt.Fprintln(w, conflictStyle.Render(title))
	for _, ref := range refs {
		fmt.Fprintf(w, "  %s  %s\n", actionid.Make(ref.Module, ref.ID), dimStyle.Render(name(ref)))
	}
}

// printChanges lists shortcut changes as old -> new.
func printChanges(w io.Writer, changes container.Changes) {
	if changes.Len() == 0 {
		fmt.Fprintln(w, dimStyle.Render("no changes"))
		return
	}
	for _, ref := range changes.Refs() {
		ch, _ := changes.Get(ref.Module, ref.ID)
		fmt.Fprintf(w, "%s  %s -> %s\n", actionid.Make(ref.Module, ref.ID), keysText(ch.Old), keysStyle.Render(keysText(ch.New)))
	}
}

func printReport(w io.Writer, r *manager.LoadReport) {
	fmt.Fprintln(w, warnStyle.Render("problems loading shortcuts:"))
	fmt.Fprintln(w, r.String())
}
