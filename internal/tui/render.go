package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/groupview/internal/compare"
	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/grouping"
	"github.com/Iron-Ham/groupview/internal/rowset"
	"github.com/Iron-Ham/groupview/internal/tui/styles"
	"github.com/Iron-Ham/groupview/internal/util"
)

// grid formats display entries as fixed-width text lines.
type grid struct {
	view       *grouping.View
	accessor   rowset.FieldAccessor
	fields     []rowset.Field
	colWidth   int
	showCounts bool
}

// width is the full line width of the grid.
func (g grid) width() int {
	if len(g.fields) == 0 {
		return IconWidth
	}
	return IconWidth + len(g.fields)*(g.colWidth+1) - 1
}

// captions renders the column names.
func (g grid) captions() string {
	cells := make([]string, len(g.fields))
	for i, f := range g.fields {
		cells[i] = util.FitCell(f.Name, g.colWidth)
	}
	return strings.Repeat(" ", IconWidth) + strings.Join(cells, " ")
}

// line renders display entry i. Headers cancelled by a display hook render
// as a blank line so indexes stay aligned with the view.
func (g grid) line(i int, selected bool) (text string, header bool, placeholder bool) {
	e, ok := g.view.EntryAt(i)
	if !ok {
		return "", false, false
	}
	if e.IsHeader() {
		d, show := g.view.Display(e.Node(), selected)
		if !show {
			return util.FitCell("", g.width()), true, d.Placeholder
		}
		return util.FitCell(headerText(d, g.showCounts), g.width()), true, d.Placeholder
	}

	cells := make([]string, len(g.fields))
	for k, f := range g.fields {
		cells[k] = util.FitCell(g.cell(e.Row(), f.Name), g.colWidth)
	}
	return strings.Repeat(" ", IconWidth) + strings.Join(cells, " "), false, false
}

func (g grid) cell(row rowset.Row, field string) string {
	v, err := g.accessor.Get(row, field)
	if err != nil {
		return "!"
	}
	if compare.IsNull(v) {
		return ""
	}
	return compare.Text(v)
}

func headerText(d grouping.Display, showCounts bool) string {
	var sb strings.Builder
	switch {
	case d.Placeholder:
		sb.WriteString(styles.IconNewRows + " " + d.Header)
	case d.Collapsed:
		sb.WriteString(styles.IconCollapsed + " ")
	default:
		sb.WriteString(styles.IconExpanded + " ")
	}
	if !d.Placeholder {
		if d.Header != "" {
			sb.WriteString(d.Header + ": ")
		}
		sb.WriteString(d.Text)
	}
	if showCounts {
		fmt.Fprintf(&sb, " (%d)", d.Count)
	}
	return sb.String()
}

func (m Model) grid() grid {
	return grid{
		view:       m.session.View(),
		accessor:   m.session.Accessor(),
		fields:     m.session.Fields(),
		colWidth:   m.colWidth,
		showCounts: m.showCounts,
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	v := m.session.View()
	g := m.grid()

	var b strings.Builder
	b.WriteString(styles.Title.Render("groupview"))
	b.WriteString("  ")
	b.WriteString(styles.Subtitle.Render(m.subtitle()))
	b.WriteString("\n")
	b.WriteString(styles.ColumnHeader.Render(m.captionsWithColumn(g)))
	b.WriteString("\n")

	h := m.bodyHeight()
	start := m.scroll.offset
	end := min(start+h, v.Count())
	for i := start; i < end; i++ {
		selected := i == v.Position()
		text, header, placeholder := g.line(i, selected)
		style := styles.DataRow
		switch {
		case selected:
			style = styles.Selected
		case placeholder:
			style = styles.PlaceholderRow
		case header:
			style = styles.GroupRow
		}
		b.WriteString(style.Render(text))
		b.WriteString("\n")
	}
	for i := end - start; i < h && m.height > 0; i++ {
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString(styles.Editor.Render(m.editField + ": " + m.input.View()))
		b.WriteString("\n")
	}
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.helpBar())
	return b.String()
}

func (m Model) subtitle() string {
	v := m.session.View()
	if !v.Grouped() {
		return fmt.Sprintf("ungrouped · %d rows", v.BaseCount())
	}
	return fmt.Sprintf("grouped by %s · %s · %d groups · %d rows",
		v.Selector(), v.SortDirection(), len(v.Nodes()), v.BaseCount())
}

// captionsWithColumn marks the column the editor will write to.
func (m Model) captionsWithColumn(g grid) string {
	if m.column >= len(g.fields) {
		return g.captions()
	}
	cells := make([]string, len(g.fields))
	for i, f := range g.fields {
		name := f.Name
		if i == m.column {
			name = "*" + name
		}
		cells[i] = util.FitCell(name, g.colWidth)
	}
	return strings.Repeat(" ", IconWidth) + strings.Join(cells, " ")
}

func (m Model) statusBar() string {
	switch {
	case m.status.err != nil:
		return statusError(m.status.err)
	case m.status.msg != "":
		return styles.StatusBar.Render(m.status.msg)
	}
	v := m.session.View()
	return styles.StatusBar.Render(fmt.Sprintf("%d/%d", v.Position()+1, v.Count()))
}

// statusError hides the text of errors that are not meant for users; the
// log has the details.
func statusError(err error) string {
	msg := err.Error()
	var gvErr errors.GroupviewError
	if errors.As(err, &gvErr) && !errors.IsUserFacing(gvErr) {
		msg = "internal error (see log)"
	}
	if errors.GetSeverity(err) < errors.SeverityError {
		return styles.WarningMsg.Render("warning: " + msg)
	}
	return styles.ErrorMsg.Render("error: " + msg)
}

func (m Model) helpBar() string {
	if m.editing {
		return styles.HelpBar.Render(
			styles.HelpKey.Render("enter") + " save  " +
				styles.HelpKey.Render("esc") + " cancel")
	}
	keys := []struct{ key, desc string }{
		{"j/k", "move"},
		{"space", "toggle"},
		{"g", "group"},
		{"G", "ungroup"},
		{"e/c", "expand/collapse"},
		{"s", "sort"},
		{"n", "new rows"},
		{"a", "append"},
		{"i", "edit"},
		{"r", "rebuild"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = styles.HelpKey.Render(k.key) + " " + k.desc
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}

// RenderPlain writes the display sequence of v as unstyled text, one entry
// per line, preceded by the column captions.
func RenderPlain(w io.Writer, v *grouping.View, accessor rowset.FieldAccessor, colWidth int, showCounts bool) error {
	g := grid{
		view:       v,
		accessor:   accessor,
		fields:     accessor.Fields(),
		colWidth:   colWidth,
		showCounts: showCounts,
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(g.captions(), " ")); err != nil {
		return err
	}
	for i := 0; i < v.Count(); i++ {
		text, _, _ := g.line(i, false)
		if _, err := fmt.Fprintln(w, strings.TrimRight(text, " ")); err != nil {
			return err
		}
	}
	return nil
}
