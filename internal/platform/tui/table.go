package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/engine"
)

// RenderTable renders rows under a header as a static table, for command
// output rather than an interactive program.
func RenderTable(header []string, rows [][]string) string {
	columns := make([]table.Column, len(header))
	for i, title := range header {
		width := lipgloss.Width(title)
		for _, row := range rows {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		columns[i] = table.Column{Title: title, Width: width}
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// Nothing is selected in static output.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t.View()
}

// RenderPiece draws a template the way it lights up on the grid.
func RenderPiece(t engine.Template) string {
	w, h := t.Pattern.Width(), t.Pattern.Height()
	cells := make([]core.Color, w*h)
	for y, row := range t.Pattern {
		for x, filled := range row {
			cells[y*w+x] = core.ColorOff
			if filled {
				cells[y*w+x] = t.Color
			}
		}
	}
	return RenderCells(cells, w, h)
}
