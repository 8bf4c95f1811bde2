package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cmux-dev/cmux-envd/internal/protocol"
)

// Table styles. Applied only when ShouldUseColor reports an ANSI-capable
// destination; plainCellStyle covers every cell otherwise so piped output
// stays free of escape codes.
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				Align(lipgloss.Center)

	TableWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarn)

	TableSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorPass)

	TableHintStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	plainCellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// newBorderedTable builds the rounded-border table shape every envctl
// listing shares, capped at the terminal's width so wide values wrap
// instead of forcing a horizontal scroll.
func newBorderedTable() *table.Table {
	t := table.New().Border(lipgloss.RoundedBorder()).Width(GetWidth())
	if ShouldUseColor() {
		t = t.BorderStyle(TableBorderStyle)
	}
	return t
}

// RenderItemsTable renders a list of effective variables as a bordered
// table with Key/Value/Scope columns. Used by `envctl list`. The scope
// column is muted since it's metadata about the value, not the value
// itself.
func RenderItemsTable(items []protocol.Item) string {
	t := newBorderedTable().
		Headers("KEY", "VALUE", "SCOPE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if !ShouldUseColor() {
				return plainCellStyle
			}
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 2 {
				return TableHintStyle
			}
			return plainCellStyle
		})
	for _, it := range items {
		t.Row(it.Key, it.Value, it.Origin)
	}
	return t.Render()
}

// RenderStatusTable renders a daemon status summary as a two-column table.
// Tombstones are flagged as a warning once any exist, and a live
// connection count is highlighted as a pass, since both are the fields an
// operator scans this table for first.
func RenderStatusTable(st *protocol.StatusInfo) string {
	const (
		rowTombstones = 4
		rowActiveConn = 7
	)
	t := newBorderedTable().
		StyleFunc(func(row, col int) lipgloss.Style {
			if !ShouldUseColor() || col != 1 {
				return plainCellStyle
			}
			switch {
			case row == rowTombstones && st.TombstoneCount > 0:
				return TableWarningStyle
			case row == rowActiveConn && st.ActiveConns > 0:
				return TableSuccessStyle
			default:
				return plainCellStyle
			}
		})
	t.Row("generation", fmt.Sprintf("%d", st.Gen))
	t.Row("global keys", fmt.Sprintf("%d", st.GlobalCount))
	t.Row("overlay dirs", fmt.Sprintf("%d", st.OverlayDirs))
	t.Row("overlay keys", fmt.Sprintf("%d", st.OverlayCount))
	t.Row("tombstones", fmt.Sprintf("%d", st.TombstoneCount))
	t.Row("server version", st.ServerVersion)
	t.Row("uptime", st.Uptime.Round(1e9).String())
	t.Row("active conns", fmt.Sprintf("%d", st.ActiveConns))
	return t.Render()
}
