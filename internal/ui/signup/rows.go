package signup

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/signup/internal/registry/domain"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 32
)

// buildColumns sizes the name and data columns to their widest cell, within bounds.
func buildColumns(rows []domain.Registrant) []table.Column {
	nameWidth := uniseg.StringWidth("name")
	dataWidth := uniseg.StringWidth("data")
	for _, r := range rows {
		nameWidth = max(nameWidth, uniseg.StringWidth(r.Name))
		dataWidth = max(dataWidth, uniseg.StringWidth(r.Data))
	}
	return []table.Column{
		{Title: "name", Width: clampWidth(nameWidth)},
		{Title: "data", Width: clampWidth(dataWidth)},
	}
}

func clampWidth(w int) int {
	return min(max(w, minColumnWidth), maxColumnWidth)
}

// buildRows converts registrants to table rows, truncating oversized cells.
func buildRows(rows []domain.Registrant, cols []table.Column) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{
			runewidth.Truncate(r.Name, cols[0].Width, "…"),
			runewidth.Truncate(r.Data, cols[1].Width, "…"),
		}
	}
	return out
}
