package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Bold(true)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

// renderTable draws rows in a bordered table under a bold header.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle.Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String() + "\n"
}

func printTitle(title string) {
	fmt.Println()
	fmt.Println(titleStyle.Render(title))
}

func printEmpty(what string) {
	fmt.Println(mutedStyle.Render(fmt.Sprintf("(no %s)", what)))
}
