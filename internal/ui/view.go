package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lifeboard/lifeboard/internal/control"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	aliveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	deadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)

	runningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	customizingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const (
	aliveCell  = "██"
	deadCell   = "··"
	cursorMark = "[]"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(renderGrid(m.snap, m.cursorRow, m.cursorCol))
	b.WriteString("\n")

	if m.prompting {
		b.WriteString(m.sizePrompt.View())
		b.WriteString("\n")
	}
	if m.snap.Error != "" {
		b.WriteString(errorStyle.Render(m.snap.Error))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(helpLine))
	return b.String()
}

const helpLine = "space toggle · s save · r run/pause · R random · c clear · f fill · +/- size · z exact size · </> probability · ,/. speed · q quit"

func (m model) header() string {
	mode := boardModeLabel(m.snap)
	styled := labelStyle.Render(mode)
	switch mode {
	case "running":
		styled = runningStyle.Render(mode)
	case "customizing":
		styled = customizingStyle.Render(mode)
	}

	return fmt.Sprintf("%s  %s  %s",
		titleStyle.Render("lifeboard"),
		styled,
		labelStyle.Render(fmt.Sprintf("%dx%d · p=%.2f · %dms",
			m.snap.Board.Rows,
			m.snap.Board.Columns,
			m.snap.Settings.LiveProbability,
			m.snap.Settings.RefreshInterval,
		)),
	)
}

// renderGrid draws the cell matrix with the cursor marked. Kept free of the
// tea model so it can be exercised directly in tests.
func renderGrid(snap control.Snapshot, cursorRow, cursorCol int) string {
	var b strings.Builder
	for i, row := range snap.Board.Cells {
		for j, cell := range row {
			switch {
			case i == cursorRow && j == cursorCol:
				b.WriteString(cursorStyle.Render(cursorMark))
			case cell == 1:
				b.WriteString(aliveStyle.Render(aliveCell))
			default:
				b.WriteString(deadStyle.Render(deadCell))
			}
		}
		if i < len(snap.Board.Cells)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
