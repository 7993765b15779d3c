package viz

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	canvasStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466"))
)
