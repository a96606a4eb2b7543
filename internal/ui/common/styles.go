// Package common provides shared styles and utilities for the UI.
package common

import (
	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	PresidentIcon  = "🎩"
	ChancellorIcon = "📜"
	DeadIcon       = "💀"
	OfflineIcon    = "📴"
	LiberalIcon    = "🕊"
	FascistIcon    = "🦅"
)

// Lipgloss Styles
var (
	DocStyle     = lipgloss.NewStyle().Margin(1, 2)
	LiberalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#1E5AA8")).Bold(true)
	FascistStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#B22222")).Bold(true)
	EmptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	PromptStyle  = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	NoticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	OKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
