package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors for the goal screens, as ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	PlannedColor lipgloss.Color
	ActualColor  lipgloss.Color

	StatusOK    lipgloss.Color
	StatusError lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	PlannedColor: lipgloss.Color("80"),  // teal, matches the planned line
	ActualColor:  lipgloss.Color("204"), // pink-red, matches the actual line

	StatusOK:    lipgloss.Color("114"),
	StatusError: lipgloss.Color("196"),
}
