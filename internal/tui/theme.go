package tui

import (
	"github.com/charmbracelet/lipgloss"

	"linkdeck-cli/internal/model"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so colors are adaptive throughout.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorAccent     = ac("26", "39")
	colorError      = ac("124", "203")
	colorSuccess    = ac("28", "78")

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleRowSel = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
	styleNotice = map[string]lipgloss.Style{
		"success": lipgloss.NewStyle().Foreground(colorSuccess),
		"error":   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		"info":    lipgloss.NewStyle().Foreground(colorMuted),
	}

	healthStyles = map[model.HealthStatus]lipgloss.Style{
		model.HealthExcellent: lipgloss.NewStyle().Foreground(ac("28", "78")),
		model.HealthGood:      lipgloss.NewStyle().Foreground(ac("28", "78")),
		model.HealthWorking:   lipgloss.NewStyle().Foreground(ac("30", "45")),
		model.HealthFair:      lipgloss.NewStyle().Foreground(ac("130", "214")),
		model.HealthPoor:      lipgloss.NewStyle().Foreground(ac("130", "214")),
		model.HealthBroken:    lipgloss.NewStyle().Foreground(ac("124", "203")),
	}
)

func healthGlyph(h model.Health) string {
	glyphs := map[model.HealthStatus]string{
		model.HealthExcellent: "●",
		model.HealthGood:      "●",
		model.HealthWorking:   "◐",
		model.HealthFair:      "◑",
		model.HealthPoor:      "◑",
		model.HealthBroken:    "✕",
	}
	g, ok := glyphs[h.Status]
	if !ok {
		return styleMuted.Render("○")
	}
	if st, ok := healthStyles[h.Status]; ok {
		return st.Render(g)
	}
	return g
}
