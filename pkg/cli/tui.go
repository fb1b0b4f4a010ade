package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
	System  lipgloss.Color
	User    lipgloss.Color
	Model   lipgloss.Color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	System:  lipgloss.Color("#d2a8ff"),
	User:    lipgloss.Color("#79c0ff"),
	Model:   lipgloss.Color("#00ff9f"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
	Roles  map[string]lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	role := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(c)
	}
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
		Roles: map[string]lipgloss.Style{
			"system":    role(t.System),
			"user":      role(t.User),
			"assistant": role(t.Model),
		},
	}
}

// Header renders a section header such as "── user (alice) ──────".
func (s Styles) Header(role, name string, width int) string {
	st, ok := s.Roles[role]
	if !ok {
		st = s.Label
	}
	label := st.Render(role)
	if name != "" {
		label += " " + s.Help.Render("("+name+")")
	}
	padding := max(0, width-4-lipgloss.Width(label))
	return s.Border.Render("── ") + label + " " + s.Border.Render(strings.Repeat("─", padding))
}

// Table renders rows as aligned columns, the first row styled as a header.
func (s Styles) Table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	var sb strings.Builder
	for r, row := range rows {
		for i, cell := range row {
			text := fmt.Sprintf("%-*s", widths[i], cell)
			if r == 0 {
				text = s.Label.Render(text)
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncateString safely truncates a string to the given width,
// handling multi-byte characters correctly.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	currentWidth := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if currentWidth+w > width {
			return string(runes[:i])
		}
		currentWidth += w
	}
	return s
}

// Truncate shortens s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	return truncateString(s, width-1) + "…"
}
