package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme          Theme
	Title          lipgloss.Style
	Text           lipgloss.Style
	Muted          lipgloss.Style
	Accent         lipgloss.Style
	Border         lipgloss.Style
	Success        lipgloss.Style
	Warning        lipgloss.Style
	Error          lipgloss.Style
	Info           lipgloss.Style
	StatusOK       lipgloss.Style
	StatusFallback lipgloss.Style
	StatusError    lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// StylesFor builds styles from the named theme, falling back to the
// default theme when the name is unknown.
func StylesFor(name string) Styles {
	if theme, ok := Themes[name]; ok {
		return BuildStyles(theme)
	}
	return DefaultStyles()
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens

	return Styles{
		Theme:          theme,
		Title:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Bold(true),
		Text:           lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)),
		Muted:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		Accent:         lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)),
		Border:         lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Border)),
		Success:        lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		Warning:        lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
		Info:           lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Info)),
		StatusOK:       lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		StatusFallback: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)),
		StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
	}
}
