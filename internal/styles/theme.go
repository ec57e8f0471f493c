package styles

import (
	"answergen/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the color scheme for one terminal background.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	TextPrimary lipgloss.Color
	TextMuted   lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border lipgloss.Color
}

var DarkTheme = Theme{
	Primary:     lipgloss.Color("#8AB4F8"), // Google blue 300
	Secondary:   lipgloss.Color("#C58AF9"), // Purple 300
	TextPrimary: lipgloss.Color("#E8EAED"),
	TextMuted:   lipgloss.Color("#9AA0A6"),
	Success:     lipgloss.Color("#81C995"),
	Warning:     lipgloss.Color("#FDD663"),
	Error:       lipgloss.Color("#F28B82"),
	Border:      lipgloss.Color("#3C4043"),
}

var LightTheme = Theme{
	Primary:     lipgloss.Color("#1A73E8"),
	Secondary:   lipgloss.Color("#9334E6"),
	TextPrimary: lipgloss.Color("#202124"),
	TextMuted:   lipgloss.Color("#5F6368"),
	Success:     lipgloss.Color("#1E8E3E"),
	Warning:     lipgloss.Color("#F9AB00"),
	Error:       lipgloss.Color("#D93025"),
	Border:      lipgloss.Color("#DADCE0"),
}

// CurrentTheme holds the active theme (set at runtime based on terminal)
var CurrentTheme = DarkTheme

type Adaptive = lipgloss.AdaptiveColor

var (
	FgPrimary   = Adaptive{Light: string(LightTheme.Primary), Dark: string(DarkTheme.Primary)}
	FgSecondary = Adaptive{Light: string(LightTheme.Secondary), Dark: string(DarkTheme.Secondary)}
	FgText      = Adaptive{Light: string(LightTheme.TextPrimary), Dark: string(DarkTheme.TextPrimary)}
	FgMuted     = Adaptive{Light: string(LightTheme.TextMuted), Dark: string(DarkTheme.TextMuted)}
	FgError     = Adaptive{Light: string(LightTheme.Error), Dark: string(DarkTheme.Error)}
	FgSuccess   = Adaptive{Light: string(LightTheme.Success), Dark: string(DarkTheme.Success)}
	FgWarning   = Adaptive{Light: string(LightTheme.Warning), Dark: string(DarkTheme.Warning)}
	BorderColor = Adaptive{Light: string(LightTheme.Border), Dark: string(DarkTheme.Border)}
)

// OutcomeColor colors a journal outcome.
func OutcomeColor(outcome string) lipgloss.TerminalColor {
	switch outcome {
	case models.OutcomeRecordOK:
		return FgSuccess
	case models.OutcomeRecordFailed:
		return FgError
	default:
		return FgWarning
	}
}

// InitTheme sets the current theme based on terminal background and returns
// the matching glamour style name.
func InitTheme() string {
	if lipgloss.HasDarkBackground() {
		CurrentTheme = DarkTheme
		return "dark"
	}
	CurrentTheme = LightTheme
	return "light"
}
