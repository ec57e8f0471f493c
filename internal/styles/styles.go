package styles

import "github.com/charmbracelet/lipgloss"

var (
	ContentWidth = 54
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FgPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			Italic(true)

	AnswerLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(FgSecondary).
				Bold(true).
				Padding(0, 1).
				MarginRight(1)

	AnswerStyle = lipgloss.NewStyle().
			Foreground(FgText).
			PaddingTop(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(FgSecondary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(FgError).
			Bold(true)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(FgError).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FgError).
				Padding(0, 1)

	ImageChipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(FgPrimary).
			Padding(0, 1).
			MarginRight(1)

	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FgPrimary).
			Padding(0, 1)

	InputBoxDisabledStyle = InputBoxStyle.
				BorderForeground(BorderColor)

	WelcomeArtStyle = lipgloss.NewStyle().
			Foreground(FgPrimary).
			Bold(true)

	WelcomeSubtitleStyle = lipgloss.NewStyle().
				Foreground(FgMuted).
				Italic(true)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FgPrimary).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FgPrimary).
			MarginBottom(1)

	ModalItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ModalSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("#3C4A66")).
				Foreground(lipgloss.Color("#FFFFFF"))

	KeyStyle = lipgloss.NewStyle().
			Foreground(FgWarning).
			Bold(true).
			Width(14)

	HintColor = FgMuted
)
