package ui

import (
	"context"

	"answergen/internal/imagefile"
	"answergen/internal/models"
	"answergen/internal/styles"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func InitialModel(deps Deps) Model {
	ti := textarea.New()
	ti.Placeholder = "Type your question or describe the image..."
	ti.Prompt = "❯ "
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = MaxInputHeight
	ti.SetHeight(2)
	ti.SetWidth(80)
	ti.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(styles.FgPrimary).Bold(true)
	ti.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(styles.FgMuted).Bold(true)
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.HintColor)
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.HintColor)
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.FgSecondary)

	fp := filepicker.New()
	fp.AllowedTypes = imagefile.AllowedExtensions
	fp.ShowSize = true
	if deps.StartDir != "" {
		fp.CurrentDirectory = deps.StartDir
	}

	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	glamourStyle := deps.GlamourStyle
	if glamourStyle == "" {
		glamourStyle = "dark"
	}

	return Model{
		Viewport:     viewport.New(60, 15),
		TextInput:    ti,
		Spinner:      sp,
		Picker:       fp,
		ctx:          ctx,
		Ctrl:         deps.Controller,
		Log:          deps.Log,
		DB:           deps.Journal,
		DBErr:        deps.JournalErr,
		GlamourStyle: glamourStyle,
		CurrentModel: models.DefaultModel,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.TextInput.Cursor.BlinkCmd(),
		m.Spinner.Tick,
	)
}

func NewProgram(deps Deps) *tea.Program {
	m := InitialModel(deps)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	m.Program = p
	return p
}
