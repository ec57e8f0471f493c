package ui

import (
	"fmt"
	"strings"
	"time"

	"answergen/internal/models"
	"answergen/internal/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func (m *Model) RenderPicker() string {
	title := styles.ModalTitleStyle.Width(styles.ContentWidth).Render("Attach an image")
	dir := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		Render(TruncateRunes(TildePath(m.Picker.CurrentDirectory), styles.ContentWidth))

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render(fmt.Sprintf("Images up to %s • ←/→: folders • Enter: attach • Esc: close",
			humanize.IBytes(models.MaxImageBytes)))

	return lipgloss.JoinVertical(lipgloss.Left, title, dir, "", m.Picker.View(), hint)
}

func (m *Model) RenderJournal() string {
	totalPages := (m.JournalCount + JournalPageSize - 1) / JournalPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	title := styles.ModalTitleStyle.Width(styles.ContentWidth).
		Render(fmt.Sprintf("Recent Submissions (%d) - Page %d/%d", m.JournalCount, m.JournalPage+1, totalPages))

	var body string
	if m.JournalErr != nil {
		body = lipgloss.NewStyle().Width(styles.ContentWidth).Render(styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.JournalErr)))
	} else if len(m.JournalItems) == 0 {
		body = styles.ModalItemStyle.Width(styles.ContentWidth).Render(lipgloss.NewStyle().Foreground(styles.HintColor).Render("No submissions yet"))
	} else {
		items := make([]string, 0, len(m.JournalItems))
		for i, rec := range m.JournalItems {
			isSelected := i == m.JournalSelectedIdx
			cursor := "  "
			if isSelected {
				cursor = "> "
			}

			marker := lipgloss.NewStyle().Foreground(styles.OutcomeColor(rec.Outcome)).Render("●")
			timeStr := RelativeTime(time.Unix(rec.CreatedAtUnix, 0))
			prompt := rec.PromptPreview
			if prompt == "" {
				prompt = "(no prompt)"
			}
			if rec.ImageMimeType != "" {
				prompt = "🖼 " + prompt
			}
			availableWidth := styles.ContentWidth - 2 - len(cursor) - 3 - len(timeStr)
			prompt = TruncateRunes(prompt, availableWidth)

			itemContent := fmt.Sprintf("%s%s %s %s", cursor, marker, prompt, lipgloss.NewStyle().Foreground(styles.HintColor).Render(timeStr))
			if isSelected {
				items = append(items, styles.ModalSelectedStyle.Width(styles.ContentWidth).Render(itemContent))
			} else {
				items = append(items, styles.ModalItemStyle.Width(styles.ContentWidth).Render(itemContent))
			}
		}
		body = lipgloss.JoinVertical(lipgloss.Left, items...)
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.renderJournalDetail())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body)
	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("↑/↓: navigate • ←/→: page • Esc: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) renderJournalDetail() string {
	if m.JournalSelectedIdx < 0 || m.JournalSelectedIdx >= len(m.JournalItems) {
		return ""
	}
	rec := m.JournalItems[m.JournalSelectedIdx]

	parts := []string{
		rec.Outcome,
		fmt.Sprintf("%s ms", humanize.Comma(rec.DurationMillis)),
		rec.ModelID,
	}
	if rec.ImageMimeType != "" {
		parts = append(parts, fmt.Sprintf("%s %s", rec.ImageMimeType, humanize.IBytes(uint64(rec.ImageSizeBytes))))
	}
	return lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render(strings.Join(parts, " • "))
}

func (m *Model) RenderShortcutsModal() string {
	title := styles.ModalTitleStyle.Width(styles.ContentWidth).Render("Keyboard Shortcuts")

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send question"},
		{"Shift+Enter", "New line"},
		{"Ctrl+O", "Attach an image"},
		{"Ctrl+X", "Remove the image"},
		{"Ctrl+H", "Recent submissions"},
		{"Ctrl+S", "View Shortcuts (this menu)"},
		{"Esc/Ctrl+C", "Quit Application"},
	}

	var items []string
	descStyle := lipgloss.NewStyle().Foreground(styles.FgText)
	for _, s := range shortcuts {
		line := fmt.Sprintf("%s %s", styles.KeyStyle.Render(s.key), descStyle.Render(s.desc))
		items = append(items, styles.ModalItemStyle.Width(styles.ContentWidth).Render(line))
	}

	listContent := lipgloss.JoinVertical(lipgloss.Left, items...)
	content := lipgloss.JoinVertical(lipgloss.Left, title, listContent)

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("Esc/Enter: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderBottomBar() string {
	st := m.Ctrl.State()

	var status string
	switch {
	case st.Loading:
		status = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(styles.FgSecondary).Padding(0, 1).Render("GENERATING")
	case st.CanSubmit():
		status = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(styles.FgPrimary).Padding(0, 1).Render("READY")
	default:
		status = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(styles.BorderColor).Padding(0, 1).Render("IDLE")
	}

	model := lipgloss.NewStyle().
		Foreground(styles.FgPrimary).
		Render(TruncateRunes(m.CurrentModel.Name, 25))

	journal := "journal off"
	if m.DB != nil {
		journal = "journal on"
	}
	journalInfo := lipgloss.NewStyle().Foreground(styles.HintColor).Render(journal)

	help := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Render("Image: ^O  Help: ^S")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, status, "  ", model)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center, journalInfo, "  ", help)

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, rightSide)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.BorderColor).
		Padding(0, 1).
		Render(bar)
}

func GetWelcomeScreen(width, height int) string {
	art := `
 ╭──────────────────────────────────────╮
 │                                      │
 │     ✦  A I   A N S W E R S  ✦        │
 │                                      │
 ╰──────────────────────────────────────╯
`
	subtitle := "Ask any question, attach a photo and get an answer from Gemini."

	styledArt := styles.WelcomeArtStyle.Render(art)
	styledSubtitle := styles.WelcomeSubtitleStyle.Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, styledArt, "", styledSubtitle)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) UpdateViewport() {
	st := m.Ctrl.State()

	var sections []string
	if st.Loading {
		sections = append(sections, fmt.Sprintf("%s Generating answer...", m.Spinner.View()))
	}
	if m.Encoding {
		sections = append(sections, fmt.Sprintf("%s Loading image...", m.Spinner.View()))
	}
	if st.ResultText != "" {
		sections = append(sections, FormatAnswer(st.ResultText, m.Renderer))
	}

	if len(sections) == 0 {
		m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
		return
	}
	m.Viewport.SetContent(strings.Join(sections, "\n\n"))
}

func (m *Model) View() string {
	st := m.Ctrl.State()

	inputWidth := m.WindowWidth - 4
	boxStyle := styles.InputBoxStyle
	if st.Loading {
		boxStyle = styles.InputBoxDisabledStyle
	}
	inputBox := boxStyle.Width(inputWidth).Render(m.TextInput.View())

	var inputParts []string
	if banner := FormatErrorBanner(st.ErrorMessage, inputWidth); banner != "" {
		inputParts = append(inputParts, banner)
	}
	if chip := FormatImageChip(st.Attached); chip != "" {
		inputParts = append(inputParts, chip)
	}
	inputParts = append(inputParts, inputBox)
	inputSection := lipgloss.JoinVertical(lipgloss.Left, inputParts...)

	mainContent := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("AI ANSWER GENERATOR"),
		styles.SubtitleStyle.Render("Powered by Google Gemini"),
		m.Viewport.View(),
		"",
		inputSection,
	)
	mainArea := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center, mainContent)
	content := lipgloss.JoinVertical(lipgloss.Left, mainArea, m.RenderBottomBar())

	var modal string
	switch {
	case m.PickerOpen:
		modal = m.RenderPicker()
	case m.JournalOpen:
		modal = m.RenderJournal()
	case m.ShortcutsOpen:
		modal = m.RenderShortcutsModal()
	default:
		return content
	}

	modal = styles.ModalStyle.Width(ModalWidth).Render(modal)
	return lipgloss.Place(
		m.WindowWidth,
		m.WindowHeight,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}
