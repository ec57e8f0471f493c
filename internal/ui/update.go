package ui

import (
	"fmt"

	"answergen/internal/controller"
	"answergen/internal/db"
	"answergen/internal/imagefile"
	"answergen/internal/models"
	"answergen/internal/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.Ctrl.State().Loading || m.Encoding {
			m.UpdateViewport()
			return m, spCmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.PickerOpen {
			return m.updatePicker(msg)
		}

		if m.JournalOpen {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "ctrl+h", "enter":
				m.JournalOpen = false
				m.JournalErr = nil
				return m, nil
			case "up", "k":
				if len(m.JournalItems) == 0 {
					return m, nil
				}
				m.JournalSelectedIdx--
				if m.JournalSelectedIdx < 0 {
					m.JournalSelectedIdx = len(m.JournalItems) - 1
				}
				return m, nil
			case "down", "j":
				if len(m.JournalItems) == 0 {
					return m, nil
				}
				m.JournalSelectedIdx++
				if m.JournalSelectedIdx >= len(m.JournalItems) {
					m.JournalSelectedIdx = 0
				}
				return m, nil
			case "left", "h":
				if m.JournalPage > 0 {
					m.JournalPage--
					m.RefreshJournal()
				}
				return m, nil
			case "right", "l":
				totalPages := (m.JournalCount + JournalPageSize - 1) / JournalPageSize
				if m.JournalPage < totalPages-1 {
					m.JournalPage++
					m.RefreshJournal()
				}
				return m, nil
			}
			return m, nil
		}

		if m.ShortcutsOpen {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "?", "ctrl+s":
				m.ShortcutsOpen = false
				return m, nil
			}
			return m, nil
		}

		loading := m.Ctrl.State().Loading

		if isNewlineShortcut(msg) {
			if !loading {
				m.TextInput.InsertString("\n")
				m.syncPrompt()
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlO:
			if loading || m.Encoding {
				return m, nil
			}
			m.PickerOpen = true
			m.JournalOpen = false
			m.ShortcutsOpen = false
			return m, m.Picker.Init()

		case tea.KeyCtrlX:
			m.Ctrl.ClearImage()
			m.Picker.Path = ""
			m.UpdateViewport()
			return m, nil

		case tea.KeyCtrlS:
			m.ShortcutsOpen = true
			m.JournalOpen = false
			return m, nil

		case tea.KeyCtrlH:
			m.JournalOpen = true
			m.ShortcutsOpen = false
			m.JournalPage = 0
			m.RefreshJournal()
			return m, nil

		case tea.KeyEnter:
			if loading || m.Encoding {
				return m, nil
			}
			m.syncPrompt()
			sub := m.Ctrl.BeginSubmit(m.ctx)
			if sub == nil {
				// no-op, or the request could not be built
				m.Picker.Path = ""
				m.UpdateViewport()
				return m, nil
			}
			m.TextInput.Blur()
			m.UpdateViewport()
			return m, tea.Batch(m.submitCmd(sub), m.Spinner.Tick)
		}

		if loading {
			return m, nil
		}

	case imageEncodedMsg:
		m.Encoding = false
		m.Ctrl.CompleteImageSelection(msg.att, msg.err)
		m.UpdateViewport()
		return m, nil

	case submissionDoneMsg:
		if msg.err != nil {
			m.Ctrl.FailSubmit(m.ctx, msg.sub, msg.err)
		} else {
			m.Ctrl.CompleteSubmit(m.ctx, msg.sub, msg.outcome)
		}
		m.Picker.Path = ""
		m.TextInput.Focus()
		m.UpdateViewport()
		m.Viewport.GotoTop()
		return m, nil

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height

		ModalWidth = msg.Width - 10
		if ModalWidth > 72 {
			ModalWidth = 72
		}
		if ModalWidth < 30 {
			ModalWidth = 30
		}
		styles.ContentWidth = ModalWidth - 6

		contentWidth := msg.Width - 2
		m.Viewport.Width = contentWidth - 2

		m.updateInputLayout()
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(m.GlamourStyle),
			glamour.WithWordWrap(contentWidth-6),
			glamour.WithPreservedNewLines(),
		)

		var fpCmd tea.Cmd
		m.Picker, fpCmd = m.Picker.Update(msg)
		m.UpdateViewport()
		return m, fpCmd
	}

	var fpCmd tea.Cmd
	if m.PickerOpen {
		m.Picker, fpCmd = m.Picker.Update(msg)
	}

	m.TextInput, tiCmd = m.TextInput.Update(msg)
	m.syncPrompt()

	m.Viewport, vpCmd = m.Viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, fpCmd)
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "ctrl+o":
		m.PickerOpen = false
		return m, nil
	}

	var cmd tea.Cmd
	m.Picker, cmd = m.Picker.Update(msg)

	if ok, path := m.Picker.DidSelectFile(msg); ok {
		m.PickerOpen = false
		return m, m.selectImage(path)
	}
	if ok, path := m.Picker.DidSelectDisabledFile(msg); ok {
		m.Log.WithField("path", path).Debug("Picked a file with an unsupported extension")
	}
	return m, cmd
}

// selectImage validates the file on the loop and encodes it in a command.
func (m *Model) selectImage(path string) tea.Cmd {
	f, err := imagefile.Stat(path)
	if err != nil {
		m.Ctrl.CompleteImageSelection(models.Attachment{}, fmt.Errorf("failed to stat %s: %w", path, err))
		m.UpdateViewport()
		return nil
	}
	if !m.Ctrl.BeginImageSelection(f) {
		m.UpdateViewport()
		return nil
	}

	m.Encoding = true
	m.UpdateViewport()
	ctx, ctrl := m.ctx, m.Ctrl
	return tea.Batch(func() tea.Msg {
		att, err := ctrl.EncodeImage(ctx, f)
		return imageEncodedMsg{att: att, err: err}
	}, m.Spinner.Tick)
}

func (m *Model) submitCmd(sub *controller.Submission) tea.Cmd {
	ctx, ctrl := m.ctx, m.Ctrl
	return func() tea.Msg {
		out, err := ctrl.Execute(ctx, sub)
		return submissionDoneMsg{sub: sub, outcome: out, err: err}
	}
}

func (m *Model) syncPrompt() {
	m.Ctrl.SetPrompt(m.TextInput.Value())
	m.updateInputLayout()
}

func isNewlineShortcut(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "shift+enter", "shift+return", "ctrl+j", "ctrl+enter", "alt+enter":
		return true
	default:
		return false
	}
}

func (m *Model) updateInputLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	inputWidth := m.WindowWidth - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	contentWidth := inputWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	lineCount := WrappedLineCount(m.TextInput.Value(), contentWidth)
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > MaxInputHeight {
		lineCount = MaxInputHeight
	}

	m.TextInput.MaxHeight = MaxInputHeight
	m.TextInput.SetWidth(inputWidth)
	m.TextInput.SetHeight(lineCount)

	// title, banner/chip line, input border, bottom bar
	inputBoxHeight := m.TextInput.Height() + 2
	reserved := inputBoxHeight + 7
	viewportHeight := m.WindowHeight - reserved
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	m.Viewport.Height = viewportHeight
}

func (m *Model) RefreshJournal() {
	m.JournalErr = nil
	m.JournalItems = nil
	m.JournalSelectedIdx = 0

	if m.DBErr != nil {
		m.JournalErr = m.DBErr
		return
	}
	if m.DB == nil {
		m.JournalErr = fmt.Errorf("journal is disabled")
		return
	}

	offset := m.JournalPage * JournalPageSize
	count, items, err := db.GetRecentSubmissions(m.ctx, m.DB, JournalPageSize, offset)
	if err != nil {
		m.JournalErr = err
		return
	}
	m.JournalCount = count
	m.JournalItems = items
}
