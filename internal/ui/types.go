package ui

import (
	"context"
	"database/sql"

	"answergen/internal/controller"
	"answergen/internal/models"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/sirupsen/logrus"
)

const (
	MaxInputHeight  = 6
	JournalPageSize = 10
)

var ModalWidth = 60

// Deps is everything the program needs from the launcher.
type Deps struct {
	Ctx        context.Context
	Controller *controller.Controller
	Journal    *sql.DB
	JournalErr error
	Log        *logrus.Logger
	// GlamourStyle is "dark" or "light".
	GlamourStyle string
	// StartDir is where the image picker opens.
	StartDir string
}

type imageEncodedMsg struct {
	att models.Attachment
	err error
}

type submissionDoneMsg struct {
	sub     *controller.Submission
	outcome models.Outcome
	err     error
}

type Model struct {
	Viewport  viewport.Model
	TextInput textarea.Model
	Spinner   spinner.Model
	Picker    filepicker.Model
	Renderer  *glamour.TermRenderer

	ctx  context.Context
	Ctrl *controller.Controller
	Log  *logrus.Logger

	DB    *sql.DB
	DBErr error

	GlamourStyle string
	WindowWidth  int
	WindowHeight int

	PickerOpen bool
	Encoding   bool

	JournalOpen        bool
	JournalSelectedIdx int
	JournalCount       int
	JournalItems       []models.SubmissionRecord
	JournalErr         error
	JournalPage        int

	ShortcutsOpen bool
	CurrentModel  models.AIModel
	Program       *tea.Program
}
