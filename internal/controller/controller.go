package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"answergen/internal/imagefile"
	"answergen/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	loadFailureMsg  = "Failed to load the image."
	unknownErrorMsg = "An unknown error occurred."

	previewRunes = 80
)

// SizeLimitMessage is shown when a picked file is over the attachment limit.
func SizeLimitMessage(size int64) string {
	return fmt.Sprintf("The image is too large (%s). Please choose a file smaller than %s.",
		humanize.IBytes(uint64(size)), humanize.IBytes(models.MaxImageBytes))
}

// Generator resolves a request to display text. It must not panic or block forever.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) models.Outcome
}

// Recorder stores submission metadata.
type Recorder interface {
	Record(ctx context.Context, rec models.SubmissionRecord) error
}

// Submission is one accepted submit, carried from BeginSubmit to its completion.
// The image fields describe the attachment as it was when the request was built.
type Submission struct {
	Request        models.GenerationRequest
	Started        time.Time
	ImageMimeType  string
	ImageSizeBytes int64
}

// Controller owns the InteractionState. Its methods are not safe for concurrent
// use; only EncodeImage and Execute may run off the owning goroutine.
type Controller struct {
	state   models.InteractionState
	gen     Generator
	journal Recorder
	modelID string
	log     *logrus.Logger
	now     func() time.Time
}

type Option func(*Controller)

// WithJournal records every finished submission.
func WithJournal(r Recorder) Option {
	return func(c *Controller) { c.journal = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func New(gen Generator, log *logrus.Logger, opts ...Option) *Controller {
	c := &Controller{
		gen:     gen,
		modelID: models.DefaultModel.ID,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() models.InteractionState {
	return c.state
}

func (c *Controller) SetPrompt(text string) {
	c.state.PromptText = text
}

// BeginImageSelection validates src. It reports whether encoding should follow.
func (c *Controller) BeginImageSelection(src imagefile.Source) bool {
	if !imagefile.WithinLimit(src) {
		c.log.WithFields(logrus.Fields{
			"file": src.Name(),
			"size": src.Size(),
		}).Warn("Rejected image over size limit")
		c.state.ErrorMessage = SizeLimitMessage(src.Size())
		return false
	}
	c.state.ErrorMessage = ""
	return true
}

// EncodeImage touches no state and may run on any goroutine.
func (c *Controller) EncodeImage(ctx context.Context, src imagefile.Source) (models.Attachment, error) {
	return imagefile.Encode(ctx, src)
}

func (c *Controller) CompleteImageSelection(att models.Attachment, err error) {
	var tooLarge *imagefile.TooLargeError
	if errors.As(err, &tooLarge) {
		c.log.WithField("size", tooLarge.Size).Warn("Rejected image over size limit after reading")
		c.state.ErrorMessage = SizeLimitMessage(tooLarge.Size)
		return
	}
	if err != nil {
		c.log.WithError(err).Error("Failed to encode image")
		c.state.ErrorMessage = loadFailureMsg
		return
	}
	c.log.WithFields(logrus.Fields{
		"file":      att.Name,
		"mime_type": att.MimeType,
		"size":      att.SizeBytes,
	}).Info("Image attached")
	c.state.Attached = &att
}

// SelectImage runs the whole selection synchronously.
func (c *Controller) SelectImage(ctx context.Context, src imagefile.Source) {
	if !c.BeginImageSelection(src) {
		return
	}
	att, err := c.EncodeImage(ctx, src)
	c.CompleteImageSelection(att, err)
}

func (c *Controller) ClearImage() {
	c.state.Attached = nil
}

// BeginSubmit starts a submission if the state allows one. It returns nil when
// there is nothing to execute: either the submit was a no-op, or the request
// could not be built and the failure is already in ErrorMessage.
func (c *Controller) BeginSubmit(ctx context.Context) *Submission {
	if !c.state.CanSubmit() {
		return nil
	}

	c.state.Loading = true
	c.state.ErrorMessage = ""
	c.state.ResultText = ""
	sub := &Submission{Started: c.now()}
	if att := c.state.Attached; att != nil {
		sub.ImageMimeType = att.MimeType
		sub.ImageSizeBytes = att.SizeBytes
	}

	req, err := models.NewGenerationRequest(c.state.PromptText, c.state.Attached)
	if err != nil {
		sub.Request = models.GenerationRequest{PromptText: c.state.PromptText}
		c.FailSubmit(ctx, sub, err)
		return nil
	}
	sub.Request = req

	c.log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"has_image":  req.HasImage(),
	}).Info("Submission started")
	return sub
}

// Execute calls the generator. It touches no state and may run on any goroutine.
// A non-nil error means the call machinery itself failed.
func (c *Controller) Execute(ctx context.Context, sub *Submission) (out models.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()
	return c.gen.Generate(ctx, sub.Request), nil
}

// CompleteSubmit folds the outcome into the state. Failures from the service are
// shown as result text, not in ErrorMessage.
func (c *Controller) CompleteSubmit(ctx context.Context, sub *Submission, out models.Outcome) {
	c.state.ResultText = out.Display()
	c.state.Loading = false

	status := models.OutcomeRecordOK
	if !out.OK() {
		status = models.OutcomeRecordFailed
	}
	c.record(ctx, sub, status)
	c.state.Attached = nil
}

// FailSubmit ends a submission that never produced an outcome.
func (c *Controller) FailSubmit(ctx context.Context, sub *Submission, err error) {
	c.log.WithError(err).Error("Submission aborted")

	msg := unknownErrorMsg
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		msg = err.Error()
	}
	c.state.ErrorMessage = msg
	c.state.Loading = false

	c.record(ctx, sub, models.OutcomeRecordAborted)
	c.state.Attached = nil
}

// Submit runs a whole submission synchronously.
func (c *Controller) Submit(ctx context.Context) {
	sub := c.BeginSubmit(ctx)
	if sub == nil {
		return
	}
	out, err := c.Execute(ctx, sub)
	if err != nil {
		c.FailSubmit(ctx, sub, err)
		return
	}
	c.CompleteSubmit(ctx, sub, out)
}

func (c *Controller) record(ctx context.Context, sub *Submission, status string) {
	if c.journal == nil || sub == nil {
		return
	}

	id := sub.Request.ID
	if id == "" {
		id = uuid.NewString()
	}
	rec := models.SubmissionRecord{
		ID:             id,
		CreatedAtUnix:  sub.Started.Unix(),
		ModelID:        c.modelID,
		PromptPreview:  Preview(sub.Request.PromptText),
		ImageMimeType:  sub.ImageMimeType,
		ImageSizeBytes: sub.ImageSizeBytes,
		Outcome:        status,
		DurationMillis: c.now().Sub(sub.Started).Milliseconds(),
	}

	if err := c.journal.Record(ctx, rec); err != nil {
		c.log.WithError(err).WithField("request_id", id).Warn("Failed to record submission")
	}
}

// Preview shortens a prompt to a single line for listings.
func Preview(prompt string) string {
	s := strings.Join(strings.Fields(prompt), " ")
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	r := []rune(s)
	return string(r[:previewRunes-1]) + "…"
}
