package models

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxImageBytes is the largest image a user may attach (2 MiB).
const MaxImageBytes = 2 * 1024 * 1024

const (
	OutcomeRecordOK      = "ok"
	OutcomeRecordFailed  = "failed"
	OutcomeRecordAborted = "aborted"
)

type AIModel struct {
	ID       string
	Name     string
	Provider string
}

// DefaultModel is the only model the gateway ever calls.
var DefaultModel = AIModel{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: "Google"}

// Attachment is an image selected by the user, already encoded for transport.
type Attachment struct {
	Name           string
	EncodedPayload string // std base64, no data-URI prefix
	MimeType       string
	SizeBytes      int64
}

// Part returns the request-side view of the attachment.
func (a *Attachment) Part() *ImagePart {
	if a == nil {
		return nil
	}
	return &ImagePart{EncodedPayload: a.EncodedPayload, MimeType: a.MimeType}
}

type ImagePart struct {
	EncodedPayload string
	MimeType       string
}

// Bytes decodes the payload back into raw image bytes.
func (p *ImagePart) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(p.EncodedPayload)
}

// DataURL renders the part as a data: URL.
func (p *ImagePart) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", p.MimeType, p.EncodedPayload)
}

// GenerationRequest is built once per submission and never modified afterwards.
type GenerationRequest struct {
	ID         string
	PromptText string
	Image      *ImagePart
}

// NewGenerationRequest packages the prompt and optional attachment. It fails when
// the attachment payload is not valid base64.
func NewGenerationRequest(prompt string, att *Attachment) (GenerationRequest, error) {
	req := GenerationRequest{
		ID:         uuid.NewString(),
		PromptText: prompt,
	}
	if att != nil {
		part := att.Part()
		if _, err := part.Bytes(); err != nil {
			return GenerationRequest{}, fmt.Errorf("invalid image payload for %q: %w", att.Name, err)
		}
		req.Image = part
	}
	return req, nil
}

// HasImage reports whether the request carries an inline image.
func (r GenerationRequest) HasImage() bool {
	return r.Image != nil
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
)

// Outcome is what one gateway call resolves to. Failures keep the underlying
// error so callers can tell the two apart even though both carry display text.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

func Success(text string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Text: text}
}

func Failure(text string, err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Text: text, Err: err}
}

func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Display flattens the outcome to the text shown in the answer area.
func (o Outcome) Display() string {
	return o.Text
}

// InteractionState is the whole mutable state of the screen.
type InteractionState struct {
	PromptText   string
	Attached     *Attachment
	Loading      bool
	ErrorMessage string
	ResultText   string
}

// CanSubmit mirrors the enabled state of the submit action.
func (s InteractionState) CanSubmit() bool {
	if s.Loading {
		return false
	}
	return strings.TrimSpace(s.PromptText) != "" || s.Attached != nil
}

// SubmissionRecord is one journal row. It never holds the answer text.
type SubmissionRecord struct {
	ID             string
	CreatedAtUnix  int64
	ModelID        string
	PromptPreview  string
	ImageMimeType  string
	ImageSizeBytes int64
	Outcome        string
	DurationMillis int64
}
