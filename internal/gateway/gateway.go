package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"answergen/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	apiErrorFormat  = "Error communicating with the API: %s"
	unknownErrorMsg = "An unknown error occurred while generating the response."
)

// ErrEmptyResponse is returned by backends when the service answered without text.
var ErrEmptyResponse = errors.New("empty response from model")

// Backend performs one call against the generation service.
type Backend interface {
	GenerateText(ctx context.Context, model string, req models.GenerationRequest) (string, error)
	Name() string
}

// Gateway turns a request into an Outcome. It never returns an error and never
// panics: every failure is folded into display text.
type Gateway struct {
	backend Backend
	model   models.AIModel
	log     *logrus.Logger
}

func New(backend Backend, log *logrus.Logger) *Gateway {
	return &Gateway{backend: backend, model: models.DefaultModel, log: log}
}

func (g *Gateway) Model() models.AIModel {
	return g.model
}

func (g *Gateway) Generate(ctx context.Context, req models.GenerationRequest) (out models.Outcome) {
	entry := g.log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"model":      g.model.ID,
		"backend":    g.backend.Name(),
		"has_image":  req.HasImage(),
	})
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("backend panic: %v", r)
			entry.WithError(err).Error("Generation call panicked")
			out = models.Failure(unknownErrorMsg, err)
		}
	}()

	entry.Debug("Sending generation request")
	text, err := g.backend.GenerateText(ctx, g.model.ID, req)
	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		entry.WithError(err).Error("Error generating response from Gemini API")
		return models.Failure(FormatError(err), err)
	}

	entry.WithFields(logrus.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"chars":       len(text),
	}).Info("Generation succeeded")
	return models.Success(text)
}

// FormatError renders a failure as user-facing text.
func FormatError(err error) string {
	if err == nil {
		return unknownErrorMsg
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return unknownErrorMsg
	}
	return fmt.Sprintf(apiErrorFormat, msg)
}
