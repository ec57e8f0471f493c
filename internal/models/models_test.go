package models

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationRequest(t *testing.T) {
	t.Run("text only", func(t *testing.T) {
		req, err := NewGenerationRequest("Hello", nil)
		require.NoError(t, err)
		assert.Equal(t, "Hello", req.PromptText)
		assert.False(t, req.HasImage())
		assert.NotEmpty(t, req.ID)
	})

	t.Run("with image", func(t *testing.T) {
		raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
		att := &Attachment{
			Name:           "cat.jpg",
			EncodedPayload: base64.StdEncoding.EncodeToString(raw),
			MimeType:       "image/jpeg",
			SizeBytes:      int64(len(raw)),
		}
		req, err := NewGenerationRequest("Describe this", att)
		require.NoError(t, err)
		require.True(t, req.HasImage())
		assert.Equal(t, "image/jpeg", req.Image.MimeType)

		got, err := req.Image.Bytes()
		require.NoError(t, err)
		assert.Equal(t, raw, got)
		assert.Equal(t, "data:image/jpeg;base64,/9j/4A==", req.Image.DataURL())
	})

	t.Run("invalid payload", func(t *testing.T) {
		att := &Attachment{Name: "bad.png", EncodedPayload: "not base64!!", MimeType: "image/png"}
		_, err := NewGenerationRequest("x", att)
		assert.Error(t, err)
	})

	t.Run("fresh id per request", func(t *testing.T) {
		a, _ := NewGenerationRequest("a", nil)
		b, _ := NewGenerationRequest("a", nil)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestOutcome(t *testing.T) {
	ok := Success("A cat.")
	assert.True(t, ok.OK())
	assert.Equal(t, "A cat.", ok.Display())

	cause := errors.New("quota exceeded")
	failed := Failure("Error communicating with the API: quota exceeded", cause)
	assert.False(t, failed.OK())
	assert.ErrorIs(t, failed.Err, cause)
	assert.Contains(t, failed.Display(), "quota exceeded")
}

func TestInteractionState_CanSubmit(t *testing.T) {
	tests := []struct {
		name  string
		state InteractionState
		want  bool
	}{
		{"empty", InteractionState{}, false},
		{"blank prompt", InteractionState{PromptText: "  \n\t"}, false},
		{"prompt", InteractionState{PromptText: "hi"}, true},
		{"image only", InteractionState{Attached: &Attachment{}}, true},
		{"loading", InteractionState{PromptText: "hi", Loading: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.CanSubmit())
		})
	}
}
