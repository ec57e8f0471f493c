package controller

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"answergen/internal/gateway"
	"answergen/internal/imagefile"
	"answergen/internal/logging"
	"answergen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource reports a size without holding the bytes.
type fakeSource struct {
	name    string
	size    int64
	mime    string
	data    []byte
	openErr error
	opened  int
}

func (f *fakeSource) Name() string     { return f.name }
func (f *fakeSource) Size() int64      { return f.size }
func (f *fakeSource) MimeType() string { return f.mime }
func (f *fakeSource) Open() (io.ReadCloser, error) {
	f.opened++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(string(f.data))), nil
}

type recordingBackend struct {
	text  string
	err   error
	calls []models.GenerationRequest
}

func (b *recordingBackend) Name() string { return "recording" }

func (b *recordingBackend) GenerateText(_ context.Context, _ string, req models.GenerationRequest) (string, error) {
	b.calls = append(b.calls, req)
	return b.text, b.err
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(context.Context, models.GenerationRequest) models.Outcome {
	panic("wires crossed")
}

type memJournal struct {
	recs []models.SubmissionRecord
	ctxs []context.Context
	err  error
}

func (m *memJournal) Record(ctx context.Context, rec models.SubmissionRecord) error {
	m.recs = append(m.recs, rec)
	m.ctxs = append(m.ctxs, ctx)
	return m.err
}

func newController(backend *recordingBackend, opts ...Option) *Controller {
	log := logging.Discard()
	return New(gateway.New(backend, log), log, opts...)
}

func TestSelectImage_OverLimitIsRejectedWithoutEncoding(t *testing.T) {
	c := newController(&recordingBackend{})
	src := &fakeSource{name: "big.png", size: 3 * 1000 * 1000, mime: "image/png"}

	c.SelectImage(context.Background(), src)

	st := c.State()
	assert.Equal(t, SizeLimitMessage(src.size), st.ErrorMessage)
	assert.Contains(t, st.ErrorMessage, "2.0 MiB")
	assert.Nil(t, st.Attached)
	assert.Zero(t, src.opened)
}

func TestSelectImage_OverLimitKeepsPriorAttachment(t *testing.T) {
	c := newController(&recordingBackend{})
	ok := &fakeSource{name: "ok.png", size: 3, mime: "image/png", data: []byte("abc")}
	c.SelectImage(context.Background(), ok)
	require.NotNil(t, c.State().Attached)

	c.SelectImage(context.Background(), &fakeSource{name: "big.png", size: models.MaxImageBytes + 1})

	st := c.State()
	assert.NotEmpty(t, st.ErrorMessage)
	require.NotNil(t, st.Attached)
	assert.Equal(t, "ok.png", st.Attached.Name)
}

func TestSelectImage_EncodesRealFile(t *testing.T) {
	raw := make([]byte, 500*1000)
	for i := range raw {
		raw[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "cat.jpg")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	f, err := imagefile.Stat(path)
	require.NoError(t, err)

	c := newController(&recordingBackend{})
	c.state.ErrorMessage = "stale"
	c.SelectImage(context.Background(), f)

	st := c.State()
	assert.Empty(t, st.ErrorMessage)
	require.NotNil(t, st.Attached)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), st.Attached.EncodedPayload)
	assert.Equal(t, "image/jpeg", st.Attached.MimeType)
	assert.Equal(t, int64(len(raw)), st.Attached.SizeBytes)
}

func TestSelectImage_ContentOverLimitDespiteReportedSize(t *testing.T) {
	c := newController(&recordingBackend{})
	c.SelectImage(context.Background(), &fakeSource{name: "ok.png", size: 3, mime: "image/png", data: []byte("abc")})
	require.NotNil(t, c.State().Attached)

	grown := &fakeSource{name: "grown.png", size: 10, mime: "image/png", data: make([]byte, models.MaxImageBytes+1000)}
	c.SelectImage(context.Background(), grown)

	st := c.State()
	assert.Equal(t, SizeLimitMessage(models.MaxImageBytes+1000), st.ErrorMessage)
	require.NotNil(t, st.Attached)
	assert.Equal(t, "ok.png", st.Attached.Name)
	assert.LessOrEqual(t, st.Attached.SizeBytes, int64(models.MaxImageBytes))
}

func TestSelectImage_EncodingFailure(t *testing.T) {
	c := newController(&recordingBackend{})
	c.SelectImage(context.Background(), &fakeSource{name: "locked.png", size: 10, openErr: errors.New("permission denied")})

	st := c.State()
	assert.Equal(t, loadFailureMsg, st.ErrorMessage)
	assert.Nil(t, st.Attached)
}

func TestClearImage(t *testing.T) {
	c := newController(&recordingBackend{})
	c.ClearImage()
	assert.Nil(t, c.State().Attached)

	c.SelectImage(context.Background(), &fakeSource{name: "a.png", size: 1, mime: "image/png", data: []byte("a")})
	require.NotNil(t, c.State().Attached)
	c.ClearImage()
	assert.Nil(t, c.State().Attached)
}

func TestSubmit_ImageAndPrompt(t *testing.T) {
	backend := &recordingBackend{text: "A cat."}
	journal := &memJournal{}
	c := newController(backend, WithJournal(journal))

	c.SelectImage(context.Background(), &fakeSource{name: "cat.jpg", size: 500 * 1000, mime: "image/jpeg", data: []byte("jpegbytes")})
	c.SetPrompt("Describe this")
	c.Submit(context.Background())

	require.Len(t, backend.calls, 1)
	req := backend.calls[0]
	assert.Equal(t, "Describe this", req.PromptText)
	require.NotNil(t, req.Image)
	assert.Equal(t, "image/jpeg", req.Image.MimeType)

	st := c.State()
	assert.Equal(t, "A cat.", st.ResultText)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Attached)
	assert.Empty(t, st.ErrorMessage)
	assert.Equal(t, "Describe this", st.PromptText)

	require.Len(t, journal.recs, 1)
	rec := journal.recs[0]
	assert.Equal(t, req.ID, rec.ID)
	assert.Equal(t, models.OutcomeRecordOK, rec.Outcome)
	assert.Equal(t, "image/jpeg", rec.ImageMimeType)
	assert.Equal(t, int64(len("jpegbytes")), rec.ImageSizeBytes)
}

func TestSubmit_JournalUsesImageSentWithRequest(t *testing.T) {
	t.Run("image removed while in flight", func(t *testing.T) {
		journal := &memJournal{}
		c := newController(&recordingBackend{text: "A cat."}, WithJournal(journal))
		c.SelectImage(context.Background(), &fakeSource{name: "cat.jpg", size: 9, mime: "image/jpeg", data: []byte("jpegbytes")})
		c.SetPrompt("Describe this")

		sub := c.BeginSubmit(context.Background())
		require.NotNil(t, sub)
		require.True(t, sub.Request.HasImage())
		c.ClearImage()

		out, err := c.Execute(context.Background(), sub)
		require.NoError(t, err)
		c.CompleteSubmit(context.Background(), sub, out)

		require.Len(t, journal.recs, 1)
		assert.Equal(t, "image/jpeg", journal.recs[0].ImageMimeType)
		assert.Equal(t, int64(9), journal.recs[0].ImageSizeBytes)
	})

	t.Run("image attached while in flight", func(t *testing.T) {
		journal := &memJournal{}
		c := newController(&recordingBackend{text: "Hi"}, WithJournal(journal))
		c.SetPrompt("Hello")

		sub := c.BeginSubmit(context.Background())
		require.NotNil(t, sub)
		c.CompleteImageSelection(models.Attachment{Name: "late.png", EncodedPayload: "YQ==", MimeType: "image/png", SizeBytes: 1}, nil)

		out, err := c.Execute(context.Background(), sub)
		require.NoError(t, err)
		c.CompleteSubmit(context.Background(), sub, out)

		require.Len(t, journal.recs, 1)
		assert.Empty(t, journal.recs[0].ImageMimeType)
		assert.Zero(t, journal.recs[0].ImageSizeBytes)
	})
}

type ctxKey struct{}

func TestSubmit_JournalReceivesCallerContext(t *testing.T) {
	journal := &memJournal{}
	c := newController(&recordingBackend{text: "ok"}, WithJournal(journal))
	c.SetPrompt("Hello")
	ctx := context.WithValue(context.Background(), ctxKey{}, "loop")

	c.Submit(ctx)

	require.Len(t, journal.ctxs, 1)
	assert.Equal(t, "loop", journal.ctxs[0].Value(ctxKey{}))
}

func TestSubmit_GatewayFailureBecomesResultText(t *testing.T) {
	backend := &recordingBackend{err: errors.New("quota exceeded")}
	journal := &memJournal{}
	c := newController(backend, WithJournal(journal))

	c.SetPrompt("Hello")
	c.Submit(context.Background())

	st := c.State()
	assert.Contains(t, st.ResultText, "quota exceeded")
	assert.Empty(t, st.ErrorMessage)
	assert.False(t, st.Loading)
	require.Len(t, journal.recs, 1)
	assert.Equal(t, models.OutcomeRecordFailed, journal.recs[0].Outcome)
}

func TestSubmit_NoOps(t *testing.T) {
	t.Run("blank prompt and no image", func(t *testing.T) {
		backend := &recordingBackend{text: "x"}
		c := newController(backend)
		c.SetPrompt("   \n\t")
		c.state.ResultText = "previous"

		c.Submit(context.Background())

		assert.Empty(t, backend.calls)
		assert.Equal(t, "previous", c.State().ResultText)
	})

	t.Run("while loading", func(t *testing.T) {
		backend := &recordingBackend{text: "x"}
		c := newController(backend)
		c.SetPrompt("first")

		sub := c.BeginSubmit(context.Background())
		require.NotNil(t, sub)
		assert.True(t, c.State().Loading)

		c.SetPrompt("second")
		assert.Nil(t, c.BeginSubmit(context.Background()))
		c.Submit(context.Background())
		assert.Empty(t, backend.calls)

		out, err := c.Execute(context.Background(), sub)
		require.NoError(t, err)
		c.CompleteSubmit(context.Background(), sub, out)

		require.Len(t, backend.calls, 1)
		assert.Equal(t, "first", backend.calls[0].PromptText)
		assert.False(t, c.State().Loading)
	})
}

func TestBeginSubmit_ResetsTransientFields(t *testing.T) {
	c := newController(&recordingBackend{})
	c.state.ErrorMessage = "old error"
	c.state.ResultText = "old answer"
	c.SetPrompt("Hi")

	sub := c.BeginSubmit(context.Background())
	require.NotNil(t, sub)

	st := c.State()
	assert.True(t, st.Loading)
	assert.Empty(t, st.ErrorMessage)
	assert.Empty(t, st.ResultText)
}

func TestSubmit_ImageOnly(t *testing.T) {
	backend := &recordingBackend{text: "Looks like a dog."}
	c := newController(backend)
	c.SelectImage(context.Background(), &fakeSource{name: "dog.png", size: 3, mime: "image/png", data: []byte("dog")})

	c.Submit(context.Background())

	require.Len(t, backend.calls, 1)
	assert.True(t, backend.calls[0].HasImage())
	assert.Equal(t, "Looks like a dog.", c.State().ResultText)
	assert.Nil(t, c.State().Attached)
}

func TestSubmit_ConstructionFailure(t *testing.T) {
	backend := &recordingBackend{text: "x"}
	journal := &memJournal{}
	c := newController(backend, WithJournal(journal))
	c.state.Attached = &models.Attachment{Name: "bad.png", EncodedPayload: "%%%", MimeType: "image/png"}

	c.Submit(context.Background())

	st := c.State()
	assert.Empty(t, backend.calls)
	assert.Contains(t, st.ErrorMessage, "invalid image payload")
	assert.Empty(t, st.ResultText)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Attached)
	require.Len(t, journal.recs, 1)
	assert.Equal(t, models.OutcomeRecordAborted, journal.recs[0].Outcome)
	assert.NotEmpty(t, journal.recs[0].ID)
}

func TestSubmit_GeneratorPanic(t *testing.T) {
	log := logging.Discard()
	c := New(panickingGenerator{}, log)
	c.SetPrompt("Hello")
	c.state.Attached = &models.Attachment{Name: "a.png", EncodedPayload: "YQ==", MimeType: "image/png"}

	c.Submit(context.Background())

	st := c.State()
	assert.Contains(t, st.ErrorMessage, "wires crossed")
	assert.False(t, st.Loading)
	assert.Nil(t, st.Attached)
}

func TestSubmit_JournalErrorIsNotSurfaced(t *testing.T) {
	journal := &memJournal{err: errors.New("disk full")}
	c := newController(&recordingBackend{text: "ok"}, WithJournal(journal))
	c.SetPrompt("Hello")

	c.Submit(context.Background())

	assert.Equal(t, "ok", c.State().ResultText)
	assert.Empty(t, c.State().ErrorMessage)
}

func TestSubmit_RecordsDuration(t *testing.T) {
	base := time.Unix(1700000000, 0)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 1500 * time.Millisecond)
	}
	journal := &memJournal{}
	c := newController(&recordingBackend{text: "ok"}, WithJournal(journal), WithClock(clock))
	c.SetPrompt("Hello")

	c.Submit(context.Background())

	require.Len(t, journal.recs, 1)
	assert.Equal(t, base.Unix(), journal.recs[0].CreatedAtUnix)
	assert.Equal(t, int64(1500), journal.recs[0].DurationMillis)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b c", Preview("  a\n b\tc "))
	long := strings.Repeat("x", 200)
	p := Preview(long)
	assert.Equal(t, previewRunes, len([]rune(p)))
	assert.True(t, strings.HasSuffix(p, "…"))
}
