package imagefile

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"answergen/internal/models"
)

// ErrNotRegular is returned for directories and other non-file paths.
var ErrNotRegular = errors.New("not a regular file")

// TooLargeError is returned when the bytes read exceed the attachment limit,
// whatever size the source reported beforehand.
type TooLargeError struct {
	Size int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("image is %d bytes, over the %d byte limit", e.Size, models.MaxImageBytes)
}

// AllowedExtensions feeds the file picker.
var AllowedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".heic", ".heif", ".bmp"}

// Source is a file the user picked.
type Source interface {
	Name() string
	Size() int64
	MimeType() string
	Open() (io.ReadCloser, error)
}

// File is a Source backed by a path on disk.
type File struct {
	path     string
	size     int64
	mimeType string
}

// Stat describes the file at path without reading it fully. The declared MIME
// type comes from the extension; unknown extensions fall back to sniffing.
func Stat(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	f := &File{path: path, size: info.Size()}
	f.mimeType = declaredType(path)
	if f.mimeType == "" {
		f.mimeType = sniffType(path)
	}
	return f, nil
}

func (f *File) Name() string     { return filepath.Base(f.path) }
func (f *File) Size() int64      { return f.size }
func (f *File) MimeType() string { return f.mimeType }
func (f *File) Path() string     { return f.path }

func (f *File) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// WithinLimit reports whether src may be attached.
func WithinLimit(src Source) bool {
	return src.Size() <= models.MaxImageBytes
}

// Encode reads src and returns it as a transport-ready attachment.
func Encode(ctx context.Context, src Source) (models.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return models.Attachment{}, err
	}

	rc, err := src.Open()
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	r := contextReader{ctx: ctx, r: rc}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, models.MaxImageBytes+1))
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	if n > models.MaxImageBytes {
		rest, _ := io.Copy(io.Discard, r)
		return models.Attachment{}, &TooLargeError{Size: n + rest}
	}

	return models.Attachment{
		Name:           src.Name(),
		EncodedPayload: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:       src.MimeType(),
		SizeBytes:      int64(buf.Len()),
	}, nil
}

func declaredType(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

func sniffType(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	if n == 0 {
		return ""
	}
	return http.DetectContentType(head[:n])
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
