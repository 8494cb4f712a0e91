package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/imagemeta"
	"github.com/dmitrijs2005/motordesk/internal/logging"
)

type putCall struct {
	key         string
	contentType string
	at          time.Time
}

type fakeStore struct {
	mu    sync.Mutex
	calls []putCall
	// errs are returned in order for successive Put calls; a nil entry (or
	// running past the end) means success.
	errs []error
}

func (f *fakeStore) Put(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.calls)
	f.calls = append(f.calls, putCall{key: key, contentType: contentType, at: time.Now()})

	if n < len(f.errs) && f.errs[n] != nil {
		return "", f.errs[n]
	}
	return "http://store.local/assets/" + key, nil
}

func (f *fakeStore) Delete(context.Context, string) error { return nil }

func statusError(code int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{
			Response: &http.Response{StatusCode: code},
		},
		Err: fmt.Errorf("upstream said %d", code),
	}
}

func newTestService(store *fakeStore) *Service {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	s := NewService(store, logger)
	s.initialBackoff = 50 * time.Millisecond // keep the suite fast; doubling still observable
	return s
}

func pngBytes() []byte {
	return append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, []byte("body")...)
}

func TestUpload_RetriesTransientThenSucceeds(t *testing.T) {
	store := &fakeStore{errs: []error{
		statusError(http.StatusServiceUnavailable),
		statusError(http.StatusServiceUnavailable),
		nil,
	}}
	s := newTestService(store)

	asset, err := s.Upload(context.Background(), "photo.png", "image/png", pngBytes())
	require.NoError(t, err)
	require.NotNil(t, asset)
	assert.NotEmpty(t, asset.ID)
	assert.Contains(t, asset.URL, asset.ID)

	require.Len(t, store.calls, 3, "two transient failures then success")

	d1 := store.calls[1].at.Sub(store.calls[0].at)
	d2 := store.calls[2].at.Sub(store.calls[1].at)
	assert.GreaterOrEqual(t, d1, s.initialBackoff, "first retry waits at least the initial backoff")
	assert.GreaterOrEqual(t, d2, 2*s.initialBackoff, "second retry doubles the delay")
}

func TestUpload_TerminalErrorNotRetried(t *testing.T) {
	store := &fakeStore{errs: []error{statusError(http.StatusBadRequest)}}
	s := newTestService(store)

	_, err := s.Upload(context.Background(), "photo.png", "image/png", pngBytes())
	require.Error(t, err)
	assert.Len(t, store.calls, 1, "validation failures must not be retried")
}

func TestUpload_ExhaustedRetriesSurfacesLastError(t *testing.T) {
	store := &fakeStore{errs: []error{
		statusError(http.StatusBadGateway),
		statusError(http.StatusBadGateway),
		statusError(http.StatusBadGateway),
	}}
	s := newTestService(store)

	_, err := s.Upload(context.Background(), "photo.png", "image/png", pngBytes())
	require.Error(t, err)
	assert.Len(t, store.calls, 3, "three attempts total, then give up")
	assert.Contains(t, err.Error(), "502")
}

func TestUpload_SizeBounds(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(store)

	_, err := s.Upload(context.Background(), "empty.jpg", "image/jpeg", nil)
	assert.ErrorIs(t, err, common.ErrorFileEmpty)

	huge := make([]byte, common.MaxFileSize+1)
	_, err = s.Upload(context.Background(), "huge.jpg", "image/jpeg", huge)
	assert.ErrorIs(t, err, common.ErrorFileTooLarge)

	assert.Empty(t, store.calls, "rejected files never reach the store")
}

func TestUpload_SniffedFormatWinsOverDeclared(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(store)

	// PNG bytes with a lying name and MIME type.
	asset, err := s.Upload(context.Background(), "photo.bin", "application/octet-stream", pngBytes())
	require.NoError(t, err)

	require.Len(t, store.calls, 1)
	assert.True(t, strings.HasSuffix(store.calls[0].key, ".png"))
	assert.Equal(t, "image/png", store.calls[0].contentType)
	assert.True(t, imagemeta.IsSafeFileName(store.calls[0].key))
	assert.Equal(t, store.calls[0].key, asset.ID)
}

func TestNormalizeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty file", fmt.Errorf("x: %w", common.ErrorFileEmpty), "a.jpg: the file is empty"},
		{"too large", fmt.Errorf("x: %w", common.ErrorFileTooLarge), "a.jpg: the image exceeds the 20 MiB limit"},
		{"entity too large", errors.New("request entity too large"), "a.jpg: the image is too large for the content store"},
		{"pattern mismatch", errors.New(`key does not match the pattern "^[a-z]+$"`), "a.jpg: the content store rejected the generated filename"},
		{"unparseable body", errors.New("invalid character '<' looking for beginning of value"), "a.jpg: the content store returned an unreadable response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeError("a.jpg", tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeError_TruncatesUnknownProviderMessage(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("z", maxProviderMessageLen+50)
	got := NormalizeError("a.jpg", errors.New(long))
	assert.LessOrEqual(t, len(got), len("a.jpg: ")+maxProviderMessageLen+len("..."))
	assert.True(t, strings.HasSuffix(got, "..."))
}
