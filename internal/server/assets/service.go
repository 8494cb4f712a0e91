// Package assets implements the single-asset upload path: size validation,
// format sniffing, safe filename generation, and delivery to the content
// store with bounded retries for transient failures.
package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/imagemeta"
	"github.com/dmitrijs2005/motordesk/internal/logging"
	"github.com/dmitrijs2005/motordesk/internal/server/contentstore"
)

const (
	// maxRetries bounds transient-failure retries; with the initial attempt
	// the store sees at most three tries.
	maxRetries = 2

	// defaultInitialBackoff is the first retry delay; it doubles on each
	// subsequent attempt (1s, 2s).
	defaultInitialBackoff = 1 * time.Second
)

// StoredAsset identifies an object persisted to the content store.
type StoredAsset struct {
	ID  string // object key, also the generated filename
	URL string // public URL of the stored object
}

// Service uploads single files to the content store.
type Service struct {
	store          contentstore.Store
	logger         logging.Logger
	initialBackoff time.Duration
}

func NewService(store contentstore.Store, logger logging.Logger) *Service {
	return &Service{
		store:          store,
		logger:         logger.With("module", "assets"),
		initialBackoff: defaultInitialBackoff,
	}
}

// Upload validates one file, determines its real format, and stores it under
// a freshly generated safe filename.
//
// Transient store failures (rate limiting, gateway errors, timeouts) are
// retried up to maxRetries times with exponential backoff; everything else is
// surfaced immediately. After the retry budget is exhausted the last error is
// returned as-is.
func (s *Service) Upload(ctx context.Context, name, declaredMIME string, data []byte) (*StoredAsset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%q: %w", name, common.ErrorFileEmpty)
	}
	if len(data) > common.MaxFileSize {
		return nil, fmt.Errorf("%q: %w", name, common.ErrorFileTooLarge)
	}

	format := imagemeta.ResolveFormat(data, declaredMIME, name)

	filename, err := imagemeta.SafeFileName(format.Ext)
	if err != nil {
		return nil, fmt.Errorf("generating filename for %q: %w", name, err)
	}

	var url string
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(s.initialBackoff))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var perr error
		url, perr = s.store.Put(ctx, filename, data, format.MIME)
		if perr == nil {
			return nil
		}
		if contentstore.IsRetryable(perr) {
			s.logger.Warn(ctx, "transient store error, will retry", "file", name, "key", filename, "error", perr)
			return retry.RetryableError(perr)
		}
		return perr
	})
	if err != nil {
		s.logger.Error(ctx, "upload failed", "file", name, "key", filename, "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "asset stored", "file", name, "key", filename, "format", format.Name)
	return &StoredAsset{ID: filename, URL: url}, nil
}
