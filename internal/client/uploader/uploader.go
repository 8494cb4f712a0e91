// Package uploader drives the client-side upload queue: staged images move
// pending -> uploading -> uploaded, batches go out strictly in order, and
// every state change is written through to the manifest.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/motordesk/internal/client/api"
	"github.com/dmitrijs2005/motordesk/internal/client/models"
	"github.com/dmitrijs2005/motordesk/internal/common"
)

const (
	// interBatchPause gives the server room to breathe between batches.
	interBatchPause = 200 * time.Millisecond
)

// BatchAPI is the slice of the admin API the uploader needs.
type BatchAPI interface {
	UploadBatch(ctx context.Context, files []api.FilePayload) ([]api.UploadResult, error)
}

// Manifest is the metadata store the queue writes through to.
type Manifest interface {
	Put(img *models.StagedImage) error
	PutAll(imgs []*models.StagedImage) error
	Delete(id string) error
	List() ([]*models.StagedImage, error)
	Clear() error
}

// ProgressFunc receives (uploaded, total) after every completed batch.
type ProgressFunc func(uploaded, total int)

type Uploader struct {
	api      BatchAPI
	manifest Manifest
	progress ProgressFunc
	pause    time.Duration

	mu     sync.Mutex
	images []*models.StagedImage
}

func New(batchAPI BatchAPI, m Manifest) *Uploader {
	return &Uploader{
		api:      batchAPI,
		manifest: m,
		pause:    interBatchPause,
	}
}

// SetProgress registers the progress callback. Pass nil to disable.
func (u *Uploader) SetProgress(fn ProgressFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.progress = fn
}

// Restore loads manifest entries left over from a previous session. Entries
// arrive without bytes and act as placeholders until removed.
func (u *Uploader) Restore() error {
	imgs, err := u.manifest.List()
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.images = imgs
	return nil
}

// Add appends a new image to the end of the queue.
func (u *Uploader) Add(fileName, mimeType string, data []byte) (*models.StagedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%q: %w", fileName, common.ErrorFileEmpty)
	}
	if len(data) > common.MaxFileSize {
		return nil, fmt.Errorf("%q: %w", fileName, common.ErrorFileTooLarge)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	img := &models.StagedImage{
		ID:       uuid.NewString(),
		FileName: fileName,
		Size:     int64(len(data)),
		MIMEType: mimeType,
		State:    models.StatePending,
		Position: len(u.images),
		Data:     data,
	}
	u.images = append(u.images, img)

	if err := u.manifest.Put(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Images returns a snapshot of the queue in display order.
func (u *Uploader) Images() []*models.StagedImage {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*models.StagedImage, len(u.images))
	copy(out, u.images)
	return out
}

func (u *Uploader) indexOf(id string) int {
	for i, img := range u.images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// MoveUp swaps the image with its predecessor. Moving the first image is a
// no-op.
func (u *Uploader) MoveUp(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	i := u.indexOf(id)
	if i < 0 {
		return fmt.Errorf("image %s: %w", id, common.ErrorNotFound)
	}
	if i == 0 {
		return nil
	}
	u.images[i-1], u.images[i] = u.images[i], u.images[i-1]
	return u.renumberLocked()
}

// MoveDown swaps the image with its successor. Moving the last image is a
// no-op.
func (u *Uploader) MoveDown(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	i := u.indexOf(id)
	if i < 0 {
		return fmt.Errorf("image %s: %w", id, common.ErrorNotFound)
	}
	if i == len(u.images)-1 {
		return nil
	}
	u.images[i], u.images[i+1] = u.images[i+1], u.images[i]
	return u.renumberLocked()
}

// Remove deletes the image; the rest of the queue keeps its relative order.
func (u *Uploader) Remove(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	i := u.indexOf(id)
	if i < 0 {
		return fmt.Errorf("image %s: %w", id, common.ErrorNotFound)
	}
	u.images = append(u.images[:i], u.images[i+1:]...)

	if err := u.manifest.Delete(id); err != nil {
		return err
	}
	return u.renumberLocked()
}

func (u *Uploader) renumberLocked() error {
	for i, img := range u.images {
		img.Position = i
	}
	return u.manifest.PutAll(u.images)
}

// Clear empties the queue and its manifest, typically after a successful
// save.
func (u *Uploader) Clear() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.images = nil
	return u.manifest.Clear()
}

// AssetIDs returns the server asset ids in display order. It fails with
// common.ErrImagesPending while any staged image has not finished uploading,
// so a vehicle can never reference an asset that does not exist.
func (u *Uploader) AssetIDs() ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	ids := make([]string, 0, len(u.images))
	for _, img := range u.images {
		if !img.Uploaded() {
			return nil, fmt.Errorf("%q: %w", img.FileName, common.ErrImagesPending)
		}
		ids = append(ids, img.AssetID)
	}
	return ids, nil
}

// UploadAll pushes every image still lacking an asset id to the server in
// batches, strictly sequentially and in queue order. The whole set is marked
// uploading before the first batch goes out.
//
// A batch that fails as a whole with an entity-too-large response is retried
// file by file through the same endpoint. Any other batch-level failure
// reverts its files to pending, records the error, and processing continues
// with the next batch. Per-file results are matched back by client id, so an
// image removed while its batch was in flight is simply discarded.
func (u *Uploader) UploadAll(ctx context.Context) error {
	queue := u.eligible()
	u.markUploading(queue)

	for start := 0; start < len(queue); start += common.UploadBatchSize {
		end := start + common.UploadBatchSize
		if end > len(queue) {
			end = len(queue)
		}

		u.uploadBatch(ctx, queue[start:end])
		u.reportProgress()

		if end < len(queue) {
			select {
			case <-ctx.Done():
				u.revertBatch(queue[end:], ctx.Err())
				return ctx.Err()
			case <-time.After(u.pause):
			}
		}
	}
	return nil
}

// eligible snapshots the images without an asset id — pending and failed
// alike, so a failed file is retried on the next run — in queue order.
// Restored placeholders have no bytes and are skipped. The snapshot bounds
// one run: files that fail and revert mid-run are not retried until the next
// run.
func (u *Uploader) eligible() []*models.StagedImage {
	u.mu.Lock()
	defer u.mu.Unlock()

	var out []*models.StagedImage
	for _, img := range u.images {
		if (img.State == models.StatePending || img.State == models.StateFailed) && len(img.Data) > 0 {
			out = append(out, img)
		}
	}
	return out
}

func (u *Uploader) markUploading(imgs []*models.StagedImage) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var kept []*models.StagedImage
	for _, img := range imgs {
		if u.indexOf(img.ID) < 0 {
			continue
		}
		img.State = models.StateUploading
		img.Progress = 0
		kept = append(kept, img)
	}
	if len(kept) > 0 {
		_ = u.manifest.PutAll(kept)
	}
}

func (u *Uploader) uploadBatch(ctx context.Context, batch []*models.StagedImage) {
	payloads := make([]api.FilePayload, len(batch))
	for i, img := range batch {
		payloads[i] = api.FilePayload{Name: img.FileName, MIME: img.MIMEType, Data: img.Data}
	}

	results, err := u.api.UploadBatch(ctx, payloads)
	if err != nil {
		if errors.Is(err, api.ErrEntityTooLarge) {
			u.uploadIndividually(ctx, batch)
			return
		}
		u.revertBatch(batch, err)
		return
	}

	u.applyResults(batch, results)
}

// uploadIndividually resubmits a rejected batch one file at a time.
func (u *Uploader) uploadIndividually(ctx context.Context, batch []*models.StagedImage) {
	for _, img := range batch {
		results, err := u.api.UploadBatch(ctx, []api.FilePayload{
			{Name: img.FileName, MIME: img.MIMEType, Data: img.Data},
		})
		if err != nil {
			u.applyResults([]*models.StagedImage{img}, []api.UploadResult{{Error: err.Error()}})
			continue
		}
		u.applyResults([]*models.StagedImage{img}, results)
	}
}

// revertBatch returns a failed batch to pending so a later run can retry it.
func (u *Uploader) revertBatch(batch []*models.StagedImage, cause error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var kept []*models.StagedImage
	for _, img := range batch {
		if u.indexOf(img.ID) < 0 {
			continue
		}
		img.State = models.StatePending
		img.Error = cause.Error()
		img.Progress = 0
		kept = append(kept, img)
	}
	if len(kept) > 0 {
		_ = u.manifest.PutAll(kept)
	}
}

// applyResults writes positional results back onto the batch, matching by
// client id and discarding results for images no longer in the queue.
func (u *Uploader) applyResults(batch []*models.StagedImage, results []api.UploadResult) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var kept []*models.StagedImage
	for i, img := range batch {
		if u.indexOf(img.ID) < 0 {
			continue
		}

		if i >= len(results) {
			img.State = models.StateFailed
			img.Error = "no result returned for file"
			img.Progress = 0
		} else if results[i].Error != "" {
			img.State = models.StateFailed
			img.Error = results[i].Error
			img.Progress = 0
		} else {
			img.State = models.StateUploaded
			img.AssetID = results[i].AssetID
			img.URL = results[i].URL
			img.Error = ""
			img.Progress = 100
		}
		kept = append(kept, img)
	}
	if len(kept) > 0 {
		_ = u.manifest.PutAll(kept)
	}
}

func (u *Uploader) reportProgress() {
	u.mu.Lock()
	fn := u.progress
	uploaded, total := 0, len(u.images)
	for _, img := range u.images {
		if img.Uploaded() {
			uploaded++
		}
	}
	u.mu.Unlock()

	if fn != nil {
		fn(uploaded, total)
	}
}
