package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/server/assets"
	"github.com/dmitrijs2005/motordesk/internal/server/models"
)

// maxBatchRequestSize caps a whole upload request: a full batch of maximum
// size files plus slack for multipart framing.
const maxBatchRequestSize = common.UploadBatchSize*common.MaxFileSize + 1<<20

type uploadResponse struct {
	Results []models.UploadResult `json:"results"`
	Error   string                `json:"error,omitempty"`
}

// uploadImages accepts up to UploadBatchSize files in the repeated "files"
// multipart field and stores each one. Results are positional: results[i]
// always describes files[i], whether it succeeded or failed.
func (s *Server) uploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchRequestSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request entity too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files provided")
		return
	}
	if len(files) > common.UploadBatchSize {
		s.writeError(w, http.StatusBadRequest, "too many files in batch")
		return
	}

	results := make([]models.UploadResult, len(files))
	failed := 0

	for i, fh := range files {
		result := s.uploadOne(r, fh)
		results[i] = result
		if result.Failed() {
			failed++
		}
	}

	if failed == len(files) {
		s.writeJSON(w, http.StatusBadGateway, uploadResponse{
			Results: results,
			Error:   "all uploads failed",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{Results: results})
}

func (s *Server) uploadOne(r *http.Request, fh *multipart.FileHeader) models.UploadResult {
	f, err := fh.Open()
	if err != nil {
		return models.UploadResult{Error: assets.NormalizeError(fh.Filename, err)}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, common.MaxFileSize+1))
	if err != nil {
		return models.UploadResult{Error: assets.NormalizeError(fh.Filename, err)}
	}

	stored, err := s.assets.Upload(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return models.UploadResult{Error: assets.NormalizeError(fh.Filename, err)}
	}

	return models.UploadResult{AssetID: stored.ID, URL: stored.URL}
}

// deleteAsset removes a stored object by its key and drops the reference
// from any vehicle that still carries it.
func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing asset id")
		return
	}

	if err := s.vehicles.RemoveAssetRefs(r.Context(), id); err != nil {
		s.logger.Error(r.Context(), "removing asset references", "key", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.logger.Error(r.Context(), "deleting asset", "key", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
