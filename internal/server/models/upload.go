package models

// UploadResult is the per-file unit of the upload endpoint's response,
// positionally aligned with the submitted files. Exactly one of AssetID or
// Error is non-empty.
type UploadResult struct {
	AssetID string `json:"assetId,omitempty"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failed reports whether this result carries an error instead of an asset.
func (r UploadResult) Failed() bool {
	return r.Error != ""
}
