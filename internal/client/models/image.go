// Package models defines the client-side data structures of the upload
// workflow.
package models

// ImageState tracks a staged image through the upload pipeline.
type ImageState string

const (
	StatePending   ImageState = "pending"
	StateUploading ImageState = "uploading"
	StateUploaded  ImageState = "uploaded"
	StateFailed    ImageState = "failed"
)

// StagedImage is one image in the upload queue. ID is generated on the
// client and never changes; the server-assigned AssetID appears only after a
// successful upload. Progress is an advisory percentage: 0 while the image is
// on its way, 100 once uploaded. Data is held in memory only and is never
// written to the manifest.
type StagedImage struct {
	ID       string     `json:"id"`
	FileName string     `json:"fileName"`
	Size     int64      `json:"size"`
	MIMEType string     `json:"mimeType"`
	State    ImageState `json:"state"`
	AssetID  string     `json:"assetId,omitempty"`
	URL      string     `json:"url,omitempty"`
	Error    string     `json:"error,omitempty"`
	Position int        `json:"position"`
	Progress int        `json:"progress"`

	Data []byte `json:"-"`
}

// Uploaded reports whether the image has a server-assigned asset id.
func (i *StagedImage) Uploaded() bool {
	return i.State == StateUploaded && i.AssetID != ""
}

// Restored reports whether the image was recovered from the manifest without
// its bytes. Restored entries are placeholders: they can be reordered or
// removed but not re-uploaded.
func (i *StagedImage) Restored() bool {
	return len(i.Data) == 0 && !i.Uploaded()
}
