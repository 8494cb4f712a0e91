// Package api is the HTTP client for the back-office admin API. The session
// cookie set by login is kept in an in-memory jar and sent on every request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"strings"
	"time"

	"github.com/dmitrijs2005/motordesk/internal/client/models"
)

// FilePayload is one file submitted to the upload endpoint.
type FilePayload struct {
	Name string
	MIME string
	Data []byte
}

// UploadResult is the per-file outcome, positionally aligned with the
// submitted payloads.
type UploadResult struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

type uploadResponse struct {
	Results []UploadResult `json:"results"`
	Error   string         `json:"error"`
}

type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Jar: jar, Timeout: 5 * time.Minute},
	}, nil
}

func (c *Client) url(path string) string {
	return c.base + path
}

// Login authenticates and stores the session cookie for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}

	resp, err := c.post(ctx, "/api/admin/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("login failed: %s", resp.Status)
	}
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.post(ctx, "/api/admin/logout", "application/json", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout failed: %s", resp.Status)
	}
	return nil
}

// UploadBatch submits files as one multipart request and returns per-file
// results in submission order. A 413 response, or an HTML error page from an
// intermediary carrying entity-too-large markers, is reported as
// ErrEntityTooLarge so the caller can fall back to per-file submission.
func (c *Client) UploadBatch(ctx context.Context, files []FilePayload) ([]UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := createFilePart(mw, f)
		if err != nil {
			return nil, fmt.Errorf("building multipart request: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("building multipart request: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building multipart request: %w", err)
	}

	resp, err := c.post(ctx, "/api/admin/upload-images", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusRequestEntityTooLarge:
		return nil, ErrEntityTooLarge
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if isEntityTooLargeBody(raw) {
			return nil, ErrEntityTooLarge
		}
		return nil, fmt.Errorf("unexpected upload response (%s): %s", resp.Status, truncate(raw, 200))
	}

	// 200 and the all-failed 502 both carry positional results; per-file
	// errors are the caller's to handle.
	if len(parsed.Results) > 0 {
		return parsed.Results, nil
	}

	if parsed.Error != "" {
		return nil, fmt.Errorf("upload failed: %s", parsed.Error)
	}
	return nil, fmt.Errorf("upload failed: %s", resp.Status)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// createFilePart opens a "files" form part carrying the file's declared
// content type, so the server can use it as a sniffing fallback.
// multipart.Writer.CreateFormFile would pin every part to
// application/octet-stream.
func createFilePart(mw *multipart.Writer, f FilePayload) (io.Writer, error) {
	contentType := f.MIME
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)
	return mw.CreatePart(h)
}

// isEntityTooLargeBody spots proxy error pages that arrive with a non-413
// status or as text/HTML.
func isEntityTooLargeBody(raw []byte) bool {
	body := strings.ToLower(string(raw))
	return strings.Contains(body, "entity too large") ||
		strings.Contains(body, "request_entity_too_large") ||
		strings.Contains(body, "payload too large")
}

// SaveVehicle creates the vehicle when it has no id and updates it otherwise.
func (c *Client) SaveVehicle(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	if v.ID == "" {
		resp, err = c.post(ctx, "/api/admin/vehicles", "application/json", bytes.NewReader(body))
	} else {
		resp, err = c.do(ctx, http.MethodPut, "/api/admin/vehicles/"+v.ID, "application/json", bytes.NewReader(body))
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("saving vehicle: %s", resp.Status)
	}

	var saved models.Vehicle
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return nil, fmt.Errorf("decoding vehicle: %w", err)
	}
	return &saved, nil
}

func (c *Client) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/vehicles", "", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing vehicles: %s", resp.Status)
	}

	var list []models.Vehicle
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding vehicles: %w", err)
	}
	return list, nil
}

func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/admin/assets/"+id, "", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deleting asset: %s", resp.Status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, contentType, body)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
