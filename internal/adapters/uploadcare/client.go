package uploadcare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"devevents/internal/domain"
)

// DefaultBaseURL is the Uploadcare upload API.
const DefaultBaseURL = "https://upload.uploadcare.com"

// Config holds the Uploadcare project settings.
type Config struct {
	PublicKey string
	Subdomain string
	// BaseURL overrides DefaultBaseURL; used by tests.
	BaseURL string
}

type httpUploader struct {
	client *http.Client
	cfg    Config
}

// NewUploader returns an ImageUploader that posts files to the Uploadcare upload API.
func NewUploader(client *http.Client, cfg Config) domain.ImageUploader {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &httpUploader{client: client, cfg: cfg}
}

type uploadResponse struct {
	File string `json:"file"`
}

func (u *httpUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if u.cfg.PublicKey == "" {
		return "", fmt.Errorf("uploadcare public key is not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("UPLOADCARE_PUB_KEY", u.cfg.PublicKey); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := mw.WriteField("UPLOADCARE_STORE", "auto"); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.BaseURL+"/base/", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload to uploadcare: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("uploadcare api returned status: %d", resp.StatusCode)
	}

	var data uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode uploadcare response: %w", err)
	}
	if data.File == "" {
		return "", fmt.Errorf("uploadcare response has no file id")
	}
	return ImageURL(u.cfg.Subdomain, data.File), nil
}

// ImageURL builds the display URL for an uploaded file.
func ImageURL(subdomain, fileID string) string {
	return fmt.Sprintf("https://%s.ucarecd.net/%s/-/preview/1000x562/", subdomain, fileID)
}
