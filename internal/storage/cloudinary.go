// Package storage uploads attachments to Cloudinary and returns durable URLs.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dremassist/obrabot/internal/config"
	"github.com/dremassist/obrabot/internal/domain"
)

// CloudinaryUploader pushes files through Cloudinary's unsigned upload API.
type CloudinaryUploader struct {
	cloudName    string
	uploadPreset string
	httpClient   *http.Client
}

func NewCloudinaryUploader(cloudName, uploadPreset string) *CloudinaryUploader {
	return &CloudinaryUploader{
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		httpClient:   &http.Client{Timeout: config.RequestTimeout},
	}
}

// Upload sends a locally staged file and returns its secure URL. Files go
// into a per-user folder so receipts stay grouped by purchaser.
func (u *CloudinaryUploader) Upload(ctx context.Context, localPath, userID string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		defer mw.Close()
		if err := mw.WriteField("upload_preset", u.uploadPreset); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("folder", "dremassist/"+userID); err != nil {
			pw.CloseWithError(err)
			return
		}
		part, err := mw.CreateFormFile("file", filepath.Base(localPath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
		}
	}()

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", u.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, pr)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("cloudinary upload failed", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("%w: status %d", domain.ErrUploadFailed, resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}
	if result.SecureURL == "" {
		return "", domain.ErrUploadFailed
	}
	return result.SecureURL, nil
}
