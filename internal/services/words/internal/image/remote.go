package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// RemoteStore uploads photos to the image service as multipart forms.
type RemoteStore struct {
	URL       string
	FieldName string
	Ext       string
	client    *http.Client
}

func NewRemoteStore(url, fieldName, ext string, timeout time.Duration) *RemoteStore {
	return &RemoteStore{
		URL:       url,
		FieldName: fieldName,
		Ext:       ext,
		client:    &http.Client{Timeout: timeout},
	}
}

type saveImageResponse struct {
	ImageURL string `json:"image_url"`
}

// SaveImage uploads img under a fresh random file name and returns the URL
// the image service reports for it.
func (s *RemoteStore) SaveImage(ctx context.Context, img io.Reader) (*url.URL, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(s.FieldName, uuid.NewString()+s.Ext)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}

	if _, err := io.Copy(part, img); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var saveResp saveImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&saveResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	imgURL, err := url.Parse(saveResp.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("parse image URL: %w", err)
	}

	return imgURL, nil
}
