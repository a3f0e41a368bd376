package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/google/uuid"
)

// ImageService stores snapped photos on disk and serves them back by URL.
type ImageService struct {
	serveRoot *url.URL
	root      string
	maxWidth  int
	maxHeight int
	formats   []string
}

type ImageServiceConfig struct {
	ServeRoot *url.URL
	Root      string
	MaxWidth  int
	MaxHeight int
	Formats   []string
}

func NewImageService(cfg ImageServiceConfig) (*ImageService, error) {
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create image root: %w", err)
	}

	return &ImageService{
		serveRoot: cfg.ServeRoot,
		root:      cfg.Root,
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		formats:   cfg.Formats,
	}, nil
}

// Upload validates the photo's format and dimensions before writing it under
// a random name. It returns the URL the photo is served at.
func (s *ImageService) Upload(ctx context.Context, img io.Reader) (*url.URL, error) {
	var buff bytes.Buffer
	tee := io.TeeReader(img, &buff)

	cfg, format, err := image.DecodeConfig(tee)
	if err != nil {
		if tooLarge(err) {
			return nil, serr.NewServiceError(err, http.StatusRequestEntityTooLarge, "image size exceeded")
		}
		return nil, serr.NewServiceError(err, http.StatusUnsupportedMediaType, "unrecognized image")
	}
	if len(s.formats) > 0 && !slices.Contains(s.formats, format) {
		return nil, serr.NewServiceError(nil, http.StatusUnsupportedMediaType, "unsupported image format").With("format", format)
	}
	if cfg.Width > s.maxWidth || cfg.Height > s.maxHeight {
		return nil, serr.NewServiceError(nil, http.StatusRequestEntityTooLarge, "image dimensions exceeded").
			With("width", fmt.Sprint(cfg.Width)).
			With("height", fmt.Sprint(cfg.Height))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := uuid.NewString() + "." + format
	path := filepath.Join(s.root, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.MultiReader(&buff, img)); err != nil {
		_ = os.Remove(path)
		if tooLarge(err) {
			return nil, serr.NewServiceError(err, http.StatusRequestEntityTooLarge, "image size exceeded")
		}
		return nil, fmt.Errorf("save image file: %w", err)
	}

	slog.Info("image stored", "name", name, "format", format, "width", cfg.Width, "height", cfg.Height)
	return s.serveRoot.JoinPath(name), nil
}

func tooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
