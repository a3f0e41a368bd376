package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/SnapScribe/app/internal/pkg/httpx"
	"github.com/SnapScribe/app/internal/pkg/serr"
)

type imageService interface {
	Upload(ctx context.Context, img io.Reader) (*url.URL, error)
}

type APIOption func(*API) *API

func WithImageService(srv imageService) APIOption {
	return func(api *API) *API {
		api.srv = srv
		return api
	}
}

func WithMaxImageSize(size int64) APIOption {
	return func(api *API) *API {
		api.maxImgSize = size
		return api
	}
}

func WithContentRoot(root string) APIOption {
	return func(api *API) *API {
		api.contentRoot = root
		return api
	}
}

type API struct {
	srv         imageService
	maxImgSize  int64
	contentRoot string
	mux         *http.ServeMux
}

func NewAPI(opts ...APIOption) *API {
	api := &API{
		maxImgSize: 5 * 1024 * 1024,
		mux:        http.NewServeMux(),
	}

	for _, opt := range opts {
		api = opt(api)
	}

	if api.srv == nil {
		panic("image service is required")
	}
	if api.contentRoot == "" {
		panic("content root is required")
	}

	api.mount()
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.mux.ServeHTTP(w, r)
}

func (api *API) mount() {
	fs := http.FileServer(http.Dir(api.contentRoot))

	api.mux.HandleFunc("POST /upload", api.handleUploadImage)
	api.mux.Handle("GET /image/", http.StripPrefix("/image/", fs))
}

type uploadImageResponse struct {
	ImageURL string `json:"image_url"`
}

func (api *API) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	// leave room for the multipart envelope around the photo
	r.Body = http.MaxBytesReader(w, r.Body, api.maxImgSize+64*1024)

	f, h, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusRequestEntityTooLarge, "image size exceeded"))
			return
		}
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid image"))
		return
	}
	defer f.Close()

	if h.Size > api.maxImgSize {
		httpx.HandleErr(w, r, serr.NewServiceError(nil, http.StatusRequestEntityTooLarge, "image size exceeded").
			With("filename", h.Filename))
		return
	}

	imgURL, err := api.srv.Upload(r.Context(), f)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusCreated, uploadImageResponse{
		ImageURL: imgURL.String(),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}
