package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
)

type imageStore interface {
	SaveImage(ctx context.Context, img io.Reader) (*url.URL, error)
}

// Recognizer turns a stored photo into a word in the given language.
type Recognizer interface {
	Recognize(ctx context.Context, image *url.URL, lang model.Language) (model.Word, error)
}

// PendingRecognizer accepts submissions but never produces a result. It
// returns only when ctx is done.
type PendingRecognizer struct{}

func (PendingRecognizer) Recognize(ctx context.Context, image *url.URL, lang model.Language) (model.Word, error) {
	<-ctx.Done()
	return model.Word{}, ctx.Err()
}

type Identifier struct {
	catalog    *Catalog
	images     imageStore
	recognizer Recognizer
}

func NewIdentifier(c *Catalog, images imageStore, r Recognizer) *Identifier {
	return &Identifier{
		catalog:    c,
		images:     images,
		recognizer: r,
	}
}

type IdentifyRequest struct {
	Image       io.Reader
	LanguageISO string
}

// Identify stores the photo and submits it for recognition in the requested
// language. A recognized word invalidates the cached word list.
func (id *Identifier) Identify(ctx context.Context, r IdentifyRequest) (model.Word, error) {
	if r.LanguageISO == "" {
		return model.Word{}, serr.NewServiceError(nil, http.StatusBadRequest, "select language first")
	}

	lang, err := id.catalog.Language(ctx, r.LanguageISO)
	if err != nil {
		return model.Word{}, err
	}

	imgURL, err := id.images.SaveImage(ctx, r.Image)
	if err != nil {
		return model.Word{}, fmt.Errorf("save image: %w", err)
	}

	slog.Info("image submitted for identification", "image_url", imgURL.String(), "lang", lang.ISO639)

	w, err := id.recognizer.Recognize(ctx, imgURL, lang)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.Word{}, serr.NewServiceError(err, http.StatusGatewayTimeout, "failed to process item").
				With("image_url", imgURL.String())
		}
		return model.Word{}, fmt.Errorf("recognize image: %w", err)
	}

	id.catalog.InvalidateWords()
	return w, nil
}
