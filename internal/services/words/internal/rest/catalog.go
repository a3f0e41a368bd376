package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/SnapScribe/app/internal/pkg/fn"
	"github.com/SnapScribe/app/internal/pkg/httpx"
	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/catalog"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/SnapScribe/app/internal/services/words/internal/store"
)

func (api *API) handleGetLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := api.catalog.Languages(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp := fn.Map(langs, func(l model.Language) languageResponse {
		return languageResponse{ID: l.ID, ISO639: l.ISO639, Name: l.Name, Flag: l.Flag}
	})
	if err := httpx.WriteJSON(w, http.StatusOK, resp); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

func (api *API) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	selected, err := int64Query(r, "selected", model.AllCategories)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	cats, err := api.catalog.Categories(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp := fn.Map(catalog.SortCategories(cats, selected), func(c model.Category) categoryResponse {
		return categoryResponse{ID: c.ID, Name: c.Name, Emoji: c.Emoji}
	})
	if err := httpx.WriteJSON(w, http.StatusOK, resp); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

type getWordsResponse struct {
	Filtered bool           `json:"filtered"`
	Words    []wordResponse `json:"words"`
}

func (api *API) handleGetWords(w http.ResponseWriter, r *http.Request) {
	category, err := int64Query(r, "category", model.AllCategories)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	lang, err := api.activeLanguage(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	f := catalog.WordFilter{
		LanguageID: lang.ID,
		CategoryID: category,
		Query:      r.URL.Query().Get("q"),
	}
	words, err := api.catalog.FilteredWords(r.Context(), f)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, getWordsResponse{
		Filtered: f.Active(),
		Words:    fn.Map(words, toWordResponse),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
	}
}

type addWordRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	CategoryID  int64  `json:"category_id"`
}

type addWordResponse struct {
	ID int64 `json:"id"`
}

// handleAddWord stores a word in the caller's active language.
func (api *API) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req addWordRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.CategoryID == model.AllCategories {
		httpx.HandleErr(w, r, serr.NewServiceError(nil, http.StatusBadRequest, "name and category are required"))
		return
	}

	lang, err := api.activeLanguage(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	id, err := api.catalog.AddWord(r.Context(), model.Word{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		LanguageID:  lang.ID,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		httpx.HandleErr(w, r, classifyStoreErr(err, req.Name))
		return
	}

	if err := httpx.WriteJSON(w, http.StatusCreated, addWordResponse{ID: id}); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

// handleIdentify accepts a photo and waits for it to be recognized in the
// caller's active language, up to the identify timeout.
func (api *API) handleIdentify(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, api.maxImgSize+formOverhead)
	f, h, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httpx.HandleErr(w, r, errImageTooLarge(err))
			return
		}
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid image"))
		return
	}
	if h.Size > api.maxImgSize {
		_ = f.Close()
		httpx.HandleErr(w, r, errImageTooLarge(nil).With("size", strconv.FormatInt(h.Size, 10)))
		return
	}
	defer f.Close()

	st, err := api.settings.GetSettings(r.Context(), uid)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), api.identifyTimeout)
	defer cancel()

	word, err := api.identify.Identify(ctx, catalog.IdentifyRequest{
		Image:       f,
		LanguageISO: st.LanguageISO,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, toWordResponse(word)); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

func (api *API) activeLanguage(r *http.Request) (model.Language, error) {
	uid, err := userID(r)
	if err != nil {
		return model.Language{}, err
	}

	st, err := api.settings.GetSettings(r.Context(), uid)
	if err != nil {
		return model.Language{}, err
	}

	return api.catalog.Language(r.Context(), st.LanguageISO)
}

// formOverhead leaves room for multipart boundaries and headers around the
// image itself.
const formOverhead = 64 * 1024

func errImageTooLarge(err error) *serr.ServiceError {
	return serr.NewServiceError(err, http.StatusRequestEntityTooLarge, "image size exceeded")
}

func classifyStoreErr(err error, name string) error {
	switch {
	case errors.Is(err, store.ErrExists):
		return serr.NewServiceError(err, http.StatusConflict, "word already exists").With("name", name)
	case errors.Is(err, store.ErrNotFound):
		return serr.NewServiceError(err, http.StatusNotFound, "category not found").With("name", name)
	}
	return err
}
