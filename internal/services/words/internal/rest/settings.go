package rest

import (
	"net/http"

	"github.com/SnapScribe/app/internal/pkg/httpx"
	"github.com/SnapScribe/app/internal/pkg/middleware"
	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/SnapScribe/app/internal/services/words/internal/service"
)

type settingsResponse struct {
	Theme    model.Theme `json:"theme"`
	Language string      `json:"language"`
}

func writeSettings(w http.ResponseWriter, r *http.Request, st model.Settings) {
	err := httpx.WriteJSON(w, http.StatusOK, settingsResponse{Theme: st.Theme, Language: st.LanguageISO})
	if err != nil {
		httpx.HandleErr(w, r, err)
	}
}

func (api *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	st, err := api.settings.GetSettings(r.Context(), uid)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeSettings(w, r, st)
}

type setThemeRequest struct {
	Theme string `json:"theme"`
}

func (api *API) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req setThemeRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	st, err := api.settings.SetTheme(r.Context(), service.SetThemeRequest{
		UserID: uid,
		Theme:  model.Theme(req.Theme),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeSettings(w, r, st)
}

type changeLanguageRequest struct {
	Language string `json:"language"`
}

func (api *API) handleChangeLanguage(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req changeLanguageRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	st, err := api.settings.ChangeLanguage(r.Context(), service.ChangeLanguageRequest{
		UserID:      uid,
		LanguageISO: req.Language,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeSettings(w, r, st)
}

type subscriptionResponse struct {
	UserID    string `json:"user_id"`
	Anonymous bool   `json:"anonymous"`
	Active    bool   `json:"active"`
}

func (api *API) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	if id.UserID == "" {
		httpx.HandleErr(w, r, serr.NewServiceError(nil, http.StatusUnauthorized, "Unauthorized"))
		return
	}

	sub := api.settings.Subscription(service.SubscriptionRequest{
		UserID:       id.UserID,
		Anonymous:    id.Anonymous,
		Entitlements: id.Entitlements,
	})

	err := httpx.WriteJSON(w, http.StatusOK, subscriptionResponse{
		UserID:    sub.UserID,
		Anonymous: sub.Anonymous,
		Active:    sub.Active,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
	}
}
