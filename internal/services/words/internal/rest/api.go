package rest

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/SnapScribe/app/internal/pkg/middleware"
	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/catalog"
	"github.com/SnapScribe/app/internal/services/words/internal/game"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/SnapScribe/app/internal/services/words/internal/service"
	"github.com/gorilla/websocket"
)

type catalogService interface {
	Languages(ctx context.Context) ([]model.Language, error)
	Categories(ctx context.Context) ([]model.Category, error)
	FilteredWords(ctx context.Context, f catalog.WordFilter) ([]model.Word, error)
	Language(ctx context.Context, iso string) (model.Language, error)
	AddWord(ctx context.Context, w model.Word) (int64, error)
}

type identifier interface {
	Identify(ctx context.Context, r catalog.IdentifyRequest) (model.Word, error)
}

type settingsService interface {
	GetSettings(ctx context.Context, userID string) (model.Settings, error)
	SetTheme(ctx context.Context, r service.SetThemeRequest) (model.Settings, error)
	ChangeLanguage(ctx context.Context, r service.ChangeLanguageRequest) (model.Settings, error)
	Subscription(r service.SubscriptionRequest) model.Subscription
}

type gameService interface {
	StartGame(ctx context.Context, r service.StartGameRequest) (service.Game, error)
	GetGame(ctx context.Context, r service.GameRequest) (service.Game, error)
	Answer(ctx context.Context, r service.AnswerRequest) (service.AnswerResult, error)
	Guess(ctx context.Context, r service.GuessRequest) (service.AnswerResult, error)
	ChangeCategory(ctx context.Context, r service.ChangeCategoryRequest) (service.Game, error)
	EndGame(ctx context.Context, r service.GameRequest) error
}

type APIOption func(*API) *API

func WithMaxImageSize(size int64) APIOption {
	return func(api *API) *API {
		api.maxImgSize = size
		return api
	}
}

// WithIdentifyTimeout bounds how long an identification request waits for
// the recognizer.
func WithIdentifyTimeout(d time.Duration) APIOption {
	return func(api *API) *API {
		api.identifyTimeout = d
		return api
	}
}

func WithSwipeIdleTimeout(d time.Duration) APIOption {
	return func(api *API) *API {
		api.swipeIdle = d
		return api
	}
}

type API struct {
	catalog  catalogService
	identify identifier
	settings settingsService
	games    gameService

	maxImgSize      int64
	identifyTimeout time.Duration
	swipeIdle       time.Duration
	upgrader        websocket.Upgrader
	mux             *http.ServeMux
}

func NewAPI(c catalogService, id identifier, s settingsService, g gameService, opts ...APIOption) *API {
	api := &API{
		catalog:         c,
		identify:        id,
		settings:        s,
		games:           g,
		maxImgSize:      5 * 1024 * 1024,
		identifyTimeout: 30 * time.Second,
		swipeIdle:       2 * time.Minute,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		mux: http.NewServeMux(),
	}

	for _, opt := range opts {
		api = opt(api)
	}

	api.mount()
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.mux.ServeHTTP(w, r)
}

func (api *API) mount() {
	api.mux.HandleFunc("GET /languages", api.handleGetLanguages)
	api.mux.HandleFunc("GET /categories", api.handleGetCategories)
	api.mux.HandleFunc("GET /words", api.handleGetWords)
	api.mux.HandleFunc("PUT /words", api.handleAddWord)
	api.mux.HandleFunc("POST /identify", api.handleIdentify)

	api.mux.HandleFunc("GET /settings", api.handleGetSettings)
	api.mux.HandleFunc("PUT /settings/theme", api.handleSetTheme)
	api.mux.HandleFunc("PUT /settings/language", api.handleChangeLanguage)
	api.mux.HandleFunc("GET /subscription", api.handleGetSubscription)

	api.mux.HandleFunc("PUT /games", api.handleStartGame)
	api.mux.HandleFunc("GET /games/{game_id}", api.handleGetGame)
	api.mux.HandleFunc("POST /games/{game_id}/answer", api.handleAnswer)
	api.mux.HandleFunc("POST /games/{game_id}/guess", api.handleGuess)
	api.mux.HandleFunc("PUT /games/{game_id}/category", api.handleChangeCategory)
	api.mux.HandleFunc("DELETE /games/{game_id}", api.handleEndGame)
	api.mux.HandleFunc("GET /games/{game_id}/swipe", api.handleSwipe)
}

func userID(r *http.Request) (string, error) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == "" {
		return "", serr.NewServiceError(nil, http.StatusUnauthorized, "Unauthorized")
	}
	return uid, nil
}

func int64Query(r *http.Request, param string, def int64) (int64, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, serr.NewServiceError(err, http.StatusBadRequest, "invalid %s parameter", param)
	}
	return v, nil
}

func floatQuery(r *http.Request, param string, def float64) (float64, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, serr.NewServiceError(err, http.StatusBadRequest, "invalid %s parameter", param)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, serr.NewServiceError(nil, http.StatusBadRequest, "invalid %s parameter", param).With(param, raw)
	}
	return v, nil
}

type languageResponse struct {
	ID     int64  `json:"id"`
	ISO639 string `json:"iso639"`
	Name   string `json:"name"`
	Flag   string `json:"flag"`
}

type categoryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
}

type wordResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	LanguageID  int64     `json:"language_id"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func toWordResponse(w model.Word) wordResponse {
	return wordResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Image:       w.Image,
		LanguageID:  w.LanguageID,
		CategoryID:  w.CategoryID,
		CreatedAt:   w.CreatedAt,
	}
}

// roundResponse leaves out the prompt's name: the client only learns it from
// the outcome.
type roundResponse struct {
	Image  string `json:"image"`
	Guess1 string `json:"guess1"`
	Guess2 string `json:"guess2"`
}

type quizResponse struct {
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

type progressResponse struct {
	Seen     int `json:"seen"`
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

type gameResponse struct {
	ID         string           `json:"id"`
	Mode       model.GameMode   `json:"mode"`
	Language   string           `json:"language"`
	CategoryID int64            `json:"category_id"`
	Empty      bool             `json:"empty"`
	Round      *roundResponse   `json:"round,omitempty"`
	Quiz       *quizResponse    `json:"quiz,omitempty"`
	Progress   progressResponse `json:"progress"`
}

func toGameResponse(g service.Game) gameResponse {
	d := g.Deck
	seen, total := d.Progress()

	res := gameResponse{
		ID:         g.ID,
		Mode:       d.Mode,
		Language:   g.LanguageISO,
		CategoryID: g.CategoryID,
		Empty:      d.Empty(),
		Progress: progressResponse{
			Seen:     seen,
			Total:    total,
			Answered: d.Answered,
			Correct:  d.Correct,
		},
	}
	if d.Round != nil {
		res.Round = &roundResponse{Image: d.Round.Image, Guess1: d.Round.Guess1, Guess2: d.Round.Guess2}
	}
	if d.Quiz != nil {
		res.Quiz = &quizResponse{
			Image:       d.Quiz.Prompt.Image,
			Description: d.Quiz.Prompt.Description,
			Options:     d.Quiz.Options,
		}
	}
	return res
}

type outcomeResponse struct {
	Correct bool         `json:"correct"`
	Word    string       `json:"word"`
	Answer  string       `json:"answer"`
	Game    gameResponse `json:"game"`
}

func toOutcomeResponse(res service.AnswerResult) outcomeResponse {
	return outcomeResponse{
		Correct: res.Outcome.Correct,
		Word:    res.Outcome.Word,
		Answer:  res.Outcome.Answer,
		Game:    toGameResponse(res.Game),
	}
}

func slotFromRequest(slot int, direction string) game.Slot {
	switch direction {
	case game.DirLeft.String():
		return game.Slot1
	case game.DirRight.String():
		return game.Slot2
	}
	return game.Slot(slot)
}
