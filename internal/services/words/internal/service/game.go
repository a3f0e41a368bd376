package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/catalog"
	"github.com/SnapScribe/app/internal/services/words/internal/game"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/SnapScribe/app/internal/services/words/internal/state"
	"github.com/google/uuid"
)

type wordSource interface {
	FilteredWords(ctx context.Context, f catalog.WordFilter) ([]model.Word, error)
	Language(ctx context.Context, iso string) (model.Language, error)
	Category(ctx context.Context, id int64) (model.Category, error)
}

type settingsReader interface {
	GetSettings(ctx context.Context, userID string) (model.Settings, error)
}

// Game is one stored play session.
type Game struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	LanguageISO string     `json:"language"`
	CategoryID  int64      `json:"category_id"`
	Deck        *game.Deck `json:"deck"`
}

// GameService runs flashcard and learn games. Every load-modify-save cycle
// and every draw from the generator happens under mu.
type GameService struct {
	mu       sync.Mutex
	store    state.Store
	words    wordSource
	settings settingsReader
	gen      *game.Generator
	ttl      time.Duration
}

func NewGameService(s state.Store, words wordSource, settings settingsReader, gen *game.Generator, ttl time.Duration) *GameService {
	if gen == nil {
		gen = game.NewGenerator(nil)
	}

	return &GameService{
		store:    s,
		words:    words,
		settings: settings,
		gen:      gen,
		ttl:      ttl,
	}
}

type StartGameRequest struct {
	UserID     string
	Mode       model.GameMode
	CategoryID int64
}

// StartGame builds a deck from the user's active language and the requested
// category. An empty deck is a valid game; it simply never deals a round.
func (s *GameService) StartGame(ctx context.Context, r StartGameRequest) (Game, error) {
	if r.Mode == "" {
		r.Mode = model.ModeFlashcards
	}
	if !r.Mode.Valid() {
		return Game{}, serr.NewServiceError(nil, http.StatusBadRequest, "invalid game mode: %s", r.Mode)
	}

	words, lang, err := s.pool(ctx, r.UserID, r.CategoryID)
	if err != nil {
		return Game{}, err
	}

	g := Game{
		ID:          uuid.NewString(),
		UserID:      r.UserID,
		LanguageISO: lang.ISO639,
		CategoryID:  r.CategoryID,
		Deck:        game.NewDeck(r.Mode, words),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g.Deck.Deal(s.gen, "")
	if err := s.save(ctx, g); err != nil {
		return Game{}, err
	}

	slog.Info("game started",
		"game_id", g.ID,
		"user_id", g.UserID,
		"mode", g.Deck.Mode,
		"words", len(words),
		"empty", g.Deck.Empty())
	return g, nil
}

type GameRequest struct {
	UserID string
	GameID string
}

func (s *GameService) GetGame(ctx context.Context, r GameRequest) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, r)
}

type AnswerRequest struct {
	UserID string
	GameID string
	Slot   game.Slot
}

type AnswerResult struct {
	Outcome game.Outcome
	Game    Game
}

// Answer commits a flashcard guess. Right or wrong, the prompt counts as seen
// and the next round is dealt.
func (s *GameService) Answer(ctx context.Context, r AnswerRequest) (AnswerResult, error) {
	if r.Slot != game.Slot1 && r.Slot != game.Slot2 {
		return AnswerResult{}, serr.NewServiceError(nil, http.StatusBadRequest, "invalid guess slot").
			With("game_id", r.GameID).
			With("slot", strconv.Itoa(int(r.Slot)))
	}

	return s.play(ctx, GameRequest{UserID: r.UserID, GameID: r.GameID}, func(d *game.Deck) (game.Outcome, error) {
		out, ok := d.Answer(s.gen, r.Slot)
		if !ok {
			return game.Outcome{}, game.ErrNoRound
		}
		return out, nil
	})
}

type GuessRequest struct {
	UserID string
	GameID string
	Name   string
}

// Guess answers a learn-mode quiz with one of the offered names.
func (s *GameService) Guess(ctx context.Context, r GuessRequest) (AnswerResult, error) {
	if r.Name == "" {
		return AnswerResult{}, serr.NewServiceError(nil, http.StatusBadRequest, "guess is empty").With("game_id", r.GameID)
	}

	return s.play(ctx, GameRequest{UserID: r.UserID, GameID: r.GameID}, func(d *game.Deck) (game.Outcome, error) {
		return d.Guess(s.gen, r.Name)
	})
}

type ChangeCategoryRequest struct {
	UserID     string
	GameID     string
	CategoryID int64
}

// ChangeCategory swaps the game's word pool, keeping coverage progress for
// words that are still in play.
func (s *GameService) ChangeCategory(ctx context.Context, r ChangeCategoryRequest) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.load(ctx, GameRequest{UserID: r.UserID, GameID: r.GameID})
	if err != nil {
		return Game{}, err
	}

	if _, err := s.words.Category(ctx, r.CategoryID); err != nil {
		return Game{}, err
	}

	lang, err := s.words.Language(ctx, g.LanguageISO)
	if err != nil {
		return Game{}, err
	}

	words, err := s.words.FilteredWords(ctx, catalog.WordFilter{LanguageID: lang.ID, CategoryID: r.CategoryID})
	if err != nil {
		return Game{}, fmt.Errorf("load words: %w", err)
	}

	g.CategoryID = r.CategoryID
	g.Deck.Replace(s.gen, words)
	if err := s.save(ctx, g); err != nil {
		return Game{}, err
	}

	return g, nil
}

func (s *GameService) EndGame(ctx context.Context, r GameRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, r); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, gameKey(r.GameID)); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func (s *GameService) play(ctx context.Context, r GameRequest, move func(*game.Deck) (game.Outcome, error)) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.load(ctx, r)
	if err != nil {
		return AnswerResult{}, err
	}

	out, err := move(g.Deck)
	switch {
	case errors.Is(err, game.ErrNoRound):
		return AnswerResult{}, serr.NewServiceError(err, http.StatusConflict, "no round in play").
			With("game_id", g.ID).
			With("mode", string(g.Deck.Mode))
	case errors.Is(err, game.ErrNotOffered):
		return AnswerResult{}, serr.NewServiceError(err, http.StatusBadRequest, "guess is not one of the options").
			With("game_id", g.ID)
	case err != nil:
		return AnswerResult{}, err
	}

	if err := s.save(ctx, g); err != nil {
		return AnswerResult{}, err
	}

	return AnswerResult{Outcome: out, Game: g}, nil
}

func (s *GameService) pool(ctx context.Context, userID string, categoryID int64) ([]model.Word, model.Language, error) {
	st, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, model.Language{}, err
	}

	lang, err := s.words.Language(ctx, st.LanguageISO)
	if err != nil {
		return nil, model.Language{}, err
	}

	if _, err := s.words.Category(ctx, categoryID); err != nil {
		return nil, model.Language{}, err
	}

	words, err := s.words.FilteredWords(ctx, catalog.WordFilter{LanguageID: lang.ID, CategoryID: categoryID})
	if err != nil {
		return nil, model.Language{}, fmt.Errorf("load words: %w", err)
	}

	return words, lang, nil
}

func (s *GameService) load(ctx context.Context, r GameRequest) (Game, error) {
	raw, err := s.store.Get(ctx, gameKey(r.GameID))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return Game{}, errGameNotFound(r)
		}
		return Game{}, fmt.Errorf("load game: %w", err)
	}

	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return Game{}, fmt.Errorf("decode game: %w", err)
	}
	if g.UserID != r.UserID || g.Deck == nil {
		return Game{}, errGameNotFound(r)
	}

	return g, nil
}

func (s *GameService) save(ctx context.Context, g Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}

	if err := s.store.Put(ctx, gameKey(g.ID), raw, s.ttl); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func errGameNotFound(r GameRequest) error {
	return serr.NewServiceError(nil, http.StatusNotFound, "game not found").
		With("game_id", r.GameID).
		With("user_id", r.UserID)
}

func gameKey(id string) string {
	return "game:" + id
}
