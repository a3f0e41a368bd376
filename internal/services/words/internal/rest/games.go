package rest

import (
	"net/http"

	"github.com/SnapScribe/app/internal/pkg/httpx"
	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/model"
	"github.com/SnapScribe/app/internal/services/words/internal/service"
)

type startGameRequest struct {
	Mode       string `json:"mode"`
	CategoryID int64  `json:"category_id"`
}

func (api *API) handleStartGame(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req startGameRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	g, err := api.games.StartGame(r.Context(), service.StartGameRequest{
		UserID:     uid,
		Mode:       model.GameMode(req.Mode),
		CategoryID: req.CategoryID,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := httpx.WriteJSON(w, http.StatusCreated, toGameResponse(g)); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

func (api *API) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gr, err := gameRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	g, err := api.games.GetGame(r.Context(), gr)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, toGameResponse(g)); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

// answerRequest selects a flashcard guess either by slot (1 or 2) or by
// swipe direction ("left" or "right").
type answerRequest struct {
	Slot      int    `json:"slot"`
	Direction string `json:"direction"`
}

func (api *API) handleAnswer(w http.ResponseWriter, r *http.Request) {
	gr, err := gameRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req answerRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	res, err := api.games.Answer(r.Context(), service.AnswerRequest{
		UserID: gr.UserID,
		GameID: gr.GameID,
		Slot:   slotFromRequest(req.Slot, req.Direction),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, toOutcomeResponse(res)); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

type guessRequest struct {
	Name string `json:"name"`
}

func (api *API) handleGuess(w http.ResponseWriter, r *http.Request) {
	gr, err := gameRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req guessRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	res, err := api.games.Guess(r.Context(), service.GuessRequest{
		UserID: gr.UserID,
		GameID: gr.GameID,
		Name:   req.Name,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, toOutcomeResponse(res)); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

type changeCategoryRequest struct {
	CategoryID int64 `json:"category_id"`
}

func (api *API) handleChangeCategory(w http.ResponseWriter, r *http.Request) {
	gr, err := gameRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req changeCategoryRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	g, err := api.games.ChangeCategory(r.Context(), service.ChangeCategoryRequest{
		UserID:     gr.UserID,
		GameID:     gr.GameID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := httpx.WriteJSON(w, http.StatusOK, toGameResponse(g)); err != nil {
		httpx.HandleErr(w, r, err)
	}
}

func (api *API) handleEndGame(w http.ResponseWriter, r *http.Request) {
	gr, err := gameRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.games.EndGame(r.Context(), gr); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func gameRequest(r *http.Request) (service.GameRequest, error) {
	uid, err := userID(r)
	if err != nil {
		return service.GameRequest{}, err
	}

	id := r.PathValue("game_id")
	if id == "" {
		return service.GameRequest{}, serr.NewServiceError(nil, http.StatusBadRequest, "invalid game id")
	}

	return service.GameRequest{UserID: uid, GameID: id}, nil
}
