package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SnapScribe/app/internal/pkg/httpx"
	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/words/internal/game"
	"github.com/SnapScribe/app/internal/services/words/internal/service"
	"github.com/gorilla/websocket"
)

const (
	swipeWriteWait    = 5 * time.Second
	swipeMaxEventSize = 1024
)

const (
	eventBegin  = "begin"
	eventUpdate = "update"
	eventEnd    = "end"

	eventReady   = "ready"
	eventFrame   = "frame"
	eventRelease = "release"
	eventOutcome = "outcome"
	eventError   = "error"
)

type swipeClientEvent struct {
	Type   string  `json:"type"`
	Offset float64 `json:"offset"`
}

type readyEvent struct {
	Type string       `json:"type"`
	Hint bool         `json:"hint"`
	Game gameResponse `json:"game"`
}

type frameEvent struct {
	Type     string  `json:"type"`
	Offset   float64 `json:"offset"`
	Rotation float64 `json:"rotation"`
}

type releaseEvent struct {
	Type       string  `json:"type"`
	Direction  string  `json:"direction"`
	Target     float64 `json:"target"`
	DurationMS int64   `json:"duration_ms"`
}

type outcomeEvent struct {
	Type string `json:"type"`
	outcomeResponse
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// handleSwipe drives one drag session per connection. The client streams its
// finger offsets and the server answers with card frames, the settle
// animation on release and, for committed swipes, the round outcome.
func (api *API) handleSwipe(w http.ResponseWriter, r *http.Request) {
	gr, err := gameRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	width, err := floatQuery(r, "width", game.DefaultScreenWidth)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	g, err := api.games.GetGame(r.Context(), gr)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	conn, err := api.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		slog.Warn("websocket upgrade failed", "error", err, "game_id", gr.GameID)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(swipeMaxEventSize)

	sess := &swipeSession{
		api:   api,
		conn:  conn,
		req:   gr,
		swipe: game.NewSwipe(game.DefaultSwipeConfig(width)),
		empty: g.Deck.Empty(),
	}
	if sess.empty {
		sess.swipe.HideHint()
	}

	if err := sess.write(readyEvent{Type: eventReady, Hint: sess.swipe.HintVisible(), Game: toGameResponse(g)}); err != nil {
		return
	}

	if err := sess.run(r); err != nil {
		slog.Info("swipe session closed", "game_id", gr.GameID, "reason", err)
	}
}

type swipeSession struct {
	api   *API
	conn  *websocket.Conn
	req   service.GameRequest
	swipe *game.Swipe
	empty bool
}

func (s *swipeSession) run(r *http.Request) error {
	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.api.swipeIdle)); err != nil {
			return err
		}

		var ev swipeClientEvent
		if err := s.conn.ReadJSON(&ev); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var err error
		switch ev.Type {
		case eventBegin:
			s.swipe.Begin()
			err = s.writeFrame(s.swipe.Frame())
		case eventUpdate:
			err = s.writeFrame(s.swipe.Update(ev.Offset))
		case eventEnd:
			err = s.release(r, ev.Offset)
		default:
			err = s.write(errorEvent{Type: eventError, Message: "unknown event: " + ev.Type})
		}
		if err != nil {
			return err
		}
	}
}

func (s *swipeSession) release(r *http.Request, offset float64) error {
	rel := s.swipe.End(offset)
	err := s.write(releaseEvent{
		Type:       eventRelease,
		Direction:  rel.Direction.String(),
		Target:     rel.Target,
		DurationMS: rel.Duration.Milliseconds(),
	})
	if err != nil {
		return err
	}

	defer s.swipe.Settle()
	if !rel.Committed() || s.empty {
		return nil
	}

	res, err := s.api.games.Answer(r.Context(), service.AnswerRequest{
		UserID: s.req.UserID,
		GameID: s.req.GameID,
		Slot:   rel.Direction.Slot(),
	})
	if err != nil {
		var se *serr.ServiceError
		if errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError {
			return s.write(errorEvent{Type: eventError, Message: se.Msg})
		}
		return err
	}

	s.empty = res.Game.Deck.Empty()
	if s.empty {
		s.swipe.HideHint()
	}
	return s.write(outcomeEvent{Type: eventOutcome, outcomeResponse: toOutcomeResponse(res)})
}

func (s *swipeSession) writeFrame(f game.Frame) error {
	return s.write(frameEvent{Type: eventFrame, Offset: f.Offset, Rotation: f.Rotation})
}

func (s *swipeSession) write(v any) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(swipeWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}
