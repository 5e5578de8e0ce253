package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/utils/response"
)

// Leaderboard is the read side of the live ranking.
type Leaderboard interface {
	Top() []models.Contestant
	Watch() (<-chan []models.Contestant, func())
}

type LeaderboardHandler struct {
	board     Leaderboard
	heartbeat time.Duration
}

func NewLeaderboardHandler(board Leaderboard, heartbeat time.Duration) *LeaderboardHandler {
	return &LeaderboardHandler{board: board, heartbeat: heartbeat}
}

// GetLeaderboard godoc
//	@Summary		Current top contestants
//	@Tags			Contest
//	@Produce		json
//	@Success		200	{object}	[]models.Contestant	"Ranked by votes, ties by name"
//	@Router			/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.board.Top())
	}
}

// Stream godoc
//	@Summary		Live leaderboard
//	@Description	Server-sent events. Each "leaderboard" event carries the full ranking as JSON.
//	@Tags			Contest
//	@Produce		text/event-stream
//	@Success		200	{string}	string	"event stream"
//	@Router			/leaderboard/stream [get]
func (h *LeaderboardHandler) Stream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, errors.InternalError("Streaming unsupported"))
			return
		}

		updates, stop := h.board.Watch()
		defer stop()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if err := writeSnapshot(w, h.board.Top()); err != nil {
			return
		}
		flusher.Flush()

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return

			case snapshot, ok := <-updates:
				if !ok {
					return
				}
				if err := writeSnapshot(w, snapshot); err != nil {
					logger.Debug("Leaderboard stream closed", slog.String("error", err.Error()))
					return
				}
				flusher.Flush()

			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeSnapshot(w http.ResponseWriter, snapshot []models.Contestant) error {
	if snapshot == nil {
		snapshot = []models.Contestant{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", data)
	return err
}
