package http

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"cartflow/internal/eventlog"
)

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := eventlog.DefaultTailLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n // Tail clamps to [1, MaxTailLimit]
	}

	events, err := h.events.Tail(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read event log")
		respondWithError(w, http.StatusInternalServerError, "Failed to read logs")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"count": len(events), "events": events})
}
