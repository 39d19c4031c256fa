package history

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	httperrors "github.com/examhall/examhall/pkg/http/errors"
)

// HTTPHandler exposes read access to recorded answer history.
type HTTPHandler struct {
	recorder *Recorder
	logger   zerolog.Logger
}

func NewHTTPHandler(recorder *Recorder, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		recorder: recorder,
		logger:   logger.With().Str("component", "history_http").Logger(),
	}
}

// HandleRecent handles GET /v1/participants/{id}/history?limit=N
func (h *HTTPHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("id")
	if participantID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "participant id is required", "id")
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := h.recorder.RecentAnswers(r.Context(), participantID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("participant_id", participantID).Msg("history fetch failed")
		httperrors.RespondInternalError(w, "failed to fetch answer history")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"participant_id": participantID,
		"entries":        entries,
	})
}
