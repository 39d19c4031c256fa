package exam

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httperrors "github.com/examhall/examhall/pkg/http/errors"
	"github.com/examhall/examhall/pkg/http/ws"
)

// HTTPHandlers provides REST endpoints for exam operations and publishes
// lifecycle events over the WebSocket hub.
type HTTPHandlers struct {
	service *Service
	hub     *ws.Hub
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for exam endpoints. hub may be nil.
func NewHTTPHandlers(service *Service, hub *ws.Hub, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		hub:     hub,
		logger:  logger.With().Str("component", "exam_http").Logger(),
	}
}

// CreateExamRequest is the POST /v1/exams payload.
type CreateExamRequest struct {
	DifficultyCounts   map[string]int `json:"difficulty_counts"`
	RevealStrategy     string         `json:"reveal_strategy"`
	PerQuestionSeconds int            `json:"per_question_seconds,omitempty"`
}

// CreateExam handles POST /v1/exams
func (h *HTTPHandlers) CreateExam(w http.ResponseWriter, r *http.Request) {
	var req CreateExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	e, err := h.service.CreateExam(r.Context(), Config{
		DifficultyCounts:   req.DifficultyCounts,
		Reveal:             RevealStrategy(req.RevealStrategy),
		PerQuestionSeconds: req.PerQuestionSeconds,
	})
	if err != nil {
		h.respondKindError(w, err, httperrors.ErrCodeExamCreationFailed)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"exam_id":         e.ID.String(),
		"status":          e.Status,
		"total_questions": len(e.Questions),
		"reveal_strategy": string(e.Config.Reveal),
		"created_at":      e.CreatedAt,
	})
}

// ListExams handles GET /v1/exams
func (h *HTTPHandlers) ListExams(w http.ResponseWriter, r *http.Request) {
	ids := h.service.ListActiveExams()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"exam_ids": out})
}

// RegisterRequest is the POST /v1/exams/{id}/participants payload.
type RegisterRequest struct {
	ParticipantID   string `json:"participant_id"`
	ParticipantType string `json:"participant_type"`
}

// Register handles POST /v1/exams/{id}/participants
func (h *HTTPHandlers) Register(w http.ResponseWriter, r *http.Request) {
	examID, ok := h.examID(w, r)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	if _, err := h.service.RegisterParticipant(r.Context(), examID, req.ParticipantID, req.ParticipantType); err != nil {
		h.respondKindError(w, err, httperrors.ErrCodeRegistrationFailed)
		return
	}

	view, err := h.service.GetExamStatus(examID, req.ParticipantID)
	if err != nil {
		httperrors.RespondInternalError(w, err.Error())
		return
	}

	h.broadcast(examID, ws.TypeParticipantRegistered, ws.ParticipantRegisteredPayload{
		ExamID:            examID.String(),
		ParticipantID:     req.ParticipantID,
		ParticipantType:   req.ParticipantType,
		Order:             view.TotalParticipants - 1,
		TotalParticipants: view.TotalParticipants,
	})

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"registered":         true,
		"order":              view.TotalParticipants - 1,
		"total_participants": view.TotalParticipants,
	})
}

// Start handles POST /v1/exams/{id}/start
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	examID, ok := h.examID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.StartExam(r.Context(), examID); err != nil {
		h.respondKindError(w, err, httperrors.ErrCodeStartFailed)
		return
	}

	summary, err := h.service.GetResults(examID)
	if err != nil {
		httperrors.RespondInternalError(w, err.Error())
		return
	}

	h.broadcast(examID, ws.TypeExamStarted, ws.ExamStartedPayload{
		ExamID:         examID.String(),
		TotalQuestions: summary.TotalQuestions,
	})

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"started": true})
}

// Status handles GET /v1/exams/{id}/status?participant_id=...
func (h *HTTPHandlers) Status(w http.ResponseWriter, r *http.Request) {
	examID, ok := h.examID(w, r)
	if !ok {
		return
	}

	participantID := r.URL.Query().Get("participant_id")
	if participantID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "participant_id query parameter is required", "participant_id")
		return
	}

	view, err := h.service.GetExamStatus(examID, participantID)
	if err != nil {
		h.respondKindError(w, err, httperrors.ErrCodeNotFound)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}

// SubmitRequest is the POST /v1/exams/{id}/answers payload.
type SubmitRequest struct {
	ParticipantID string `json:"participant_id"`
	QuestionIndex int    `json:"question_index"`
	Answer        int    `json:"answer"`
}

// Submit handles POST /v1/exams/{id}/answers
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	examID, ok := h.examID(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	if _, err := h.service.SubmitAnswer(r.Context(), examID, req.ParticipantID, req.QuestionIndex, req.Answer); err != nil {
		h.respondKindError(w, err, httperrors.ErrCodeSubmitFailed)
		return
	}

	allAnswered, err := h.service.AllAnsweredCurrent(examID)
	if err != nil {
		allAnswered = false
	}

	h.broadcast(examID, ws.TypeAnswerReceived, ws.AnswerReceivedPayload{
		ExamID:        examID.String(),
		ParticipantID: req.ParticipantID,
		QuestionIndex: req.QuestionIndex,
		AllAnswered:   allAnswered,
	})

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"accepted":     true,
		"all_answered": allAnswered,
	})
}

// AllAnswered handles GET /v1/exams/{id}/all-answered
func (h *HTTPHandlers) AllAnswered(w http.ResponseWriter, r *http.Request) {
	examID, ok := h.examID(w, r)
	if !ok {
		return
	}

	allAnswered, err := h.service.AllAnsweredCurrent(examID)
	if err != nil {
		h.respondKindError(w, err, httperrors.ErrCodeNotFound)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"all_answered": allAnswered})
}

// Advance handles POST /v1/exams/{id}/advance
func (h *HTTPHandlers) Advance(w http.ResponseWriter, r *http.Request) {
	examID, ok := h.examID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.AdvanceExam(r.Context(), examID); err != nil {
		h.respondKindError(w, err, httperrors.ErrCodeAdvanceFailed)
		return
	}

	status, cursor, err := h.service.Progress(examID)
	if err != nil {
		httperrors.RespondInternalError(w, err.Error())
		return
	}

	if status == StatusCompleted {
		h.broadcast(examID, ws.TypeExamCompleted, ws.ExamCompletedPayload{ExamID: examID.String()})
	} else {
		h.broadcast(examID, ws.TypeRoundAdvanced, ws.RoundAdvancedPayload{
			ExamID: examID.String(),
			Cursor: cursor,
		})
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"advanced": true,
		"status":   status,
		"cursor":   cursor,
	})
}

// Results handles GET /v1/exams/{id}/results
func (h *HTTPHandlers) Results(w http.ResponseWriter, r *http.Request) {
	examID, ok := h.examID(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetResults(examID)
	if err != nil {
		h.respondKindError(w, err, httperrors.ErrCodeNotFound)
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandlers) examID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidExamID, "Exam id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *HTTPHandlers) broadcast(examID uuid.UUID, msgType string, payload interface{}) {
	if h.hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("type", msgType).Msg("failed to marshal event payload")
		return
	}
	if err := h.hub.BroadcastToExam(examID.String(), ws.Message{Type: msgType, Payload: data}); err != nil {
		h.logger.Warn().Err(err).Str("type", msgType).Msg("event broadcast failed")
	}
}

func (h *HTTPHandlers) respondKindError(w http.ResponseWriter, err error, fallbackCode string) {
	switch KindOf(err) {
	case KindNotFound:
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, err.Error())
	case KindValidation:
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	case KindInvalidState:
		httperrors.RespondConflict(w, httperrors.ErrCodeInvalidState, err.Error())
	case KindAlreadyAnswered:
		httperrors.RespondConflict(w, httperrors.ErrCodeAlreadyAnswered, err.Error())
	case KindStaleQuestion:
		httperrors.RespondConflict(w, httperrors.ErrCodeStaleQuestion, err.Error())
	case KindUpstream:
		httperrors.RespondBadGateway(w, httperrors.ErrCodeUpstreamError, err.Error())
	default:
		h.logger.Error().Err(err).Msg("unexpected error")
		httperrors.RespondError(w, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
