package ws

import "encoding/json"

// MessageType constants for the WebSocket protocol.
const (
	// Client -> Server
	TypeSubscribe = "subscribe"
	TypePing      = "ping"

	// Server -> Client
	TypeSubscribed            = "subscribed"
	TypeParticipantRegistered = "participant_registered"
	TypeExamStarted           = "exam_started"
	TypeAnswerReceived        = "answer_received"
	TypeRoundAdvanced         = "round_advanced"
	TypeExamCompleted         = "exam_completed"
	TypeError                 = "error"
	TypePong                  = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type SubscribePayload struct {
	ExamID string `json:"exam_id"`
}

// Server Messages (outgoing)

type SubscribedPayload struct {
	ExamID string `json:"exam_id"`
}

type ParticipantRegisteredPayload struct {
	ExamID            string `json:"exam_id"`
	ParticipantID     string `json:"participant_id"`
	ParticipantType   string `json:"participant_type"`
	Order             int    `json:"order"`
	TotalParticipants int    `json:"total_participants"`
}

type ExamStartedPayload struct {
	ExamID         string `json:"exam_id"`
	TotalQuestions int    `json:"total_questions"`
}

type AnswerReceivedPayload struct {
	ExamID        string `json:"exam_id"`
	ParticipantID string `json:"participant_id"`
	QuestionIndex int    `json:"question_index"`
	AllAnswered   bool   `json:"all_answered"`
}

type RoundAdvancedPayload struct {
	ExamID string `json:"exam_id"`
	Cursor int    `json:"cursor"`
}

type ExamCompletedPayload struct {
	ExamID string `json:"exam_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
