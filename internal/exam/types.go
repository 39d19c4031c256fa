package exam

import (
	"time"

	"github.com/google/uuid"

	"github.com/examhall/examhall/internal/question"
)

// Exam lifecycle states.
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Participant types.
const (
	ParticipantHuman = "human"
	ParticipantAgent = "agent"
)

// RevealStrategy selects which other participants' answers to the current
// question a requester may see.
type RevealStrategy string

const (
	RevealNone                RevealStrategy = "none"
	RevealToLaterParticipants RevealStrategy = "reveal_to_later_participants"
	RevealAllAfterRound       RevealStrategy = "reveal_all_after_round"
)

func (s RevealStrategy) valid() bool {
	switch s {
	case RevealNone, RevealToLaterParticipants, RevealAllAfterRound:
		return true
	}
	return false
}

// Config captures creation-time exam settings. PerQuestionSeconds is accepted
// as data but never enforced; advancing rounds is caller-driven.
type Config struct {
	DifficultyCounts   map[string]int
	Reveal             RevealStrategy
	PerQuestionSeconds int
}

// Participant tracks one exam taker. Answers and Correct always have one slot
// per question for the lifetime of the participant; Order is assigned at
// registration and never changes.
type Participant struct {
	ID    string
	Type  string
	Order int

	Answers []*int
	Correct []bool
	Score   int

	answeredCurrent bool
}

// HasAnsweredCurrent reports whether the participant already answered the
// question currently open for answering. Reset on every advance.
func (p *Participant) HasAnsweredCurrent() bool {
	return p.answeredCurrent
}

// Exam is a lockstep session: every participant answers the question at
// Cursor before the session moves on. Mutated in place under the owning
// session lock; never deleted.
type Exam struct {
	ID           uuid.UUID
	Config       Config
	Questions    []question.Question
	Participants []*Participant
	Cursor       int
	Status       string

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func (e *Exam) participant(id string) *Participant {
	for _, p := range e.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Exam) allAnsweredCurrent() bool {
	if len(e.Participants) == 0 {
		return false
	}
	for _, p := range e.Participants {
		if !p.answeredCurrent {
			return false
		}
	}
	return true
}

// AnswerEvent describes one submission for the history recorder.
type AnswerEvent struct {
	ExamID        uuid.UUID
	ParticipantID string
	Prompt        string
	Equation      string
	GivenAnswer   int
	CorrectAnswer int
	Category      string
	IsCorrect     bool
	SubmittedAt   time.Time
}

// StatusView is the per-participant snapshot returned by GetExamStatus.
type StatusView struct {
	ExamID            uuid.UUID       `json:"exam_id"`
	Status            string          `json:"status"`
	Cursor            int             `json:"cursor"`
	TotalQuestions    int             `json:"total_questions"`
	CurrentQuestion   *QuestionView   `json:"current_question,omitempty"`
	AnsweredCount     int             `json:"answered_count"`
	TotalParticipants int             `json:"total_participants"`
	CanSeePrevious    bool            `json:"can_see_previous"`
	PreviousAnswers   []AnswerView    `json:"previous_answers"`
}

// QuestionView is the client-safe projection of a question (no answer).
type QuestionView struct {
	Equation   string `json:"equation"`
	Prompt     string `json:"prompt"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category,omitempty"`
}

// AnswerView exposes another participant's recorded answer for the current
// question, as permitted by the reveal strategy.
type AnswerView struct {
	ParticipantID string `json:"participant_id"`
	Type          string `json:"participant_type"`
	Answer        int    `json:"answer"`
	IsCorrect     bool   `json:"is_correct"`
}
