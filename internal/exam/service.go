package exam

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall/internal/notify"
	"github.com/examhall/examhall/internal/question"
)

// QuestionSource produces a question with its ground-truth answer for a
// difficulty label. Consumed only at exam creation; may be slow.
type QuestionSource interface {
	GenerateQuestion(ctx context.Context, difficulty string) (question.Question, error)
}

// Classifier assigns a topic category to an equation. Failures degrade to an
// empty category.
type Classifier interface {
	Classify(ctx context.Context, equation string) (string, error)
}

// HistorySink receives answer events for analytics. Fire-and-forget: a
// failing sink never fails a submission.
type HistorySink interface {
	Record(ctx context.Context, ev AnswerEvent) error
}

// AccountStore ensures an account record exists for human participants.
// Best-effort at registration time.
type AccountStore interface {
	EnsureUser(ctx context.Context, participantID string) error
}

// Service orchestrates exam lifecycle, answer gating, and reveal policies.
// All collaborators are injected; the store carries one lock per exam so
// unrelated exams never contend.
type Service struct {
	store      *Store
	source     QuestionSource
	classifier Classifier
	history    HistorySink
	accounts   AccountStore
	notifier   *notify.Notifier
	logger     zerolog.Logger

	maxQuestions int
}

// ServiceOptions configures the exam service.
type ServiceOptions struct {
	MaxQuestions int
}

// NewService creates an exam service with all dependencies. classifier,
// history and accounts may be nil; the corresponding side effects are then
// skipped.
func NewService(
	store *Store,
	source QuestionSource,
	classifier Classifier,
	history HistorySink,
	accounts AccountStore,
	notifier *notify.Notifier,
	opts ServiceOptions,
	logger zerolog.Logger,
) *Service {
	if notifier == nil {
		notifier = notify.New(logger, 0)
	}
	return &Service{
		store:        store,
		source:       source,
		classifier:   classifier,
		history:      history,
		accounts:     accounts,
		notifier:     notifier,
		logger:       logger.With().Str("component", "exam").Logger(),
		maxQuestions: opts.MaxQuestions,
	}
}

// CreateExam validates the difficulty distribution, generates every question
// up front, and registers the new session in the store. The exam only becomes
// visible to registrants once fully built; a generation failure fails the
// whole call.
func (s *Service) CreateExam(ctx context.Context, cfg Config) (*Exam, error) {
	if len(cfg.DifficultyCounts) == 0 {
		return nil, errValidation("difficulty distribution must not be empty")
	}

	total := 0
	for difficulty, count := range cfg.DifficultyCounts {
		if count < 0 {
			return nil, errValidation("difficulty %q has negative count %d", difficulty, count)
		}
		total += count
	}
	if total == 0 {
		return nil, errValidation("difficulty distribution yields zero questions")
	}
	if s.maxQuestions > 0 && total > s.maxQuestions {
		return nil, errValidation("exam size %d exceeds limit %d", total, s.maxQuestions)
	}

	if cfg.Reveal == "" {
		cfg.Reveal = RevealNone
	}
	if !cfg.Reveal.valid() {
		return nil, errValidation("unknown reveal strategy %q", cfg.Reveal)
	}

	// Generate in sorted difficulty order so the question sequence is stable
	// for the session.
	difficulties := make([]string, 0, len(cfg.DifficultyCounts))
	for difficulty := range cfg.DifficultyCounts {
		difficulties = append(difficulties, difficulty)
	}
	sort.Strings(difficulties)

	questions := make([]question.Question, 0, total)
	for _, difficulty := range difficulties {
		for i := 0; i < cfg.DifficultyCounts[difficulty]; i++ {
			q, err := s.source.GenerateQuestion(ctx, difficulty)
			if err != nil {
				return nil, errUpstream("generate question", err)
			}
			if s.classifier != nil {
				if category, err := s.classifier.Classify(ctx, q.Equation); err != nil {
					s.logger.Warn().Err(err).Str("equation", q.Equation).Msg("classification failed")
				} else {
					q.Category = category
				}
			}
			questions = append(questions, q)
		}
	}

	e := &Exam{
		ID:           uuid.New(),
		Config:       cfg,
		Questions:    questions,
		Participants: []*Participant{},
		Cursor:       0,
		Status:       StatusWaiting,
		CreatedAt:    time.Now(),
	}
	s.store.add(e)

	s.logger.Info().
		Str("exam_id", e.ID.String()).
		Int("questions", len(questions)).
		Str("reveal", string(cfg.Reveal)).
		Msg("exam created")

	return snapshot(e), nil
}

// RegisterParticipant appends a participant while the exam is still waiting.
// Order equals the prior participant count; answer slots are pre-sized to the
// question count. Human participants trigger a best-effort account creation.
func (s *Service) RegisterParticipant(ctx context.Context, examID uuid.UUID, participantID, participantType string) (bool, error) {
	if participantID == "" {
		return false, errValidation("participant id must not be empty")
	}
	if participantType != ParticipantHuman && participantType != ParticipantAgent {
		return false, errValidation("unknown participant type %q", participantType)
	}

	sess, ok := s.store.get(examID)
	if !ok {
		return false, errNotFound("exam %s not found", examID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	e := sess.exam
	if e.Status != StatusWaiting {
		return false, errInvalidState("cannot register while exam is %s", e.Status)
	}
	if e.participant(participantID) != nil {
		return false, errValidation("participant %q already registered", participantID)
	}

	p := &Participant{
		ID:      participantID,
		Type:    participantType,
		Order:   len(e.Participants),
		Answers: make([]*int, len(e.Questions)),
		Correct: make([]bool, len(e.Questions)),
	}
	e.Participants = append(e.Participants, p)

	if participantType == ParticipantHuman && s.accounts != nil {
		go s.notifier.Do("account_ensure_user", func(ctx context.Context) error {
			return s.accounts.EnsureUser(ctx, participantID)
		})
	}

	s.logger.Info().
		Str("exam_id", examID.String()).
		Str("participant_id", participantID).
		Str("participant_type", participantType).
		Int("order", p.Order).
		Msg("participant registered")

	return true, nil
}

// StartExam moves the exam to in_progress. Requires at least one registered
// participant; succeeds at most once.
func (s *Service) StartExam(ctx context.Context, examID uuid.UUID) (bool, error) {
	sess, ok := s.store.get(examID)
	if !ok {
		return false, errNotFound("exam %s not found", examID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	e := sess.exam
	if e.Status != StatusWaiting {
		return false, errInvalidState("cannot start exam in status %s", e.Status)
	}
	if len(e.Participants) == 0 {
		return false, errInvalidState("cannot start exam with no participants")
	}

	now := time.Now()
	e.Status = StatusInProgress
	e.StartedAt = &now

	s.logger.Info().
		Str("exam_id", examID.String()).
		Int("participants", len(e.Participants)).
		Msg("exam started")

	return true, nil
}

// SubmitAnswer records an answer for the current question. Submissions for a
// stale or future index are rejected, not queued; a second submission for the
// same question returns AlreadyAnswered and leaves state untouched. The
// answer event is handed to the history sink regardless of the duplicate
// gate's outcome.
func (s *Service) SubmitAnswer(ctx context.Context, examID uuid.UUID, participantID string, questionIndex, answer int) (bool, error) {
	sess, ok := s.store.get(examID)
	if !ok {
		return false, errNotFound("exam %s not found", examID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	e := sess.exam
	if e.Status != StatusInProgress {
		return false, errInvalidState("cannot submit while exam is %s", e.Status)
	}
	p := e.participant(participantID)
	if p == nil {
		return false, errNotFound("participant %q not found in exam %s", participantID, examID)
	}
	if questionIndex != e.Cursor {
		return false, errStaleQuestion(questionIndex, e.Cursor)
	}

	q := e.Questions[e.Cursor]
	isCorrect := answer == q.Answer

	ev := AnswerEvent{
		ExamID:        e.ID,
		ParticipantID: p.ID,
		Prompt:        q.Prompt,
		Equation:      q.Equation,
		GivenAnswer:   answer,
		CorrectAnswer: q.Answer,
		Category:      q.Category,
		IsCorrect:     isCorrect,
		SubmittedAt:   time.Now(),
	}

	if p.answeredCurrent {
		s.recordHistory(ev)
		return false, errAlreadyAnswered(participantID)
	}

	given := answer
	p.Answers[e.Cursor] = &given
	p.Correct[e.Cursor] = isCorrect
	p.answeredCurrent = true
	if isCorrect {
		p.Score++
	}

	s.recordHistory(ev)

	s.logger.Info().
		Str("exam_id", examID.String()).
		Str("participant_id", participantID).
		Int("question_index", questionIndex).
		Bool("correct", isCorrect).
		Int("score", p.Score).
		Msg("answer submitted")

	return true, nil
}

// AllAnsweredCurrent reports whether every registered participant has
// answered the question at the cursor. Callers use it to decide when to
// advance.
func (s *Service) AllAnsweredCurrent(examID uuid.UUID) (bool, error) {
	sess, ok := s.store.get(examID)
	if !ok {
		return false, errNotFound("exam %s not found", examID)
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()

	return sess.exam.allAnsweredCurrent(), nil
}

// AdvanceExam is the only way the cursor moves: forward by exactly one, with
// every participant's answered flag reset in the same critical section. When
// the cursor passes the last question the exam completes and accepts no
// further state changes.
func (s *Service) AdvanceExam(ctx context.Context, examID uuid.UUID) (bool, error) {
	sess, ok := s.store.get(examID)
	if !ok {
		return false, errNotFound("exam %s not found", examID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	e := sess.exam
	if e.Status != StatusInProgress {
		return false, errInvalidState("cannot advance exam in status %s", e.Status)
	}

	for _, p := range e.Participants {
		p.answeredCurrent = false
	}
	e.Cursor++

	if e.Cursor >= len(e.Questions) {
		now := time.Now()
		e.Status = StatusCompleted
		e.CompletedAt = &now
		s.logger.Info().Str("exam_id", examID.String()).Msg("exam completed")
	} else {
		s.logger.Info().
			Str("exam_id", examID.String()).
			Int("cursor", e.Cursor).
			Msg("exam advanced")
	}

	return true, nil
}

// GetExamStatus returns the requesting participant's view of the exam,
// including whatever the reveal strategy currently permits them to see of
// others' answers.
func (s *Service) GetExamStatus(examID uuid.UUID, participantID string) (*StatusView, error) {
	sess, ok := s.store.get(examID)
	if !ok {
		return nil, errNotFound("exam %s not found", examID)
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()

	e := sess.exam
	p := e.participant(participantID)
	if p == nil {
		return nil, errNotFound("participant %q not found in exam %s", participantID, examID)
	}

	answered := 0
	for _, other := range e.Participants {
		if other.answeredCurrent {
			answered++
		}
	}

	canSee, views := visibleAnswers(e, p)

	view := &StatusView{
		ExamID:            e.ID,
		Status:            e.Status,
		Cursor:            e.Cursor,
		TotalQuestions:    len(e.Questions),
		AnsweredCount:     answered,
		TotalParticipants: len(e.Participants),
		CanSeePrevious:    canSee,
		PreviousAnswers:   views,
	}

	if e.Status == StatusInProgress && e.Cursor < len(e.Questions) {
		q := e.Questions[e.Cursor]
		view.CurrentQuestion = &QuestionView{
			Equation:   q.Equation,
			Prompt:     q.Prompt,
			Difficulty: q.Difficulty,
			Category:   q.Category,
		}
	}

	return view, nil
}

// Progress returns the exam's status and cursor without a participant-scoped
// view.
func (s *Service) Progress(examID uuid.UUID) (string, int, error) {
	sess, ok := s.store.get(examID)
	if !ok {
		return "", 0, errNotFound("exam %s not found", examID)
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()

	return sess.exam.Status, sess.exam.Cursor, nil
}

// ListActiveExams returns the ids of all tracked exams.
func (s *Service) ListActiveExams() []uuid.UUID {
	return s.store.IDs()
}

func (s *Service) recordHistory(ev AnswerEvent) {
	if s.history == nil {
		return
	}
	go s.notifier.Do("history_record", func(ctx context.Context) error {
		return s.history.Record(ctx, ev)
	})
}

// snapshot copies the exam for return to callers so they never share the
// live, lock-guarded instance.
func snapshot(e *Exam) *Exam {
	cp := *e
	cp.Questions = append([]question.Question(nil), e.Questions...)
	cp.Participants = make([]*Participant, len(e.Participants))
	for i, p := range e.Participants {
		pc := *p
		pc.Answers = append([]*int(nil), p.Answers...)
		pc.Correct = append([]bool(nil), p.Correct...)
		cp.Participants[i] = &pc
	}
	return &cp
}
