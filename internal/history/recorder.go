package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examhall/examhall/internal/exam"
)

// Entry is one recorded answer event as read back from the stream.
type Entry struct {
	ExamID        string    `json:"exam_id"`
	Prompt        string    `json:"prompt"`
	Equation      string    `json:"equation"`
	GivenAnswer   int       `json:"given_answer"`
	CorrectAnswer int       `json:"correct_answer"`
	Category      string    `json:"category,omitempty"`
	IsCorrect     bool      `json:"is_correct"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// Options configures the recorder.
type Options struct {
	KeyPrefix  string
	MaxEntries int64
}

// Recorder appends answer events to per-participant Redis streams and keeps a
// per-exam score set. It implements exam.HistorySink; callers treat it as
// fire-and-forget.
type Recorder struct {
	redis      *redis.Client
	logger     zerolog.Logger
	prefix     string
	maxEntries int64
}

func NewRecorder(redisClient *redis.Client, logger zerolog.Logger, opts Options) *Recorder {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "history"
	}
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &Recorder{
		redis:      redisClient,
		logger:     logger.With().Str("component", "history").Logger(),
		prefix:     prefix,
		maxEntries: maxEntries,
	}
}

// Record appends the event to the participant's stream and bumps the exam
// score set when the answer was correct.
func (r *Recorder) Record(ctx context.Context, ev exam.AnswerEvent) error {
	pipe := r.redis.TxPipeline()
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: r.answerStream(ev.ParticipantID),
		MaxLen: r.maxEntries,
		Approx: true,
		Values: map[string]interface{}{
			"exam_id":        ev.ExamID.String(),
			"prompt":         ev.Prompt,
			"equation":       ev.Equation,
			"given_answer":   ev.GivenAnswer,
			"correct_answer": ev.CorrectAnswer,
			"category":       ev.Category,
			"is_correct":     strconv.FormatBool(ev.IsCorrect),
			"submitted_at":   ev.SubmittedAt.UnixNano(),
		},
	})
	if ev.IsCorrect {
		pipe.ZIncrBy(ctx, r.scoreKey(ev.ExamID), 1, ev.ParticipantID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record answer event: %w", err)
	}
	return nil
}

// RecentAnswers returns the participant's latest events, newest first.
func (r *Recorder) RecentAnswers(ctx context.Context, participantID string, limit int64) ([]Entry, error) {
	if limit <= 0 || limit > r.maxEntries {
		limit = r.maxEntries
	}

	msgs, err := r.redis.XRevRangeN(ctx, r.answerStream(participantID), "+", "-", limit).Result()
	if err != nil {
		return nil, fmt.Errorf("read answer history: %w", err)
	}

	entries := make([]Entry, 0, len(msgs))
	for _, msg := range msgs {
		entries = append(entries, entryFromValues(msg.Values))
	}
	return entries, nil
}

// ExamScores returns correct-answer counts per participant for an exam,
// highest first.
func (r *Recorder) ExamScores(ctx context.Context, examID uuid.UUID) (map[string]int, error) {
	results, err := r.redis.ZRevRangeWithScores(ctx, r.scoreKey(examID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read exam scores: %w", err)
	}

	scores := make(map[string]int, len(results))
	for _, z := range results {
		scores[z.Member.(string)] = int(z.Score)
	}
	return scores, nil
}

func (r *Recorder) answerStream(participantID string) string {
	return fmt.Sprintf("%s:answers:%s", r.prefix, participantID)
}

func (r *Recorder) scoreKey(examID uuid.UUID) string {
	return fmt.Sprintf("%s:scores:%s", r.prefix, examID.String())
}

func entryFromValues(values map[string]interface{}) Entry {
	entry := Entry{
		ExamID:   asString(values["exam_id"]),
		Prompt:   asString(values["prompt"]),
		Equation: asString(values["equation"]),
		Category: asString(values["category"]),
	}
	entry.GivenAnswer = parseInt(asString(values["given_answer"]))
	entry.CorrectAnswer = parseInt(asString(values["correct_answer"]))
	entry.IsCorrect = asString(values["is_correct"]) == "true"
	if ns := parseInt64(asString(values["submitted_at"])); ns > 0 {
		entry.SubmittedAt = time.Unix(0, ns)
	}
	return entry
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func parseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}

func parseInt64(val string) int64 {
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return i
}
