package exam

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ParticipantResult is one participant's final line in the exam summary.
type ParticipantResult struct {
	ParticipantID   string  `json:"participant_id"`
	Type            string  `json:"participant_type"`
	Order           int     `json:"order"`
	Score           int     `json:"score"`
	ScorePercentage float64 `json:"score_percentage"`
	Answers         []*int  `json:"answers"`
	Correct         []bool  `json:"correct"`
}

// Summary aggregates final per-participant scores for an exam.
type Summary struct {
	ExamID         uuid.UUID           `json:"exam_id"`
	Status         string              `json:"status"`
	TotalQuestions int                 `json:"total_questions"`
	CreatedAt      time.Time           `json:"created_at"`
	StartedAt      *time.Time          `json:"started_at,omitempty"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	Participants   []ParticipantResult `json:"participants"`
}

// GetResults aggregates per-participant scores, sorted by descending score
// with registration order breaking ties. Callable at any lifecycle stage.
func (s *Service) GetResults(examID uuid.UUID) (*Summary, error) {
	sess, ok := s.store.get(examID)
	if !ok {
		return nil, errNotFound("exam %s not found", examID)
	}

	sess.mu.RLock()
	defer sess.mu.RUnlock()

	e := sess.exam
	total := len(e.Questions)

	results := make([]ParticipantResult, len(e.Participants))
	for i, p := range e.Participants {
		pct := 0.0
		if total > 0 {
			pct = round2(float64(p.Score) / float64(total) * 100)
		}
		results[i] = ParticipantResult{
			ParticipantID:   p.ID,
			Type:            p.Type,
			Order:           p.Order,
			Score:           p.Score,
			ScorePercentage: pct,
			Answers:         append([]*int(nil), p.Answers...),
			Correct:         append([]bool(nil), p.Correct...),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return &Summary{
		ExamID:         e.ID,
		Status:         e.Status,
		TotalQuestions: total,
		CreatedAt:      e.CreatedAt,
		StartedAt:      e.StartedAt,
		CompletedAt:    e.CompletedAt,
		Participants:   results,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
