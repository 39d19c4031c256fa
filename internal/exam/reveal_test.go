package exam

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examhall/examhall/internal/question"
)

func revealExam(reveal RevealStrategy, numQuestions int, ids ...string) *Exam {
	e := &Exam{
		ID:     uuid.New(),
		Config: Config{Reveal: reveal},
		Status: StatusInProgress,
	}
	for i := 0; i < numQuestions; i++ {
		e.Questions = append(e.Questions, question.Question{Answer: 10 + i})
	}
	for i, id := range ids {
		e.Participants = append(e.Participants, &Participant{
			ID:      id,
			Type:    ParticipantHuman,
			Order:   i,
			Answers: make([]*int, numQuestions),
			Correct: make([]bool, numQuestions),
		})
	}
	return e
}

func recordAnswer(e *Exam, id string, answer int) {
	p := e.participant(id)
	given := answer
	p.Answers[e.Cursor] = &given
	p.Correct[e.Cursor] = answer == e.Questions[e.Cursor].Answer
	p.answeredCurrent = true
}

func TestRevealNoneShowsNothing(t *testing.T) {
	e := revealExam(RevealNone, 1, "alice", "bob")
	recordAnswer(e, "alice", 10)

	canSee, views := visibleAnswers(e, e.participant("bob"))
	assert.False(t, canSee)
	assert.Empty(t, views)
}

func TestRevealToLaterParticipants(t *testing.T) {
	e := revealExam(RevealToLaterParticipants, 1, "alice", "bob", "carol")
	recordAnswer(e, "alice", 10)
	recordAnswer(e, "carol", 99)

	// the first registrant can see, but there is nobody before them
	canSee, views := visibleAnswers(e, e.participant("alice"))
	assert.True(t, canSee)
	assert.Empty(t, views)

	// bob sees alice's answer; carol registered later and stays hidden even
	// though she answered first
	canSee, views = visibleAnswers(e, e.participant("bob"))
	assert.True(t, canSee)
	require.Len(t, views, 1)
	assert.Equal(t, "alice", views[0].ParticipantID)
	assert.Equal(t, 10, views[0].Answer)
	assert.True(t, views[0].IsCorrect)

	// carol sees alice but not the unanswered bob
	canSee, views = visibleAnswers(e, e.participant("carol"))
	assert.True(t, canSee)
	require.Len(t, views, 1)
	assert.Equal(t, "alice", views[0].ParticipantID)
}

func TestRevealAllAfterRound(t *testing.T) {
	e := revealExam(RevealAllAfterRound, 1, "alice", "bob")
	recordAnswer(e, "alice", 10)

	// gated until every participant answered
	canSee, views := visibleAnswers(e, e.participant("alice"))
	assert.False(t, canSee)
	assert.Empty(t, views)

	recordAnswer(e, "bob", 11)

	canSee, views = visibleAnswers(e, e.participant("alice"))
	assert.True(t, canSee)
	require.Len(t, views, 1)
	assert.Equal(t, "bob", views[0].ParticipantID)
	assert.Equal(t, 11, views[0].Answer)
	assert.False(t, views[0].IsCorrect)

	canSee, views = visibleAnswers(e, e.participant("bob"))
	assert.True(t, canSee)
	require.Len(t, views, 1)
	assert.Equal(t, "alice", views[0].ParticipantID)
}

func TestRevealInactiveStates(t *testing.T) {
	e := revealExam(RevealToLaterParticipants, 1, "alice", "bob")
	recordAnswer(e, "alice", 10)

	e.Status = StatusWaiting
	canSee, views := visibleAnswers(e, e.participant("bob"))
	assert.False(t, canSee)
	assert.Empty(t, views)

	// cursor past the last question
	e.Status = StatusInProgress
	e.Cursor = 1
	canSee, views = visibleAnswers(e, e.participant("bob"))
	assert.False(t, canSee)
	assert.Empty(t, views)
}
