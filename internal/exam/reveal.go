package exam

// visibleAnswers computes what the requester may currently see of other
// participants' answers to the question at the cursor. Pure over the exam
// snapshot; callers must hold at least the session read lock.
//
// Visibility under RevealToLaterParticipants follows registration order, not
// submission time: a participant never sees answers from participants
// registered after them, even if those answered first.
func visibleAnswers(e *Exam, requester *Participant) (canSeePrevious bool, views []AnswerView) {
	views = []AnswerView{}

	if e.Status != StatusInProgress || e.Cursor >= len(e.Questions) {
		return false, views
	}

	switch e.Config.Reveal {
	case RevealToLaterParticipants:
		canSeePrevious = true
		for _, p := range e.Participants {
			if p.Order >= requester.Order {
				continue
			}
			if v, ok := answerAt(p, e.Cursor); ok {
				views = append(views, v)
			}
		}

	case RevealAllAfterRound:
		if !e.allAnsweredCurrent() {
			return false, views
		}
		canSeePrevious = true
		for _, p := range e.Participants {
			if p.ID == requester.ID {
				continue
			}
			if v, ok := answerAt(p, e.Cursor); ok {
				views = append(views, v)
			}
		}

	default:
		// RevealNone
	}

	return canSeePrevious, views
}

func answerAt(p *Participant, idx int) (AnswerView, bool) {
	if idx < 0 || idx >= len(p.Answers) || p.Answers[idx] == nil {
		return AnswerView{}, false
	}
	return AnswerView{
		ParticipantID: p.ID,
		Type:          p.Type,
		Answer:        *p.Answers[idx],
		IsCorrect:     p.Correct[idx],
	}, true
}
