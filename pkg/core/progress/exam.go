package progress

import (
	"errors"
	"fmt"

	"github.com/bharat-gurukul/gurukul/pkg/core/catalog"
	"github.com/bharat-gurukul/gurukul/pkg/core/types"
)

var (
	ErrNoExam       = errors.New("no active exam")
	ErrBadExamSize  = errors.New("exam must have exactly 50 questions")
	ErrBadOption    = errors.New("option index out of range")
	ErrExamFinished = errors.New("exam already finished")
)

// ExamSession is the live state of one Maha-Pariksha. Questions are answered
// strictly in order; there is no skipping or going back. Score is the
// running count of correct answers and is updated before any terminal
// check, so the final tally always includes the just-submitted answer.
type ExamSession struct {
	Level   int
	Content types.ExamContent
	Index   int
	Score   int
}

// Question returns the current question.
func (e *ExamSession) Question() types.ExamQuestion {
	return e.Content.Questions[e.Index]
}

// Remaining returns how many questions are left, including the current one.
func (e *ExamSession) Remaining() int {
	return len(e.Content.Questions) - e.Index
}

// StartExam opens an exam session at the given level with already-fetched,
// already-validated content. The question index and running score reset to
// zero and the phase flips to exam.
func (s State) StartExam(level int, content types.ExamContent) (State, error) {
	if s.Phase != PhaseRoadmap && s.Phase != PhaseLearning && s.Phase != PhaseExam {
		return s, ErrWrongPhase
	}
	if len(content.Questions) != types.ExamQuestionCount {
		return s, fmt.Errorf("%w: got %d", ErrBadExamSize, len(content.Questions))
	}
	s.Exam = &ExamSession{Level: level, Content: content}
	s.Phase = PhaseExam
	s.Graduation = false
	s.Mood = MoodProfessional
	return s, nil
}

// ExamOutcome reports what one answer did to the session.
type ExamOutcome struct {
	Correct bool

	// Terminal is set when this was the last question.
	Terminal   bool
	FinalScore int
	Passed     bool

	// Graduation is set on a terminal pass with 200+ completed stages: the
	// learner routes into the final graduation flow instead of the roadmap.
	Graduation bool

	// NewBadges lists badges earned by this answer's terminal evaluation.
	NewBadges []string
}

// AnswerExamQuestion scores the current question and advances the session.
// On the last question it settles the exam: pass at 35/50 or better, with a
// perfect 50 earning Agni-Siddha; failure rolls the roadmap back one chapter
// (clamped to stage 1) and resets the streak.
func (s State) AnswerExamQuestion(optionIndex int) (State, ExamOutcome, []Effect, error) {
	if s.Phase != PhaseExam || s.Exam == nil {
		return s, ExamOutcome{}, nil, ErrNoExam
	}
	if optionIndex < 0 || optionIndex >= types.ExamOptionCount {
		return s, ExamOutcome{}, nil, fmt.Errorf("%w: %d", ErrBadOption, optionIndex)
	}
	if s.Exam.Index >= len(s.Exam.Content.Questions) {
		return s, ExamOutcome{}, nil, ErrExamFinished
	}

	// Copy the session so the input state stays untouched.
	session := *s.Exam
	s.Exam = &session

	var outcome ExamOutcome
	var effects []Effect

	outcome.Correct = optionIndex == session.Question().CorrectAnswer
	if outcome.Correct {
		session.Score++
		effects = append(effects, Effect{Kind: EffectChime})
	} else {
		s.Mood = MoodEncouraging
	}

	if session.Index < len(session.Content.Questions)-1 {
		session.Index++
		return s, outcome, effects, nil
	}

	// Last question answered: the running score already includes it.
	session.Index++
	outcome.Terminal = true
	outcome.FinalScore = session.Score
	outcome.Passed = session.Score >= types.ExamPassScore

	award := func(id string) {
		if !s.Progress.HasBadge(id) {
			s.Progress = s.Progress.withBadge(id)
			outcome.NewBadges = append(outcome.NewBadges, id)
		}
	}

	if outcome.Passed {
		if session.Score == types.ExamQuestionCount {
			award(catalog.BadgePerfectExam)
		}
		s.Progress.ExamsPassed++
		if s.Progress.ExamsPassed == 5 {
			award(catalog.BadgeExamWarrior)
		}
		if s.Progress.CompletedStages >= 200 {
			award(catalog.BadgeGodLevel)
			award(catalog.BadgeCategoryMaster)
			outcome.Graduation = true
			s.Graduation = true
			s.Mood = MoodExcited
			s.Exam = nil
			// Phase stays exam: it now renders the graduation screen.
			effects = append(effects, Effect{Kind: EffectConch})
			return s, outcome, effects, nil
		}
		s.Phase = PhaseRoadmap
		s.Exam = nil
		s.Mood = MoodExcited
		effects = append(effects, Effect{Kind: EffectConch})
		return s, outcome, effects, nil
	}

	// Failure: one chapter of stages is forfeited and the streak breaks.
	rolledBack := s.Progress.CompletedStages - ChapterLength
	if rolledBack < MinStage {
		rolledBack = MinStage
	}
	s.Progress.CompletedStages = rolledBack
	s.Progress.Streak = 0
	s.Phase = PhaseRoadmap
	s.Exam = nil
	s.Mood = MoodEncouraging
	effects = append(effects, Effect{
		Kind: EffectNotice,
		Message: fmt.Sprintf(
			"Guru says: You scored %d/%d. You need more practice. The roadmap returns to stage %d.",
			outcome.FinalScore, types.ExamQuestionCount, rolledBack,
		),
	})
	return s, outcome, effects, nil
}
