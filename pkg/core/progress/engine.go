package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/bharat-gurukul/gurukul/pkg/core/catalog"
)

var (
	// ErrWrongPhase is returned when an operation is invoked outside the
	// phase it belongs to. Callers guard against it; the state is unchanged.
	ErrWrongPhase = errors.New("operation not valid in current phase")

	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownCourse   = errors.New("unknown course")
	ErrUnknownBook     = errors.New("unknown book")
	ErrIdentitySet     = errors.New("identity is write-once")
	ErrSelfieSet       = errors.New("selfie is write-once")
)

// CompleteOnboarding records the learner's identity and advances to language
// selection. Identity is write-once; a repeat call fails and changes nothing.
// Entering the developer password in the access field unlocks tester tools.
func (s State) CompleteOnboarding(name, fatherName, contact, accessCode string) (State, error) {
	if s.Phase != PhaseOnboarding {
		return s, ErrWrongPhase
	}
	if s.Progress.Name != "" {
		return s, ErrIdentitySet
	}
	s.Progress.Name = name
	s.Progress.FatherName = fatherName
	s.Progress.Contact = contact
	if accessCode == DevPassword {
		s.DeveloperMode = true
	}
	s.Phase = PhaseLanguageSelect
	return s, nil
}

// SelectLanguage sets the content language style and advances to course
// selection.
func (s State) SelectLanguage(languageID string) (State, error) {
	if s.Phase != PhaseLanguageSelect {
		return s, ErrWrongPhase
	}
	if _, ok := catalog.LanguageByID(languageID); !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownLanguage, languageID)
	}
	s.Progress.Language = languageID
	s.Phase = PhaseCourseSelect
	return s, nil
}

// SelectCourse sets the current course and advances to world selection. The
// current book is implicitly cleared; it belongs to the old course.
func (s State) SelectCourse(courseID string) (State, error) {
	if s.Phase != PhaseCourseSelect {
		return s, ErrWrongPhase
	}
	if _, ok := catalog.CourseByID(courseID); !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownCourse, courseID)
	}
	s.Progress.CurrentCourse = courseID
	s.Progress.CurrentBook = ""
	s.Phase = PhaseWorldSelect
	return s, nil
}

// SelectWorld sets the current book and opens the roadmap. Progress restarts
// at stage 1 for the new world.
func (s State) SelectWorld(bookID string) (State, error) {
	if s.Phase != PhaseWorldSelect {
		return s, ErrWrongPhase
	}
	if _, ok := catalog.BookByID(s.Progress.CurrentCourse, bookID); !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownBook, bookID)
	}
	s.Progress.CurrentBook = bookID
	s.Progress.CompletedStages = MinStage
	s.Phase = PhaseRoadmap
	return s, nil
}

// BeginLearning enters the learning phase for the current stage. The caller
// fetches stage content first; the engine only tracks the phase.
func (s State) BeginLearning() (State, error) {
	if s.Phase != PhaseRoadmap {
		return s, ErrWrongPhase
	}
	s.Phase = PhaseLearning
	s.Mood = MoodStudious
	return s, nil
}

// Back navigates to the previous view. Onboarding is the terminal backward
// state; the certificate returns to course selection. Any active narration
// must stop, so every backward step emits a stop-audio effect.
func (s State) Back() (State, []Effect) {
	switch s.Phase {
	case PhaseLanguageSelect:
		s.Phase = PhaseOnboarding
	case PhaseCourseSelect:
		s.Phase = PhaseLanguageSelect
	case PhaseWorldSelect:
		s.Phase = PhaseCourseSelect
	case PhaseRoadmap:
		s.Phase = PhaseWorldSelect
	case PhaseLearning:
		s.Phase = PhaseRoadmap
		s.Rewards = nil
	case PhaseExam:
		s.Phase = PhaseRoadmap
		s.Exam = nil
	case PhaseCertificate:
		s.Phase = PhaseCourseSelect
	default:
		return s, nil
	}
	return s, []Effect{{Kind: EffectStopAudio}}
}

// CompleteStage records a cleared stage: the stage counter, streak, and
// session counter each advance by exactly one, then every badge rule is
// evaluated against the post-increment values. All rules are independent and
// all run; already-earned badges are skipped. The learner lands on the
// rewards overlay (Rewards is set) until ProceedFromRewards.
func (s State) CompleteStage(now time.Time) (State, []Effect, error) {
	if s.Phase != PhaseLearning {
		return s, nil, ErrWrongPhase
	}

	s.Progress.CompletedStages++
	s.Progress.Streak++
	s.Progress.SessionStages++

	var newBadges []string
	award := func(id string) {
		if !s.Progress.HasBadge(id) {
			s.Progress = s.Progress.withBadge(id)
			newBadges = append(newBadges, id)
		}
	}

	hour := now.Hour()
	if hour >= 4 && hour <= 8 {
		award(catalog.BadgeEarlyBird)
	}
	if hour >= 22 || hour <= 3 {
		award(catalog.BadgeNightOwl)
	}
	if s.Progress.Streak == 1 {
		award(catalog.BadgeFirstStep)
	}
	if s.Progress.Streak == 10 {
		award(catalog.BadgeStreak10)
	}
	if s.Progress.SessionStages == 5 {
		award(catalog.BadgeQuickThinker)
	}
	if s.Progress.CompletedStages == 100 {
		award(catalog.BadgeHalfway)
	}
	if s.Progress.CompletedStages == GodLevelStage {
		award(catalog.BadgeGodLevel)
	}

	s.Rewards = &RewardSummary{
		ClearedStage: s.Progress.CompletedStages - 1,
		NewBadges:    newBadges,
		Streak:       s.Progress.Streak,
	}
	s.Mood = MoodExcited

	effects := []Effect{{Kind: EffectChime}, {Kind: EffectShowCleared}}
	if len(newBadges) > 0 {
		effects = append(effects, Effect{Kind: EffectConch})
	}
	return s, effects, nil
}

// Route tells the caller what comes after the rewards overlay.
type Route int

const (
	// RouteRoadmap returns to the roadmap.
	RouteRoadmap Route = iota
	// RouteExam requires fetching exam content for ExamLevel, then StartExam.
	RouteExam
	// RouteGraduation enters the final graduation flow.
	RouteGraduation
)

// ProceedFromRewards dismisses the rewards overlay and decides the next
// phase: a chapter boundary (every 20 stages) routes into an exam at the
// just-finished level, stage 202 routes into graduation, anything else goes
// back to the roadmap.
func (s State) ProceedFromRewards() (State, Route, int) {
	s.Rewards = nil
	stages := s.Progress.CompletedStages

	switch {
	case (stages-1)%ChapterLength == 0 && stages > MinStage && stages < GraduationStage:
		// Phase flips to exam in StartExam once content has arrived.
		return s, RouteExam, stages - 1
	case stages >= GraduationStage:
		s.Phase = PhaseExam
		s.Graduation = true
		s.Mood = MoodExcited
		return s, RouteGraduation, 0
	default:
		s.Phase = PhaseRoadmap
		return s, RouteRoadmap, 0
	}
}

// AwardBadge is an idempotent set-insert: awarding an already-earned badge
// changes nothing and requests no effects; a first award chimes the conch.
func (s State) AwardBadge(badgeID string) (State, []Effect) {
	if s.Progress.HasBadge(badgeID) {
		return s, nil
	}
	s.Progress = s.Progress.withBadge(badgeID)
	return s, []Effect{{Kind: EffectConch}}
}

// SetSelfie records the captured graduation image. Write-once.
func (s State) SetSelfie(url string) (State, error) {
	if s.Progress.SelfieURL != "" {
		return s, ErrSelfieSet
	}
	s.Progress.SelfieURL = url
	return s, nil
}

// FinishGraduation moves from the graduation screen to the certificate.
func (s State) FinishGraduation() (State, []Effect, error) {
	if s.Phase != PhaseExam || !s.Graduation {
		return s, nil, ErrWrongPhase
	}
	s.Phase = PhaseCertificate
	s.Graduation = false
	s.Mood = MoodExcited
	return s, []Effect{{Kind: EffectConch}}, nil
}

// SkipToStage is a developer shortcut: jump the roadmap to an arbitrary
// stage. Clamped to the valid stage domain.
func (s State) SkipToStage(stage int) (State, error) {
	if !s.DeveloperMode {
		return s, errors.New("developer mode required")
	}
	if stage < MinStage {
		stage = MinStage
	}
	if stage > GraduationStage {
		stage = GraduationStage
	}
	s.Progress.CompletedStages = stage
	s.Phase = PhaseRoadmap
	s.Exam = nil
	s.Rewards = nil
	return s, nil
}

// InstaComplete is a developer shortcut straight to the certificate with a
// placeholder selfie.
func (s State) InstaComplete(selfieURL string) (State, error) {
	if !s.DeveloperMode {
		return s, errors.New("developer mode required")
	}
	s.Progress.CompletedStages = 101
	s.Progress.SelfieURL = selfieURL
	s.Phase = PhaseCertificate
	s.Graduation = false
	s.Exam = nil
	s.Rewards = nil
	return s, nil
}
