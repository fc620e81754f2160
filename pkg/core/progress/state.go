// Package progress implements the Gurukul progression engine: the learner's
// progress record, the phase state machine, badge evaluation, and exam
// scoring. The engine is pure state-transition logic with no I/O; every
// operation takes a State by value and returns the replacement, so callers
// get copy-on-write semantics and cross-field invariants (streak and
// completed stages move together) hold atomically.
package progress

import (
	"slices"
)

// Phase is the learner's current view in the quest flow.
type Phase string

const (
	PhaseOnboarding     Phase = "onboarding"
	PhaseLanguageSelect Phase = "language-select"
	PhaseCourseSelect   Phase = "course-select"
	PhaseWorldSelect    Phase = "world-select"
	PhaseRoadmap        Phase = "roadmap"
	PhaseLearning       Phase = "learning"
	PhaseExam           Phase = "exam"
	PhaseCertificate    Phase = "certificate"
)

// Mood is the guru mascot's display emotion, driven by transitions.
type Mood string

const (
	MoodStudious     Mood = "studious"     // learning
	MoodExcited      Mood = "excited"      // win
	MoodEncouraging  Mood = "encouraging"  // failure
	MoodProfessional Mood = "professional" // hard tests
)

// Stage bounds. Stage 201 is the god-level capstone; completing it moves the
// counter to 202, the graduation sentinel.
const (
	MinStage        = 1
	GodLevelStage   = 201
	GraduationStage = 202
	ChapterLength   = 20
)

// UserProgress is the single mutable progress record for the session.
// Identity fields are write-once at onboarding; SelfieURL is write-once near
// completion. EarnedBadges is an insertion-ordered set and never shrinks.
type UserProgress struct {
	Name       string
	FatherName string
	Contact    string

	Language      string
	CurrentCourse string
	CurrentBook   string

	CompletedStages int
	Streak          int
	SessionStages   int
	ExamsPassed     int

	EarnedBadges []string
	SelfieURL    string
}

// HasBadge reports whether the badge was already earned.
func (p UserProgress) HasBadge(id string) bool {
	return slices.Contains(p.EarnedBadges, id)
}

// withBadge returns a copy with the badge appended. Callers must have
// checked HasBadge first; duplicates are their bug to avoid.
func (p UserProgress) withBadge(id string) UserProgress {
	badges := make([]string, 0, len(p.EarnedBadges)+1)
	badges = append(badges, p.EarnedBadges...)
	badges = append(badges, id)
	p.EarnedBadges = badges
	return p
}

// EffectKind identifies a side effect requested by a transition. The engine
// never performs effects; the caller does.
type EffectKind string

const (
	// EffectChime is the short success bell.
	EffectChime EffectKind = "chime"
	// EffectConch is the milestone shankh sound.
	EffectConch EffectKind = "conch"
	// EffectStopAudio tells the caller to halt any active narration.
	EffectStopAudio EffectKind = "stop-audio"
	// EffectShowCleared requests the transient level-cleared animation.
	EffectShowCleared EffectKind = "show-cleared"
	// EffectNotice carries a user-visible message.
	EffectNotice EffectKind = "notice"
)

// Effect is one side-effect request emitted alongside a transition.
type Effect struct {
	Kind    EffectKind
	Message string
}

// RewardSummary describes the outcome of a stage completion, shown on the
// rewards overlay before the learner proceeds.
type RewardSummary struct {
	ClearedStage int
	NewBadges    []string
	Streak       int
}

// State is the full engine state: the current phase, the progress record,
// and any in-flight exam or pending rewards.
type State struct {
	Phase Phase
	Mood  Mood

	Progress UserProgress

	// Exam is the active exam session, nil outside the exam phase and
	// during the graduation flow.
	Exam *ExamSession

	// Rewards is non-nil between a stage completion and ProceedFromRewards.
	Rewards *RewardSummary

	// Graduation marks the final flow after stage 202 or a passed final
	// exam: the exam phase renders the selfie/graduation screen instead of
	// questions.
	Graduation bool

	// DeveloperMode unlocks the tester shortcuts.
	DeveloperMode bool
}

// DevPassword unlocks developer mode when entered at onboarding.
const DevPassword = "Vedas & Sanskrit"

// NewState returns the engine state for a fresh session.
func NewState() State {
	return State{
		Phase: PhaseOnboarding,
		Mood:  MoodStudious,
		Progress: UserProgress{
			Language:        "hinglish",
			CompletedStages: MinStage,
		},
	}
}
