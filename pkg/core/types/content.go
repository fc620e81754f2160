// Package types defines the content shapes exchanged between the generative
// service boundary and the progression engine.
package types

// StageContent is one stage's worth of generated lesson material. It is
// produced per request and superseded by the next stage's content.
type StageContent struct {
	Explanation string `json:"explanation"`
	Analogy     string `json:"analogy"`
	Task        string `json:"task"`
	Check       string `json:"check,omitempty"`
	ImagePrompt string `json:"imagePrompt,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ExamQuestion is a single multiple-choice question. Options always has
// exactly four entries and CorrectAnswer indexes into it.
type ExamQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// ExamContent is a full Maha-Pariksha: a title and an ordered question list.
// It is consumed read-only during the exam phase and discarded after.
type ExamContent struct {
	Title     string         `json:"title"`
	Questions []ExamQuestion `json:"questions"`
}

// ExamQuestionCount is the fixed size of every exam.
const ExamQuestionCount = 50

// ExamPassScore is the minimum final score that passes an exam (70%).
const ExamPassScore = 35

// ExamOptionCount is the fixed number of options per question.
const ExamOptionCount = 4
