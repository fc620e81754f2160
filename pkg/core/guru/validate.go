package guru

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bharat-gurukul/gurukul/pkg/core/types"
)

// stagePayload mirrors the JSON schema the text model is asked to fill.
type stagePayload struct {
	Explanation string `json:"explanation"`
	Analogy     string `json:"analogy"`
	Task        string `json:"task"`
	Check       string `json:"check"`
	ImagePrompt string `json:"imagePrompt"`
}

type examPayload struct {
	Title     string `json:"title"`
	Questions []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correctAnswer"`
		Explanation   string   `json:"explanation"`
	} `json:"questions"`
}

// parseStageContent decodes and validates a stage content response. The
// model is schema-constrained, but responses are still checked before they
// reach the engine.
func parseStageContent(raw string) (types.StageContent, error) {
	var p stagePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return types.StageContent{}, newError(KindBadContent, "stage content is not valid JSON", err)
	}
	for field, v := range map[string]string{
		"explanation": p.Explanation,
		"analogy":     p.Analogy,
		"task":        p.Task,
		"check":       p.Check,
	} {
		if strings.TrimSpace(v) == "" {
			return types.StageContent{}, newError(KindBadContent, fmt.Sprintf("stage content missing %s", field), nil)
		}
	}
	return types.StageContent{
		Explanation: p.Explanation,
		Analogy:     p.Analogy,
		Task:        p.Task,
		Check:       p.Check,
		ImagePrompt: p.ImagePrompt,
	}, nil
}

// parseExamContent decodes and validates an exam response: exactly
// questionCount questions, four options each, answer index in range.
func parseExamContent(raw string, questionCount int) (types.ExamContent, error) {
	var p examPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return types.ExamContent{}, newError(KindBadContent, "exam content is not valid JSON", err)
	}
	if len(p.Questions) != questionCount {
		return types.ExamContent{}, newError(KindBadContent,
			fmt.Sprintf("exam has %d questions, want %d", len(p.Questions), questionCount), nil)
	}
	out := types.ExamContent{Title: p.Title, Questions: make([]types.ExamQuestion, 0, questionCount)}
	if strings.TrimSpace(out.Title) == "" {
		out.Title = "Maha-Pariksha"
	}
	for i, q := range p.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return types.ExamContent{}, newError(KindBadContent, fmt.Sprintf("question %d is empty", i+1), nil)
		}
		if len(q.Options) != types.ExamOptionCount {
			return types.ExamContent{}, newError(KindBadContent,
				fmt.Sprintf("question %d has %d options, want %d", i+1, len(q.Options), types.ExamOptionCount), nil)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= types.ExamOptionCount {
			return types.ExamContent{}, newError(KindBadContent,
				fmt.Sprintf("question %d answer index %d out of range", i+1, q.CorrectAnswer), nil)
		}
		out.Questions = append(out.Questions, types.ExamQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return out, nil
}
