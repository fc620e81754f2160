package guru

import (
	"fmt"
	"strings"
)

// Model names. The text model carries stage, exam, and assistant traffic;
// speech and illustrations have dedicated models.
const (
	textModel  = "gemini-3-flash-preview"
	ttsModel   = "gemini-2.5-flash-preview-tts"
	imageModel = "gemini-2.5-flash-image"
)

// TTS voice for the guru narration.
const guruVoice = "Kore"

// isCACourse reports whether the course falls under the ICAI-regulated
// Chartered Accountant curriculum.
func isCACourse(courseName string) bool {
	name := strings.ToLower(courseName)
	return strings.Contains(name, "chartered accountant") || strings.Contains(name, "ca")
}

// isNumericalCourse reports whether stage illustrations help the subject.
func isNumericalCourse(courseName string) bool {
	name := strings.ToLower(courseName)
	return strings.Contains(name, "math") || strings.Contains(name, "finance") || strings.Contains(name, "accounting")
}

// difficultyFor maps a stage or exam level to the 0..10 difficulty scale.
// The god-level capstone pins to the maximum.
func difficultyFor(stage int, godLevel bool) string {
	if godLevel {
		return "10.0"
	}
	return fmt.Sprintf("%.1f", float64(stage)/20)
}

// icaiBlock steers CA content to the official ICAI study material.
const icaiBlock = `
IMPORTANT: This is a Chartered Accountant (CA) course regulated by the ICAI (Statutory Corporation).
The content MUST come from real problems, illustrations, or questions in the official ICAI study material (BOS Knowledge Portal).
Do NOT create generic content. Use actual curriculum data.
Reference URLs:
- https://www.icai.org/post/bos-knowledge-portal
- https://www.icai.org/post/foundation-course-new-scheme
- https://www.icai.org/post/intermediate-course-new-scheme
- https://www.icai.org/post/final-course-new-scheme
`

func stagePrompt(courseName string, stageNumber int, stageTitle, language string) string {
	godLevel := stageNumber == 201
	var b strings.Builder
	fmt.Fprintf(&b, `You are the Master Guru of Bharat AI-Gurukul.
Topic: %q for the course %q (Stage %d of 200).
`, stageTitle, courseName, stageNumber)
	if godLevel {
		b.WriteString("CRITICAL: This is the GOD LEVEL. The final ultimate challenge. Make the explanation and task extremely advanced and profound.\n")
	}
	fmt.Fprintf(&b, `Target Language: %s.
Difficulty Level: %s/10.0.

Structure:
1. Explanation: High-level professional knowledge explained simply.
2. Language Tone: If language is 'hinglish', use "Pure Hinglish" - the way young people in India talk. Mix Hindi and English words naturally. (e.g., "Aaj hum seekhenge kaise complex problems ko solve karte hain" instead of "Aaj hum jatil samasyaon ka samadhan seekhenge"). Use Devanagari for Hindi parts.
3. Analogy: Compare this specific course concept to a deeply local Indian life situation.
4. Interactive Task: A highly specific, practical, hands-on task.
5. Image Prompt: If this is a numerical or technical task, provide a detailed prompt to generate an image that helps visualize the problem (e.g., a diagram, a chalkboard with numbers, or a technical component).

Return strictly JSON.
`, language, difficultyFor(stageNumber, godLevel))
	if isCACourse(courseName) {
		b.WriteString(icaiBlock)
	}
	return b.String()
}

func examPrompt(courseName string, level int, language string, questionCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are the Master Guru of Bharat AI-Gurukul.
Create a "Maha-Pariksha" (Exam) specifically for the course %q after the student has completed Level %d.
Target Language: %s.
Difficulty Level: %s/10.0.

Requirements:
- Generate %d challenging multiple-choice questions that strictly test the core skills and knowledge of %q.
- The questions must be highly relevant to the specific subject matter of %q and cover concepts learned from level %d to %d.
- Language should be %s.
- Each question must have 4 plausible but distinct options.
- correctAnswer is the index (0-3).
- Include a brief "Guru's Explanation" for each question to help the student learn from their mistakes.

Return strictly JSON.
`, courseName, level, language, difficultyFor(level, false), questionCount, courseName, courseName, level-9, level, language)
	if isCACourse(courseName) {
		b.WriteString(icaiBlock)
	}
	return b.String()
}

func speechPrompt(text, language string) string {
	return fmt.Sprintf("Speak this text in a warm, expert Indian guru voice. Language context is %s: %s", language, text)
}

func illustrationPrompt(courseName, imagePrompt string) string {
	return fmt.Sprintf("Educational illustration for %s: %s. Clear, professional, high contrast.", courseName, imagePrompt)
}

// sahayakSystemPrompt drives the in-app help assistant.
const sahayakSystemPrompt = "You are 'Gurukul Sahayak', a legendary AI guide for 'Bharat AI-Gurukul'. " +
	"You help students navigate their educational quest. You explain game mechanics: Levels (Sopan), Worlds (Loka), " +
	"Boss Levels (👹), and the ultimate God Level (🕉️). You provide technical help and emotional support. " +
	"Your tone is like a wise but friendly elder brother/sister. Use 'Pure Hinglish' - mix Hindi and English naturally " +
	"(e.g., 'Aapka quest shuru ho gaya hai, tension mat lo!'). Keep responses concise and encouraging. " +
	"You are an AI, but you speak with the heart of a teacher."
