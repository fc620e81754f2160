// Package catalog holds the static reference data for the Gurukul quest:
// courses, books ("worlds"), language styles, and the badge catalog.
// Everything here is immutable; mutable learner state lives in pkg/core/progress.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Course is one selectable quest subject.
type Course struct {
	ID          string
	Name        string
	Category    string
	Description string
}

// Course categories.
const (
	CategoryTraditional = "Traditional"
	CategoryModern      = "Modern"
	CategoryAIFuture    = "AI Future"
)

// Book is one "world" of a course. Every book spans the full 200-level
// roadmap plus the god-level capstone.
type Book struct {
	ID          string
	Name        string
	Description string
	TotalLevels int
}

// Language is a narration/content style the learner picks once at the start.
type Language struct {
	ID   string
	Name string
	Flag string
}

// BadgeCategory groups badges for display.
type BadgeCategory string

const (
	BadgeStreak     BadgeCategory = "streak"
	BadgeExam       BadgeCategory = "exam"
	BadgeCompletion BadgeCategory = "completion"
)

// Badge is a permanent achievement marker, awarded at most once per ID.
type Badge struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Category    BadgeCategory
}

// Badge IDs referenced by the progression engine.
const (
	BadgeFirstStep      = "first-step"
	BadgeStreak10       = "streak-10"
	BadgeQuickThinker   = "quick-thinker"
	BadgeHalfway        = "halfway"
	BadgeGodLevel       = "god-level"
	BadgeEarlyBird      = "early-bird"
	BadgeNightOwl       = "night-owl"
	BadgePerfectExam    = "perfect-exam"
	BadgeExamWarrior    = "exam-warrior"
	BadgeCategoryMaster = "category-master"
)

var badges = []Badge{
	{ID: BadgeStreak10, Name: "Dash-Sopan", Icon: "🔥", Description: "Mastered 10 stages in a row!", Category: BadgeStreak},
	{ID: BadgePerfectExam, Name: "Agni-Siddha", Icon: "💎", Description: "Scored 100% in a Maha-Pariksha!", Category: BadgeExam},
	{ID: BadgeCategoryMaster, Name: "Vishay-Samrat", Icon: "👑", Description: "Completed all courses in a category!", Category: BadgeCompletion},
	{ID: BadgeFirstStep, Name: "Pratham-Pad", Icon: "👣", Description: "Completed your first stage!", Category: BadgeStreak},
	{ID: BadgeHalfway, Name: "Ardha-Siddhi", Icon: "🌓", Description: "Reached the halfway mark to mastery.", Category: BadgeStreak},
	{ID: BadgeExamWarrior, Name: "Pariksha-Veer", Icon: "⚔️", Description: "Passed 5 Maha-Parikshas!", Category: BadgeExam},
	{ID: BadgeQuickThinker, Name: "Druta-Buddhi", Icon: "⚡", Description: "Completed 5 stages in a single session!", Category: BadgeStreak},
	{ID: BadgeEarlyBird, Name: "Brahma-Muhurta", Icon: "🌅", Description: "Studied during the auspicious morning hours!", Category: BadgeStreak},
	{ID: BadgeNightOwl, Name: "Ratri-Yogi", Icon: "🌙", Description: "Studied deep into the night!", Category: BadgeStreak},
	{ID: BadgeGodLevel, Name: "Deva-Siddhi", Icon: "🕉️", Description: "Attained the ultimate God Level mastery!", Category: BadgeCompletion},
}

var courses = []Course{
	{ID: "ai-prompt", Name: "AI Prompt Engineering", Category: CategoryAIFuture, Description: "Master the art of speaking to machines."},
	{ID: "ai-labeling", Name: "AI Data Annotation", Category: CategoryAIFuture, Description: "Build the fuel for modern AI systems."},
	{ID: "ai-ethics", Name: "AI Ethics & Safety", Category: CategoryAIFuture, Description: "Ensuring technology serves humanity safely."},
	{ID: "vedic-math", Name: "Vedic Mathematics", Category: CategoryTraditional, Description: "Ancient Indian shortcuts for lightning speed math."},
	{ID: "ayurveda", Name: "Ayurveda & Wellness", Category: CategoryTraditional, Description: "Traditional science of holistic health."},
	{ID: "vastu", Name: "Vastu & Architecture", Category: CategoryTraditional, Description: "The science of living spaces and energy."},
	{ID: "sanskrit-guru", Name: "Sanskrit Mastery", Category: CategoryTraditional, Description: "Learning the mother of all languages."},
	{ID: "digital-market", Name: "Digital Marketing for Bharat", Category: CategoryModern, Description: "Grow local business using modern tools."},
	{ID: "fin-literacy", Name: "Financial Literacy", Category: CategoryModern, Description: "Managing money, banking, and investments."},
	{ID: "agri-tech", Name: "Smart Agriculture", Category: CategoryModern, Description: "Using tech to double crop yield and quality."},
	{ID: "mobile-fix", Name: "Mobile Hardware & Tech", Category: CategoryModern, Description: "Mastering the most used device in the world."},
	{ID: "ca-course", Name: "Chartered Accountant (CA)", Category: CategoryModern, Description: "Professional accounting and finance mastery based on ICAI standards."},
}

var languages = []Language{
	{ID: "hinglish", Name: "Hinglish (हिन्दी + English)", Flag: "🇮🇳"},
	{ID: "sanskrit", Name: "Sanskrit (संस्कृतम्)", Flag: "🕉️"},
	{ID: "hindi", Name: "Pure Hindi (हिन्दी)", Flag: "📙"},
	{ID: "english", Name: "Global English", Flag: "🌐"},
	{ID: "banglish", Name: "Banglish (বাংলা + English)", Flag: "🇧🇩"},
	{ID: "tanglish", Name: "Tanglish (தமிழ் + English)", Flag: "🌿"},
}

var booksByCourse = map[string][]Book{
	"ai-prompt": {
		{ID: "prompt-b1", Name: "Book 1: Foundations of Prompting", Description: "Basics of talking to AI.", TotalLevels: 200},
		{ID: "prompt-b2", Name: "Book 2: Advanced Techniques", Description: "Mastering complex prompts.", TotalLevels: 200},
	},
	"ca-course": {
		{ID: "ca-b1", Name: "Book 1: Accounting Principles", Description: "Fundamentals of CA accounting.", TotalLevels: 200},
		{ID: "ca-b2", Name: "Book 2: Mercantile Laws", Description: "Legal frameworks for business.", TotalLevels: 200},
		{ID: "ca-b3", Name: "Book 3: Taxation Basics", Description: "Introduction to Indian tax systems.", TotalLevels: 200},
	},
	"vedic-math": {
		{ID: "vm-b1", Name: "Book 1: Speed Addition & Subtraction", Description: "Ancient mental math secrets.", TotalLevels: 200},
		{ID: "vm-b2", Name: "Book 2: Lightning Multiplication", Description: "Multiply large numbers in seconds.", TotalLevels: 200},
	},
}

// Courses returns the full course catalog sorted by name.
func Courses() []Course {
	out := make([]Course, len(courses))
	copy(out, courses)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CourseByID looks up a course by its identifier.
func CourseByID(id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// SearchCourses filters the catalog by a case-insensitive substring match on
// course name or category. An empty query returns the full catalog.
func SearchCourses(query string) []Course {
	query = strings.ToLower(strings.TrimSpace(query))
	all := Courses()
	if query == "" {
		return all
	}
	var out []Course
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Category), query) {
			out = append(out, c)
		}
	}
	return out
}

// Books returns the books for a course. Courses without a curated list get a
// single default introduction book.
func Books(courseID string) []Book {
	if books, ok := booksByCourse[courseID]; ok {
		out := make([]Book, len(books))
		copy(out, books)
		return out
	}
	course, ok := CourseByID(courseID)
	if !ok {
		return nil
	}
	return []Book{{
		ID:          courseID + "-b1",
		Name:        "Book 1: Introduction",
		Description: fmt.Sprintf("Starting your journey in %s.", course.Name),
		TotalLevels: 200,
	}}
}

// BookByID looks up a book within a course.
func BookByID(courseID, bookID string) (Book, bool) {
	for _, b := range Books(courseID) {
		if b.ID == bookID {
			return b, true
		}
	}
	return Book{}, false
}

// Languages returns the selectable language styles.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// LanguageByID looks up a language style.
func LanguageByID(id string) (Language, bool) {
	for _, l := range languages {
		if l.ID == id {
			return l, true
		}
	}
	return Language{}, false
}

// Badges returns the badge catalog in display order.
func Badges() []Badge {
	out := make([]Badge, len(badges))
	copy(out, badges)
	return out
}

// BadgeByID looks up a badge definition.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
