package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bharat-gurukul/gurukul/pkg/core/catalog"
	"github.com/bharat-gurukul/gurukul/pkg/core/progress"
	"github.com/bharat-gurukul/gurukul/pkg/core/types"
)

// render paints the current view. The rewards overlay covers whatever phase
// is underneath, matching how the quest flow works.
func (a *app) render() {
	if a.state.Rewards != nil {
		renderRewards(a.out, *a.state.Rewards)
		return
	}
	switch a.state.Phase {
	case progress.PhaseOnboarding:
		fmt.Fprintln(a.out, "\nWelcome to the Gurukul. Enter your name to begin your quest.")
	case progress.PhaseLanguageSelect:
		fmt.Fprintln(a.out, "\nChoose your language:")
		for i, l := range catalog.Languages() {
			fmt.Fprintf(a.out, "  %d. %s %s\n", i+1, l.Flag, l.Name)
		}
	case progress.PhaseCourseSelect:
		fmt.Fprintln(a.out, "\nChoose your course ('search <text>' to filter):")
		renderCourses(a.out, catalog.Courses())
	case progress.PhaseWorldSelect:
		fmt.Fprintln(a.out, "\nChoose your Loka (world):")
		for i, b := range catalog.Books(a.state.Progress.CurrentCourse) {
			fmt.Fprintf(a.out, "  %d. %s - %s\n", i+1, b.Name, b.Description)
		}
	case progress.PhaseRoadmap:
		renderRoadmap(a.out, a.state.Progress)
	case progress.PhaseLearning:
		renderLesson(a.out, a.state, a.content)
	case progress.PhaseExam:
		renderExam(a.out, a.state)
	case progress.PhaseCertificate:
		renderCertificate(a.out, a.state.Progress)
	}
}

func renderCourses(out io.Writer, courses []catalog.Course) {
	for i, c := range courses {
		fmt.Fprintf(out, "  %d. %s [%s] - %s\n", i+1, c.Name, c.Category, c.Description)
	}
	if len(courses) == 0 {
		fmt.Fprintln(out, "  (no courses match)")
	}
}

func renderRoadmap(out io.Writer, p progress.UserProgress) {
	course, _ := catalog.CourseByID(p.CurrentCourse)
	book, _ := catalog.BookByID(p.CurrentCourse, p.CurrentBook)
	fmt.Fprintf(out, "\n🗺️  %s / %s\n", course.Name, book.Name)
	fmt.Fprintf(out, "Stage %d of %d", p.CompletedStages, progress.GodLevelStage)
	if p.CompletedStages == progress.GodLevelStage {
		fmt.Fprint(out, "  🕉️ GOD LEVEL")
	} else if (p.CompletedStages)%progress.ChapterLength == 0 {
		fmt.Fprint(out, "  👹 boss level")
	}
	fmt.Fprintf(out, " | streak %d | exams passed %d\n", p.Streak, p.ExamsPassed)
	fmt.Fprintln(out, "Type 'learn' to begin.")
}

func renderLesson(out io.Writer, s progress.State, c types.StageContent) {
	fmt.Fprintf(out, "\n📖 Stage %d\n", s.Progress.CompletedStages)
	fmt.Fprintf(out, "\nGuru explains:\n%s\n", c.Explanation)
	fmt.Fprintf(out, "\nDesi analogy:\n%s\n", c.Analogy)
	fmt.Fprintf(out, "\nYour task:\n%s\n", c.Task)
	fmt.Fprintf(out, "\nCheck yourself:\n%s\n", c.Check)
	if c.ImageURL != "" {
		fmt.Fprintf(out, "\n🖼️  Illustration attached (%d chars)\n", len(c.ImageURL))
	}
	fmt.Fprintln(out, "\nType 'done' when the task is complete. 'mic' replays the narration.")
}

func renderRewards(out io.Writer, r progress.RewardSummary) {
	fmt.Fprintf(out, "\n✨ Stage %d cleared! Streak: %d\n", r.ClearedStage, r.Streak)
	for _, id := range r.NewBadges {
		if badge, ok := catalog.BadgeByID(id); ok {
			fmt.Fprintf(out, "   %s New badge: %s - %s\n", badge.Icon, badge.Name, badge.Description)
		}
	}
	fmt.Fprintln(out, "Type 'ok' to continue.")
}

func renderExam(out io.Writer, s progress.State) {
	if s.Graduation {
		fmt.Fprintln(out, "\n🎓 You stand at the gates of graduation.")
		return
	}
	e := s.Exam
	if e == nil {
		return
	}
	q := e.Question()
	fmt.Fprintf(out, "\n📜 %s - question %d of %d (score %d)\n", e.Content.Title, e.Index+1, len(e.Content.Questions), e.Score)
	fmt.Fprintln(out, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %c. %s\n", 'a'+i, opt)
	}
}

func renderExamResult(out io.Writer, o progress.ExamOutcome) {
	if o.Passed {
		fmt.Fprintf(out, "\n🏆 Maha-Pariksha passed: %d/50!\n", o.FinalScore)
	}
	for _, id := range o.NewBadges {
		if badge, ok := catalog.BadgeByID(id); ok {
			fmt.Fprintf(out, "   %s New badge: %s\n", badge.Icon, badge.Name)
		}
	}
	if o.Graduation {
		fmt.Fprintln(out, "🕉️  The God Level is conquered. Graduation awaits.")
	}
}

func renderBadges(out io.Writer, p progress.UserProgress) {
	fmt.Fprintf(out, "\n🏅 Badges earned (%d of %d):\n", len(p.EarnedBadges), len(catalog.Badges()))
	for _, id := range p.EarnedBadges {
		if badge, ok := catalog.BadgeByID(id); ok {
			fmt.Fprintf(out, "   %s %s - %s\n", badge.Icon, badge.Name, badge.Description)
		}
	}
}

func renderCertificate(out io.Writer, p progress.UserProgress) {
	course, _ := catalog.CourseByID(p.CurrentCourse)
	line := strings.Repeat("=", 46)
	fmt.Fprintf(out, "\n%s\n", line)
	fmt.Fprintln(out, "      BHARAT AI-GURUKUL - CERTIFICATE")
	fmt.Fprintf(out, "  This certifies that %s\n", p.Name)
	if p.FatherName != "" {
		fmt.Fprintf(out, "  child of %s\n", p.FatherName)
	}
	fmt.Fprintf(out, "  has attained mastery in %s\n", course.Name)
	if p.SelfieURL != "" {
		fmt.Fprintf(out, "  📷 %s\n", p.SelfieURL)
	}
	fmt.Fprintln(out, line)
}
