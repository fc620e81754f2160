package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bharat-gurukul/gurukul/pkg/core/audio"
	"github.com/bharat-gurukul/gurukul/pkg/core/catalog"
	"github.com/bharat-gurukul/gurukul/pkg/core/guru"
	"github.com/bharat-gurukul/gurukul/pkg/core/progress"
	"github.com/bharat-gurukul/gurukul/pkg/core/types"
)

// guruService is the slice of the guru client the controller uses.
type guruService interface {
	StageContent(ctx context.Context, courseName string, stageNumber int, stageTitle, language string) (types.StageContent, error)
	ExamContent(ctx context.Context, courseName string, level int, language string) (types.ExamContent, error)
	Speech(ctx context.Context, text, language string) ([]byte, error)
}

type assistantService interface {
	Send(ctx context.Context, message string) (string, error)
}

// narrator is the playback surface; *audio.Player satisfies it.
type narrator interface {
	Play(audio.Buffer) error
	Stop()
	Wait()
	Speaking() bool
}

// app is the single-threaded controller: it owns the engine state and the
// event loop over stdin. Only the narration fetch runs off the loop, in a
// goroutine guarded by a generation token so late audio for an abandoned
// view is discarded.
type app struct {
	svc    guruService
	chat   assistantService
	player narrator
	log    *slog.Logger
	in     *bufio.Scanner
	out    io.Writer
	now    func() time.Time

	state   progress.State
	content types.StageContent

	mu        sync.Mutex
	narration uuid.UUID
	lastPCM   []byte

	// retry re-runs the request behind the current error banner.
	retry func(ctx context.Context) error
}

func newApp(svc guruService, chat assistantService, player narrator, log *slog.Logger, in io.Reader, out io.Writer) *app {
	return &app{
		svc:    svc,
		chat:   chat,
		player: player,
		log:    log,
		in:     bufio.NewScanner(in),
		out:    out,
		now:    time.Now,
		state:  progress.NewState(),
	}
}

func (a *app) run(ctx context.Context) error {
	fmt.Fprintln(a.out, "🕉️  Bharat AI-Gurukul")
	for {
		if err := ctx.Err(); err != nil {
			a.player.Stop()
			return nil
		}
		a.render()
		fmt.Fprint(a.out, "> ")
		if !a.in.Scan() {
			a.player.Stop()
			return a.in.Err()
		}
		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			a.player.Stop()
			fmt.Fprintln(a.out, "Phir milenge! 🙏")
			return nil
		}
		if err := a.dispatch(ctx, line); err != nil {
			a.showError(err)
		}
	}
}

func (a *app) dispatch(ctx context.Context, line string) error {
	switch {
	case line == "back":
		s, effects := a.state.Back()
		a.state = s
		a.applyEffects(effects)
		return nil
	case line == "retry":
		if a.retry == nil {
			fmt.Fprintln(a.out, "Nothing to retry.")
			return nil
		}
		retry := a.retry
		a.retry = nil
		return retry(ctx)
	case line == "badges":
		renderBadges(a.out, a.state.Progress)
		return nil
	case line == "mic":
		return a.magicMic(ctx)
	case line == "tone":
		if p, ok := a.player.(*audio.Player); ok {
			return p.PlayTone(500 * time.Millisecond)
		}
		return nil
	case strings.HasPrefix(line, "help"):
		return a.askSahayak(ctx, strings.TrimSpace(strings.TrimPrefix(line, "help")))
	}

	if a.state.Rewards != nil {
		return a.proceedFromRewards(ctx, line)
	}

	switch a.state.Phase {
	case progress.PhaseOnboarding:
		return a.handleOnboarding(line)
	case progress.PhaseLanguageSelect:
		return a.handleLanguageSelect(line)
	case progress.PhaseCourseSelect:
		return a.handleCourseSelect(line)
	case progress.PhaseWorldSelect:
		return a.handleWorldSelect(line)
	case progress.PhaseRoadmap:
		return a.handleRoadmap(ctx, line)
	case progress.PhaseLearning:
		return a.handleLearning(ctx, line)
	case progress.PhaseExam:
		return a.handleExam(ctx, line)
	case progress.PhaseCertificate:
		fmt.Fprintln(a.out, "Type 'back' to return to your courses.")
		return nil
	default:
		return fmt.Errorf("unhandled phase %s", a.state.Phase)
	}
}

// --- phase handlers ---

func (a *app) handleOnboarding(name string) error {
	father := a.readLine("Father's name: ")
	contact := a.readLine("Contact number: ")
	access := a.readLine("Access code (optional): ")
	s, err := a.state.CompleteOnboarding(name, father, contact, access)
	if err != nil {
		return err
	}
	a.state = s
	if s.DeveloperMode {
		fmt.Fprintln(a.out, "Developer Mode Unlocked: Access special debug features now.")
	}
	return nil
}

func (a *app) handleLanguageSelect(line string) error {
	langs := catalog.Languages()
	idx, err := pickIndex(line, len(langs))
	if err != nil {
		return err
	}
	s, err := a.state.SelectLanguage(langs[idx].ID)
	if err != nil {
		return err
	}
	a.state = s
	return nil
}

func (a *app) handleCourseSelect(line string) error {
	if q, ok := strings.CutPrefix(line, "search "); ok {
		renderCourses(a.out, catalog.SearchCourses(q))
		return nil
	}
	courses := catalog.Courses()
	idx, err := pickIndex(line, len(courses))
	if err != nil {
		return err
	}
	s, err := a.state.SelectCourse(courses[idx].ID)
	if err != nil {
		return err
	}
	a.state = s
	return nil
}

func (a *app) handleWorldSelect(line string) error {
	books := catalog.Books(a.state.Progress.CurrentCourse)
	idx, err := pickIndex(line, len(books))
	if err != nil {
		return err
	}
	s, err := a.state.SelectWorld(books[idx].ID)
	if err != nil {
		return err
	}
	a.state = s
	return nil
}

func (a *app) handleRoadmap(ctx context.Context, line string) error {
	switch {
	case line == "learn":
		return a.startStage(ctx)
	case strings.HasPrefix(line, "skip "):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "skip ")))
		if err != nil {
			return fmt.Errorf("skip needs a stage number: %w", err)
		}
		s, err := a.state.SkipToStage(n)
		if err != nil {
			return err
		}
		a.state = s
		return nil
	case strings.HasPrefix(line, "exam "):
		if !a.state.DeveloperMode {
			return errors.New("developer mode required")
		}
		level, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "exam ")))
		if err != nil {
			return fmt.Errorf("exam needs a level: %w", err)
		}
		return a.startExam(ctx, level)
	case line == "insta":
		s, err := a.state.InstaComplete("https://images.unsplash.com/photo-1531427186611-ecfd6d936c79?auto=format&fit=crop&q=80&w=200&h=200")
		if err != nil {
			return err
		}
		a.state = s
		return nil
	default:
		fmt.Fprintln(a.out, "Type 'learn' to begin the next stage.")
		return nil
	}
}

func (a *app) handleLearning(ctx context.Context, line string) error {
	if line == "done" {
		a.stopNarration()
		s, effects, err := a.state.CompleteStage(a.now())
		if err != nil {
			return err
		}
		a.state = s
		a.applyEffects(effects)
		return nil
	}
	fmt.Fprintln(a.out, "Finish the task, then type 'done'. 'mic' replays the guru's voice.")
	return nil
}

func (a *app) proceedFromRewards(ctx context.Context, line string) error {
	if line != "ok" {
		fmt.Fprintln(a.out, "Type 'ok' to continue.")
		return nil
	}
	s, route, level := a.state.ProceedFromRewards()
	a.state = s
	switch route {
	case progress.RouteExam:
		return a.startExam(ctx, level)
	case progress.RouteGraduation:
		fmt.Fprintln(a.out, "🎓 The final gate opens...")
		return nil
	default:
		return nil
	}
}

func (a *app) handleExam(ctx context.Context, line string) error {
	if a.state.Graduation {
		return a.handleGraduation(line)
	}
	if a.state.Exam == nil {
		return progress.ErrNoExam
	}
	idx, err := pickIndex(line, types.ExamOptionCount)
	if err != nil {
		return err
	}
	s, outcome, effects, err := a.state.AnswerExamQuestion(idx)
	if err != nil {
		return err
	}
	a.state = s
	a.applyEffects(effects)
	if outcome.Terminal {
		renderExamResult(a.out, outcome)
	} else if outcome.Correct {
		fmt.Fprintln(a.out, "Correct! 🎉")
	} else {
		fmt.Fprintln(a.out, "Not this time. Keep going.")
	}
	return nil
}

func (a *app) handleGraduation(line string) error {
	if path, ok := strings.CutPrefix(line, "selfie "); ok {
		s, err := a.state.SetSelfie(strings.TrimSpace(path))
		if err != nil {
			return err
		}
		a.state = s
		fmt.Fprintln(a.out, "A proud moment, captured.")
		return nil
	}
	if line == "graduate" {
		s, effects, err := a.state.FinishGraduation()
		if err != nil {
			return err
		}
		a.state = s
		a.applyEffects(effects)
		return nil
	}
	fmt.Fprintln(a.out, "Type 'selfie <path>' to capture the moment, then 'graduate'.")
	return nil
}

// --- guru-backed actions ---

func (a *app) startStage(ctx context.Context) error {
	a.stopNarration()
	course, _ := catalog.CourseByID(a.state.Progress.CurrentCourse)
	book, _ := catalog.BookByID(course.ID, a.state.Progress.CurrentBook)
	stage := a.state.Progress.CompletedStages
	lang := a.state.Progress.Language
	title := fmt.Sprintf("%s - Mastery Step %d", book.Name, stage)

	content, err := a.svc.StageContent(ctx, course.Name, stage, title, lang)
	if err != nil {
		a.retry = func(ctx context.Context) error { return a.startStage(ctx) }
		return fmt.Errorf("Gurukul connection lost. Please try again. (%w)", err)
	}
	s, err := a.state.BeginLearning()
	if err != nil {
		return err
	}
	a.state = s
	a.content = content
	// The lesson renders immediately; narration catches up on its own.
	a.narrateAsync(ctx, content.Explanation, lang)
	return nil
}

func (a *app) startExam(ctx context.Context, level int) error {
	a.stopNarration()
	course, _ := catalog.CourseByID(a.state.Progress.CurrentCourse)
	lang := a.state.Progress.Language

	content, err := a.svc.ExamContent(ctx, course.Name, level, lang)
	if err != nil {
		a.retry = func(ctx context.Context) error { return a.startExam(ctx, level) }
		return fmt.Errorf("Exam scroll could not be unrolled. Try again. (%w)", err)
	}
	s, err := a.state.StartExam(level, content)
	if err != nil {
		return err
	}
	a.state = s

	// The intro is awaited so the exam begins in silence.
	intro := fmt.Sprintf("It is time for your Maha-Pariksha for Level %d. 50 questions await you. Stay focused, student.", level)
	if pcm, err := a.svc.Speech(ctx, intro, lang); err != nil {
		a.log.Warn("exam intro narration failed", "err", err)
	} else if len(pcm) > 0 {
		a.mu.Lock()
		a.lastPCM = pcm
		a.mu.Unlock()
		if err := a.player.Play(audio.DecodePCM16(pcm, audio.DefaultSampleRate, audio.DefaultChannels)); err != nil {
			a.log.Warn("exam intro playback failed", "err", err)
		}
		a.player.Wait()
	}
	return nil
}

// narrateAsync fetches and plays narration without blocking the loop. The
// token invalidates the fetch when the learner has moved on.
func (a *app) narrateAsync(ctx context.Context, text, lang string) {
	token := uuid.New()
	a.mu.Lock()
	a.narration = token
	a.mu.Unlock()

	go func() {
		pcm, err := a.svc.Speech(ctx, text, lang)
		if err != nil {
			a.log.Warn("narration failed", "err", err)
			return
		}
		if len(pcm) == 0 {
			return
		}
		a.mu.Lock()
		stale := a.narration != token
		if !stale {
			a.lastPCM = pcm
		}
		a.mu.Unlock()
		if stale {
			return
		}
		if err := a.player.Play(audio.DecodePCM16(pcm, audio.DefaultSampleRate, audio.DefaultChannels)); err != nil {
			a.log.Warn("narration playback failed", "err", err)
		}
	}()
}

// magicMic replays the last narration, or re-synthesizes the current
// lesson when none is cached.
func (a *app) magicMic(ctx context.Context) error {
	a.player.Stop()
	a.mu.Lock()
	pcm := a.lastPCM
	a.mu.Unlock()
	if len(pcm) > 0 {
		return a.player.Play(audio.DecodePCM16(pcm, audio.DefaultSampleRate, audio.DefaultChannels))
	}
	if a.content.Explanation == "" {
		fmt.Fprintln(a.out, "The guru has nothing to repeat yet.")
		return nil
	}
	a.narrateAsync(ctx, a.content.Explanation, a.state.Progress.Language)
	return nil
}

func (a *app) askSahayak(ctx context.Context, msg string) error {
	if msg == "" {
		fmt.Fprintf(a.out, "🤖 %s\n", guru.Greeting)
		return nil
	}
	reply, err := a.chat.Send(ctx, msg)
	if err != nil {
		fmt.Fprintln(a.out, "🤖 Gurukul connection is weak. Please try again later.")
		a.log.Warn("sahayak failed", "err", err)
		return nil
	}
	fmt.Fprintf(a.out, "🤖 %s\n", reply)
	return nil
}

// --- plumbing ---

func (a *app) stopNarration() {
	a.mu.Lock()
	a.narration = uuid.New() // orphan any in-flight fetch
	a.mu.Unlock()
	a.player.Stop()
}

func (a *app) applyEffects(effects []progress.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case progress.EffectChime:
			fmt.Fprintln(a.out, "🔔")
		case progress.EffectConch:
			fmt.Fprintln(a.out, "🐚 The shankh sounds!")
		case progress.EffectStopAudio:
			a.stopNarration()
		case progress.EffectShowCleared:
			fmt.Fprintln(a.out, "💥 STAGE CLEARED!")
		case progress.EffectNotice:
			fmt.Fprintln(a.out, e.Message)
		}
	}
}

func (a *app) showError(err error) {
	fmt.Fprintf(a.out, "⚠️  %v\n", err)
	if a.retry != nil {
		fmt.Fprintln(a.out, "Type 'retry' to try again.")
	}
}

func (a *app) readLine(prompt string) string {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

// pickIndex parses a 1-based menu choice, or a/b/c/d for exam options.
func pickIndex(line string, n int) (int, error) {
	line = strings.ToLower(strings.TrimSpace(line))
	if len(line) == 1 && line[0] >= 'a' && line[0] <= 'd' {
		idx := int(line[0] - 'a')
		if idx < n {
			return idx, nil
		}
	}
	v, err := strconv.Atoi(line)
	if err != nil || v < 1 || v > n {
		return 0, fmt.Errorf("pick a number between 1 and %d", n)
	}
	return v - 1, nil
}
