package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bharat-gurukul/gurukul/pkg/core/audio"
	"github.com/bharat-gurukul/gurukul/pkg/core/progress"
	"github.com/bharat-gurukul/gurukul/pkg/core/types"
)

type stageCall struct {
	course, title, lang string
	stage               int
}

type fakeGuru struct {
	mu          sync.Mutex
	stageCalls  []stageCall
	examCalls   []int
	speechCalls []string

	stage     types.StageContent
	stageErr  error
	exam      types.ExamContent
	examErr   error
	speech    []byte
	speechErr error

	speechGate chan struct{} // when set, Speech blocks until closed
}

func (f *fakeGuru) StageContent(_ context.Context, course string, stage int, title, lang string) (types.StageContent, error) {
	f.mu.Lock()
	f.stageCalls = append(f.stageCalls, stageCall{course: course, stage: stage, title: title, lang: lang})
	f.mu.Unlock()
	return f.stage, f.stageErr
}

func (f *fakeGuru) ExamContent(_ context.Context, course string, level int, lang string) (types.ExamContent, error) {
	f.mu.Lock()
	f.examCalls = append(f.examCalls, level)
	f.mu.Unlock()
	return f.exam, f.examErr
}

func (f *fakeGuru) Speech(_ context.Context, text, lang string) ([]byte, error) {
	f.mu.Lock()
	f.speechCalls = append(f.speechCalls, text)
	gate := f.speechGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.speech, f.speechErr
}

type fakeChat struct{ reply string }

func (f *fakeChat) Send(context.Context, string) (string, error) { return f.reply, nil }

type fakePlayer struct {
	mu    sync.Mutex
	plays []audio.Buffer
	stops int
	waits int
}

func (f *fakePlayer) Play(b audio.Buffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays = append(f.plays, b)
	return nil
}

func (f *fakePlayer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakePlayer) Wait() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits++
}

func (f *fakePlayer) Speaking() bool { return false }

func (f *fakePlayer) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plays)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func lessonContent() types.StageContent {
	return types.StageContent{Explanation: "exp", Analogy: "ana", Task: "task", Check: "check"}
}

func fiftyQuestions() types.ExamContent {
	qs := make([]types.ExamQuestion, types.ExamQuestionCount)
	for i := range qs {
		qs[i] = types.ExamQuestion{
			Question:      fmt.Sprintf("q%d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
		}
	}
	return types.ExamContent{Title: "Maha-Pariksha", Questions: qs}
}

func testApp(svc *fakeGuru, player *fakePlayer, input string) (*app, *strings.Builder) {
	var out strings.Builder
	a := newApp(svc, &fakeChat{reply: "theek hai"}, player, quietLogger(), strings.NewReader(input), &out)
	a.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return a, &out
}

func roadmapState(course, book string) progress.State {
	s := progress.NewState()
	s.Phase = progress.PhaseRoadmap
	s.Progress.CurrentCourse = course
	s.Progress.CurrentBook = book
	s.Progress.CompletedStages = 1
	return s
}

func TestRunOnboardingToRoadmap(t *testing.T) {
	svc := &fakeGuru{}
	input := strings.Join([]string{
		"Asha Sharma", // name
		"Shri Sharma", // father
		"9999999999",  // contact
		"",            // access code prompt gets EOF-safe blank... needs a line
		"1",           // hinglish
		"12",          // Vedic Mathematics (courses sorted by name)
		"1",           // Book 1
		"quit",
	}, "\n") + "\n"
	a, out := testApp(svc, &fakePlayer{}, input)

	if err := a.run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.state.Phase != progress.PhaseRoadmap {
		t.Fatalf("phase = %s, want roadmap", a.state.Phase)
	}
	if a.state.Progress.CurrentCourse != "vedic-math" {
		t.Errorf("course = %q, want vedic-math", a.state.Progress.CurrentCourse)
	}
	if a.state.Progress.CurrentBook != "vm-b1" {
		t.Errorf("book = %q, want vm-b1", a.state.Progress.CurrentBook)
	}
	if !strings.Contains(out.String(), "Choose your language") {
		t.Error("language menu never rendered")
	}
}

func TestRunLearnCompleteProceed(t *testing.T) {
	svc := &fakeGuru{stage: lessonContent()} // no speech: narration goroutine is a no-op
	player := &fakePlayer{}
	a, out := testApp(svc, player, "learn\ndone\nok\nquit\n")
	a.state = roadmapState("vedic-math", "vm-b1")

	if err := a.run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(svc.stageCalls) != 1 {
		t.Fatalf("stage calls = %d, want 1", len(svc.stageCalls))
	}
	call := svc.stageCalls[0]
	if call.course != "Vedic Mathematics" {
		t.Errorf("course name = %q", call.course)
	}
	if want := "Book 1: Speed Addition & Subtraction - Mastery Step 1"; call.title != want {
		t.Errorf("title = %q, want %q", call.title, want)
	}
	if a.state.Progress.CompletedStages != 2 {
		t.Errorf("stages = %d, want 2", a.state.Progress.CompletedStages)
	}
	if a.state.Phase != progress.PhaseRoadmap {
		t.Errorf("phase = %s, want roadmap", a.state.Phase)
	}
	if !strings.Contains(out.String(), "STAGE CLEARED") {
		t.Error("cleared animation never rendered")
	}
	if !strings.Contains(out.String(), "Guru explains:\nexp") {
		t.Error("lesson never rendered")
	}
}

func TestStageFetchErrorOffersRetry(t *testing.T) {
	svc := &fakeGuru{stage: lessonContent(), stageErr: fmt.Errorf("boom")}
	a, out := testApp(svc, &fakePlayer{}, "")
	a.state = roadmapState("vedic-math", "vm-b1")

	err := a.dispatch(context.Background(), "learn")
	if err == nil {
		t.Fatal("expected error")
	}
	a.showError(err)
	if a.retry == nil {
		t.Fatal("retry slot not armed")
	}
	if !strings.Contains(out.String(), "Type 'retry' to try again.") {
		t.Error("retry hint missing")
	}

	svc.stageErr = nil
	if err := a.dispatch(context.Background(), "retry"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if a.state.Phase != progress.PhaseLearning {
		t.Errorf("phase = %s, want learning after retry", a.state.Phase)
	}
	if len(svc.stageCalls) != 2 {
		t.Errorf("stage calls = %d, want 2", len(svc.stageCalls))
	}
}

func TestStartExamAwaitsIntro(t *testing.T) {
	svc := &fakeGuru{exam: fiftyQuestions(), speech: []byte{1, 2, 3, 4}}
	player := &fakePlayer{}
	a, _ := testApp(svc, player, "")
	a.state = roadmapState("vedic-math", "vm-b1")
	a.state.Progress.CompletedStages = 21

	if err := a.startExam(context.Background(), 20); err != nil {
		t.Fatal(err)
	}
	if a.state.Phase != progress.PhaseExam || a.state.Exam == nil {
		t.Fatal("exam session not opened")
	}
	if len(svc.examCalls) != 1 || svc.examCalls[0] != 20 {
		t.Errorf("exam calls = %v, want [20]", svc.examCalls)
	}
	if player.playCount() != 1 {
		t.Errorf("intro plays = %d, want 1", player.playCount())
	}
	if player.waits != 1 {
		t.Errorf("intro waits = %d, want 1 (intro must be awaited)", player.waits)
	}
	if len(svc.speechCalls) != 1 || !strings.Contains(svc.speechCalls[0], "Maha-Pariksha for Level 20") {
		t.Errorf("intro narration = %v", svc.speechCalls)
	}
}

func TestNarrationTokenDiscardsStaleAudio(t *testing.T) {
	gate := make(chan struct{})
	svc := &fakeGuru{speech: []byte{1, 2, 3, 4}, speechGate: gate}
	player := &fakePlayer{}
	a, _ := testApp(svc, player, "")
	a.state = roadmapState("vedic-math", "vm-b1")

	a.narrateAsync(context.Background(), "exp", "hinglish")
	a.stopNarration() // learner went back before audio arrived
	close(gate)

	time.Sleep(50 * time.Millisecond)
	if player.playCount() != 0 {
		t.Errorf("stale narration played %d times, want 0", player.playCount())
	}
	a.mu.Lock()
	last := a.lastPCM
	a.mu.Unlock()
	if last != nil {
		t.Error("stale narration cached as last audio")
	}
}

func TestMagicMicReplaysLastNarration(t *testing.T) {
	svc := &fakeGuru{}
	player := &fakePlayer{}
	a, _ := testApp(svc, player, "")
	a.lastPCM = []byte{1, 2, 3, 4}

	if err := a.magicMic(context.Background()); err != nil {
		t.Fatal(err)
	}
	if player.stops != 1 {
		t.Errorf("stops = %d, want 1", player.stops)
	}
	if player.playCount() != 1 {
		t.Errorf("plays = %d, want 1", player.playCount())
	}
	if len(svc.speechCalls) != 0 {
		t.Error("replay should not re-synthesize")
	}
}

func TestMagicMicResynthesizesWhenNoCache(t *testing.T) {
	svc := &fakeGuru{speech: []byte{1, 2, 3, 4}}
	player := &fakePlayer{}
	a, _ := testApp(svc, player, "")
	a.content = lessonContent()

	if err := a.magicMic(context.Background()); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(time.Second)
	for player.playCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("re-synthesized narration never played")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if len(svc.speechCalls) != 1 || svc.speechCalls[0] != "exp" {
		t.Errorf("speech calls = %v, want the explanation", svc.speechCalls)
	}
}

func TestPickIndex(t *testing.T) {
	tests := []struct {
		line    string
		n       int
		want    int
		wantErr bool
	}{
		{line: "1", n: 4, want: 0},
		{line: "4", n: 4, want: 3},
		{line: "b", n: 4, want: 1},
		{line: "D", n: 4, want: 3},
		{line: "0", n: 4, wantErr: true},
		{line: "5", n: 4, wantErr: true},
		{line: "e", n: 4, wantErr: true},
		{line: "x", n: 4, wantErr: true},
	}
	for _, tt := range tests {
		got, err := pickIndex(tt.line, tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("pickIndex(%q): err = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("pickIndex(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}
