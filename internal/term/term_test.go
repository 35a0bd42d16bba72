package term

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mind-engage/docquiz/internal/identity"
	"github.com/mind-engage/docquiz/internal/quiz"
	"github.com/mind-engage/docquiz/internal/upload"
	"github.com/mind-engage/docquiz/pkg/quizapi"
)

type fakeService struct {
	failSubmits int
	questions   []quizapi.Question
	score     int
	answers   []string
	completes int
	uploads   int
	history   quizapi.History
}

func (f *fakeService) GetQuestion(_ context.Context, _ string, n int) (quizapi.Question, error) {
	if n >= len(f.questions) {
		return quizapi.Question{}, errors.New("no such question")
	}
	q := f.questions[n]
	q.TotalQuestions = len(f.questions)
	q.CurrentScore = f.score
	return q, nil
}

func (f *fakeService) SubmitAnswer(_ context.Context, req quizapi.AnswerRequest) (quizapi.AnswerResult, error) {
	f.answers = append(f.answers, req.Answer)
	if f.failSubmits > 0 {
		f.failSubmits--
		return quizapi.AnswerResult{}, errors.New("service unavailable")
	}
	f.score++
	return quizapi.AnswerResult{IsCorrect: true, CorrectAnswer: req.Answer, CurrentScore: f.score}, nil
}

func (f *fakeService) CompleteQuiz(context.Context, string) error { f.completes++; return nil }

func (f *fakeService) Upload(context.Context, string, io.Reader) (quizapi.Document, error) {
	f.uploads++
	return quizapi.Document{FileID: "f-1", Filename: "doc.pdf"}, nil
}

func (f *fakeService) GenerateQuiz(context.Context, quizapi.GenerateRequest) (string, error) {
	return "s-1", nil
}

func (f *fakeService) GetResults(_ context.Context, id string) (quizapi.Results, error) {
	return quizapi.Results{
		SessionID: id, DocumentName: "doc.pdf", TotalQuestions: 2, CorrectAnswers: 2, ScorePercentage: 100,
		QuestionsReview: []quizapi.ReviewItem{{Question: "Pick", UserAnswer: "A", CorrectAnswer: "A", IsCorrect: true}},
	}, nil
}

func (f *fakeService) GetHistory(context.Context, string) (quizapi.History, error) { return f.history, nil }

func twoQuestions() []quizapi.Question {
	return []quizapi.Question{
		{Text: "Pick", Kind: quizapi.MultipleChoice, Options: []string{"A", "B"}},
		{Text: "Capital of France is ___", Kind: quizapi.FillBlank},
	}
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func TestPlay(t *testing.T) {
	svc := &fakeService{questions: twoQuestions()}
	var out, errOut strings.Builder
	v := NewView(&out, &errOut, false)
	c := quiz.NewController(svc, v, "s-1", quiz.WithLogger(discard()))

	in := strings.NewReader("9\n1\n\n   \nParis\n\n")
	target, err := Play(context.Background(), c, v, in)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if target != "/results?session_id=s-1" {
		t.Fatalf("target = %q", target)
	}
	if got := strings.Join(svc.answers, ","); got != "A,Paris" {
		t.Fatalf("answers = %s", got)
	}
	if svc.completes != 1 {
		t.Fatalf("completes = %d", svc.completes)
	}
	for _, want := range []string{"Please select an answer", "Please enter an answer"} {
		if !strings.Contains(errOut.String(), want) {
			t.Fatalf("missing alert %q in %q", want, errOut.String())
		}
	}
	for _, want := range []string{"Question 1 of 2", "1) A", checkMark + " Correct!", "View Results"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in output", want)
		}
	}
}

func TestPlay_InvalidChoiceAfterFailedSubmit(t *testing.T) {
	svc := &fakeService{questions: twoQuestions()[:1], failSubmits: 1}
	var errOut strings.Builder
	v := NewView(io.Discard, &errOut, false)
	c := quiz.NewController(svc, v, "s-1", quiz.WithLogger(discard()))

	// "2" fails at the service, "x" must not resend B, "1" goes through
	target, err := Play(context.Background(), c, v, strings.NewReader("2\nx\n1\n\n"))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if target != "/results?session_id=s-1" {
		t.Fatalf("target = %q", target)
	}
	if got := strings.Join(svc.answers, ","); got != "B,A" {
		t.Fatalf("answers = %s", got)
	}
	for _, want := range []string{"Failed to submit answer: service unavailable", "Please select an answer"} {
		if !strings.Contains(errOut.String(), want) {
			t.Fatalf("missing alert %q in %q", want, errOut.String())
		}
	}
}

func TestPlay_InputEnds(t *testing.T) {
	svc := &fakeService{questions: twoQuestions()}
	v := NewView(io.Discard, io.Discard, false)
	c := quiz.NewController(svc, v, "s-1", quiz.WithLogger(discard()))
	if _, err := Play(context.Background(), c, v, strings.NewReader("")); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v", err)
	}
}

func TestPick(t *testing.T) {
	opts := []string{"Red", "Blue"}
	cases := map[string]string{"2": "Blue", " 1 ": "Red", "blue": "Blue"}
	for in, want := range cases {
		if got, ok := pick(opts, in); !ok || got != want {
			t.Fatalf("pick(%q) = %q, %v", in, got, ok)
		}
	}
	for _, in := range []string{"0", "3", "green", ""} {
		if _, ok := pick(opts, in); ok {
			t.Fatalf("pick(%q) should fail", in)
		}
	}
}

func newApp(svc *fakeService, input string) (*App, *strings.Builder) {
	var out strings.Builder
	return &App{
		Svc: svc, IDs: identity.MapStore{}, In: strings.NewReader(input),
		Out: &out, Err: io.Discard, Loc: time.UTC, Log: discard(),
	}, &out
}

func TestAppQuizShowsResults(t *testing.T) {
	svc := &fakeService{questions: twoQuestions()[:1]}
	a, out := newApp(svc, "2\n\n")
	if err := a.Quiz(context.Background(), "s-1"); err != nil {
		t.Fatalf("quiz: %v", err)
	}
	for _, want := range []string{"You scored 2 out of 2!", "Outstanding!", "Document: doc.pdf", "Review:"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in %q", want, out.String())
		}
	}
}

func TestAppUploadRejectsBeforeNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	svc := &fakeService{}
	a, _ := newApp(svc, "")
	if err := a.Upload(context.Background(), path, 10); !errors.Is(err, upload.ErrInvalidType) {
		t.Fatalf("err = %v", err)
	}
	if svc.uploads != 0 {
		t.Fatalf("upload reached the service")
	}
}

func TestAppHistory(t *testing.T) {
	svc := &fakeService{}
	a, out := newApp(svc, "")
	_ = a.History(context.Background())
	if !strings.Contains(out.String(), "No quizzes yet") {
		t.Fatalf("out = %q", out.String())
	}

	ids := identity.MapStore{identity.Key: "u-1"}
	svc.history = quizapi.History{UserID: "u-1", Quizzes: []quizapi.QuizRecord{{
		QuizID: "q-1", DocumentName: "doc.pdf", CompletedAt: time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC),
		TotalQuestions: 10, CorrectAnswers: 8, ScorePercentage: 80, TimeTakenSeconds: 125,
	}}}
	a, out = newApp(svc, "")
	a.IDs = ids
	_ = a.History(context.Background())
	for _, want := range []string{"Mar 5, 2024, 02:07 PM", "doc.pdf", "8/10", "80%", "2:05", "q-1"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("missing %q in %q", want, out.String())
		}
	}
}

func TestAppWhoAmIIsStable(t *testing.T) {
	a, out := newApp(&fakeService{}, "")
	_ = a.WhoAmI(context.Background())
	first := out.String()
	_ = a.WhoAmI(context.Background())
	if out.String() != first+first {
		t.Fatalf("id changed: %q", out.String())
	}
}
