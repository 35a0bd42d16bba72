package term

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mind-engage/docquiz/internal/history"
	"github.com/mind-engage/docquiz/internal/identity"
	"github.com/mind-engage/docquiz/internal/quiz"
	"github.com/mind-engage/docquiz/internal/results"
	"github.com/mind-engage/docquiz/internal/upload"
)

// Service is what the terminal screens need from the quiz service.
type Service interface {
	quiz.Service
	upload.Service
	results.Service
}

type App struct {
	Svc   Service
	IDs   identity.Store
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
	Color bool
	Loc   *time.Location
	Log   *log.Logger
}

func (a *App) logger() *log.Logger {
	if a.Log == nil {
		return log.Default()
	}
	return a.Log
}

func (a *App) p() painter { return painter{on: a.Color} }

// Upload validates and uploads the document at path, creates a quiz of n
// questions and plays it.
func (a *App) Upload(ctx context.Context, path string, n int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	flow := upload.NewFlow(a.Svc, a.IDs, a.logger())

	fmt.Fprintf(a.Out, "Processing %s...\n", name)
	p, err := flow.Upload(ctx, upload.File{
		Name:        name,
		Size:        st.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
	}, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Processed %s (%s). Generating %d questions...\n", p.Filename, p.DocumentType, n)

	sessionID, _, err := flow.StartQuiz(ctx, p, n)
	if err != nil {
		return err
	}
	return a.Quiz(ctx, sessionID)
}

// Quiz plays session id and then follows the controller's redirect.
func (a *App) Quiz(ctx context.Context, id string) error {
	v := NewView(a.Out, a.Err, a.Color)
	c := quiz.NewController(a.Svc, v, id, quiz.WithLogger(a.logger()))
	target, err := Play(ctx, c, v, a.In)
	if next, ok := resultsTarget(target); ok {
		return a.Results(ctx, next)
	}
	if target == quiz.EntryPath {
		fmt.Fprintln(a.Out, "Run `quizctl upload <file>` to start a new quiz.")
	}
	return err
}

func resultsTarget(target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil || u.Path != "/results" {
		return "", false
	}
	id := u.Query().Get("session_id")
	return id, id != ""
}

func (a *App) Results(ctx context.Context, id string) error {
	sum, err := results.Load(ctx, a.Svc, a.IDs, id, a.logger())
	if err != nil {
		fmt.Fprintln(a.Err, a.p().paint("Failed to load results: "+err.Error(), colorRed+colorBold))
		return err
	}
	PrintSummary(a.Out, sum, a.Color)
	return nil
}

func (a *App) History(ctx context.Context) error {
	rows := history.Load(ctx, a.Svc, a.IDs, a.Loc, a.logger())
	PrintHistory(a.Out, rows, a.Color)
	return nil
}

// WhoAmI prints the local user id, creating it on first use.
func (a *App) WhoAmI(ctx context.Context) error {
	id, err := identity.Ensure(ctx, a.IDs)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, id)
	return nil
}

func PrintSummary(w io.Writer, s results.Summary, color bool) {
	p := painter{on: color}
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.paint(s.Title, colorBold+colorCyan))
	fmt.Fprintln(w, s.Congrats)
	fmt.Fprintf(w, "%d%%  %s  %s\n", s.Percentage,
		p.paint(fmt.Sprintf("%d correct", s.Correct), colorGreen),
		p.paint(fmt.Sprintf("%d incorrect", s.Incorrect), colorRed))
	fmt.Fprintln(w, s.Document)
	if s.TimeSpent != "" {
		fmt.Fprintln(w, s.TimeSpent)
	}
	if len(s.Reviews) == 0 {
		return
	}
	fmt.Fprintln(w, "\nReview:")
	for _, r := range s.Reviews {
		status := p.paint(crossMark+" incorrect", colorRed+colorBold)
		if r.IsCorrect {
			status = p.paint(checkMark+" correct", colorGreen+colorBold)
		}
		fmt.Fprintf(w, "Q%-3d %s %s\n", r.Number, status, r.Question)
		fmt.Fprintf(w, "     Your answer: %s\n", r.UserAnswer)
		if !r.IsCorrect {
			fmt.Fprintf(w, "     Correct answer: %s\n", r.CorrectAnswer)
		}
		if r.Explanation != "" {
			fmt.Fprintf(w, "     %s\n", r.Explanation)
		}
	}
}

func PrintHistory(w io.Writer, rows []history.Row, color bool) {
	p := painter{on: color}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No quizzes yet. Run `quizctl upload <file>` to take your first quiz.")
		return
	}
	docWidth := len("Document")
	for _, r := range rows {
		if n := len([]rune(r.Document)); n > docWidth {
			docWidth = n
		}
	}
	header := padRight("Date", 24) + padRight("Document", docWidth+2) + padRight("Score", 8) + padRight("%", 6) + padRight("Time", 7) + "Quiz"
	fmt.Fprintln(w, p.paint(header, colorBold))
	for _, r := range rows {
		pct := padRight(fmt.Sprintf("%d%%", r.Percentage), 6)
		if r.Passed {
			pct = p.paint(pct, colorGreen)
		} else {
			pct = p.paint(pct, colorRed)
		}
		line := padRight(r.Date, 24) + padRight(r.Document, docWidth+2) + padRight(r.Score, 8) + pct + padRight(r.Time, 7) + r.QuizID
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
