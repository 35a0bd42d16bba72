package history

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mind-engage/docquiz/internal/identity"
	"github.com/mind-engage/docquiz/internal/quiz"
	"github.com/mind-engage/docquiz/pkg/quizapi"
)

// PassPercentage is the score at which a row is shown as passed.
const PassPercentage = 70

const dateLayout = "Jan 2, 2006, 03:04 PM"

type Service interface {
	GetHistory(ctx context.Context, userID string) (quizapi.History, error)
}

type Row struct {
	QuizID     string
	Date       string
	Document   string
	Score      string
	Percentage int
	Passed     bool
	Time       string
	Link       string
}

// Load returns the user's past quizzes, most recent first as served. A
// missing identity, a failed fetch and an empty history all yield no rows,
// which the views render as the empty state.
func Load(ctx context.Context, svc Service, ids identity.Store, loc *time.Location, l *log.Logger) []Row {
	if l == nil {
		l = log.Default()
	}
	userID, err := identity.Lookup(ctx, ids)
	if err != nil {
		return nil
	}
	h, err := svc.GetHistory(ctx, userID)
	if err != nil {
		l.Printf("load history for %s: %v", userID, err)
		return nil
	}
	rows := make([]Row, 0, len(h.Quizzes))
	for _, q := range h.Quizzes {
		rows = append(rows, NewRow(q, loc))
	}
	return rows
}

func NewRow(q quizapi.QuizRecord, loc *time.Location) Row {
	if loc == nil {
		loc = time.Local
	}
	return Row{
		QuizID:     q.QuizID,
		Date:       q.CompletedAt.In(loc).Format(dateLayout),
		Document:   q.DocumentName,
		Score:      fmt.Sprintf("%d/%d", q.CorrectAnswers, q.TotalQuestions),
		Percentage: q.ScorePercentage,
		Passed:     q.ScorePercentage >= PassPercentage,
		Time:       FormatClock(q.TimeTakenSeconds),
		Link:       quiz.ResultsPath(q.QuizID),
	}
}

// FormatClock renders seconds as M:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
