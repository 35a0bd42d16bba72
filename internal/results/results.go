package results

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mind-engage/docquiz/internal/identity"
	"github.com/mind-engage/docquiz/pkg/quizapi"
)

// Service is the part of the quiz service the results view reads.
type Service interface {
	GetResults(ctx context.Context, sessionID string) (quizapi.Results, error)
	GetHistory(ctx context.Context, userID string) (quizapi.History, error)
}

var ErrNoSession = errors.New("results: missing session id")

type Review struct {
	Number        int
	Question      string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
	Explanation   string
}

// Summary is everything the results screen shows.
type Summary struct {
	SessionID  string
	Title      string
	Congrats   string
	Percentage int
	Correct    int
	Incorrect  int
	Document   string
	TimeSpent  string // empty unless the summary came from history
	Reviews    []Review
}

// Load fetches the results for sessionID. When the service answers with an
// error status (the session was already moved to history) the user's history
// is searched for a quiz with the same id; the history is capped server side,
// so the scan is short. Transport failures are returned as is.
func Load(ctx context.Context, svc Service, ids identity.Store, sessionID string, l *log.Logger) (Summary, error) {
	if sessionID == "" {
		return Summary{}, ErrNoSession
	}
	if l == nil {
		l = log.Default()
	}
	res, err := svc.GetResults(ctx, sessionID)
	if err == nil {
		return fromResults(sessionID, res), nil
	}
	if !quizapi.IsServiceError(err) {
		return Summary{}, err
	}

	userID, idErr := identity.Lookup(ctx, ids)
	if idErr != nil {
		return Summary{}, err
	}
	h, hErr := svc.GetHistory(ctx, userID)
	if hErr != nil {
		l.Printf("results fallback for %s: history: %v", sessionID, hErr)
		return Summary{}, err
	}
	rec, ok := h.Find(sessionID)
	if !ok {
		return Summary{}, err
	}
	l.Printf("results for %s served from history (%v)", sessionID, err)
	return fromRecord(rec), nil
}

func fromResults(id string, r quizapi.Results) Summary {
	return base(id, r.CorrectAnswers, r.TotalQuestions, r.ScorePercentage, r.DocumentName, r.QuestionsReview)
}

func fromRecord(q quizapi.QuizRecord) Summary {
	s := base(q.QuizID, q.CorrectAnswers, q.TotalQuestions, q.ScorePercentage, q.DocumentName, q.QuestionsReview)
	s.TimeSpent = "Time: " + FormatDuration(q.TimeTakenSeconds)
	return s
}

func base(id string, correct, total, pct int, doc string, items []quizapi.ReviewItem) Summary {
	reviews := make([]Review, 0, len(items))
	for i, it := range items {
		reviews = append(reviews, Review{
			Number:        i + 1,
			Question:      it.Question,
			UserAnswer:    it.UserAnswer,
			CorrectAnswer: it.CorrectAnswer,
			IsCorrect:     it.IsCorrect,
			Explanation:   it.Explanation,
		})
	}
	return Summary{
		SessionID:  id,
		Title:      fmt.Sprintf("You scored %d out of %d! %s", correct, total, Emoji(pct)),
		Congrats:   Congrats(pct),
		Percentage: pct,
		Correct:    correct,
		Incorrect:  total - correct,
		Document:   "Document: " + doc,
		Reviews:    reviews,
	}
}
