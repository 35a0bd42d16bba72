package quiz

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mind-engage/docquiz/pkg/quizapi"
)

type State int

const (
	Loading State = iota
	Answering
	Feedback
	Completed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Answering:
		return "answering"
	case Feedback:
		return "feedback"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNoSession      = errors.New("quiz: missing session id")
	ErrNoSelection    = errors.New("quiz: no option selected")
	ErrEmptyAnswer    = errors.New("quiz: empty answer")
	ErrUnknownOption  = errors.New("quiz: option not offered by the question")
	ErrSubmitInFlight = errors.New("quiz: an answer is already being submitted")
)

// TransitionError is returned when an event arrives in a state that does not
// accept it. The session is left unchanged.
type TransitionError struct {
	From  State
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("quiz: %s not allowed while %s", e.Event, e.From)
}

// Session is the whole client-side state of one quiz run. Transitions are
// value methods returning the next Session; the server stays authoritative
// for Total and Score.
type Session struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	// Index is the question currently displayed. Pending is the index being
	// fetched while Loading.
	Index   int `json:"index"`
	Pending int `json:"pending"`
	Total   int `json:"total"`
	Score   int `json:"score"`

	Question   *quizapi.Question     `json:"question,omitempty"`
	Selected   string                `json:"selected,omitempty"`
	Feedback   *quizapi.AnswerResult `json:"feedback,omitempty"`
	Submitting bool                  `json:"submitting,omitempty"`
}

// Begin starts a session at question 0.
func Begin(id string) (Session, error) {
	if strings.TrimSpace(id) == "" {
		return Session{}, ErrNoSession
	}
	return Session{ID: id, State: Loading}, nil
}

// Loaded installs a freshly fetched question.
func (s Session) Loaded(n int, q quizapi.Question) (Session, error) {
	if s.State != Loading {
		return s, &TransitionError{From: s.State, Event: "question loaded"}
	}
	q.Options = slices.Clone(q.Options)
	s.State = Answering
	s.Index = n
	s.Pending = n
	s.Total = q.TotalQuestions
	s.Score = q.CurrentScore
	s.Question = &q
	s.Selected = ""
	s.Feedback = nil
	s.Submitting = false
	return s, nil
}

// Select picks a multiple-choice option; a later Select replaces it.
func (s Session) Select(option string) (Session, error) {
	if s.State != Answering {
		return s, &TransitionError{From: s.State, Event: "select"}
	}
	if s.Question == nil || s.Question.Kind != quizapi.MultipleChoice || !slices.Contains(s.Question.Options, option) {
		return s, ErrUnknownOption
	}
	s.Selected = option
	return s, nil
}

// Answer validates the answer the user is about to submit. For multiple
// choice the current selection is used and text is ignored; fill-in text is
// trimmed.
func (s Session) Answer(text string) (string, error) {
	if s.State != Answering || s.Question == nil {
		return "", &TransitionError{From: s.State, Event: "submit"}
	}
	switch s.Question.Kind {
	case quizapi.MultipleChoice:
		if s.Selected == "" {
			return "", ErrNoSelection
		}
		return s.Selected, nil
	default:
		a := strings.TrimSpace(text)
		if a == "" {
			return "", ErrEmptyAnswer
		}
		return a, nil
	}
}

// BeginSubmit disables submit until Answered or SubmitFailed.
func (s Session) BeginSubmit() (Session, error) {
	if s.State != Answering {
		return s, &TransitionError{From: s.State, Event: "submit"}
	}
	if s.Submitting {
		return s, ErrSubmitInFlight
	}
	s.Submitting = true
	return s, nil
}

func (s Session) Answered(res quizapi.AnswerResult) (Session, error) {
	if s.State != Answering || !s.Submitting {
		return s, &TransitionError{From: s.State, Event: "answer result"}
	}
	s.State = Feedback
	s.Score = res.CurrentScore
	s.Feedback = &res
	s.Submitting = false
	return s, nil
}

// SubmitFailed re-enables submit without changing state.
func (s Session) SubmitFailed() Session {
	s.Submitting = false
	return s
}

func (s Session) HasNext() bool { return s.Index+1 < s.Total }

func (s Session) NextLabel() string {
	if s.HasNext() {
		return "Next Question"
	}
	return "View Results"
}

// Advance leaves Feedback: Loading the next question when one remains,
// Completed otherwise.
func (s Session) Advance() (Session, error) {
	if s.State != Feedback {
		return s, &TransitionError{From: s.State, Event: "next"}
	}
	if s.HasNext() {
		s.State = Loading
		s.Pending = s.Index + 1
		return s, nil
	}
	s.State = Completed
	return s, nil
}

// Number is the 1-based position of the displayed question.
func (s Session) Number() int { return s.Index + 1 }
