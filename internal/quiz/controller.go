package quiz

import (
	"context"
	"errors"
	"log"
	"net/url"

	"github.com/mind-engage/docquiz/pkg/quizapi"
)

// EntryPath is where the user is sent when the flow cannot continue.
const EntryPath = "/"

// ResultsPath is the redirect target once a session is completed.
func ResultsPath(sessionID string) string {
	return "/results?session_id=" + url.QueryEscape(sessionID)
}

// Service is the part of the remote quiz service the controller drives.
type Service interface {
	GetQuestion(ctx context.Context, sessionID string, n int) (quizapi.Question, error)
	SubmitAnswer(ctx context.Context, req quizapi.AnswerRequest) (quizapi.AnswerResult, error)
	CompleteQuiz(ctx context.Context, sessionID string) error
}

// View reflects a Session to the user. Render is called after every state
// change; Alert and Redirect are one-shot notifications.
type View interface {
	Render(s Session)
	Alert(msg string)
	Redirect(target string)
}

type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller owns one Session and runs its request/response cycle. Calls are
// expected from a single goroutine; each network call completes before the
// next transition.
type Controller struct {
	svc  Service
	view View
	log  *log.Logger
	id   string
	s    Session
}

func NewController(svc Service, view View, sessionID string, opts ...Option) *Controller {
	c := &Controller{svc: svc, view: view, log: log.Default(), id: sessionID}
	for _, o := range opts {
		o(c)
	}
	c.s = Session{ID: sessionID, State: Loading}
	return c
}

// Restore replaces the controller's session, e.g. one kept between requests.
func (c *Controller) Restore(s Session) {
	c.s = s
	c.id = s.ID
}

func (c *Controller) Session() Session { return c.s }

// Start loads the first question. A missing session id sends the user back
// to the entry view without an alert.
func (c *Controller) Start(ctx context.Context) error {
	s, err := Begin(c.id)
	if err != nil {
		c.view.Redirect(EntryPath)
		return err
	}
	c.s = s
	return c.load(ctx, 0)
}

func (c *Controller) load(ctx context.Context, n int) error {
	c.s.State = Loading
	c.s.Pending = n
	c.view.Render(c.s)

	q, err := c.svc.GetQuestion(ctx, c.id, n)
	if err != nil {
		c.log.Printf("load question %d for %s: %v", n, c.id, err)
		c.view.Alert("Failed to load question: " + err.Error())
		c.view.Redirect(EntryPath)
		return err
	}
	s, err := c.s.Loaded(n, q)
	if err != nil {
		return err
	}
	c.s = s
	c.view.Render(c.s)
	return nil
}

// Select changes the chosen multiple-choice option. No network call.
func (c *Controller) Select(option string) error {
	s, err := c.s.Select(option)
	if err != nil {
		return err
	}
	c.s = s
	c.view.Render(c.s)
	return nil
}

// Submit sends the current answer. text is the fill-in input; it is ignored
// for multiple-choice questions.
func (c *Controller) Submit(ctx context.Context, text string) error {
	if c.s.State == Answering && c.s.Submitting {
		return ErrSubmitInFlight
	}
	answer, err := c.s.Answer(text)
	switch {
	case errors.Is(err, ErrNoSelection):
		c.view.Alert("Please select an answer")
		return err
	case errors.Is(err, ErrEmptyAnswer):
		c.view.Alert("Please enter an answer")
		return err
	case err != nil:
		return err
	}

	s, err := c.s.BeginSubmit()
	if err != nil {
		return err
	}
	c.s = s
	c.view.Render(c.s)

	res, err := c.svc.SubmitAnswer(ctx, quizapi.AnswerRequest{
		SessionID:   c.id,
		QuestionNum: c.s.Index,
		Answer:      answer,
	})
	if err != nil {
		c.log.Printf("submit answer %d for %s: %v", c.s.Index, c.id, err)
		c.s = c.s.SubmitFailed()
		c.view.Alert("Failed to submit answer: " + err.Error())
		c.view.Render(c.s)
		return err
	}
	s, err = c.s.Answered(res)
	if err != nil {
		return err
	}
	c.s = s
	c.view.Render(c.s)
	return nil
}

// Next moves on from Feedback: the next question, or completion and the
// results view.
func (c *Controller) Next(ctx context.Context) error {
	s, err := c.s.Advance()
	if err != nil {
		return err
	}
	if s.State == Loading {
		c.s = s
		return c.load(ctx, s.Pending)
	}

	c.s = s
	if err := c.svc.CompleteQuiz(ctx, c.id); err != nil {
		c.log.Printf("complete quiz %s: %v", c.id, err)
	}
	c.view.Render(c.s)
	c.view.Redirect(ResultsPath(c.id))
	return nil
}
