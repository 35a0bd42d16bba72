package web

import (
	"net/url"

	"github.com/mind-engage/docquiz/internal/quiz"
	"github.com/mind-engage/docquiz/pkg/quizapi"
)

// pageView collects what one controller action asked to show, so the
// handler can turn it into a page or a redirect afterwards.
type pageView struct {
	session  quiz.Session
	alerts   []string
	redirect string
}

func (v *pageView) Render(s quiz.Session)  { v.session = s }
func (v *pageView) Alert(msg string)       { v.alerts = append(v.alerts, msg) }
func (v *pageView) Redirect(target string) { v.redirect = target }

// withAlerts carries alerts across a redirect as repeated alert parameters.
func withAlerts(target string, alerts []string) string {
	if len(alerts) == 0 {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	for _, a := range alerts {
		q.Add("alert", a)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

type option struct {
	Value   string
	Checked bool
}

type quizPage struct {
	Alerts    []string
	SessionID string
	Header    quiz.Header
	Question  string
	FillBlank bool
	Options   []option
	Answering bool
	Disabled  bool
	Feedback  *quizapi.AnswerResult
	NextLabel string
}

func newQuizPage(s quiz.Session, alerts []string) quizPage {
	p := quizPage{
		Alerts:    alerts,
		SessionID: s.ID,
		Header:    s.Header(),
		Answering: s.State == quiz.Answering,
		Disabled:  s.Submitting,
		Feedback:  s.Feedback,
		NextLabel: s.NextLabel(),
	}
	if s.Question != nil {
		p.Question = s.Question.Text
		p.FillBlank = s.Question.Kind == quizapi.FillBlank
		for _, o := range s.Question.Options {
			p.Options = append(p.Options, option{Value: o, Checked: o == s.Selected})
		}
	}
	return p
}
