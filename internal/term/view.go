package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mind-engage/docquiz/internal/quiz"
	"github.com/mind-engage/docquiz/pkg/quizapi"
)

// View implements quiz.View on a pair of writers. Redirects are recorded
// for the caller to act on.
type View struct {
	out, errOut io.Writer
	p           painter
	target      string
}

func NewView(out, errOut io.Writer, color bool) *View {
	return &View{out: out, errOut: errOut, p: painter{on: color}}
}

func (v *View) Render(s quiz.Session) {
	switch s.State {
	case quiz.Answering:
		if s.Submitting {
			fmt.Fprintln(v.out, v.p.paint("Submitting...", colorYellow))
			return
		}
		v.question(s)
	case quiz.Feedback:
		v.feedback(s)
	}
}

func (v *View) Alert(msg string) {
	fmt.Fprintln(v.errOut, v.p.paint(msg, colorRed+colorBold))
}

func (v *View) Redirect(target string) { v.target = target }

// Target is the last redirect requested by the controller.
func (v *View) Target() string { return v.target }

func (v *View) question(s quiz.Session) {
	h := s.Header()
	fmt.Fprintln(v.out)
	fmt.Fprintf(v.out, "%s   Score: %s %s\n", v.p.paint(h.Position, colorBold), h.ScoreText, h.Tier)
	if s.Question == nil {
		return
	}
	fmt.Fprintln(v.out, v.p.paint(s.Question.Text, colorBold+colorCyan))
	if s.Question.Kind != quizapi.MultipleChoice {
		return
	}
	for i, o := range s.Question.Options {
		line := fmt.Sprintf("  %d) %s", i+1, o)
		if o == s.Selected {
			line = v.p.paint(line, colorYellow)
		}
		fmt.Fprintln(v.out, line)
	}
}

func (v *View) feedback(s quiz.Session) {
	if s.Feedback == nil {
		return
	}
	if s.Feedback.IsCorrect {
		fmt.Fprintln(v.out, v.p.paint(checkMark+" Correct!", colorGreen+colorBold))
	} else {
		fmt.Fprintln(v.out, v.p.paint(crossMark+" Incorrect.", colorRed+colorBold))
		fmt.Fprintln(v.out, v.p.paint("Correct answer: "+s.Feedback.CorrectAnswer, colorGreen))
	}
	if s.Feedback.Explanation != "" {
		fmt.Fprintln(v.out, s.Feedback.Explanation)
	}
	fmt.Fprintf(v.out, "Score: %d/%d\n", s.Score, s.Total)
}

// Play drives c from line input until the quiz completes or the controller
// redirects. It returns the redirect target.
func Play(ctx context.Context, c *quiz.Controller, v *View, in io.Reader) (string, error) {
	sc := bufio.NewScanner(in)
	if err := c.Start(ctx); err != nil {
		return v.Target(), err
	}
	for v.Target() == "" {
		s := c.Session()
		switch s.State {
		case quiz.Answering:
			if s.Question != nil && s.Question.Kind == quizapi.MultipleChoice {
				fmt.Fprintf(v.out, "Choose 1-%d: ", len(s.Question.Options))
			} else {
				fmt.Fprint(v.out, "Your answer: ")
			}
			line, err := readLine(sc)
			if err != nil {
				return "", err
			}
			if s.Question != nil && s.Question.Kind == quizapi.MultipleChoice {
				opt, ok := pick(s.Question.Options, line)
				if !ok {
					// an earlier selection is never resubmitted silently
					v.Alert("Please select an answer")
					continue
				}
				_ = c.Select(opt)
			}
			_ = c.Submit(ctx, line)
		case quiz.Feedback:
			fmt.Fprintf(v.out, "Press Enter for %s ", v.p.paint(s.NextLabel(), colorBold))
			if _, err := readLine(sc); err != nil {
				return "", err
			}
			if err := c.Next(ctx); err != nil {
				return v.Target(), err
			}
		default:
			return v.Target(), fmt.Errorf("quiz stopped while %s", s.State)
		}
	}
	return v.Target(), nil
}

func readLine(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return sc.Text(), nil
}

// pick maps a typed choice to an option: its 1-based number or its text.
func pick(options []string, line string) (string, bool) {
	line = strings.TrimSpace(line)
	if n, err := strconv.Atoi(line); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, o := range options {
		if strings.EqualFold(o, line) {
			return o, true
		}
	}
	return "", false
}
