package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mind-engage/docquiz/internal/auth"
	"github.com/mind-engage/docquiz/internal/history"
	"github.com/mind-engage/docquiz/internal/identity"
	"github.com/mind-engage/docquiz/internal/quiz"
	"github.com/mind-engage/docquiz/internal/results"
	"github.com/mind-engage/docquiz/internal/upload"
)

// multipart overhead allowed on top of the file itself
const formSlack = 1 << 20

type indexPage struct {
	Alerts  []string
	Error   string
	Counts  []int
	Default int
}

type setupPage struct {
	Alerts   []string
	Error    string
	Filename string
	Prepared string
	Counts   []int
	Default  int
}

type resultsPage struct {
	Alerts  []string
	Summary results.Summary
}

type historyPage struct {
	Alerts []string
	Rows   []history.Row
}

func alertsOf(r *http.Request) []string { return r.URL.Query()["alert"] }

func (s *Server) flow(r *http.Request) *upload.Flow {
	return upload.NewFlow(s.svc, auth.StoreFromContext(r.Context()), s.log)
}

func (s *Server) indexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, "index.html", indexPage{
			Alerts:  alertsOf(r),
			Counts:  upload.QuestionCounts,
			Default: upload.DefaultQuestionCount,
		})
	}
}

// POST /upload (multipart "file")
func (s *Server) uploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := indexPage{Counts: upload.QuestionCounts, Default: upload.DefaultQuestionCount}

		r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+formSlack)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				page.Error = upload.ErrTooLarge.Error()
			} else {
				page.Error = "Please choose a file to upload."
			}
			s.render(w, http.StatusBadRequest, "index.html", page)
			return
		}
		defer f.Close()

		p, err := s.flow(r).Upload(r.Context(), upload.File{
			Name:        hdr.Filename,
			Size:        hdr.Size,
			ContentType: hdr.Header.Get("Content-Type"),
		}, f)
		if err != nil {
			page.Error = err.Error()
			s.render(w, statusFor(err), "index.html", page)
			return
		}
		enc, err := json.Marshal(p)
		if err != nil {
			http.Error(w, "encode document: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.render(w, http.StatusOK, "setup.html", setupPage{
			Filename: p.Filename,
			Prepared: string(enc),
			Counts:   upload.QuestionCounts,
			Default:  upload.DefaultQuestionCount,
		})
	}
}

// POST /generate (form: prepared, num_questions)
func (s *Server) generateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.PostFormValue("prepared")
		var p upload.Prepared
		if err := json.Unmarshal([]byte(raw), &p); err != nil || p.FileID == "" {
			http.Redirect(w, r, withAlerts("/", []string{"Please upload a document first."}), http.StatusSeeOther)
			return
		}
		n, err := strconv.Atoi(r.PostFormValue("num_questions"))
		if err != nil {
			n = upload.DefaultQuestionCount
		}
		_, target, err := s.flow(r).StartQuiz(r.Context(), p, n)
		if err != nil {
			s.render(w, statusFor(err), "setup.html", setupPage{
				Error:    err.Error(),
				Filename: p.Filename,
				Prepared: raw,
				Counts:   upload.QuestionCounts,
				Default:  upload.DefaultQuestionCount,
			})
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func statusFor(err error) int {
	var ue upload.Error
	if errors.As(err, &ue) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// GET /quiz?session_id=
func (s *Server) quizHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("session_id")
		unlock := s.locks.Lock(id)
		defer unlock()

		v := &pageView{}
		c, found, err := s.restore(r, v, id)
		if err != nil {
			http.Error(w, "session store: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if found {
			v.Render(c.Session())
		} else {
			_ = c.Start(r.Context())
		}
		s.finish(w, r, c, v)
	}
}

// POST /quiz/select (form: session_id, option)
func (s *Server) selectHandler() http.HandlerFunc {
	return s.action(false, func(r *http.Request, c *quiz.Controller) {
		_ = c.Select(r.PostFormValue("option"))
	})
}

// POST /quiz/submit (form: session_id, option | answer)
func (s *Server) submitHandler() http.HandlerFunc {
	return s.action(true, func(r *http.Request, c *quiz.Controller) {
		if opt := r.PostFormValue("option"); opt != "" {
			_ = c.Select(opt)
		}
		_ = c.Submit(r.Context(), r.PostFormValue("answer"))
	})
}

// POST /quiz/next (form: session_id)
func (s *Server) nextHandler() http.HandlerFunc {
	return s.action(false, func(r *http.Request, c *quiz.Controller) {
		_ = c.Next(r.Context())
	})
}

// action runs fn against the stored session. With exclusive set, a request
// arriving while another holds the session is sent back to the quiz page
// without touching the service.
func (s *Server) action(exclusive bool, fn func(*http.Request, *quiz.Controller)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PostFormValue("session_id")
		if id == "" {
			http.Redirect(w, r, quiz.EntryPath, http.StatusSeeOther)
			return
		}
		var unlock func()
		if exclusive {
			var ok bool
			if unlock, ok = s.locks.TryLock(id); !ok {
				http.Redirect(w, r, upload.QuizPath(id), http.StatusSeeOther)
				return
			}
		} else {
			unlock = s.locks.Lock(id)
		}
		defer unlock()

		v := &pageView{}
		c, found, err := s.restore(r, v, id)
		if err != nil {
			http.Error(w, "session store: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if !found {
			http.Redirect(w, r, upload.QuizPath(id), http.StatusSeeOther)
			return
		}
		v.Render(c.Session())
		fn(r, c)
		s.finish(w, r, c, v)
	}
}

func (s *Server) restore(r *http.Request, v *pageView, id string) (*quiz.Controller, bool, error) {
	c := quiz.NewController(s.svc, v, id, quiz.WithLogger(s.log))
	if id == "" {
		return c, false, nil
	}
	stored, ok, err := s.opt.Sessions.Load(r.Context(), id)
	if err != nil || !ok {
		return c, false, err
	}
	c.Restore(stored)
	return c, true, nil
}

// finish persists the session and answers with the quiz page, or follows
// the controller's redirect. Sessions that ended (completed or failed to
// load) are dropped.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, c *quiz.Controller, v *pageView) {
	ctx := r.Context()
	sess := c.Session()
	if v.redirect != "" {
		if sess.ID != "" {
			if err := s.opt.Sessions.Delete(ctx, sess.ID); err != nil {
				s.log.Printf("drop session %s: %v", sess.ID, err)
			}
		}
		http.Redirect(w, r, withAlerts(v.redirect, v.alerts), http.StatusSeeOther)
		return
	}
	if err := s.opt.Sessions.Save(ctx, sess); err != nil {
		http.Error(w, "session store: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if r.Method != http.MethodGet {
		http.Redirect(w, r, withAlerts(upload.QuizPath(sess.ID), v.alerts), http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "quiz.html", newQuizPage(v.session, append(alertsOf(r), v.alerts...)))
}

// GET /results?session_id=
func (s *Server) resultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sum, err := results.Load(ctx, s.svc, auth.StoreFromContext(ctx), r.URL.Query().Get("session_id"), s.log)
		switch {
		case errors.Is(err, results.ErrNoSession):
			http.Redirect(w, r, quiz.EntryPath, http.StatusSeeOther)
			return
		case err != nil:
			s.log.Printf("load results: %v", err)
			http.Redirect(w, r, withAlerts(quiz.EntryPath, []string{"Failed to load results: " + err.Error()}), http.StatusSeeOther)
			return
		}
		s.render(w, http.StatusOK, "results.html", resultsPage{Alerts: alertsOf(r), Summary: sum})
	}
}

// GET /history
func (s *Server) historyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows := history.Load(ctx, s.svc, auth.StoreFromContext(ctx), s.opt.Location, s.log)
		s.render(w, http.StatusOK, "history.html", historyPage{Alerts: alertsOf(r), Rows: rows})
	}
}

// GET /api/identity
func (s *Server) identityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identity.Ensure(r.Context(), auth.StoreFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"user_id": id})
	}
}
