package quizapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mind-engage/docquiz/pkg/quizapi"
)

func newTestClient(t *testing.T, h http.Handler) *quizapi.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return quizapi.New(quizapi.Config{BaseURL: srv.URL + "/"})
}

func TestGetQuestion_DecodesPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/question/s-1/2", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		_, _ = io.WriteString(w, `{"question":"2+2?","type":"multiple_choice","options":["3","4"],"total_questions":5,"current_score":1}`)
	})
	c := newTestClient(t, mux)

	q, err := c.GetQuestion(context.Background(), "s-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "2+2?" || q.Kind != quizapi.MultipleChoice || len(q.Options) != 2 {
		t.Fatalf("unexpected question: %+v", q)
	}
	if q.TotalQuestions != 5 || q.CurrentScore != 1 {
		t.Fatalf("unexpected progress fields: %+v", q)
	}
}

func TestGetQuestion_ServiceErrorMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Session not found"}`)
	}))

	_, err := c.GetQuestion(context.Background(), "missing", 0)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "Session not found" {
		t.Fatalf("error = %q", err.Error())
	}
	var ae *quizapi.APIError
	if !errors.As(err, &ae) || ae.Status != http.StatusNotFound || !quizapi.IsServiceError(err) {
		t.Fatalf("err = %#v, want 404 APIError", err)
	}
}

func TestErrorWithoutBodyUsesDefault(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.SubmitAnswer(context.Background(), quizapi.AnswerRequest{SessionID: "s", Answer: "x"})
	if err == nil || err.Error() != "Failed to submit answer" {
		t.Fatalf("err = %v, want default message", err)
	}
	var ae *quizapi.APIError
	if !errors.As(err, &ae) || ae.Status != http.StatusInternalServerError {
		t.Fatalf("err = %#v, want 500 APIError", err)
	}
}

func TestSubmitAnswer_SendsBody(t *testing.T) {
	var got quizapi.AnswerRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submit-answer" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"is_correct":false,"correct_answer":"Paris","explanation":"capital","current_score":2}`)
	}))

	res, err := c.SubmitAnswer(context.Background(), quizapi.AnswerRequest{SessionID: "s-9", QuestionNum: 3, Answer: "Lyon"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != "s-9" || got.QuestionNum != 3 || got.Answer != "Lyon" {
		t.Fatalf("server received %+v", got)
	}
	if res.IsCorrect || res.CorrectAnswer != "Paris" || res.CurrentScore != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestUpload_Multipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "notes.pdf" || string(data) != "%PDF-1.4" {
			t.Errorf("got %q with %q", hdr.Filename, data)
		}
		_, _ = io.WriteString(w, `{"file_id":"f1","filename":"notes.pdf","knowledge":{"topics":["a"]},"document_type":"pdf"}`)
	}))

	doc, err := c.Upload(context.Background(), "notes.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FileID != "f1" || doc.DocumentType != "pdf" {
		t.Fatalf("unexpected doc %+v", doc)
	}
	if string(doc.Knowledge) != `{"topics":["a"]}` {
		t.Fatalf("knowledge not preserved: %s", doc.Knowledge)
	}
}

func TestGenerateQuiz_ForwardsKnowledgeVerbatim(t *testing.T) {
	var raw map[string]json.RawMessage
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = io.WriteString(w, `{"session_id":"abc"}`)
	}))

	id, err := c.GenerateQuiz(context.Background(), quizapi.GenerateRequest{
		Knowledge:    json.RawMessage(`{"k":1}`),
		NumQuestions: 10,
		UserID:       "u1",
		DocumentName: "notes.pdf",
		FileID:       "f1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "abc" {
		t.Fatalf("session id = %q", id)
	}
	if string(raw["knowledge"]) != `{"k":1}` || string(raw["num_questions"]) != "10" {
		t.Fatalf("unexpected request body: %v", raw)
	}
}

func TestCompleteQuiz_IgnoresBody(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = r.Method == http.MethodPost && r.URL.Path == "/complete-quiz/s-1"
		_, _ = io.WriteString(w, `not json`)
	}))

	if err := c.CompleteQuiz(context.Background(), "s-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("complete endpoint not called")
	}
}

func TestHistoryFind(t *testing.T) {
	h := quizapi.History{Quizzes: []quizapi.QuizRecord{{QuizID: "a"}, {QuizID: "b", CorrectAnswers: 3}}}
	q, ok := h.Find("b")
	if !ok || q.CorrectAnswers != 3 {
		t.Fatalf("Find(b) = %+v, %v", q, ok)
	}
	if _, ok := h.Find("zzz"); ok {
		t.Fatalf("Find(zzz) should miss")
	}
}

func TestNewLeavesCallerClientUntouched(t *testing.T) {
	shared := &http.Client{Timeout: 5 * time.Second}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"user_id":"u","quizzes":[]}`)
	}))
	t.Cleanup(srv.Close)

	c := quizapi.New(quizapi.Config{BaseURL: srv.URL, Timeout: time.Minute, HTTPClient: shared})
	if _, err := c.GetHistory(context.Background(), "u"); err != nil {
		t.Fatalf("history: %v", err)
	}
	if shared.Timeout != 5*time.Second {
		t.Fatalf("shared client timeout changed to %s", shared.Timeout)
	}
}

func TestTransportFailureIsNotServiceError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := quizapi.New(quizapi.Config{BaseURL: addr}).GetResults(context.Background(), "s")
	if err == nil || quizapi.IsServiceError(err) {
		t.Fatalf("err = %v, want transport failure", err)
	}
}
