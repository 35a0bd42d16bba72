package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the quiz service. Message carries the
// service's {"error": ...} text, or a per-operation default when it sent none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// IsServiceError reports whether err is a non-2xx answer from the quiz
// service rather than a transport failure.
func IsServiceError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

type Client struct {
	base string
	http *http.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient replaces the default client. It is copied, so Timeout never
	// changes the caller's client.
	HTTPClient *http.Client
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.HTTPClient != nil {
		cp := *cfg.HTTPClient
		h = &cp
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{base: strings.TrimSuffix(cfg.BaseURL, "/"), http: h}
}

func (c *Client) GetQuestion(ctx context.Context, sessionID string, n int) (Question, error) {
	var q Question
	p := "/question/" + url.PathEscape(sessionID) + "/" + strconv.Itoa(n)
	err := c.do(ctx, http.MethodGet, p, nil, "", &q, "Failed to load question")
	return q, err
}

func (c *Client) SubmitAnswer(ctx context.Context, req AnswerRequest) (AnswerResult, error) {
	var res AnswerResult
	body, err := json.Marshal(req)
	if err != nil {
		return res, err
	}
	err = c.do(ctx, http.MethodPost, "/submit-answer", bytes.NewReader(body), "application/json", &res, "Failed to submit answer")
	return res, err
}

// CompleteQuiz tells the service the session is finished. The response body
// is ignored.
func (c *Client) CompleteQuiz(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodPost, "/complete-quiz/"+url.PathEscape(sessionID), nil, "", nil, "Failed to complete quiz")
}

func (c *Client) GetResults(ctx context.Context, sessionID string) (Results, error) {
	var res Results
	err := c.do(ctx, http.MethodGet, "/results/"+url.PathEscape(sessionID), nil, "", &res, "Failed to load results")
	return res, err
}

func (c *Client) GetHistory(ctx context.Context, userID string) (History, error) {
	var h History
	err := c.do(ctx, http.MethodGet, "/history/"+url.PathEscape(userID), nil, "", &h, "Failed to load history")
	return h, err
}

// Upload posts the document as the multipart field "file".
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (Document, error) {
	var doc Document
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return doc, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return doc, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return doc, err
	}
	err = c.do(ctx, http.MethodPost, "/upload", &buf, mw.FormDataContentType(), &doc, "Upload failed")
	return doc, err
}

// GenerateQuiz creates a quiz session and returns its id.
func (c *Client) GenerateQuiz(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	var out generateResponse
	if err := c.do(ctx, http.MethodPost, "/generate-quiz", bytes.NewReader(body), "application/json", &out, "Quiz generation failed"); err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", &APIError{Status: http.StatusBadGateway, Message: "Quiz generation failed"}
	}
	return out.SessionID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any, fallback string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		msg := e.Error
		if msg == "" {
			msg = fallback
		}
		return &APIError{Status: res.StatusCode, Message: msg}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
