package upload

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/url"

	"github.com/mind-engage/docquiz/internal/identity"
	"github.com/mind-engage/docquiz/pkg/quizapi"
)

// Service is the part of the quiz service used to create a quiz.
type Service interface {
	Upload(ctx context.Context, filename string, r io.Reader) (quizapi.Document, error)
	GenerateQuiz(ctx context.Context, req quizapi.GenerateRequest) (string, error)
}

// Prepared is a processed document waiting for the quiz setup choice.
type Prepared struct {
	FileID       string          `json:"file_id"`
	Filename     string          `json:"filename"`
	Knowledge    json.RawMessage `json:"knowledge"`
	DocumentType string          `json:"document_type"`
}

type Flow struct {
	svc Service
	ids identity.Store
	log *log.Logger
}

func NewFlow(svc Service, ids identity.Store, l *log.Logger) *Flow {
	if l == nil {
		l = log.Default()
	}
	return &Flow{svc: svc, ids: ids, log: l}
}

// Upload validates f and, if it passes, sends r to the service.
func (fl *Flow) Upload(ctx context.Context, f File, r io.Reader) (Prepared, error) {
	if err := Validate(f); err != nil {
		return Prepared{}, err
	}
	doc, err := fl.svc.Upload(ctx, f.Name, r)
	if err != nil {
		fl.log.Printf("upload %s: %v", f.Name, err)
		return Prepared{}, err
	}
	return Prepared{
		FileID:       doc.FileID,
		Filename:     doc.Filename,
		Knowledge:    doc.Knowledge,
		DocumentType: doc.DocumentType,
	}, nil
}

// StartQuiz creates a quiz from p for the current user and returns the new
// session id and the quiz view to open.
func (fl *Flow) StartQuiz(ctx context.Context, p Prepared, numQuestions int) (sessionID, target string, err error) {
	if !ValidQuestionCount(numQuestions) {
		return "", "", ErrQuestionCount
	}
	userID, err := identity.Ensure(ctx, fl.ids)
	if err != nil {
		return "", "", err
	}
	sessionID, err = fl.svc.GenerateQuiz(ctx, quizapi.GenerateRequest{
		Knowledge:    p.Knowledge,
		NumQuestions: numQuestions,
		UserID:       userID,
		DocumentName: p.Filename,
		FileID:       p.FileID,
	})
	if err != nil {
		fl.log.Printf("generate quiz from %s: %v", p.FileID, err)
		return "", "", err
	}
	return sessionID, QuizPath(sessionID), nil
}

func QuizPath(sessionID string) string {
	return "/quiz?session_id=" + url.QueryEscape(sessionID)
}
