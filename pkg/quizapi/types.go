package quizapi

import (
	"encoding/json"
	"time"
)

// Kind is the presentation kind of a question.
type Kind string

const (
	MultipleChoice Kind = "multiple_choice"
	FillBlank      Kind = "fill_blank"
)

// Question is one question as served by GET /question/{session}/{n}.
type Question struct {
	Text           string   `json:"question"`
	Kind           Kind     `json:"type"`
	Options        []string `json:"options,omitempty"` // multiple_choice only
	TotalQuestions int      `json:"total_questions"`
	CurrentScore   int      `json:"current_score"`
}

type AnswerRequest struct {
	SessionID   string `json:"session_id"`
	QuestionNum int    `json:"question_num"`
	Answer      string `json:"answer"`
}

type AnswerResult struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	CurrentScore  int    `json:"current_score"`
}

// ReviewItem is the per-question outcome listed in questions_review.
type ReviewItem struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

type Results struct {
	SessionID       string       `json:"session_id,omitempty"`
	DocumentName    string       `json:"document_name"`
	TotalQuestions  int          `json:"total_questions"`
	CorrectAnswers  int          `json:"correct_answers"`
	ScorePercentage int          `json:"score_percentage"`
	QuestionsReview []ReviewItem `json:"questions_review"`
}

// QuizRecord is one completed quiz in a user's history.
type QuizRecord struct {
	QuizID           string       `json:"quiz_id"`
	DocumentName     string       `json:"document_name"`
	CompletedAt      time.Time    `json:"completed_at"`
	TotalQuestions   int          `json:"total_questions"`
	CorrectAnswers   int          `json:"correct_answers"`
	ScorePercentage  int          `json:"score_percentage"`
	TimeTakenSeconds int          `json:"time_taken_seconds"`
	QuestionsReview  []ReviewItem `json:"questions_review"`
}

type History struct {
	UserID  string       `json:"user_id,omitempty"`
	Quizzes []QuizRecord `json:"quizzes"`
}

// Find returns the record with the given quiz id.
func (h History) Find(quizID string) (QuizRecord, bool) {
	for _, q := range h.Quizzes {
		if q.QuizID == quizID {
			return q, true
		}
	}
	return QuizRecord{}, false
}

// Document is what the service extracted from an uploaded file.
type Document struct {
	FileID       string          `json:"file_id"`
	Filename     string          `json:"filename"`
	Knowledge    json.RawMessage `json:"knowledge"`
	DocumentType string          `json:"document_type"`
}

type GenerateRequest struct {
	Knowledge    json.RawMessage `json:"knowledge"`
	NumQuestions int             `json:"num_questions"`
	UserID       string          `json:"user_id"`
	DocumentName string          `json:"document_name"`
	FileID       string          `json:"file_id"`
}

type generateResponse struct {
	SessionID string `json:"session_id"`
}
