package upload

import (
	"path/filepath"
	"slices"
	"strings"
)

// MaxSize is the largest document accepted for upload.
const MaxSize = 10 * 1024 * 1024

// Error is a validation failure whose text is shown to the user as is.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrTooLarge      Error = "File is too large. Maximum size is 10MB."
	ErrInvalidType   Error = "Invalid file type. Please upload a PDF or Excel file."
	ErrQuestionCount Error = "Please choose 5, 10, 15 or 20 questions."
)

var (
	allowedTypes = []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel",
	}
	allowedExts = []string{".pdf", ".xlsx", ".xls"}
)

// QuestionCounts are the quiz lengths offered on the setup screen.
var QuestionCounts = []int{5, 10, 15, 20}

const DefaultQuestionCount = 10

// File describes a candidate upload before any bytes are sent.
type File struct {
	Name        string
	Size        int64
	ContentType string
}

// Validate applies the size and type rules. A file passes the type check if
// either its MIME type or its extension is allowed.
func Validate(f File) error {
	if f.Size > MaxSize {
		return ErrTooLarge
	}
	ct := strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0])
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !slices.Contains(allowedTypes, ct) && !slices.Contains(allowedExts, ext) {
		return ErrInvalidType
	}
	return nil
}

func ValidQuestionCount(n int) bool { return slices.Contains(QuestionCounts, n) }
