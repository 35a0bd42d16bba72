package quiz

import "fmt"

// Tier is the emoji shown next to the running score.
type Tier string

const (
	TierTop  Tier = "🌟"
	TierGood Tier = "😊"
	TierFair Tier = "🤔"
	TierLow  Tier = "📚"
)

// TierFor picks a tier from score out of answered questions.
func TierFor(score, answered int) Tier {
	if answered <= 0 {
		return TierLow
	}
	pct := float64(score) * 100 / float64(answered)
	switch {
	case pct >= 90:
		return TierTop
	case pct >= 70:
		return TierGood
	case pct >= 50:
		return TierFair
	default:
		return TierLow
	}
}

type Header struct {
	Position  string
	ScoreText string
	Tier      Tier
}

// Header is recomputed after every fetch or submission. The tier is measured
// against the questions answered so far, not the total.
func (s Session) Header() Header {
	return Header{
		Position:  fmt.Sprintf("Question %d of %d", s.Number(), s.Total),
		ScoreText: fmt.Sprintf("%d/%d", s.Score, s.Total),
		Tier:      TierFor(s.Score, s.Number()),
	}
}
