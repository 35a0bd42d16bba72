package results

import "fmt"

func Emoji(pct int) string {
	switch {
	case pct >= 90:
		return "🌟"
	case pct >= 70:
		return "🎉"
	case pct >= 50:
		return "💪"
	default:
		return "📚"
	}
}

func Congrats(pct int) string {
	switch {
	case pct >= 90:
		return "Outstanding!"
	case pct >= 70:
		return "Great job!"
	case pct >= 50:
		return "Good effort!"
	default:
		return "Keep practicing!"
	}
}

// FormatDuration renders seconds as "M minute(s) S second(s)".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	m, s := seconds/60, seconds%60
	return fmt.Sprintf("%d %s %d %s", m, plural(m, "minute"), s, plural(s, "second"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
