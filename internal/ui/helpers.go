package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"answergen/internal/models"
	"answergen/internal/styles"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

func WrappedLineCount(value string, width int) int {
	if width <= 0 {
		return 1
	}
	lines := strings.Split(value, "\n")
	if len(lines) == 0 {
		return 1
	}
	count := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		if w == 0 {
			count++
			continue
		}
		count += (w-1)/width + 1
	}
	return count
}

func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func RelativeTime(t time.Time) string {
	return humanize.Time(t)
}

// TildePath shortens a path under the home directory.
func TildePath(path string) string {
	if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

// FormatAnswer renders the result text under its heading. Markdown is rendered
// when a renderer is available; otherwise the text is shown as is.
func FormatAnswer(text string, renderer *glamour.TermRenderer) string {
	body := text
	if renderer != nil {
		if rendered, err := renderer.Render(text); err == nil {
			body = strings.TrimSpace(rendered)
		}
	}
	label := styles.AnswerLabelStyle.Render("ANSWER")
	return fmt.Sprintf("%s\n%s", label, styles.AnswerStyle.Render(body))
}

func FormatImageChip(att *models.Attachment) string {
	if att == nil {
		return ""
	}
	label := fmt.Sprintf("🖼 %s · %s · %s", TruncateRunes(att.Name, 32), att.MimeType, humanize.IBytes(uint64(att.SizeBytes)))
	hint := lipgloss.NewStyle().Foreground(styles.HintColor).Render("ctrl+x to remove")
	return styles.ImageChipStyle.Render(label) + hint
}

func FormatErrorBanner(msg string, width int) string {
	if msg == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	return styles.ErrorBannerStyle.Width(width).Render(styles.ErrorStyle.Render("Error") + "\n" + msg)
}
