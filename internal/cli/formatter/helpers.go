package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	content = strings.TrimRight(content, "\n")
	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Money formats an amount with the currency symbol and thousands grouping,
// e.g. "$3,000.00". Negative amounts keep the sign in front of the symbol.
func Money(symbol string, amount float64) string {
	if amount < 0 {
		return "-" + symbol + humanize.FormatFloat("#,###.##", -amount)
	}
	return symbol + humanize.FormatFloat("#,###.##", amount)
}

// MoneyWhole formats an amount rounded to whole units, e.g. "$3,000".
func MoneyWhole(symbol string, amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-" + symbol + humanize.Comma(-rounded)
	}
	return symbol + humanize.Comma(rounded)
}

// SignedMoney formats a delta with an explicit sign, colored green when
// positive is good and red otherwise.
func SignedMoney(symbol string, delta float64, positiveIsGood bool) string {
	text := MoneyWhole(symbol, delta)
	if delta > 0 {
		text = "+" + text
	}
	switch {
	case delta == 0:
		return Dim(text)
	case (delta > 0) == positiveIsGood:
		return StyleGreen.Render(text)
	default:
		return StyleRed.Render(text)
	}
}

// Pct formats a 0-100 percentage with one decimal.
func Pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// RelativeTimeFrom returns a short past-relative timestamp such as "3h ago".
func RelativeTimeFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 14*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// ProjectStatusPill returns a colored project status.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectOnHold:
		return StyleYellow.Render("○ On hold")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to max visible characters with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 1 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// Bar draws a horizontal bar of width cells filled to pct percent.
func Bar(pct float64, width int, style lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	pct = math.Max(0, math.Min(100, pct))
	filled := int(math.Round(pct / 100 * float64(width)))
	return style.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}
