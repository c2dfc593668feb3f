package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SetColor turns styled output off when enabled is false. When it is true the
// terminal's detected profile is kept.
func SetColor(enabled bool) {
	if !enabled {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// CategoryStyle returns the style used for a work category.
func CategoryStyle(c domain.WorkCategory) lipgloss.Style {
	switch c {
	case domain.CategoryBillable:
		return StyleGreen
	case domain.CategoryMarginBurn:
		return StyleRed
	case domain.CategoryScopeRisk:
		return StyleYellow
	default:
		return StyleDim
	}
}

// CategoryBadge returns a colored category label such as "● MARGIN BURN".
func CategoryBadge(c domain.WorkCategory) string {
	label := strings.ToUpper(strings.ReplaceAll(string(c), "_", " "))
	return CategoryStyle(c).Render("● " + label)
}

// ReasonLabel renders a burn reason, or a dim dash when there is none.
func ReasonLabel(r *domain.BurnReason) string {
	if r == nil {
		return Dim("--")
	}
	return StylePurple.Render(r.Label())
}

// HealthIndicator returns a colored client health tier.
func HealthIndicator(h analytics.HealthTier) string {
	switch h {
	case analytics.HealthExcellent:
		return StyleGreen.Render("● EXCELLENT")
	case analytics.HealthGood:
		return StyleBlue.Render("● GOOD")
	case analytics.HealthWarning:
		return StyleYellow.Render("● WARNING")
	case analytics.HealthCritical:
		return StyleRed.Render("● CRITICAL")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// SeverityIndicator returns a colored alert severity.
func SeverityIndicator(s analytics.AlertSeverity) string {
	label := strings.ToUpper(string(s))
	switch s {
	case analytics.AlertEmergency, analytics.AlertCritical:
		return StyleRed.Render("▲ " + label)
	case analytics.AlertWarning:
		return StyleYellow.Render("▲ " + label)
	default:
		return StyleBlue.Render("● " + label)
	}
}

// CostStyle colors a single cost by its severity band.
func CostStyle(sev analytics.CostSeverity) lipgloss.Style {
	switch sev {
	case analytics.SeverityCritical:
		return StyleRed.Bold(true)
	case analytics.SeverityHigh:
		return StyleRed
	case analytics.SeverityMedium:
		return StyleYellow
	default:
		return StyleFg
	}
}

// MarginHealthPill returns a colored project margin health.
func MarginHealthPill(h domain.MarginHealth) string {
	switch h {
	case domain.MarginHealthy:
		return StyleGreen.Render("● Healthy")
	case domain.MarginWarning:
		return StyleYellow.Render("● Warning")
	case domain.MarginCritical:
		return StyleRed.Render("● Critical")
	case domain.MarginUnderwater:
		return StyleRed.Bold(true).Render("✖ Underwater")
	default:
		return StyleDim.Render(string(h))
	}
}

// ScopeStatusPill returns a colored scope request status.
func ScopeStatusPill(s domain.ScopeStatus) string {
	switch s {
	case domain.ScopePending:
		return StyleYellow.Render("○ Pending")
	case domain.ScopeAcceptedBurn:
		return StyleRed.Render("✖ Accepted as burn")
	case domain.ScopeConvertedRevenue:
		return StyleGreen.Render("✔ Converted")
	case domain.ScopeRejected:
		return StyleDim.Render("⊘ Rejected")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
