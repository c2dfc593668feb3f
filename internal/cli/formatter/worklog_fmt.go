package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/classifier"
	"github.com/alexanderramin/margindefense/internal/domain"
)

const descriptionWidth = 48

// FormatClassification renders a dry-run classification. Cost is shown only
// when a duration was supplied.
func FormatClassification(description string, res classifier.Result, minutes int, rate float64, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Text:      "), StyleFg.Render(description))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Category:  "), CategoryBadge(res.Category))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Reason:    "), ReasonLabel(res.BurnReason))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Confidence:"), Pct(res.Confidence*100))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Rationale: "), res.Rationale)
	if minutes > 0 {
		cost := float64(minutes) / 60 * rate
		fmt.Fprintf(&b, "%s  %s over %s at %s/h\n", Dim("Cost:      "),
			CategoryStyle(res.Category).Render(Money(symbol, cost)), FormatMinutes(minutes), Money(symbol, rate))
	}
	return RenderBox("Classification", b.String())
}

// FormatWorkLog renders one stored log.
func FormatWorkLog(w *domain.WorkLog, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID:        "), w.ID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Text:      "), StyleFg.Render(w.Description))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Category:  "), CategoryBadge(w.Category))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Reason:    "), ReasonLabel(w.BurnReason))
	fmt.Fprintf(&b, "%s  %s (%s at %s/h)\n", Dim("Cost:      "),
		CategoryStyle(w.Category).Render(Money(symbol, w.CostImpact)), FormatMinutes(w.DurationMinutes), Money(symbol, w.HourlyRate))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Confidence:"), Pct(w.Confidence*100))
	if w.Rationale != "" {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Rationale: "), w.Rationale)
	}
	if w.ReclassifiedAt != nil {
		by := "unknown"
		if w.ReclassifiedBy != nil {
			by = *w.ReclassifiedBy
		}
		fmt.Fprintf(&b, "%s  %s by %s\n", Dim("Reclassified:"), w.ReclassifiedAt.Format(time.RFC3339), by)
	}
	return RenderBox("Work log", b.String())
}

// FormatWorkLogList renders logs newest first as they arrive.
func FormatWorkLogList(logs []*domain.WorkLog, symbol string, now time.Time) string {
	if len(logs) == 0 {
		return Dim("No work logged.")
	}
	table := NewTable("ID", "WHEN", "DESCRIPTION", "CATEGORY", "REASON", "TIME", "COST").AlignRight(5, 6)
	rows := make([][]string, 0, len(logs))
	var total float64
	for _, w := range logs {
		total += w.CostImpact
		rows = append(rows, []string{
			TruncID(w.ID),
			Dim(RelativeTimeFrom(w.CreatedAt, now)),
			Truncate(w.Description, descriptionWidth),
			CategoryBadge(w.Category),
			ReasonLabel(w.BurnReason),
			FormatMinutes(w.DurationMinutes),
			CategoryStyle(w.Category).Render(Money(symbol, w.CostImpact)),
		})
	}
	return table.Render(rows) + fmt.Sprintf("\n%d logs, %s total\n", len(logs), Bold(Money(symbol, total)))
}
