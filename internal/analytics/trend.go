package analytics

import (
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

const dayLayout = "2006-01-02"

// TrendPoint is one UTC calendar day of activity.
type TrendPoint struct {
	Date          string
	RevenueSecure float64
	MarginBurn    float64
	// BillableRatio is 100 on days without billable or burn work.
	BillableRatio float64
}

// Trend returns one point per day for the last days days, oldest first,
// ending on the day containing now.
func Trend(s Snapshot, now time.Time, days int) []TrendPoint {
	if days <= 0 {
		return nil
	}
	now = now.UTC()
	points := make([]TrendPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - 1 - i)).Format(dayLayout)
		points[i].Date = date
		index[date] = i
	}

	for _, w := range s.WorkLogs {
		i, ok := index[w.CreatedAt.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		switch {
		case w.Category == domain.CategoryBillable:
			points[i].RevenueSecure += w.CostImpact
		case w.IsBurnLike():
			points[i].MarginBurn += w.CostImpact
		}
	}
	for i := range points {
		p := &points[i]
		p.BillableRatio = ratioPct(p.RevenueSecure, p.RevenueSecure+p.MarginBurn, 100)
	}
	return points
}
