package analytics

// CostImpact converts a duration and an hourly rate into money. Callers
// validate inputs first; the function itself is total.
func CostImpact(durationMinutes, hourlyRate float64) float64 {
	return durationMinutes / 60 * hourlyRate
}

type CostSeverity string

const (
	SeverityLow      CostSeverity = "low"
	SeverityMedium   CostSeverity = "medium"
	SeverityHigh     CostSeverity = "high"
	SeverityCritical CostSeverity = "critical"
)

// CostSeverityOf buckets a single cost impact.
func CostSeverityOf(cost float64, th Thresholds) CostSeverity {
	switch {
	case cost < th.SeverityLowBelow:
		return SeverityLow
	case cost < th.SeverityMediumBelow:
		return SeverityMedium
	case cost < th.SeverityHighBelow:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}
