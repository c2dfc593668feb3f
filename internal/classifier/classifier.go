// Package classifier assigns a work category, burn reason and confidence to a
// free-text work description by keyword scoring.
package classifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/margindefense/internal/domain"
)

const (
	scopeRiskWeight        = 1.5
	unclassifiedConfidence = 0.3
)

const (
	RationaleScopeRisk    = "Detected potential scope creep indicators"
	RationaleBillable     = "Matches revenue-generating work patterns"
	RationaleBurn         = "Matches non-billable overhead patterns"
	RationaleUnclassified = "no strong pattern match"
)

// Result is the classification of a single description.
type Result struct {
	Category   domain.WorkCategory
	BurnReason *domain.BurnReason
	Confidence float64
	Rationale  string
	// Matched lists every phrase that contributed to any score, in lexicon order.
	Matched []string
}

// Scores are the raw weighted keyword totals behind a Result.
type Scores struct {
	Billable  float64
	Burn      float64
	ScopeRisk float64
}

func (s Scores) Total() float64 {
	return s.Billable + s.Burn + s.ScopeRisk
}

type Classifier struct {
	lexicon Lexicon
}

func New(lexicon Lexicon) *Classifier {
	return &Classifier{lexicon: lexicon}
}

var defaultClassifier = New(DefaultLexicon())

// Classify classifies description with the built-in lexicon.
func Classify(description string) Result {
	return defaultClassifier.Classify(description)
}

// Classify never fails: text that matches nothing is unclassified.
func (c *Classifier) Classify(description string) Result {
	text := strings.ToLower(strings.TrimSpace(description))
	scores, matched := c.Score(text)
	total := scores.Total()

	var res Result
	switch {
	case scores.ScopeRisk > 0 && scores.ScopeRisk >= scores.Burn:
		res.Category = domain.CategoryScopeRisk
		res.Confidence = math.Min(0.9, 0.5+scores.ScopeRisk/10)
		res.Rationale = RationaleScopeRisk
	case scores.Billable > scores.Burn && scores.Billable > 0:
		res.Category = domain.CategoryBillable
		res.Confidence = math.Min(0.95, 0.6+scores.Billable/total*0.35)
		res.Rationale = RationaleBillable
	case scores.Burn > 0:
		res.Category = domain.CategoryMarginBurn
		res.Confidence = math.Min(0.9, 0.5+scores.Burn/total*0.4)
		res.Rationale = RationaleBurn
	default:
		res.Category = domain.CategoryUnclassified
		res.Confidence = unclassifiedConfidence
		res.Rationale = RationaleUnclassified
		return res
	}

	if res.Category.IsBurnLike() {
		reason := c.DetectBurnReason(text)
		res.BurnReason = &reason
	}
	res.Matched = matched
	res.Rationale = fmt.Sprintf("%s (matched: %s)", res.Rationale, strings.Join(matched, ", "))
	return res
}

// Score computes weighted keyword totals for an already lower-cased text.
func (c *Classifier) Score(text string) (Scores, []string) {
	var s Scores
	var matched []string
	s.Billable, matched = accumulate(text, c.lexicon.Billable, 1, matched)
	s.Burn, matched = accumulate(text, c.lexicon.Burn, 1, matched)
	s.ScopeRisk, matched = accumulate(text, c.lexicon.ScopeRisk, scopeRiskWeight, matched)
	return s, matched
}

// DetectBurnReason picks the reason with the most keyword hits in text.
// Only a strictly higher count displaces an earlier reason.
func (c *Classifier) DetectBurnReason(text string) domain.BurnReason {
	best := domain.ReasonOther
	bestCount := 0
	for _, rk := range c.lexicon.Reasons {
		count := 0
		for _, kw := range rk.Keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > bestCount {
			best = rk.Reason
			bestCount = count
		}
	}
	return best
}

func accumulate(text string, keywords []string, weight float64, matched []string) (float64, []string) {
	var score float64
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			score += float64(wordCount(kw)) * weight
			matched = append(matched, kw)
		}
	}
	return score, matched
}

func wordCount(phrase string) int {
	return len(strings.Split(phrase, " "))
}
