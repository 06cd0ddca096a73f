package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// Screener aggregates per-rule results into a single screening verdict.
type Screener struct {
	// Threshold above which a profile is flagged as ALERT
	AlertThreshold float64

	// Weight configuration for rule aggregation
	UseWeightedScoring bool
}

// NewScreener creates a screener with default settings.
func NewScreener() *Screener {
	return &Screener{
		AlertThreshold:     0.7,
		UseWeightedScoring: true,
	}
}

// Screen evaluates rule results and produces the final verdict. A flagged
// rule always alerts regardless of the aggregate score.
func (s *Screener) Screen(taxID string, results []domain.ScreenRuleResult) *domain.Screening {
	screening := &domain.Screening{
		ID:        uuid.New().String(),
		TaxID:     taxID,
		Threshold: s.AlertThreshold,
		Results:   results,
		Timestamp: time.Now().UTC(),
	}

	agg := s.aggregate(results)
	screening.Score = agg.AggregateScore

	if agg.HasCriticalFlag || agg.AggregateScore >= s.AlertThreshold {
		screening.Status = domain.ScreenStatusAlert
	} else {
		screening.Status = domain.ScreenStatusClear
	}

	for _, r := range results {
		if r.SubRuleRef == domain.ScreenOutcomeFlag || r.SubRuleRef == domain.ScreenOutcomeReview {
			if r.Reason != "" {
				screening.Reasons = append(screening.Reasons, r.Reason)
			}
		}
	}

	return screening
}

type aggregateResult struct {
	AggregateScore  float64
	TotalWeight     float64
	RulesTriggered  int
	HasCriticalFlag bool
}

// aggregate computes the weighted aggregate score from rule results.
func (s *Screener) aggregate(results []domain.ScreenRuleResult) *aggregateResult {
	if len(results) == 0 {
		return &aggregateResult{}
	}

	agg := &aggregateResult{}

	for _, r := range results {
		weight := r.Weight
		if weight <= 0 {
			weight = 1.0
		}

		if r.SubRuleRef == domain.ScreenOutcomeFlag {
			agg.HasCriticalFlag = true
			agg.RulesTriggered++
		} else if r.SubRuleRef == domain.ScreenOutcomeReview {
			agg.RulesTriggered++
		}

		if s.UseWeightedScoring {
			agg.AggregateScore += r.Score * weight
			agg.TotalWeight += weight
		} else {
			agg.AggregateScore += r.Score
			agg.TotalWeight += 1.0
		}
	}

	if agg.TotalWeight > 0 {
		agg.AggregateScore = agg.AggregateScore / agg.TotalWeight
	}

	return agg
}

// ShouldAlert reports whether the screening verdict is an alert.
func ShouldAlert(s *domain.Screening) bool {
	return s.Status == domain.ScreenStatusAlert
}
