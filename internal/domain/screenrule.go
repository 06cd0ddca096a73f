package domain

import (
	"time"
)

// ScreenRule defines an operator-authored screening rule evaluated against
// the metrics of a fused profile.
type ScreenRule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`

	// CEL expression over profile metrics
	Expression string `json:"expression"`

	// Outcome bands for score-to-outcome mapping
	Bands []ScreenBand `json:"bands"`

	// Rule weight in screening aggregation
	Weight float64 `json:"weight"`

	// Whether rule is active
	Enabled bool `json:"enabled"`
}

// ScreenBand maps a score range to an outcome.
type ScreenBand struct {
	LowerLimit *float64 `json:"lowerLimit,omitempty"`
	UpperLimit *float64 `json:"upperLimit,omitempty"`
	SubRuleRef string   `json:"subRuleRef"` // e.g., ".pass", ".flag", ".review"
	Reason     string   `json:"reason"`
}

// ScreenRuleResult is the output of a single rule evaluation.
type ScreenRuleResult struct {
	RuleID     string  `json:"ruleId"`
	TaxID      string  `json:"taxId"`
	SubRuleRef string  `json:"subRuleRef"`
	Score      float64 `json:"score"` // The computed value
	Reason     string  `json:"reason"`
	Weight     float64 `json:"weight"`
	ProcessMs  int64   `json:"processMs"`
}

// Predefined rule outcomes
const (
	ScreenOutcomePass   = ".pass"
	ScreenOutcomeFlag   = ".flag"
	ScreenOutcomeReview = ".review"
	ScreenOutcomeError  = ".err"
)

// Screening is the aggregated screening verdict for a fused profile.
type Screening struct {
	ID        string             `json:"id"`
	TaxID     string             `json:"taxId"`
	Status    string             `json:"status"` // "ALERT" or "CLEAR"
	Score     float64            `json:"score"`
	Threshold float64            `json:"threshold"`
	Reasons   []string           `json:"reasons,omitempty"`
	Results   []ScreenRuleResult `json:"results"`
	Timestamp time.Time          `json:"timestamp"`
}

// Screening status constants
const (
	ScreenStatusAlert = "ALERT"
	ScreenStatusClear = "CLEAR"
)
