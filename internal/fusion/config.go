// Package fusion merges enterprise-registry and social-insurance data for
// one tax id into a single result with derived quality, confidence,
// compliance and risk scores.
package fusion

// Config exposes every tunable constant of the fusion pipeline. The
// historical "final", "real" and "legacy" variants of this pipeline only
// differed in these numbers, so they become presets instead of code paths.
type Config struct {
	// Enterprise resolution
	MinEnterpriseQuality float64 // real record usable only above this
	SyntheticQuality     float64 // fixed quality tag for generated records

	// Regulatory bundle quality weights. All four weights always count
	// toward the denominator; an empty category contributes zero quality
	// for its slice. This keeps scores comparable across records with
	// different category coverage.
	EmployeeWeight     float64
	ContributionWeight float64
	ClaimWeight        float64
	HospitalWeight     float64

	// Compliance scoring
	ComplianceBaseline          float64
	ComplianceEmployeeBonus     float64
	ComplianceContributionBonus float64

	// Jitter returns a bounded random offset added to the compliance
	// score before clamping. Nil means no jitter, which keeps scoring
	// deterministic. Tests rely on that.
	Jitter func() float64

	// AuditDaysAgo returns how many days before "now" the last audit is
	// dated. Nil defaults to 180.
	AuditDaysAgo func() int

	// Risk scoring
	SalaryFloor            float64 // average salary below this is a risk
	ActiveRatioFloor       float64 // active/total below this is a risk
	RiskLowSalaryPenalty   float64
	RiskTurnoverPenalty    float64
	RiskZeroContribPenalty float64 // contributions present but sum to zero
	RiskNoContribPenalty   float64 // contributions list empty
	RiskCompliancePenalty  float64
	ComplianceRiskFloor    float64 // compliance score below this is a risk

	RiskHighThreshold   float64
	RiskMediumThreshold float64

	// Recommendation thresholds
	QualityAdviceFloor    float64 // data quality below this draws advice
	ComplianceAdviceFloor float64
	SalaryAdviceFloor     float64
}

// DefaultConfig returns the production constants.
func DefaultConfig() Config {
	return Config{
		MinEnterpriseQuality: 50,
		SyntheticQuality:     95,

		EmployeeWeight:     0.3,
		ContributionWeight: 0.3,
		ClaimWeight:        0.2,
		HospitalWeight:     0.2,

		ComplianceBaseline:          60,
		ComplianceEmployeeBonus:     20,
		ComplianceContributionBonus: 20,

		SalaryFloor:            10_000_000,
		ActiveRatioFloor:       0.8,
		RiskLowSalaryPenalty:   15,
		RiskTurnoverPenalty:    20,
		RiskZeroContribPenalty: 30,
		RiskNoContribPenalty:   25,
		RiskCompliancePenalty:  20,
		ComplianceRiskFloor:    70,

		RiskHighThreshold:   70,
		RiskMediumThreshold: 40,

		QualityAdviceFloor:    80,
		ComplianceAdviceFloor: 80,
		SalaryAdviceFloor:     15_000_000,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
