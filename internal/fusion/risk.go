package fusion

import (
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// Risk factor and mitigation texts, paired by index.
const (
	factorLowSalary     = "Mức lương trung bình thấp"
	factorHighTurnover  = "Tỷ lệ thay đổi nhân viên cao"
	factorZeroContrib   = "Không có đóng góp BHXH"
	factorNoContribData = "Thiếu dữ liệu đóng góp"
	factorLowCompliance = "Điểm tuân thủ thấp"

	mitigateSalaryPolicy     = "Cải thiện chính sách lương"
	mitigateWorkEnvironment  = "Cải thiện môi trường làm việc"
	mitigateFullContrib      = "Thực hiện đóng góp BHXH đầy đủ"
	mitigateConnectContrib   = "Kết nối hệ thống đóng góp"
	mitigateComplianceWatch  = "Tăng cường giám sát tuân thủ"
)

// AssessRisk accumulates a risk score from independent factors. Penalties
// and thresholds come from cfg; the same table is applied everywhere risk
// is computed, real or synthetic.
func AssessRisk(cfg Config, employees []domain.Employee, contributions []domain.Contribution, compliance domain.Compliance, now time.Time) domain.RiskAssessment {
	var score float64
	var factors, mitigations []string

	if len(employees) > 0 {
		var salarySum float64
		active := 0
		for _, e := range employees {
			salarySum += e.Salary
			if e.Status == domain.EmployeeActive {
				active++
			}
		}
		if salarySum/float64(len(employees)) < cfg.SalaryFloor {
			factors = append(factors, factorLowSalary)
			mitigations = append(mitigations, mitigateSalaryPolicy)
			score += cfg.RiskLowSalaryPenalty
		}
		if float64(active)/float64(len(employees)) < cfg.ActiveRatioFloor {
			factors = append(factors, factorHighTurnover)
			mitigations = append(mitigations, mitigateWorkEnvironment)
			score += cfg.RiskTurnoverPenalty
		}
	}

	if len(contributions) > 0 {
		var total float64
		for _, c := range contributions {
			total += c.Amount
		}
		if total == 0 {
			factors = append(factors, factorZeroContrib)
			mitigations = append(mitigations, mitigateFullContrib)
			score += cfg.RiskZeroContribPenalty
		}
	} else {
		factors = append(factors, factorNoContribData)
		mitigations = append(mitigations, mitigateConnectContrib)
		score += cfg.RiskNoContribPenalty
	}

	if compliance.Score < cfg.ComplianceRiskFloor {
		factors = append(factors, factorLowCompliance)
		mitigations = append(mitigations, mitigateComplianceWatch)
		score += cfg.RiskCompliancePenalty
	}

	score = clamp(score, 0, 100)

	return domain.RiskAssessment{
		Level:       RiskLevel(cfg, score),
		Score:       score,
		Factors:     factors,
		Mitigations: mitigations,
		AssessedAt:  now,
	}
}

// RiskLevel maps a risk score to its classification band.
func RiskLevel(cfg Config, score float64) string {
	switch {
	case score >= cfg.RiskHighThreshold:
		return domain.RiskHigh
	case score >= cfg.RiskMediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
