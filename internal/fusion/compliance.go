package fusion

import (
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// Compliance issue texts, appended by score threshold.
const (
	issueStaleEmployeeInfo  = "Cần cập nhật thông tin nhân viên"
	issueMissingContribDocs = "Thiếu hồ sơ đóng góp BHXH"
	issueLateContributions  = "Vi phạm quy định về thời gian đóng góp"
)

// ComputeCompliance derives a compliance sub-record from the employee and
// contribution lists. Registration compliance is always true once a tax id
// resolved; the system never verifies registration status independently.
func ComputeCompliance(cfg Config, employees []domain.Employee, contributions []domain.Contribution, now time.Time) domain.Compliance {
	employeeCompliance := len(employees) > 0
	contributionCompliance := len(contributions) > 0

	score := cfg.ComplianceBaseline
	if employeeCompliance {
		score += cfg.ComplianceEmployeeBonus
	}
	if contributionCompliance {
		score += cfg.ComplianceContributionBonus
	}
	if cfg.Jitter != nil {
		score += cfg.Jitter()
	}
	score = clamp(score, 0, 100)

	var issues []string
	if score < 80 {
		issues = append(issues, issueStaleEmployeeInfo)
	}
	if score < 70 {
		issues = append(issues, issueMissingContribDocs)
	}
	if score < 60 {
		issues = append(issues, issueLateContributions)
	}

	auditDays := 180
	if cfg.AuditDaysAgo != nil {
		auditDays = cfg.AuditDaysAgo()
	}

	return domain.Compliance{
		RegistrationCompliance: true,
		ContributionCompliance: contributionCompliance,
		EmployeeCompliance:     employeeCompliance,
		Score:                  score,
		LastAuditDate:          now.AddDate(0, 0, -auditDays).Format("2006-01-02"),
		Issues:                 issues,
	}
}
