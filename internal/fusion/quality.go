package fusion

import (
	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// BundleQuality scores a regulatory bundle in [0,100]. Each category is
// normalized to [0,1] by counting present known-good fields per item, then
// scaled by its weight. All four weights always sit in the denominator.
func BundleQuality(cfg Config, employees []domain.Employee, contributions []domain.Contribution, claims []domain.Claim, hospitals []domain.Hospital) float64 {
	var total, max float64

	if len(employees) > 0 {
		var score float64
		for _, e := range employees {
			if e.FullName != "" {
				score++
			}
			if e.Position != "" {
				score++
			}
			if e.Salary > 0 {
				score++
			}
			if e.StartDate != "" {
				score++
			}
		}
		total += score / float64(len(employees)*4) * cfg.EmployeeWeight
	}
	max += cfg.EmployeeWeight

	if len(contributions) > 0 {
		var score float64
		for _, c := range contributions {
			if c.Amount > 0 {
				score++
			}
			if c.Date != "" {
				score++
			}
			if c.Type != "" {
				score++
			}
		}
		total += score / float64(len(contributions)*3) * cfg.ContributionWeight
	}
	max += cfg.ContributionWeight

	if len(claims) > 0 {
		var score float64
		for _, c := range claims {
			if c.Type != "" {
				score++
			}
			if c.Amount > 0 {
				score++
			}
			if c.Date != "" {
				score++
			}
		}
		total += score / float64(len(claims)*3) * cfg.ClaimWeight
	}
	max += cfg.ClaimWeight

	if len(hospitals) > 0 {
		var score float64
		for _, h := range hospitals {
			if h.Name != "" {
				score++
			}
			if h.Address != "" {
				score++
			}
			if h.Phone != "" {
				score++
			}
		}
		total += score / float64(len(hospitals)*3) * cfg.HospitalWeight
	}
	max += cfg.HospitalWeight

	if max == 0 {
		return 0
	}
	return clamp(total/max*100, 0, 100)
}
