package fusion

import (
	"time"

	"github.com/google/uuid"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// Fuse merges an enterprise record and a regulatory bundle into one result
// with every derived score. Pure computation, no I/O; identical inputs give
// identical output except for the id and timestamp fields.
func Fuse(cfg Config, enterprise domain.EnterpriseRecord, regulatory domain.RegulatoryBundle) *domain.FusedResult {
	profile := buildProfile(enterprise)
	empAnalysis := analyzeEmployees(regulatory)
	contribAnalysis := analyzeContributions(regulatory)

	return &domain.FusedResult{
		ID:    uuid.New().String(),
		TaxID: enterprise.TaxID,

		Enterprise: enterprise,
		Regulatory: regulatory,

		Profile:         profile,
		Employees:       empAnalysis,
		Contributions:   contribAnalysis,
		Compliance:      regulatory.Compliance,
		Risk:            regulatory.Risk,
		Recommendations: Recommendations(cfg, profile, empAnalysis, contribAnalysis, regulatory.Compliance, regulatory.Risk),

		DataQuality:           (enterprise.Quality + regulatory.Quality) / 2,
		IntegrationConfidence: integrationConfidence(enterprise, regulatory),
		RealDataPct:           realDataPercentage(enterprise, regulatory),
		TotalItems:            regulatory.ItemCount() + 1,
		GeneratedAt:           time.Now(),
	}
}

func buildProfile(e domain.EnterpriseRecord) domain.CompanyProfile {
	return domain.CompanyProfile{
		TaxID:            e.TaxID,
		Name:             e.Name,
		Address:          e.Address,
		Phone:            e.Phone,
		Website:          e.Website,
		Sector:           e.Sector,
		LegalType:        e.LegalType,
		Revenue:          e.Revenue,
		BankAccount:      e.BankAccount,
		RegistrationDate: e.RegistrationDate,
		ExpiryDate:       e.ExpiryDate,
		DataQuality:      e.Quality,
		Source:           e.Source,
		Authentic:        e.Authentic,
	}
}

func analyzeEmployees(r domain.RegulatoryBundle) domain.EmployeeAnalysis {
	a := domain.EmployeeAnalysis{
		Total:     len(r.Employees),
		Source:    r.Source,
		Authentic: r.Authentic,
	}
	if a.Total == 0 {
		return a
	}

	var salarySum float64
	for _, e := range r.Employees {
		salarySum += e.Salary
		if e.Status == domain.EmployeeActive {
			a.Active++
		}
		switch {
		case e.Salary < 10_000_000:
			a.SalaryRanges.Low++
		case e.Salary < 20_000_000:
			a.SalaryRanges.Medium++
		default:
			a.SalaryRanges.High++
		}
	}
	a.AverageSalary = salarySum / float64(a.Total)
	a.TurnoverRate = float64(a.Total-a.Active) / float64(a.Total) * 100
	return a
}

func analyzeContributions(r domain.RegulatoryBundle) domain.ContributionAnalysis {
	a := domain.ContributionAnalysis{
		Total:     len(r.Contributions),
		Source:    r.Source,
		Authentic: r.Authentic,
	}
	if a.Total == 0 {
		return a
	}
	for _, c := range r.Contributions {
		a.TotalAmount += c.Amount
	}
	a.Average = a.TotalAmount / float64(a.Total)
	return a
}

// integrationConfidence is a heuristic additive rubric, not a statistical
// measure. The additive order below is the documented one.
func integrationConfidence(e domain.EnterpriseRecord, r domain.RegulatoryBundle) float64 {
	var confidence float64

	if e.Name != "" && len(r.Employees) > 0 {
		confidence += 50
	}
	if e.TaxID != "" && len(r.Contributions) > 0 {
		confidence += 30
	}
	if e.Address != "" {
		confidence += 20
	}
	if e.Authentic {
		confidence += 10
	}
	if r.Authentic {
		confidence += 10
	}

	return clamp(confidence, 0, 100)
}

// realDataPercentage runs a fixed five-item checklist and reports how many
// present items are also authentic.
func realDataPercentage(e domain.EnterpriseRecord, r domain.RegulatoryBundle) float64 {
	checks := []struct {
		present   bool
		authentic bool
	}{
		{e.Name != "", e.Authentic},
		{e.Authentic, e.Authentic},
		{len(r.Employees) > 0, r.Authentic},
		{len(r.Contributions) > 0, r.Authentic},
		{r.Authentic, r.Authentic},
	}

	var present, authentic int
	for _, c := range checks {
		if c.present {
			present++
			if c.authentic {
				authentic++
			}
		}
	}
	if present == 0 {
		return 0
	}
	return float64(authentic) / float64(present) * 100
}
