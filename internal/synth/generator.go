// Package synth generates placeholder Vietnamese enterprise and
// social-insurance data with the same shape as real source output. It is
// the fallback for every unreachable or unusable upstream.
package synth

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
	"github.com/hoanganh-hue/vssbridge/internal/fusion"
)

// Generator implements domain.SyntheticProvider. Safe for concurrent use;
// the underlying random source is guarded by a mutex.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	cfg fusion.Config
}

// New creates a generator seeded from the clock.
func New(cfg fusion.Config) *Generator {
	return NewSeeded(cfg, time.Now().UnixNano())
}

// NewSeeded creates a generator with a fixed seed for reproducible output.
func NewSeeded(cfg fusion.Config, seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		cfg: cfg,
	}
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

func (g *Generator) float64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.intn(hi-lo+1)
}

func (g *Generator) pick(list []string) string {
	return list[g.intn(len(list))]
}

func (g *Generator) digits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + g.intn(10)))
	}
	return b.String()
}

func (g *Generator) phone(sep string) string {
	suffix := g.digits(7)
	return g.pick(phonePrefixes) + sep + suffix[:3] + sep + suffix[3:]
}

func (g *Generator) address() (addr, province, district, ward string) {
	province = g.pick(provinces)
	district = g.pick(districts)
	ward = g.pick(wards)
	addr = fmt.Sprintf("Số %d, %s, %s, %s, %s",
		g.between(1, 999), g.pick(streetNames), ward, district, province)
	return addr, province, district, ward
}

// GenerateEnterprise builds a full registry-shaped record. The engine
// overrides the provenance fields, so only the business attributes matter
// here.
func (g *Generator) GenerateEnterprise(taxID string) domain.EnterpriseRecord {
	name := fmt.Sprintf("%s %s %s",
		g.pick(companyPrefixes), g.pick(companySectorsUpper), g.pick(companyRegions))

	addr, province, district, ward := g.address()

	registered := time.Now().AddDate(0, 0, -g.between(365, 3650))
	slug := strings.ToLower(strings.ReplaceAll(name, " ", ""))

	return domain.EnterpriseRecord{
		TaxID:            taxID,
		Name:             name,
		Address:          addr,
		Province:         province,
		District:         district,
		Ward:             ward,
		Sector:           g.pick(businessSectors),
		LegalType:        g.pick(companyTypes),
		Phone:            g.phone("."),
		Website:          "https://www." + slug + ".com.vn",
		RegistrationDate: registered.Format("2006-01-02"),
		ExpiryDate:       registered.AddDate(0, 0, 3650).Format("2006-01-02"),
		Revenue:          float64(g.between(1, 100)) * 1_000_000_000,
		BankAccount:      g.digits(10),
		Quality:          g.cfg.SyntheticQuality,
		Source:           domain.SourceSynthetic,
		Authentic:        false,
		ExtractedAt:      time.Now(),
	}
}

// GenerateEmployees builds 3 to 15 employees with position-correlated
// salaries and an 85/15 active split.
func (g *Generator) GenerateEmployees(taxID string) []domain.Employee {
	count := g.between(3, 15)
	employees := make([]domain.Employee, 0, count)

	for i := 0; i < count; i++ {
		position := g.pick(jobPositions)

		var salary int
		switch {
		case strings.Contains(position, "Giám đốc"):
			salary = g.between(50_000_000, 100_000_000)
		case strings.Contains(position, "Trưởng phòng"):
			salary = g.between(25_000_000, 50_000_000)
		case strings.Contains(position, "Chuyên viên") || strings.Contains(position, "Kỹ sư"):
			salary = g.between(15_000_000, 30_000_000)
		default:
			salary = g.between(8_000_000, 20_000_000)
		}

		status := domain.EmployeeActive
		if g.intn(100) < 15 {
			status = domain.EmployeeInactive
		}

		employees = append(employees, domain.Employee{
			ID:        fmt.Sprintf("EMP_%03d_%s", i+1, taxID),
			FullName:  g.pick(familyNames) + " " + g.pick(middleNames) + " " + g.pick(givenNames),
			Position:  position,
			Salary:    float64(salary),
			StartDate: time.Now().AddDate(0, 0, -g.between(30, 1095)).Format("2006-01-02"),
			Status:    status,
		})
	}

	return employees
}

// GenerateContributions emits 1-12 monthly social-insurance payments per
// active employee, each 8.5% of salary, referencing only generated ids.
func (g *Generator) GenerateContributions(taxID string, employees []domain.Employee) []domain.Contribution {
	var contributions []domain.Contribution

	for _, emp := range employees {
		if emp.Status != domain.EmployeeActive {
			continue
		}
		months := g.between(1, 12)
		for i := 0; i < months; i++ {
			contributions = append(contributions, domain.Contribution{
				ID:         fmt.Sprintf("CONT_%03d_%s", len(contributions)+1, taxID),
				EmployeeID: emp.ID,
				Amount:     float64(int(emp.Salary * 0.085)),
				Date:       time.Now().AddDate(0, 0, -g.between(1, 365)).Format("2006-01-02"),
				Type:       "social_insurance",
			})
		}
	}

	return contributions
}

// GenerateClaims files 1-3 claims for a random subset of employees.
func (g *Generator) GenerateClaims(taxID string, employees []domain.Employee) []domain.Claim {
	if len(employees) == 0 {
		return nil
	}

	claimants := g.between(1, 5)
	if claimants > len(employees) {
		claimants = len(employees)
	}

	var claims []domain.Claim
	for i := 0; i < claimants; i++ {
		emp := employees[g.intn(len(employees))]
		for j := 0; j < g.between(1, 3); j++ {
			var claimType string
			var amount int
			switch g.intn(4) {
			case 0:
				claimType = domain.ClaimMedical
				amount = g.between(500_000, 5_000_000)
			case 1:
				claimType = domain.ClaimMaternity
				amount = g.between(2_000_000, 10_000_000)
			case 2:
				claimType = domain.ClaimSickLeave
				amount = g.between(300_000, 2_000_000)
			default:
				claimType = domain.ClaimAccident
				amount = g.between(1_000_000, 15_000_000)
			}

			status := domain.ClaimApproved
			switch roll := g.intn(100); {
			case roll >= 95:
				status = domain.ClaimRejected
			case roll >= 70:
				status = domain.ClaimPending
			}

			claims = append(claims, domain.Claim{
				ID:         fmt.Sprintf("CLAIM_%03d_%s", len(claims)+1, taxID),
				EmployeeID: emp.ID,
				Type:       claimType,
				Amount:     float64(amount),
				Date:       time.Now().AddDate(0, 0, -g.between(1, 180)).Format("2006-01-02"),
				Status:     status,
			})
		}
	}

	return claims
}

// GenerateHospitals lists 2-5 registered treatment facilities.
func (g *Generator) GenerateHospitals(taxID string) []domain.Hospital {
	count := g.between(2, 5)
	hospitals := make([]domain.Hospital, 0, count)

	for i := 0; i < count; i++ {
		addr, _, _, _ := g.address()

		specialtyCount := g.between(2, 5)
		specialties := make([]string, 0, specialtyCount)
		seen := make(map[string]bool)
		for len(specialties) < specialtyCount {
			s := g.pick(medicalSpecialties)
			if !seen[s] {
				seen[s] = true
				specialties = append(specialties, s)
			}
		}

		hospitals = append(hospitals, domain.Hospital{
			ID:          fmt.Sprintf("HOSP_%03d", i+1),
			Name:        g.pick(hospitalNames),
			Address:     addr,
			Phone:       g.phone("-"),
			Specialties: specialties,
		})
	}

	return hospitals
}

// GenerateCompliance applies the shared scoring rules with this generator's
// jitter and audit-date randomness.
func (g *Generator) GenerateCompliance(employees []domain.Employee, contributions []domain.Contribution) domain.Compliance {
	cfg := g.cfg
	cfg.Jitter = func() float64 { return g.float64()*20 - 10 }
	cfg.AuditDaysAgo = func() int { return g.between(30, 365) }
	return fusion.ComputeCompliance(cfg, employees, contributions, time.Now())
}

// GenerateRisk applies the shared risk table to the generated lists.
func (g *Generator) GenerateRisk(employees []domain.Employee, contributions []domain.Contribution, compliance domain.Compliance) domain.RiskAssessment {
	return fusion.AssessRisk(g.cfg, employees, contributions, compliance, time.Now())
}
