package fusion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/cache"
	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

type stubEnterprise struct {
	rec *domain.EnterpriseRecord
	err error
}

func (s stubEnterprise) FetchByTaxID(ctx context.Context, taxID string) (*domain.EnterpriseRecord, error) {
	return s.rec, s.err
}

type stubRegulatory struct {
	reachable     bool
	loginOK       bool
	employees     []domain.Employee
	contributions []domain.Contribution
	claims        []domain.Claim
	hospitals     []domain.Hospital
}

func (s stubRegulatory) ProbeReachable(ctx context.Context) bool { return s.reachable }
func (s stubRegulatory) Login(ctx context.Context, username, password string) bool {
	return s.loginOK
}
func (s stubRegulatory) FetchEmployees(ctx context.Context, taxID string) []domain.Employee {
	return s.employees
}
func (s stubRegulatory) FetchContributions(ctx context.Context, taxID string) []domain.Contribution {
	return s.contributions
}
func (s stubRegulatory) FetchClaims(ctx context.Context, taxID string) []domain.Claim {
	return s.claims
}
func (s stubRegulatory) FetchHospitals(ctx context.Context, taxID string) []domain.Hospital {
	return s.hospitals
}

// stubSynth is a minimal deterministic generator.
type stubSynth struct{}

func (stubSynth) GenerateEnterprise(taxID string) domain.EnterpriseRecord {
	return domain.EnterpriseRecord{
		TaxID:   taxID,
		Name:    "Công ty TNHH Thương mại Sao Mai",
		Address: "45 Nguyễn Trãi, Thanh Xuân, Hà Nội",
		Sector:  "Thương mại",
	}
}

func (stubSynth) GenerateEmployees(taxID string) []domain.Employee {
	return []domain.Employee{
		{ID: "NV001", FullName: "Trần Thị Bình", Position: "Kế toán", Salary: 12_000_000, StartDate: "2021-04-01", Status: domain.EmployeeActive},
		{ID: "NV002", FullName: "Lê Văn Cường", Position: "Nhân viên", Salary: 9_000_000, StartDate: "2022-08-15", Status: domain.EmployeeActive},
	}
}

func (stubSynth) GenerateContributions(taxID string, employees []domain.Employee) []domain.Contribution {
	var conts []domain.Contribution
	for _, e := range employees {
		conts = append(conts, domain.Contribution{
			ID: "DG-" + e.ID, EmployeeID: e.ID, Amount: e.Salary * 0.175,
			Date: "2024-06-01", Type: "BHXH",
		})
	}
	return conts
}

func (stubSynth) GenerateClaims(taxID string, employees []domain.Employee) []domain.Claim {
	return nil
}

func (stubSynth) GenerateHospitals(taxID string) []domain.Hospital { return nil }

func (stubSynth) GenerateCompliance(employees []domain.Employee, contributions []domain.Contribution) domain.Compliance {
	return ComputeCompliance(DefaultConfig(), employees, contributions, time.Now())
}

func (stubSynth) GenerateRisk(employees []domain.Employee, contributions []domain.Contribution, compliance domain.Compliance) domain.RiskAssessment {
	return AssessRisk(DefaultConfig(), employees, contributions, compliance, time.Now())
}

func newTestEngine(ent domain.EnterpriseSource, reg domain.RegulatorySource) *Engine {
	sources := domain.SourcesConfig{
		RequireAuth:    true,
		PortalUsername: "admin",
		PortalPassword: "admin",
	}
	return NewEngine(DefaultConfig(), sources, ent, reg, stubSynth{}, nil, &domain.Metrics{})
}

func TestProcessBothSourcesDown(t *testing.T) {
	engine := newTestEngine(
		stubEnterprise{err: errors.New("connection timeout")},
		stubRegulatory{reachable: false},
	)

	result, err := engine.Process(context.Background(), "0101234567")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if result.Enterprise.Authentic {
		t.Error("enterprise should be synthetic")
	}
	if result.Enterprise.Source != domain.SourceSynthetic {
		t.Errorf("enterprise source = %q, want %q", result.Enterprise.Source, domain.SourceSynthetic)
	}
	if result.Enterprise.Quality != 95 {
		t.Errorf("synthetic quality = %v, want 95", result.Enterprise.Quality)
	}
	if result.Regulatory.Authentic {
		t.Error("regulatory should be synthetic")
	}
	if result.RealDataPct != 0 {
		t.Errorf("RealDataPct = %v, want 0", result.RealDataPct)
	}

	// Both "connect to real source" items plus the constant closers.
	contains := func(s string) bool {
		for _, r := range result.Recommendations {
			if r == s {
				return true
			}
		}
		return false
	}
	if !contains(adviceConnectRegistry) || !contains(adviceConnectEmployees) {
		t.Errorf("missing connection advice in %v", result.Recommendations)
	}
	for _, closer := range closingAdvice {
		if !contains(closer) {
			t.Errorf("missing closing advice %q", closer)
		}
	}
}

func TestProcessUsesRealEnterpriseAboveThreshold(t *testing.T) {
	rec := &domain.EnterpriseRecord{
		TaxID:     "0101234567",
		Name:      "ACME",
		Address:   "Hà Nội",
		Quality:   90,
		Source:    "thongtindoanhnghiep",
		Authentic: true,
	}
	engine := newTestEngine(stubEnterprise{rec: rec}, stubRegulatory{reachable: false})

	result, err := engine.Process(context.Background(), "0101234567")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	if !result.Enterprise.Authentic {
		t.Error("90 > 50 threshold: real record must be used")
	}
	if result.Enterprise.Name != "ACME" {
		t.Errorf("name = %q, want ACME", result.Enterprise.Name)
	}
}

func TestProcessRejectsLowQualityEnterprise(t *testing.T) {
	rec := &domain.EnterpriseRecord{TaxID: "0101234567", Name: "ACME", Quality: 50}
	engine := newTestEngine(stubEnterprise{rec: rec}, stubRegulatory{reachable: false})

	result, err := engine.Process(context.Background(), "0101234567")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	// Quality 50 is not strictly greater than the threshold.
	if result.Enterprise.Authentic {
		t.Error("quality 50 record must fall back to synthetic")
	}
}

func TestProcessRegulatoryPreconditions(t *testing.T) {
	employees := []domain.Employee{
		{ID: "NV001", FullName: "Phạm Văn Dũng", Position: "Kỹ sư", Salary: 14_000_000, StartDate: "2019-02-01", Status: domain.EmployeeActive},
	}

	t.Run("LoginFailure", func(t *testing.T) {
		engine := newTestEngine(
			stubEnterprise{err: errors.New("down")},
			stubRegulatory{reachable: true, loginOK: false, employees: employees},
		)
		result, _ := engine.Process(context.Background(), "0101234567")
		if result.Regulatory.Authentic {
			t.Error("login failure must trigger synthetic fallback")
		}
	})

	t.Run("AllListsEmpty", func(t *testing.T) {
		engine := newTestEngine(
			stubEnterprise{err: errors.New("down")},
			stubRegulatory{reachable: true, loginOK: true},
		)
		result, _ := engine.Process(context.Background(), "0101234567")
		if result.Regulatory.Authentic {
			t.Error("empty fetch must trigger synthetic fallback")
		}
	})

	t.Run("RealData", func(t *testing.T) {
		engine := newTestEngine(
			stubEnterprise{err: errors.New("down")},
			stubRegulatory{reachable: true, loginOK: true, employees: employees},
		)
		result, _ := engine.Process(context.Background(), "0101234567")
		if !result.Regulatory.Authentic {
			t.Error("non-empty fetch must be used as real data")
		}
		if result.Regulatory.Source != PortalSource {
			t.Errorf("source = %q, want %q", result.Regulatory.Source, PortalSource)
		}
		if len(result.Regulatory.Employees) != 1 {
			t.Errorf("employees = %v", result.Regulatory.Employees)
		}
	})
}

func TestProcessInvalidTaxID(t *testing.T) {
	engine := newTestEngine(stubEnterprise{}, stubRegulatory{})

	_, err := engine.Process(context.Background(), "12")
	if !errors.Is(err, domain.ErrInvalidTaxID) {
		t.Fatalf("expected ErrInvalidTaxID, got %v", err)
	}

	snap := engine.Metrics().Snapshot()
	if snap.Failed != 1 {
		t.Errorf("failed counter = %d, want 1", snap.Failed)
	}
}

func TestProcessBatch(t *testing.T) {
	engine := newTestEngine(
		stubEnterprise{err: errors.New("down")},
		stubRegulatory{reachable: false},
	)

	ids := []string{"0101234567", "12", "0209876543"}
	results := engine.ProcessBatch(context.Background(), ids, 4)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Err != "" || results[0].Result == nil {
		t.Errorf("first id should resolve: %+v", results[0])
	}
	if results[1].Err == "" {
		t.Error("malformed id should carry an error")
	}
	if results[2].Err != "" || results[2].Result == nil {
		t.Errorf("third id should resolve: %+v", results[2])
	}

	// Results stay attributable to their input ids.
	if results[0].Result.TaxID != "0101234567" || results[2].Result.TaxID != "0209876543" {
		t.Errorf("results misattributed: %q / %q", results[0].Result.TaxID, results[2].Result.TaxID)
	}

	snap := engine.Metrics().Snapshot()
	if snap.Total != 3 || snap.Succeeded != 2 || snap.Failed != 1 {
		t.Errorf("metrics = %+v", snap)
	}
}

func TestRegistryRequestCounter(t *testing.T) {
	ctx := context.Background()

	t.Run("EveryFetchCounts", func(t *testing.T) {
		engine := NewEngine(DefaultConfig(), domain.SourcesConfig{CacheTTL: time.Minute},
			stubEnterprise{err: errors.New("connection timeout")},
			stubRegulatory{},
			stubSynth{}, cache.NewLRUCache(8), &domain.Metrics{})

		engine.Process(ctx, "0101234567")
		engine.Process(ctx, "0101234567")

		if got := engine.Metrics().Snapshot().RegistryRequests; got != 2 {
			t.Errorf("RegistryRequests = %d, want 2", got)
		}
	})

	t.Run("CacheHitSkipsRegistry", func(t *testing.T) {
		rec := &domain.EnterpriseRecord{
			TaxID:     "0101234567",
			Name:      "ACME",
			Quality:   90,
			Source:    "registry",
			Authentic: true,
		}
		engine := NewEngine(DefaultConfig(), domain.SourcesConfig{CacheTTL: time.Minute},
			stubEnterprise{rec: rec},
			stubRegulatory{},
			stubSynth{}, cache.NewLRUCache(8), &domain.Metrics{})

		engine.Process(ctx, "0101234567")
		engine.Process(ctx, "0101234567")

		if got := engine.Metrics().Snapshot().RegistryRequests; got != 1 {
			t.Errorf("RegistryRequests = %d, want 1", got)
		}
	})
}
