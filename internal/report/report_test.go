package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

func sampleResult() *domain.FusedResult {
	return &domain.FusedResult{
		ID:    "f3a1c6de-0000-4000-8000-000000000001",
		TaxID: "0101234567",
		Enterprise: domain.EnterpriseRecord{
			TaxID:     "0101234567",
			Name:      "Công ty TNHH Xây dựng Thành Đạt",
			Source:    "thongtindoanhnghiep.co",
			Authentic: true,
		},
		Regulatory: domain.RegulatoryBundle{
			Source:    "vss_portal",
			Authentic: true,
		},
		Profile: domain.CompanyProfile{
			Name:      "Công ty TNHH Xây dựng Thành Đạt",
			Address:   "123 Đường Lê Lợi, Quận Hoàn Kiếm, Hà Nội",
			Sector:    "Xây dựng",
			LegalType: "Công ty TNHH",
			Revenue:   25_000_000_000,
		},
		Employees: domain.EmployeeAnalysis{
			Total:         12,
			Active:        11,
			AverageSalary: 18_500_000,
			SalaryRanges:  domain.SalaryRanges{Low: 2, Medium: 7, High: 3},
			TurnoverRate:  8.3,
		},
		Contributions: domain.ContributionAnalysis{
			Total:       48,
			TotalAmount: 75_480_000,
		},
		Compliance: domain.Compliance{
			Score:  85,
			Issues: []string{"Thiếu hồ sơ đóng góp BHXH"},
		},
		Risk: domain.RiskAssessment{
			Level:       domain.RiskLow,
			Score:       15,
			Factors:     []string{"Mức lương trung bình thấp"},
			Mitigations: []string{"Cải thiện chính sách lương"},
		},
		Recommendations:       []string{"Thường xuyên cập nhật thông tin doanh nghiệp"},
		DataQuality:           87.5,
		IntegrationConfidence: 100,
		RealDataPct:           100,
		ExtractionSeconds:     1.25,
		GeneratedAt:           time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestSummaryContainsKeyFields(t *testing.T) {
	out := Summary(sampleResult())

	for _, want := range []string{
		"0101234567",
		"Công ty TNHH Xây dựng Thành Đạt",
		"12 (11 đang làm việc)",
		"75,480,000 VND",
		"85.0%",
		"low",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestDetailedIncludesRecommendations(t *testing.T) {
	out := Detailed(sampleResult())

	for _, want := range []string{
		"Ngành nghề: Xây dựng",
		"Thiếu hồ sơ đóng góp BHXH",
		"Mức lương trung bình thấp",
		"1. Thường xuyên cập nhật thông tin doanh nghiệp",
		"Thời gian xử lý: 1.25s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("detailed missing %q", want)
		}
	}
}

func TestMarkdownStructure(t *testing.T) {
	out := Markdown(sampleResult())

	for _, want := range []string{
		"# Hồ sơ doanh nghiệp 0101234567",
		"## Thông tin doanh nghiệp",
		"| Tên | Công ty TNHH Xây dựng Thành Đạt |",
		"## Bảo hiểm xã hội",
		"## Đánh giá",
		"- Mức rủi ro: low (15 điểm)",
		"(khuyến nghị: Cải thiện chính sách lương)",
		"## Khuyến nghị",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(domain.OutputConfig{DataDir: filepath.Join(dir, "data"), ReportDir: filepath.Join(dir, "reports")})

	result := sampleResult()
	path, err := w.WriteJSON(result)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if filepath.Base(path) != "profile_0101234567_20250615_103000.json" {
		t.Errorf("unexpected filename %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}

	var decoded domain.FusedResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.TaxID != result.TaxID || decoded.Compliance.Score != 85 {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestWriteMarkdown(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(domain.OutputConfig{DataDir: filepath.Join(dir, "data"), ReportDir: filepath.Join(dir, "reports")})

	path, err := w.WriteMarkdown(sampleResult())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !strings.Contains(string(data), "# Hồ sơ doanh nghiệp 0101234567") {
		t.Error("markdown file missing header")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{25_000_000_000, "25,000,000,000"},
		{75_480_000, "75,480,000"},
	}

	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
