// Package report renders fused results for humans and writes them to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// Writer persists fused results under the configured output directories.
type Writer struct {
	cfg domain.OutputConfig
}

// NewWriter creates a report writer.
func NewWriter(cfg domain.OutputConfig) *Writer {
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "./reports"
	}
	return &Writer{cfg: cfg}
}

// WriteJSON saves the full result as indented JSON in the data directory.
// Returns the written file path.
func (w *Writer) WriteJSON(result *domain.FusedResult) (string, error) {
	if err := os.MkdirAll(w.cfg.DataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	name := fmt.Sprintf("profile_%s_%s.json", result.TaxID, result.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(w.cfg.DataDir, name)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}

	return path, nil
}

// WriteMarkdown saves the detailed Markdown report in the report directory.
// Returns the written file path.
func (w *Writer) WriteMarkdown(result *domain.FusedResult) (string, error) {
	if err := os.MkdirAll(w.cfg.ReportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("profile_%s_%s.md", result.TaxID, result.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(w.cfg.ReportDir, name)

	if err := os.WriteFile(path, []byte(Markdown(result)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// Summary renders a short console view of a fused result.
func Summary(result *domain.FusedResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "MST %s: %s\n", result.TaxID, result.Profile.Name)
	fmt.Fprintf(&b, "  Nguồn dữ liệu: %s / %s\n", result.Enterprise.Source, result.Regulatory.Source)
	fmt.Fprintf(&b, "  Nhân viên: %d (%d đang làm việc)\n", result.Employees.Total, result.Employees.Active)
	fmt.Fprintf(&b, "  Đóng góp BHXH: %d khoản, tổng %s VND\n", result.Contributions.Total, formatAmount(result.Contributions.TotalAmount))
	fmt.Fprintf(&b, "  Tuân thủ: %.1f%%  Rủi ro: %s (%.0f)\n", result.Compliance.Score, result.Risk.Level, result.Risk.Score)
	fmt.Fprintf(&b, "  Chất lượng dữ liệu: %.1f%%  Độ tin cậy: %.1f%%  Dữ liệu thực: %.1f%%\n",
		result.DataQuality, result.IntegrationConfidence, result.RealDataPct)

	return b.String()
}

// Detailed renders the full console view including recommendations.
func Detailed(result *domain.FusedResult) string {
	var b strings.Builder

	b.WriteString(Summary(result))

	fmt.Fprintf(&b, "  Địa chỉ: %s\n", result.Profile.Address)
	fmt.Fprintf(&b, "  Ngành nghề: %s\n", result.Profile.Sector)
	fmt.Fprintf(&b, "  Loại hình: %s\n", result.Profile.LegalType)
	if result.Profile.Revenue > 0 {
		fmt.Fprintf(&b, "  Doanh thu: %s VND\n", formatAmount(result.Profile.Revenue))
	}
	fmt.Fprintf(&b, "  Lương trung bình: %s VND\n", formatAmount(result.Employees.AverageSalary))
	fmt.Fprintf(&b, "  Phân bố lương: thấp %d / trung bình %d / cao %d\n",
		result.Employees.SalaryRanges.Low, result.Employees.SalaryRanges.Medium, result.Employees.SalaryRanges.High)

	if len(result.Compliance.Issues) > 0 {
		b.WriteString("  Vấn đề tuân thủ:\n")
		for _, issue := range result.Compliance.Issues {
			fmt.Fprintf(&b, "    - %s\n", issue)
		}
	}

	if len(result.Risk.Factors) > 0 {
		b.WriteString("  Yếu tố rủi ro:\n")
		for _, factor := range result.Risk.Factors {
			fmt.Fprintf(&b, "    - %s\n", factor)
		}
	}

	if len(result.Recommendations) > 0 {
		b.WriteString("  Khuyến nghị:\n")
		for i, rec := range result.Recommendations {
			fmt.Fprintf(&b, "    %d. %s\n", i+1, rec)
		}
	}

	fmt.Fprintf(&b, "  Thời gian xử lý: %.2fs\n", result.ExtractionSeconds)

	return b.String()
}

// Markdown renders the full report as Markdown.
func Markdown(result *domain.FusedResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Hồ sơ doanh nghiệp %s\n\n", result.TaxID)
	fmt.Fprintf(&b, "Tạo lúc: %s\n\n", result.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Thông tin doanh nghiệp\n\n")
	fmt.Fprintf(&b, "| Trường | Giá trị |\n|---|---|\n")
	fmt.Fprintf(&b, "| Tên | %s |\n", result.Profile.Name)
	fmt.Fprintf(&b, "| MST | %s |\n", result.TaxID)
	fmt.Fprintf(&b, "| Địa chỉ | %s |\n", result.Profile.Address)
	fmt.Fprintf(&b, "| Ngành nghề | %s |\n", result.Profile.Sector)
	fmt.Fprintf(&b, "| Loại hình | %s |\n", result.Profile.LegalType)
	fmt.Fprintf(&b, "| Doanh thu | %s VND |\n", formatAmount(result.Profile.Revenue))
	fmt.Fprintf(&b, "| Nguồn | %s |\n\n", result.Enterprise.Source)

	b.WriteString("## Bảo hiểm xã hội\n\n")
	fmt.Fprintf(&b, "- Nhân viên: %d (%d đang làm việc, tỷ lệ nghỉ %.1f%%)\n",
		result.Employees.Total, result.Employees.Active, result.Employees.TurnoverRate)
	fmt.Fprintf(&b, "- Lương trung bình: %s VND\n", formatAmount(result.Employees.AverageSalary))
	fmt.Fprintf(&b, "- Đóng góp: %d khoản, tổng %s VND\n",
		result.Contributions.Total, formatAmount(result.Contributions.TotalAmount))
	fmt.Fprintf(&b, "- Nguồn: %s\n\n", result.Regulatory.Source)

	b.WriteString("## Đánh giá\n\n")
	fmt.Fprintf(&b, "- Điểm tuân thủ: %.1f\n", result.Compliance.Score)
	fmt.Fprintf(&b, "- Mức rủi ro: %s (%.0f điểm)\n", result.Risk.Level, result.Risk.Score)
	fmt.Fprintf(&b, "- Chất lượng dữ liệu: %.1f%%\n", result.DataQuality)
	fmt.Fprintf(&b, "- Độ tin cậy tích hợp: %.1f%%\n", result.IntegrationConfidence)
	fmt.Fprintf(&b, "- Tỷ lệ dữ liệu thực: %.1f%%\n\n", result.RealDataPct)

	if len(result.Compliance.Issues) > 0 {
		b.WriteString("### Vấn đề tuân thủ\n\n")
		for _, issue := range result.Compliance.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	if len(result.Risk.Factors) > 0 {
		b.WriteString("### Yếu tố rủi ro\n\n")
		for i, factor := range result.Risk.Factors {
			fmt.Fprintf(&b, "- %s", factor)
			if i < len(result.Risk.Mitigations) {
				fmt.Fprintf(&b, " (khuyến nghị: %s)", result.Risk.Mitigations[i])
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		b.WriteString("## Khuyến nghị\n\n")
		for i, rec := range result.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// formatAmount renders a VND amount with thousands separators.
func formatAmount(v float64) string {
	n := int64(v)
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var parts []string
	for n > 0 {
		if n >= 1000 {
			parts = append([]string{fmt.Sprintf("%03d", n%1000)}, parts...)
		} else {
			parts = append([]string{fmt.Sprintf("%d", n%1000)}, parts...)
		}
		n /= 1000
	}

	s := strings.Join(parts, ",")
	if neg {
		return "-" + s
	}
	return s
}
