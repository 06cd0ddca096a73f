package fusion

import (
	"strings"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

// Conditional recommendation texts, emitted in this order.
const (
	adviceImproveQuality      = "Cải thiện chất lượng dữ liệu doanh nghiệp"
	adviceConnectRegistry     = "Kết nối API doanh nghiệp để lấy dữ liệu thực tế"
	adviceConnectEmployees    = "Kết nối hệ thống VSS để lấy dữ liệu nhân viên thực tế"
	adviceConnectContrib      = "Kết nối hệ thống VSS để lấy dữ liệu đóng góp thực tế"
	adviceImproveCompliance   = "Cải thiện điểm tuân thủ tổng thể"
	adviceContribDiscipline   = "Tăng cường tuân thủ đóng góp BHXH"
	adviceUpdateEmployees     = "Cập nhật thông tin nhân viên trong hệ thống VSS"
	adviceRaiseAverageSalary  = "Xem xét tăng lương trung bình"
	advicePrioritizeHighRisk  = "Ưu tiên giảm thiểu rủi ro cao"
	adviceHandleFactorsPrefix = "Xử lý các yếu tố rủi ro: "
)

// Closing recommendations appended to every result.
var closingAdvice = []string{
	"Thường xuyên cập nhật thông tin doanh nghiệp",
	"Tăng cường giám sát tuân thủ BHXH",
	"Cải thiện quy trình quản lý nhân sự",
	"Xây dựng kế hoạch phát triển bền vững",
}

// Recommendations builds the ordered advice list: conditional items first
// in a fixed priority order, constant closers last.
func Recommendations(cfg Config, profile domain.CompanyProfile, employees domain.EmployeeAnalysis, contributions domain.ContributionAnalysis, compliance domain.Compliance, risk domain.RiskAssessment) []string {
	var recs []string

	if profile.DataQuality < cfg.QualityAdviceFloor {
		recs = append(recs, adviceImproveQuality)
	}
	if !profile.Authentic {
		recs = append(recs, adviceConnectRegistry)
	}
	if !employees.Authentic {
		recs = append(recs, adviceConnectEmployees)
	}
	if !contributions.Authentic {
		recs = append(recs, adviceConnectContrib)
	}

	if compliance.Score < cfg.ComplianceAdviceFloor {
		recs = append(recs, adviceImproveCompliance)
	}
	if !compliance.ContributionCompliance {
		recs = append(recs, adviceContribDiscipline)
	}

	if employees.Total == 0 {
		recs = append(recs, adviceUpdateEmployees)
	}
	if employees.AverageSalary < cfg.SalaryAdviceFloor {
		recs = append(recs, adviceRaiseAverageSalary)
	}

	if risk.Level == domain.RiskHigh {
		recs = append(recs, advicePrioritizeHighRisk)
	}
	if len(risk.Factors) > 0 {
		recs = append(recs, adviceHandleFactorsPrefix+strings.Join(risk.Factors, ", "))
	}

	return append(recs, closingAdvice...)
}
