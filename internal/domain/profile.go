package domain

import (
	"time"
)

// FusedResult is the single output of the fusion pipeline for one tax id:
// both source records plus every derived analysis. Safe to serialize and
// persist verbatim; never mutated after construction.
type FusedResult struct {
	ID    string `json:"id"`
	TaxID string `json:"taxId"`

	// Source records
	Enterprise EnterpriseRecord `json:"enterprise"`
	Regulatory RegulatoryBundle `json:"regulatory"`

	// Derived analyses
	Profile         CompanyProfile       `json:"companyProfile"`
	Employees       EmployeeAnalysis     `json:"employeeAnalysis"`
	Contributions   ContributionAnalysis `json:"contributionAnalysis"`
	Compliance      Compliance           `json:"complianceReport"`
	Risk            RiskAssessment       `json:"riskAssessment"`
	Recommendations []string             `json:"recommendations"`

	// Metadata
	ExtractionSeconds     float64   `json:"extractionSeconds"`
	DataQuality           float64   `json:"dataQualityScore"`      // [0,100]
	IntegrationConfidence float64   `json:"integrationConfidence"` // [0,100]
	RealDataPct           float64   `json:"realDataPercentage"`    // [0,100]
	TotalItems            int       `json:"totalDataItems"`
	GeneratedAt           time.Time `json:"generatedAt"`
}

// CompanyProfile is the enterprise-side view of a fused result.
type CompanyProfile struct {
	TaxID            string  `json:"taxId"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Phone            string  `json:"phone,omitempty"`
	Website          string  `json:"website,omitempty"`
	Sector           string  `json:"sector"`
	LegalType        string  `json:"legalType"`
	Revenue          float64 `json:"revenue"`
	BankAccount      string  `json:"bankAccount,omitempty"`
	RegistrationDate string  `json:"registrationDate"`
	ExpiryDate       string  `json:"expiryDate"`
	DataQuality      float64 `json:"dataQuality"`
	Source           string  `json:"source"`
	Authentic        bool    `json:"authentic"`
}

// SalaryRanges buckets employees by monthly salary.
type SalaryRanges struct {
	Low    int `json:"low"`    // < 10M VND
	Medium int `json:"medium"` // 10M - 20M VND
	High   int `json:"high"`   // >= 20M VND
}

// EmployeeAnalysis summarizes the employee list of a fused result.
type EmployeeAnalysis struct {
	Total         int          `json:"total"`
	Active        int          `json:"active"`
	AverageSalary float64      `json:"averageSalary"`
	SalaryRanges  SalaryRanges `json:"salaryRanges"`
	TurnoverRate  float64      `json:"turnoverRate"` // percent of inactive employees
	Source        string       `json:"source"`
	Authentic     bool         `json:"authentic"`
}

// ContributionAnalysis summarizes the contribution list of a fused result.
type ContributionAnalysis struct {
	Total       int     `json:"total"`
	TotalAmount float64 `json:"totalAmount"`
	Average     float64 `json:"average"`
	Source      string  `json:"source"`
	Authentic   bool    `json:"authentic"`
}
