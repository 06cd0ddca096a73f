package domain

import (
	"time"
)

// Employee is one social-insurance employee record.
type Employee struct {
	ID        string  `json:"id"`
	FullName  string  `json:"fullName"`
	Position  string  `json:"position"`
	Salary    float64 `json:"salary"`
	StartDate string  `json:"startDate"`
	Status    string  `json:"status"` // "active" or "inactive"
}

// Employee status values.
const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

// Contribution is one social-insurance contribution payment.
type Contribution struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Type       string  `json:"type"`
}

// Claim is one insurance claim filed by an employee.
type Claim struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
}

// Claim types.
const (
	ClaimMedical   = "medical"
	ClaimMaternity = "maternity"
	ClaimSickLeave = "sick_leave"
	ClaimAccident  = "accident"
)

// Claim statuses.
const (
	ClaimApproved = "approved"
	ClaimPending  = "pending"
	ClaimRejected = "rejected"
)

// Hospital is a registered treatment facility.
type Hospital struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Specialties []string `json:"specialties"`
}

// Compliance summarizes an enterprise's social-insurance compliance.
type Compliance struct {
	RegistrationCompliance bool     `json:"registrationCompliance"`
	ContributionCompliance bool     `json:"contributionCompliance"`
	EmployeeCompliance     bool     `json:"employeeCompliance"`
	Score                  float64  `json:"score"` // [0,100]
	LastAuditDate          string   `json:"lastAuditDate"`
	Issues                 []string `json:"issues"`
}

// RiskAssessment classifies an enterprise by accumulated risk factors.
type RiskAssessment struct {
	Level       string    `json:"level"` // "low", "medium" or "high"
	Score       float64   `json:"score"` // [0,100]
	Factors     []string  `json:"factors"`
	Mitigations []string  `json:"mitigations"`
	AssessedAt  time.Time `json:"assessedAt"`
}

// Risk levels in ascending severity.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RegulatoryBundle is everything the social-insurance portal (or its
// synthetic substitute) reports for one tax id. Built once per request
// and never mutated afterwards.
type RegulatoryBundle struct {
	Employees     []Employee     `json:"employees"`
	Contributions []Contribution `json:"contributions"`
	Claims        []Claim        `json:"claims"`
	Hospitals     []Hospital     `json:"hospitals"`
	Compliance    Compliance     `json:"compliance"`
	Risk          RiskAssessment `json:"risk"`

	// Provenance
	Quality     float64   `json:"quality"` // [0,100]
	Source      string    `json:"source"`
	Authentic   bool      `json:"authentic"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Empty reports whether all four data lists are empty.
func (b *RegulatoryBundle) Empty() bool {
	return len(b.Employees) == 0 && len(b.Contributions) == 0 &&
		len(b.Claims) == 0 && len(b.Hospitals) == 0
}

// ItemCount returns the number of underlying data items in the bundle.
func (b *RegulatoryBundle) ItemCount() int {
	return len(b.Employees) + len(b.Contributions) + len(b.Claims) + len(b.Hospitals)
}
