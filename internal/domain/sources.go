package domain

import (
	"context"
)

// EnterpriseSource fetches a registry record for a tax id. Implementations
// must not let internal errors cross the boundary as panics; a failed or
// empty lookup is reported as (nil, err) or (nil, nil) and the caller falls
// back to synthetic data.
type EnterpriseSource interface {
	FetchByTaxID(ctx context.Context, taxID string) (*EnterpriseRecord, error)
}

// RegulatorySource is the social-insurance portal contract. The four fetch
// methods return an empty list rather than an error on failure; the caller
// decides on fallback based on emptiness.
type RegulatorySource interface {
	// ProbeReachable reports whether the portal answers at all.
	ProbeReachable(ctx context.Context) bool

	// Login authenticates a portal session. Returns false on any failure.
	Login(ctx context.Context, username, password string) bool

	FetchEmployees(ctx context.Context, taxID string) []Employee
	FetchContributions(ctx context.Context, taxID string) []Contribution
	FetchClaims(ctx context.Context, taxID string) []Claim
	FetchHospitals(ctx context.Context, taxID string) []Hospital
}

// SyntheticProvider generates placeholder data carrying the same shape as
// real source output. Every method always succeeds, and the generated sets
// are internally consistent: contributions and claims reference only
// generated employee ids.
type SyntheticProvider interface {
	GenerateEnterprise(taxID string) EnterpriseRecord
	GenerateEmployees(taxID string) []Employee
	GenerateContributions(taxID string, employees []Employee) []Contribution
	GenerateClaims(taxID string, employees []Employee) []Claim
	GenerateHospitals(taxID string) []Hospital
	GenerateCompliance(employees []Employee, contributions []Contribution) Compliance
	GenerateRisk(employees []Employee, contributions []Contribution, compliance Compliance) RiskAssessment
}
