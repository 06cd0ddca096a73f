// Package domain defines the core types and interfaces for vssbridge.
package domain

import (
	"time"
)

// EnterpriseRecord is a registry record for one enterprise, produced either
// by the registry client or by the synthetic generator. Built once per
// request and never mutated afterwards.
type EnterpriseRecord struct {
	TaxID string `json:"taxId"`
	Name  string `json:"name"`

	// Address plus the components extracted from it
	Address  string `json:"address"`
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`

	Sector    string `json:"sector"`
	LegalType string `json:"legalType"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`

	// Registration dates as reported by the registry (YYYY-MM-DD)
	RegistrationDate string `json:"registrationDate"`
	ExpiryDate       string `json:"expiryDate"`

	Revenue     float64 `json:"revenue"`
	BankAccount string  `json:"bankAccount,omitempty"`

	// Provenance
	Quality     float64   `json:"quality"` // [0,100]
	Source      string    `json:"source"`
	Authentic   bool      `json:"authentic"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// SourceSynthetic tags records produced by the synthetic generator.
const SourceSynthetic = "realistic_generator"
