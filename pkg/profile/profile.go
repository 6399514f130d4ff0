// pkg/profile/profile.go

// Package profile holds the company letterhead printed on every bill.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile describes the issuing company.
type Profile struct {
	// BrandText is drawn in place of the logo when no logo is available.
	BrandText    string      `yaml:"brand_text"`
	CompanyName  string      `yaml:"company_name"`
	AddressLines []string    `yaml:"address_lines"`
	Phone        string      `yaml:"phone"`
	Email        string      `yaml:"email"`
	CurrencyWord string      `yaml:"currency_word"`
	Signatories  []Signatory `yaml:"signatories"`
	TermsTitle   string      `yaml:"terms_title"`
	Terms        []string    `yaml:"terms"`
}

// Signatory is a name and role printed under a signature line. Bills carry
// the first two signatories, left then right.
type Signatory struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// Default returns the built-in letterhead.
func Default() Profile {
	return Profile{
		BrandText:    "E-GROOTS",
		CompanyName:  "E-GROOTS ED-TECH SOLUTIONS",
		AddressLines: []string{"COIMBATORE", "TAMILNADU", "INDIA"},
		Phone:        "+91-8015221905",
		Email:        "egroots.in@gmail.com",
		CurrencyWord: "rupees",
		Signatories: []Signatory{
			{Name: "(Pugalenthi G)", Role: "FOUNDER"},
			{Name: "(Mohan Prasanth N)", Role: "DIRECTOR"},
		},
		TermsTitle: "Terms and Conditions:",
		Terms: []string{
			"• A minimum of 5-10 days will be taken to dispatch the order.",
			"• Defective products must be reported within 24 hours of delivery.",
			"• All prices are in Indian Rupees.",
		},
	}
}

// Load reads a YAML profile from path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}
