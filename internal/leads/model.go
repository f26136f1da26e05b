// Package leads accepts the two direct lead forms on the page: the satellite
// audit request and the package purchase intent. Both feed the forms gateway
// and end in a WhatsApp handoff.
package leads

import (
	"strings"

	"github.com/solargearltd/solar-platform/internal/leadgate"
)

// AuditRequest is the satellite audit form.
type AuditRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	HomeType    string `json:"home_type,omitempty"`
	MonthlyBill string `json:"monthly_bill,omitempty"`
	Notes       string `json:"notes,omitempty"`
	VisitorID   string `json:"visitor_id,omitempty"`
}

// Validate checks the required fields.
func (r AuditRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(r.Phone) == "":
		return ErrPhoneRequired
	case strings.TrimSpace(r.Location) == "":
		return ErrLocationRequired
	}
	return nil
}

// payload converts the form into a gateway submission.
func (r AuditRequest) payload() leadgate.Payload {
	p := leadgate.Payload{
		"fullName":    strings.TrimSpace(r.Name),
		"phoneNumber": strings.TrimSpace(r.Phone),
		"location":    strings.TrimSpace(r.Location),
		"lead_type":   "Satellite Audit",
	}
	if r.HomeType != "" {
		p["homeType"] = r.HomeType
	}
	if r.MonthlyBill != "" {
		p["monthlyBill"] = r.MonthlyBill
	}
	if r.Notes != "" {
		p["notes"] = r.Notes
	}
	return p
}

// PurchaseRequest is the purchase intent form opened from a package card.
type PurchaseRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Package   string `json:"package"`
	VisitorID string `json:"visitor_id,omitempty"`
}

// Validate checks the required fields.
func (r PurchaseRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return ErrNameRequired
	case strings.TrimSpace(r.Phone) == "":
		return ErrPhoneRequired
	case strings.TrimSpace(r.Package) == "":
		return ErrPackageRequired
	}
	return nil
}

// payload matches the forms backend's purchase contract: bare name, phone
// and package keys, unlike the audit form's fullName/phoneNumber shape.
func (r PurchaseRequest) payload() leadgate.Payload {
	return leadgate.Payload{
		"name":    strings.TrimSpace(r.Name),
		"phone":   strings.TrimSpace(r.Phone),
		"package": strings.TrimSpace(r.Package),
	}
}
