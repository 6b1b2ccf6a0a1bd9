package models

import (
	"time"

	"gorm.io/gorm"
)

// Company lifecycle statuses.
const (
	CompanyStatusLead     = "lead"
	CompanyStatusProspect = "prospect"
	CompanyStatusCustomer = "customer"
	CompanyStatusChurned  = "churned"
)

// CompanyStatusLabel maps a status value to its human-readable form.
func CompanyStatusLabel(status string) string {
	switch status {
	case CompanyStatusLead:
		return "Lead"
	case CompanyStatusProspect:
		return "Prospect"
	case CompanyStatusCustomer:
		return "Customer"
	case CompanyStatusChurned:
		return "Churned"
	default:
		return status
	}
}

// Company is a client or prospect organization in the CRM.
type Company struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null;index" json:"name"`
	Industry  string         `gorm:"size:128" json:"industry"`
	Website   string         `gorm:"size:255" json:"website"`
	Phone     string         `gorm:"size:64" json:"phone"`
	City      string         `gorm:"size:128" json:"city"`
	Status    string         `gorm:"size:32;not null;default:lead;index" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Ref implements Auditable.
func (c *Company) Ref() EntityRef {
	return EntityRef{Kind: KindCompany, ID: c.ID}
}

// Label implements Auditable.
func (c *Company) Label() string {
	return "company " + c.Name
}

// AuditAttributes implements Auditable. Timestamps are deliberately excluded.
func (c *Company) AuditAttributes() map[string]interface{} {
	return map[string]interface{}{
		"name":     c.Name,
		"industry": c.Industry,
		"website":  c.Website,
		"phone":    c.Phone,
		"city":     c.City,
		"status":   c.Status,
	}
}

// RelatedRefs implements Auditable.
func (c *Company) RelatedRefs() []EntityRef {
	return nil
}
