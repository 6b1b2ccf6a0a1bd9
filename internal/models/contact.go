package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact is a person attached to a company.
type Contact struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"size:128;not null" json:"first_name"`
	LastName  string         `gorm:"size:128;not null" json:"last_name"`
	Email     string         `gorm:"size:255;index" json:"email"`
	Phone     string         `gorm:"size:64" json:"phone"`
	Position  string         `gorm:"size:128" json:"position"`
	CompanyID *uint          `gorm:"index" json:"company_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName joins the first and last name.
func (c *Contact) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Ref implements Auditable.
func (c *Contact) Ref() EntityRef {
	return EntityRef{Kind: KindContact, ID: c.ID}
}

// Label implements Auditable.
func (c *Contact) Label() string {
	return "contact " + c.FullName()
}

// AuditAttributes implements Auditable.
func (c *Contact) AuditAttributes() map[string]interface{} {
	attrs := map[string]interface{}{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"email":      c.Email,
		"phone":      c.Phone,
		"position":   c.Position,
	}
	if c.CompanyID != nil {
		attrs["company_id"] = *c.CompanyID
	} else {
		attrs["company_id"] = nil
	}
	return attrs
}

// RelatedRefs implements Auditable.
func (c *Contact) RelatedRefs() []EntityRef {
	return nil
}
