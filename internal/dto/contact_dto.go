package dto

import (
	"time"

	"github.com/talentforge/crm-api/internal/models"
)

// ContactCreateRequest captures a new contact payload.
type ContactCreateRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=128"`
	LastName  string `json:"last_name" validate:"required,min=1,max=128"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Phone     string `json:"phone" validate:"omitempty,max=64"`
	Position  string `json:"position" validate:"omitempty,max=128"`
	CompanyID *uint  `json:"company_id"`
}

// ContactUpdateRequest captures a partial contact update.
type ContactUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=128"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=128"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=64"`
	Position  *string `json:"position" validate:"omitempty,max=128"`
	CompanyID *uint   `json:"company_id"`
}

// ContactListRequest defines filters for listing contacts.
type ContactListRequest struct {
	Page      int
	PageSize  int
	Search    string
	CompanyID *uint
}

// ContactResponse serializes a contact.
type ContactResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Position  string    `json:"position"`
	CompanyID *uint     `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactListResponse wraps a paginated contact listing.
type ContactListResponse struct {
	Items      []ContactResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewContactResponse converts a contact model into a DTO.
func NewContactResponse(contact models.Contact) ContactResponse {
	return ContactResponse{
		ID:        contact.ID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Position:  contact.Position,
		CompanyID: contact.CompanyID,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
}
