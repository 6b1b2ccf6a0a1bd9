package dto

import (
	"time"

	"github.com/talentforge/crm-api/internal/models"
)

// CompanyCreateRequest captures a new company payload.
type CompanyCreateRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Industry string `json:"industry" validate:"omitempty,max=128"`
	Website  string `json:"website" validate:"omitempty,url,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=64"`
	City     string `json:"city" validate:"omitempty,max=128"`
	Status   string `json:"status" validate:"omitempty,oneof=lead prospect customer churned"`
}

// CompanyUpdateRequest captures a partial company update.
type CompanyUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=255"`
	Industry *string `json:"industry" validate:"omitempty,max=128"`
	Website  *string `json:"website" validate:"omitempty,url,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=64"`
	City     *string `json:"city" validate:"omitempty,max=128"`
	Status   *string `json:"status" validate:"omitempty,oneof=lead prospect customer churned"`
}

// CompanyStatusRequest captures an explicit status transition.
type CompanyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=lead prospect customer churned"`
}

// CompanyListRequest defines filters for listing companies.
type CompanyListRequest struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// CompanyResponse serializes a company.
type CompanyResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	Website   string    `json:"website"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse wraps a paginated company listing.
type CompanyListResponse struct {
	Items      []CompanyResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewCompanyResponse converts a company model into a DTO.
func NewCompanyResponse(company models.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		Industry:  company.Industry,
		Website:   company.Website,
		Phone:     company.Phone,
		City:      company.City,
		Status:    company.Status,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
}
