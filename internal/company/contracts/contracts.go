// Package contracts holds the JSON shapes exchanged between the companies API
// and its clients. Field names are the wire names: location and employees are
// used throughout, whatever the storage columns are called.
package contracts

import (
	"time"

	"github.com/gartstein/crm/internal/company/models"
	"github.com/google/uuid"
)

// Company is the full company record.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Industry  *string   `json:"industry"`
	Location  *string   `json:"location"`
	LogoURL   *string   `json:"logoUrl"`
	Revenue   *int64    `json:"revenue"`
	Employees *int      `json:"employees"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompanyListItem is the projection returned by the list endpoint.
type CompanyListItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Industry  *string   `json:"industry"`
	Location  *string   `json:"location"`
	LogoURL   *string   `json:"logoUrl"`
	Employees *int      `json:"employees"`
}

// CreateCompanyRequest is the body of POST /routes/companies.
type CreateCompanyRequest struct {
	Name      string  `json:"name" validate:"required,notblank,max=255"`
	Industry  string  `json:"industry" validate:"required,notblank,max=255"`
	Location  string  `json:"location" validate:"required,notblank,max=255"`
	LogoURL   *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	Revenue   *int64  `json:"revenue,omitempty" validate:"omitempty,gt=0"`
	Employees *int    `json:"employees,omitempty" validate:"omitempty,gt=0"`
}

// UpdateCompanyRequest is the body of PUT /routes/companies/{company_id}.
// Absent and null fields leave the stored value unchanged.
type UpdateCompanyRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	Industry  *string `json:"industry,omitempty" validate:"omitempty,notblank,max=255"`
	Location  *string `json:"location,omitempty" validate:"omitempty,notblank,max=255"`
	LogoURL   *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	Revenue   *int64  `json:"revenue,omitempty" validate:"omitempty,gt=0"`
	Employees *int    `json:"employees,omitempty" validate:"omitempty,gt=0"`
}

type ListCompaniesResponse struct {
	Companies []CompanyListItem `json:"companies"`
}

// CompanyResponse wraps a single company for get, create and update.
type CompanyResponse struct {
	Company Company `json:"company"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ValidationError describes one rejected input. Loc is the path to the
// offending value, e.g. ["body", "name"].
type ValidationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// HTTPValidationError is the 422 response body.
type HTTPValidationError struct {
	Detail []ValidationError `json:"detail"`
}

// ErrorResponse is the body of every other non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewCompany converts a domain company to its wire form.
func NewCompany(c *models.Company) Company {
	return Company{
		ID:        c.ID,
		Name:      c.Name,
		Industry:  c.Industry,
		Location:  c.Location,
		LogoURL:   c.LogoURL,
		Revenue:   c.Revenue,
		Employees: c.Employees,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewCompanyListItem converts a domain list item to its wire form.
func NewCompanyListItem(c models.CompanyListItem) CompanyListItem {
	return CompanyListItem{
		ID:        c.ID,
		Name:      c.Name,
		Industry:  c.Industry,
		Location:  c.Location,
		LogoURL:   c.LogoURL,
		Employees: c.Employees,
	}
}
