// Package models contains the storage records for the application,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	domain "github.com/gartstein/crm/internal/company/models"
	"github.com/google/uuid"
)

// Company represents a row of the companies table.
// Deletes are hard deletes, so there is no DeletedAt column.
type Company struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"not null;index"`
	Industry         *string
	Address          *string
	LogoURL          *string `gorm:"column:logo_url"`
	Revenue          *int64
	EmployeeEstimate *int `gorm:"column:employee_estimate;check:employee_estimate >= 0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName pins the table name used by the companies API.
func (Company) TableName() string {
	return "companies"
}

// FromDomain builds a storage record from a domain Company.
func FromDomain(c *domain.Company) *Company {
	return &Company{
		ID:               c.ID,
		Name:             c.Name,
		Industry:         c.Industry,
		Address:          c.Location,
		LogoURL:          c.LogoURL,
		Revenue:          c.Revenue,
		EmployeeEstimate: c.Employees,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ToDomain maps the record back to the domain model. Address and
// employee_estimate surface as Location and Employees.
func (c *Company) ToDomain() *domain.Company {
	return &domain.Company{
		ID:        c.ID,
		Name:      c.Name,
		Industry:  c.Industry,
		Location:  c.Address,
		LogoURL:   c.LogoURL,
		Revenue:   c.Revenue,
		Employees: c.EmployeeEstimate,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// UpdateColumns returns the column set for a partial update. Only fields present
// in the update are included.
func UpdateColumns(u *domain.CompanyUpdate) map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Industry != nil {
		cols["industry"] = *u.Industry
	}
	if u.Location != nil {
		cols["address"] = *u.Location
	}
	if u.LogoURL != nil {
		cols["logo_url"] = *u.LogoURL
	}
	if u.Revenue != nil {
		cols["revenue"] = *u.Revenue
	}
	if u.Employees != nil {
		cols["employee_estimate"] = *u.Employees
	}
	return cols
}
