// Package models defines the core domain models for the Company entity.
// It includes definitions for Company, CompanyUpdate, and the list projection.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company defines the domain model for a company entity.
type Company struct {
	// ID is the unique identifier for the company. Assigned on create, never changed.
	ID uuid.UUID
	// Name is the company’s name. Never empty.
	Name string
	// Industry is the market the company operates in.
	Industry *string
	// Location is the company's address.
	Location *string
	// LogoURL points at the company logo.
	LogoURL *string
	// Revenue is the yearly revenue.
	Revenue *int64
	// Employees is the estimated head count.
	Employees *int
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time
}

// CompanyListItem is the subset of Company fields shown in list views.
type CompanyListItem struct {
	ID        uuid.UUID
	Name      string
	Industry  *string
	Location  *string
	LogoURL   *string
	Employees *int
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates: nil leaves the stored value untouched.
type CompanyUpdate struct {
	// ID is the unique identifier for the company to update.
	ID        uuid.UUID
	Name      *string
	Industry  *string
	Location  *string
	LogoURL   *string
	Revenue   *int64
	Employees *int
}

// Empty reports whether the update carries no field to change.
func (u *CompanyUpdate) Empty() bool {
	return u.Name == nil && u.Industry == nil && u.Location == nil &&
		u.LogoURL == nil && u.Revenue == nil && u.Employees == nil
}

// ListItem projects a Company onto its list view.
func (c *Company) ListItem() CompanyListItem {
	return CompanyListItem{
		ID:        c.ID,
		Name:      c.Name,
		Industry:  c.Industry,
		Location:  c.Location,
		LogoURL:   c.LogoURL,
		Employees: c.Employees,
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
