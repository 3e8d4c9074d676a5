// Package form validates company input on the client and submits it through
// the API facade.
package form

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gartstein/crm/internal/brain"
	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/gartstein/crm/internal/company/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	MsgCreated        = "Company created."
	MsgUpdated        = "Company updated."
	MsgCheckForm      = "Please check the form and try again."
	MsgSubmitFailed   = "Something went wrong while saving the company."
	MsgAlreadyPending = "A save is already in progress."
)

// ErrInvalid is returned by Submit when client-side validation fails. The
// concrete error is a FieldErrors.
var ErrInvalid = errors.New("form has invalid fields")

// ErrBusy is returned by Submit while another submission is in flight.
var ErrBusy = errors.New("submission in progress")

// Values holds the raw text of every input.
type Values struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	Industry  string `json:"industry" validate:"required,min=2,max=255"`
	Location  string `json:"location" validate:"required,min=2,max=255"`
	LogoURL   string `json:"logoUrl" validate:"omitempty,url"`
	Revenue   string `json:"revenue" validate:"omitempty,posint"`
	Employees string `json:"employees" validate:"omitempty,posint"`
}

func (v Values) trimmed() Values {
	return Values{
		Name:      strings.TrimSpace(v.Name),
		Industry:  strings.TrimSpace(v.Industry),
		Location:  strings.TrimSpace(v.Location),
		LogoURL:   strings.TrimSpace(v.LogoURL),
		Revenue:   strings.TrimSpace(v.Revenue),
		Employees: strings.TrimSpace(v.Employees),
	}
}

// FromCompany prefills the edit form from a stored record.
func FromCompany(c contracts.Company) Values {
	v := Values{
		Name:     c.Name,
		Industry: deref(c.Industry),
		Location: deref(c.Location),
		LogoURL:  deref(c.LogoURL),
	}
	if c.Revenue != nil {
		v.Revenue = strconv.FormatInt(*c.Revenue, 10)
	}
	if c.Employees != nil {
		v.Employees = strconv.Itoa(*c.Employees)
	}
	return v
}

// FieldErrors maps an input name (name, industry, location, logoUrl, revenue,
// employees) to its inline message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) Is(target error) bool {
	return target == ErrInvalid
}

// Notifier shows the outcome of a submission to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// API is the part of the facade the form needs.
type API interface {
	CreateCompany(ctx context.Context, req contracts.CreateCompanyRequest) (contracts.Company, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, req contracts.UpdateCompanyRequest) (contracts.Company, error)
}

// CompanyForm creates a company, or edits one when CompanyID is set.
type CompanyForm struct {
	API       API
	CompanyID *uuid.UUID
	Values    Values
	// OnSuccess receives the record the server returned.
	OnSuccess func(contracts.Company)
	Notifier  Notifier

	mu         sync.Mutex
	submitting bool
	validate   *validator.Validate
}

// EditMode reports whether Submit updates an existing company.
func (f *CompanyForm) EditMode() bool {
	return f.CompanyID != nil
}

func (f *CompanyForm) inFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Validate checks Values without touching the network. It returns nil when
// every field is acceptable.
func (f *CompanyForm) Validate() FieldErrors {
	if f.validate == nil {
		f.validate = validation.New()
	}

	values := f.Values.trimmed()
	err := f.validate.Struct(&values)
	if err == nil {
		return nil
	}

	errs := FieldErrors{}
	for _, d := range validation.Details(err) {
		if len(d.Loc) == 0 {
			continue
		}
		field := d.Loc[len(d.Loc)-1]
		if _, seen := errs[field]; !seen {
			errs[field] = d.Msg
		}
	}
	return errs
}

// Submit validates, then creates or updates the company. Invalid input never
// reaches the API. Failures are reported through Notifier and returned.
func (f *CompanyForm) Submit(ctx context.Context) (contracts.Company, error) {
	if errs := f.Validate(); errs != nil {
		return contracts.Company{}, errs
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		f.notifyError(MsgAlreadyPending)
		return contracts.Company{}, ErrBusy
	}
	f.submitting = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	values := f.Values.trimmed()
	var (
		saved contracts.Company
		err   error
		msg   string
	)
	if f.EditMode() {
		saved, err = f.API.UpdateCompany(ctx, *f.CompanyID, updatePayload(values))
		msg = MsgUpdated
	} else {
		saved, err = f.API.CreateCompany(ctx, createPayload(values))
		msg = MsgCreated
	}
	if err != nil {
		if brain.IsValidation(err) {
			f.notifyError(MsgCheckForm)
		} else {
			f.notifyError(MsgSubmitFailed)
		}
		return contracts.Company{}, fmt.Errorf("failed to save company: %w", err)
	}

	if f.Notifier != nil {
		f.Notifier.Success(msg)
	}
	if f.OnSuccess != nil {
		f.OnSuccess(saved)
	}
	return saved, nil
}

func (f *CompanyForm) notifyError(msg string) {
	if f.Notifier != nil {
		f.Notifier.Error(msg)
	}
}

func createPayload(v Values) contracts.CreateCompanyRequest {
	return contracts.CreateCompanyRequest{
		Name:      v.Name,
		Industry:  v.Industry,
		Location:  v.Location,
		LogoURL:   optional(v.LogoURL),
		Revenue:   optionalInt64(v.Revenue),
		Employees: optionalInt(v.Employees),
	}
}

// updatePayload sends every non-empty field. Empty optional fields are null,
// which the server treats as unchanged.
func updatePayload(v Values) contracts.UpdateCompanyRequest {
	return contracts.UpdateCompanyRequest{
		Name:      optional(v.Name),
		Industry:  optional(v.Industry),
		Location:  optional(v.Location),
		LogoURL:   optional(v.LogoURL),
		Revenue:   optionalInt64(v.Revenue),
		Employees: optionalInt(v.Employees),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optionalInt64 and optionalInt only see input that passed posint.
func optionalInt64(s string) *int64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
