package brain

import (
	"context"
	"net/http"

	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/google/uuid"
)

const (
	pathHealth    = "/_healthz"
	pathCompanies = "/routes/companies"
	pathCompany   = "/routes/companies/{company_id}"
)

// Brain exposes the companies API as plain method calls.
type Brain struct {
	client *Client
}

func New(client *Client) *Brain {
	return &Brain{client: client}
}

// CheckHealth calls GET /_healthz.
func (b *Brain) CheckHealth(ctx context.Context) (contracts.HealthResponse, error) {
	return Do[contracts.HealthResponse](ctx, b.client, Request{
		Method: http.MethodGet,
		Path:   pathHealth,
	})
}

// ListCompanies returns every company ordered by name.
func (b *Brain) ListCompanies(ctx context.Context) ([]contracts.CompanyListItem, error) {
	resp, err := Do[contracts.ListCompaniesResponse](ctx, b.client, Request{
		Method: http.MethodGet,
		Path:   pathCompanies,
	})
	if err != nil {
		return nil, err
	}
	if resp.Companies == nil {
		return []contracts.CompanyListItem{}, nil
	}
	return resp.Companies, nil
}

func (b *Brain) CreateCompany(ctx context.Context, req contracts.CreateCompanyRequest) (contracts.Company, error) {
	resp, err := Do[contracts.CompanyResponse](ctx, b.client, Request{
		Method: http.MethodPost,
		Path:   pathCompanies,
		Body:   req,
	})
	return resp.Company, err
}

func (b *Brain) GetCompany(ctx context.Context, id uuid.UUID) (contracts.Company, error) {
	resp, err := Do[contracts.CompanyResponse](ctx, b.client, Request{
		Method:     http.MethodGet,
		Path:       pathCompany,
		PathParams: map[string]string{"company_id": id.String()},
	})
	return resp.Company, err
}

// UpdateCompany sends only the fields set on req.
func (b *Brain) UpdateCompany(ctx context.Context, id uuid.UUID, req contracts.UpdateCompanyRequest) (contracts.Company, error) {
	resp, err := Do[contracts.CompanyResponse](ctx, b.client, Request{
		Method:     http.MethodPut,
		Path:       pathCompany,
		PathParams: map[string]string{"company_id": id.String()},
		Body:       req,
	})
	return resp.Company, err
}

func (b *Brain) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	_, err := Do[struct{}](ctx, b.client, Request{
		Method:     http.MethodDelete,
		Path:       pathCompany,
		PathParams: map[string]string{"company_id": id.String()},
	})
	return err
}
