package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/crm/internal/company/contracts"
	"github.com/gartstein/crm/internal/company/models"
	"github.com/gartstein/crm/internal/company/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface
// that the HTTP handlers will invoke.
type CompanyController interface {
	ListCompanies(ctx context.Context) ([]models.CompanyListItem, error)
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	Health(ctx context.Context) error
}

// CompanyHandler provides the REST endpoints for Company operations,
// mapping requests to a CompanyController.
type CompanyHandler struct {
	service  CompanyController
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCompanyHandler constructs a new CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service:  service,
		validate: validation.New(),
		logger:   logger.Named("http_handler"),
	}
}

// Health answers GET /_healthz.
func (h *CompanyHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Health(r.Context()); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, contracts.HealthResponse{Status: "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, contracts.HealthResponse{Status: "healthy"})
}

// ListCompanies answers GET /routes/companies.
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		h.mapServiceError(w, err)
		return
	}

	resp := contracts.ListCompaniesResponse{
		Companies: make([]contracts.CompanyListItem, 0, len(companies)),
	}
	for _, c := range companies {
		resp.Companies = append(resp.Companies, contracts.NewCompanyListItem(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateCompany answers POST /routes/companies.
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateCompanyRequest
	if details := decodeBody(r, &req); details != nil {
		writeValidation(w, details)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidation(w, validation.Details(err, "body"))
		return
	}

	created, err := h.service.CreateCompany(r.Context(), createRequestToModel(&req))
	if err != nil {
		h.logger.Error("Create company failed", zap.Error(err))
		h.mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contracts.CompanyResponse{Company: contracts.NewCompany(created)})
}

// GetCompany answers GET /routes/companies/{company_id}.
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, details := parseCompanyID(chi.URLParam(r, "company_id"))
	if details != nil {
		writeValidation(w, details)
		return
	}

	company, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		h.mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contracts.CompanyResponse{Company: contracts.NewCompany(company)})
}

// UpdateCompany answers PUT /routes/companies/{company_id}. Only the fields
// present in the body change.
func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, details := parseCompanyID(chi.URLParam(r, "company_id"))
	if details != nil {
		writeValidation(w, details)
		return
	}

	var req contracts.UpdateCompanyRequest
	if details := decodeBody(r, &req); details != nil {
		writeValidation(w, details)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidation(w, validation.Details(err, "body"))
		return
	}

	updated, err := h.service.UpdateCompany(r.Context(), updateRequestToModel(&req, id))
	if err != nil {
		h.mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contracts.CompanyResponse{Company: contracts.NewCompany(updated)})
}

// DeleteCompany answers DELETE /routes/companies/{company_id}.
func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, details := parseCompanyID(chi.URLParam(r, "company_id"))
	if details != nil {
		writeValidation(w, details)
		return
	}

	if err := h.service.DeleteCompany(r.Context(), id); err != nil {
		h.mapServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
