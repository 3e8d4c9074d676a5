// Package controller implements the core business logic (service layer)
// for managing Company entities, orchestrating repository operations
// and sending relevant events.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gartstein/crm/internal/company/auth"
	e "github.com/gartstein/crm/internal/company/errors"
	"github.com/gartstein/crm/internal/company/events"
	"github.com/gartstein/crm/internal/company/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, company *models.Company)
}

// Repository defines the storage interface for Company objects.
type Repository interface {
	ListCompanies(ctx context.Context) ([]models.CompanyListItem, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
	Close() error
}

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// ListCompanies returns every company ordered by name.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.CompanyListItem, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// CreateCompany validates the company, assigns it a new ID, stores it and
// returns the stored record. A creation event is triggered.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	company.Name = strings.TrimSpace(company.Name)
	if company.Name == "" {
		return nil, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	if err := validateCounts(company.Revenue, company.Employees); err != nil {
		return nil, err
	}

	company.ID = uuid.New()
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	created, err := s.repo.GetCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read created company: %w", err)
	}

	s.logger.Info("Company created", zap.String("company_id", created.ID.String()), actor(ctx))
	go func() {
		s.producer.Produce(events.CompanyCreated, created)
	}()
	return created, nil
}

// GetCompany retrieves a Company by ID, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// UpdateCompany modifies the specified Company fields,
// then fetches the updated version for returning and event production.
// Fields left nil in update keep their stored value.
func (s *CompanyService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if update.Empty() {
		return nil, e.ErrNoUpdateFields
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", e.ErrInvalidInput)
		}
		update.Name = &name
	}
	if err := validateCounts(update.Revenue, update.Employees); err != nil {
		return nil, err
	}

	err := s.repo.UpdateCompany(ctx, update)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrNoUpdateFields) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	updated, err := s.repo.GetCompany(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get company for event",
			zap.Error(err),
			zap.String("company_id", update.ID.String()),
		)
		return nil, err
	}

	s.logger.Info("Company updated", zap.String("company_id", updated.ID.String()), actor(ctx))
	go func() {
		s.producer.Produce(events.CompanyUpdated, updated)
	}()
	return updated, nil
}

// DeleteCompany removes a Company by ID and fires a deletion event.
func (s *CompanyService) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.logger.Info("Company deleted", zap.String("company_id", id.String()), actor(ctx))
	go func() {
		s.producer.Produce(events.CompanyDeleted, company)
	}()
	return nil
}

// Health reports whether the storage backend is reachable.
func (s *CompanyService) Health(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

// actor names the authenticated caller, if any.
func actor(ctx context.Context) zap.Field {
	if id, ok := auth.UserID(ctx); ok {
		return zap.String("user_id", id)
	}
	return zap.Skip()
}

func validateCounts(revenue *int64, employees *int) error {
	if revenue != nil && *revenue <= 0 {
		return fmt.Errorf("%w: revenue must be positive", e.ErrInvalidInput)
	}
	if employees != nil && *employees <= 0 {
		return fmt.Errorf("%w: employees must be positive", e.ErrInvalidInput)
	}
	return nil
}
