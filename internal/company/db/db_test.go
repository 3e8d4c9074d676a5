package db

import (
	"context"
	"testing"

	dbmodels "github.com/gartstein/crm/internal/company/db/models"
	e "github.com/gartstein/crm/internal/company/errors"
	"github.com/gartstein/crm/internal/company/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to :memory: would get its own empty database
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&dbmodels.Company{})
	require.NoError(t, err, "failed to migrate test database")

	return newRepository(db)
}

func newCompany(name string) *models.Company {
	return &models.Company{
		ID:        uuid.New(),
		Name:      name,
		Industry:  models.Ptr("Tech"),
		Location:  models.Ptr("SF"),
		Employees: models.Ptr(10),
	}
}

// TestCreateCompany tests the creation of a company record.
func TestCreateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := newCompany("Acme")
	company.Revenue = models.Ptr(int64(1_000_000))
	company.LogoURL = models.Ptr("https://acme.test/logo.png")

	err := repo.CreateCompany(ctx, company)
	require.NoError(t, err, "CreateCompany should not return an error")
	assert.False(t, company.CreatedAt.IsZero(), "CreatedAt should be set")
	assert.Equal(t, company.CreatedAt, company.UpdatedAt, "timestamps should match on create")

	retrieved, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err, "GetCompany should retrieve the created company")
	assert.Equal(t, company.Name, retrieved.Name)
	assert.Equal(t, company.Industry, retrieved.Industry)
	assert.Equal(t, company.Location, retrieved.Location)
	assert.Equal(t, company.LogoURL, retrieved.LogoURL)
	assert.Equal(t, company.Revenue, retrieved.Revenue)
	assert.Equal(t, company.Employees, retrieved.Employees)
	assert.True(t, company.CreatedAt.Equal(retrieved.CreatedAt), "CreatedAt should round-trip")
}

// TestGetCompanyNotFound verifies error handling when the company does not exist.
func TestGetCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound, "GetCompany should return ErrNotFound for non-existent company")
}

func TestListCompaniesOrderedByName(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Acme", "Moon"} {
		require.NoError(t, repo.CreateCompany(ctx, newCompany(name)))
	}

	items, err := repo.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Acme", items[0].Name)
	assert.Equal(t, "Moon", items[1].Name)
	assert.Equal(t, "Zeta", items[2].Name)
	assert.Equal(t, "SF", *items[0].Location)
	assert.Equal(t, 10, *items[0].Employees)
}

func TestListCompaniesEmpty(t *testing.T) {
	repo := SetupTestDB(t)

	items, err := repo.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

// TestUpdateCompany checks that only the set fields change.
func TestUpdateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := newCompany("Old Name")
	require.NoError(t, repo.CreateCompany(ctx, company), "CreateCompany should succeed")

	update := &models.CompanyUpdate{
		ID:   company.ID,
		Name: models.Ptr("New Name"),
	}

	err := repo.UpdateCompany(ctx, update)
	assert.NoError(t, err, "UpdateCompany should not return an error")

	updated, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err, "GetCompany should succeed")
	assert.Equal(t, "New Name", updated.Name, "Company name should be updated")
	assert.Equal(t, "Tech", *updated.Industry, "unset fields stay unchanged")
	assert.Equal(t, "SF", *updated.Location, "unset fields stay unchanged")
	assert.Equal(t, 10, *updated.Employees, "unset fields stay unchanged")
	assert.True(t, company.CreatedAt.Equal(updated.CreatedAt), "CreatedAt never changes")
	assert.False(t, updated.UpdatedAt.Before(company.UpdatedAt))
}

func TestUpdateCompanyNoFields(t *testing.T) {
	repo := SetupTestDB(t)

	err := repo.UpdateCompany(context.Background(), &models.CompanyUpdate{ID: uuid.New()})
	assert.ErrorIs(t, err, e.ErrNoUpdateFields)
}

// TestUpdateCompanyNotFound tests updating a non-existing company.
func TestUpdateCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	update := &models.CompanyUpdate{
		ID:   uuid.New(),
		Name: models.Ptr("Non-existent"),
	}

	err := repo.UpdateCompany(context.Background(), update)
	assert.ErrorIs(t, err, e.ErrNotFound, "UpdateCompany should return ErrNotFound for missing company")
}

// TestDeleteCompany ensures companies are deleted correctly.
func TestDeleteCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := newCompany("To Be Deleted")
	require.NoError(t, repo.CreateCompany(ctx, company), "CreateCompany should succeed")

	err := repo.DeleteCompany(ctx, company.ID)
	assert.NoError(t, err, "DeleteCompany should not return an error")

	_, err = repo.GetCompany(ctx, company.ID)
	assert.ErrorIs(t, err, e.ErrNotFound, "Deleted company should not be found")

	items, err := repo.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "Deleted company should not be listed")
}

// TestDeleteCompanyNotFound checks behavior when trying to delete a non-existent company.
func TestDeleteCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	err := repo.DeleteCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound, "DeleteCompany should return ErrNotFound for missing company")
}

func TestPing(t *testing.T) {
	repo := SetupTestDB(t)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestNewRepositorySQLite(t *testing.T) {
	repo, err := NewRepository(&Config{Driver: DriverSQLite, Path: t.TempDir() + "/crm.db"})
	require.NoError(t, err)
	defer repo.Close()

	assert.NoError(t, repo.CreateCompany(context.Background(), newCompany("Acme")))
}

func TestNewRepositoryUnknownDriver(t *testing.T) {
	_, err := NewRepository(&Config{Driver: "oracle"})
	assert.Error(t, err)
}
