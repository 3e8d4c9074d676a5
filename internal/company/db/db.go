package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbmodels "github.com/gartstein/crm/internal/company/db/models"
	e "github.com/gartstein/crm/internal/company/errors"
	"github.com/gartstein/crm/internal/company/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file for the sqlite driver.
	Path string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&dbmodels.Company{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return newRepository(db), nil
}

func newRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func dialectorFor(cfg *Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = "file::memory:?cache=shared"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// storageNow truncates to microseconds, the precision postgres keeps, so a
// returned record matches what a later read sees.
func storageNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (r *Repository) ListCompanies(ctx context.Context) ([]models.CompanyListItem, error) {
	var records []dbmodels.Company
	result := r.db.WithContext(ctx).
		Select("id", "name", "industry", "address", "logo_url", "employee_estimate").
		Order("name ASC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]models.CompanyListItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].ToDomain().ListItem())
	}
	return items, nil
}

// CreateCompany inserts the company and fills in its timestamps.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	now := storageNow()
	company.CreatedAt = now
	company.UpdatedAt = now

	result := r.db.WithContext(ctx).Create(dbmodels.FromDomain(company))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company dbmodels.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return company.ToDomain(), nil
}

// UpdateCompany writes only the fields set on update, plus updated_at.
func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	cols := dbmodels.UpdateColumns(update)
	if len(cols) == 0 {
		return e.ErrNoUpdateFields
	}
	cols["updated_at"] = storageNow()

	result := r.db.WithContext(ctx).Model(&dbmodels.Company{}).
		Where("id = ?", update.ID).
		Updates(cols)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// Ping checks that the underlying connection is usable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
