package test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/crm/internal/company/config"
	"github.com/gartstein/crm/internal/company/controller"
	"github.com/gartstein/crm/internal/company/db"
	e "github.com/gartstein/crm/internal/company/errors"
	"github.com/gartstein/crm/internal/company/events"
	"github.com/gartstein/crm/internal/company/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// configPath is the sample config, relative to this package. DB_* and
// KAFKA_BROKERS environment variables override it.
const configPath = "../../../config/company.yaml"

type IntegrationTestSuite struct {
	suite.Suite
	dbRepo       *db.Repository
	kafkaReader  *kafka.Reader
	producer     *events.Producer
	service      *controller.CompanyService
	logger       *zap.Logger
	testTimeout  time.Duration
	cleanupFuncs []func()
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
	s.testTimeout = 20 * time.Second

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		s.T().Fatal("Config load failed:", err)
	}
	if !cfg.KafkaEnabled() {
		cfg.KafkaBrokers = []string{"localhost:9092"}
	}
	// a fresh topic per run, so every message on it belongs to this suite
	cfg.Topic = "company-events-it-" + uuid.NewString()

	s.dbRepo, err = initializeDBWithRetry(cfg.Database())
	if err != nil {
		s.T().Fatal("Database initialization failed:", err)
	}
	s.cleanupFuncs = append(s.cleanupFuncs, func() { _ = s.dbRepo.Close() })

	s.producer, s.kafkaReader, err = initializeKafkaWithRetry(cfg.KafkaBrokers, cfg.Topic)
	if err != nil {
		s.T().Fatal("Kafka initialization failed:", err)
	}
	s.cleanupFuncs = append(s.cleanupFuncs,
		func() { s.producer.Close() },
		func() { _ = s.kafkaReader.Close() },
	)

	s.service = controller.NewCompanyService(s.dbRepo, s.producer, s.logger)
}

func initializeDBWithRetry(cfg *db.Config) (*db.Repository, error) {
	var repo *db.Repository
	var err error

	err = backoff.Retry(func() error {
		repo, err = db.NewRepository(cfg)
		return err
	}, backoff.NewExponentialBackOff())

	return repo, err
}

func initializeKafkaWithRetry(brokers []string, topic string) (*events.Producer, *kafka.Reader, error) {
	var producer *events.Producer
	err := backoff.Retry(func() error {
		p, err := events.NewProducer(brokers, zap.NewNop(), topic)
		if err != nil {
			return fmt.Errorf("failed to create Kafka producer: %w", err)
		}
		producer = p
		return nil
	}, backoff.NewExponentialBackOff())
	if err != nil {
		return nil, nil, fmt.Errorf("Kafka producer initialization failed: %w", err)
	}

	// Wait for the topic metadata instead of blocking on the first read.
	err = backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", brokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return fmt.Errorf("topic %s not found", topic)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		producer.Close()
		return nil, nil, fmt.Errorf("Kafka topic check failed: %w", err)
	}

	// A group reader covers every partition of the topic.
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     topic + "-reader",
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})

	return producer, reader, nil
}

func (s *IntegrationTestSuite) TearDownSuite() {
	for i := len(s.cleanupFuncs) - 1; i >= 0; i-- {
		s.cleanupFuncs[i]()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	if s.dbRepo == nil || s.service == nil {
		s.T().Fatal("Dependencies not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	if err := s.dbRepo.Exec(ctx, "DELETE FROM companies"); err != nil {
		s.T().Fatal("Failed to clean database:", err)
	}
}

func newCompany(name string) *models.Company {
	return &models.Company{
		Name:      name,
		Industry:  models.Ptr("Software"),
		Location:  models.Ptr("Berlin"),
		Revenue:   models.Ptr(int64(2_500_000)),
		Employees: models.Ptr(40),
	}
}

func (s *IntegrationTestSuite) createCompany(ctx context.Context, name string) *models.Company {
	created, err := s.service.CreateCompany(ctx, newCompany(name))
	if err != nil {
		s.T().Fatal("CreateCompany failed:", err)
	}
	return created
}

func (s *IntegrationTestSuite) TestCompanyCreate() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	created := s.createCompany(ctx, "New Company")

	assert.NotEqual(s.T(), uuid.Nil, created.ID)
	assert.Equal(s.T(), "New Company", created.Name)
	assert.Equal(s.T(), "Berlin", *created.Location)
	assert.Nil(s.T(), created.LogoURL)
	assert.True(s.T(), created.CreatedAt.Equal(created.UpdatedAt))

	fetched, err := s.service.GetCompany(ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.Name, fetched.Name)
	assert.Equal(s.T(), created.Revenue, fetched.Revenue)

	event := s.consumeKafkaEvent(ctx, events.CompanyCreated, created.ID)
	assert.Equal(s.T(), "New Company", event.Company.Name)
	assert.Equal(s.T(), 40, *event.Company.Employees)
}

func (s *IntegrationTestSuite) TestCompanyList() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	for _, name := range []string{"Zeta Labs", "Acme", "Moonshot"} {
		s.createCompany(ctx, name)
	}

	items, err := s.service.ListCompanies(ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 3)
	assert.Equal(s.T(), "Acme", items[0].Name)
	assert.Equal(s.T(), "Moonshot", items[1].Name)
	assert.Equal(s.T(), "Zeta Labs", items[2].Name)
}

func (s *IntegrationTestSuite) TestCompanyUpdate() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	created := s.createCompany(ctx, "New Company")

	newName := "Updated Company"
	updated, err := s.service.UpdateCompany(ctx, &models.CompanyUpdate{
		ID:   created.ID,
		Name: &newName,
	})
	if err != nil {
		s.T().Fatal("UpdateCompany failed:", err)
	}

	assert.Equal(s.T(), newName, updated.Name)
	assert.Equal(s.T(), created.Industry, updated.Industry, "unset fields stay unchanged")
	assert.Equal(s.T(), created.Revenue, updated.Revenue, "unset fields stay unchanged")
	assert.True(s.T(), created.CreatedAt.Equal(updated.CreatedAt))
	assert.False(s.T(), updated.UpdatedAt.Before(created.UpdatedAt))

	event := s.consumeKafkaEvent(ctx, events.CompanyUpdated, created.ID)
	assert.Equal(s.T(), newName, event.Company.Name)
}

func (s *IntegrationTestSuite) TestCompanyUpdateNotFound() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	_, err := s.service.UpdateCompany(ctx, &models.CompanyUpdate{
		ID:   uuid.New(),
		Name: models.Ptr("Ghost"),
	})
	assert.ErrorIs(s.T(), err, e.ErrNotFound)
}

func (s *IntegrationTestSuite) TestCompanyDelete() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	company := s.createCompany(ctx, "To Be Deleted")

	err := s.service.DeleteCompany(ctx, company.ID)
	if err != nil {
		s.T().Fatal("DeleteCompany failed:", err)
	}

	_, err = s.dbRepo.GetCompany(ctx, company.ID)
	assert.ErrorIs(s.T(), err, e.ErrNotFound)
	assert.ErrorIs(s.T(), s.service.DeleteCompany(ctx, company.ID), e.ErrNotFound)
	s.T().Logf("Deleted companyID=%s", company.ID.String())

	event := s.consumeKafkaEvent(ctx, events.CompanyDeleted, company.ID)
	assert.Equal(s.T(), "To Be Deleted", event.Company.Name)
}

// consumeKafkaEvent reads the topic until it finds eventType for companyID.
func (s *IntegrationTestSuite) consumeKafkaEvent(ctx context.Context, eventType events.EventType, companyID uuid.UUID) events.Event {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	const maxRetries = 200
	for attempts := 0; attempts < maxRetries; attempts++ {
		msg, err := s.kafkaReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.T().Fatalf("Timeout: no %s event received after %d attempts", eventType, attempts)
			}
			s.T().Logf("Kafka read attempt %d failed: %v", attempts, err)
			time.Sleep(time.Second)
			continue
		}
		if string(msg.Key) != companyID.String() {
			continue
		}

		var event events.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			s.T().Fatalf("Failed to unmarshal Kafka message: %v", err)
		}
		if event.Type != eventType {
			s.T().Logf("Skipping %s event (expected %s)", event.Type, eventType)
			continue
		}
		assert.Equal(s.T(), companyID, event.Company.ID, "Kafka message company ID mismatch")
		return event
	}
	s.T().Fatalf("Max retry attempts reached for %s", eventType)
	return events.Event{}
}
