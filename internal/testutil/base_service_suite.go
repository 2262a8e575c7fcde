package testutil

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/cache"
	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/lock"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/flexprice/paymirror/internal/validator"
	"github.com/stretchr/testify/suite"
)

const (
	TestClientID      = "client_test"
	TestClientToken   = "client-token"
	TestProviderToken = "provider-token"
)

// Stores holds the in-memory repositories for testing
type Stores struct {
	WebhookEventRepo   *InMemoryWebhookEventStore
	PlanRepo           *InMemoryPlanStore
	AgreementRepo      *InMemoryAgreementStore
	PaymentRepo        *InMemoryPaymentStore
	SaleRepo           *InMemorySaleStore
	AuthorizationRepo  *InMemoryAuthorizationStore
	CaptureRepo        *InMemoryCaptureStore
	RefundRepo         *InMemoryRefundStore
	TransactionLogRepo *InMemoryTransactionLogStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	stores  Stores
	db      *MockPostgresClient
	locker  lock.Locker
	cache   cache.Cache
	gateway *MockGateway
	logger  *logger.Logger
	config  *config.Configuration
	now     time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUID())
	s.ctx = types.SetClientID(s.ctx, TestClientID)
	s.ctx = types.SetClientToken(s.ctx, TestClientToken)
	s.ctx = types.SetProviderToken(s.ctx, TestProviderToken)
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		WebhookEventRepo:   NewInMemoryWebhookEventStore(),
		PlanRepo:           NewInMemoryPlanStore(),
		AgreementRepo:      NewInMemoryAgreementStore(),
		PaymentRepo:        NewInMemoryPaymentStore(),
		SaleRepo:           NewInMemorySaleStore(),
		AuthorizationRepo:  NewInMemoryAuthorizationStore(),
		CaptureRepo:        NewInMemoryCaptureStore(),
		RefundRepo:         NewInMemoryRefundStore(),
		TransactionLogRepo: NewInMemoryTransactionLogStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.locker = lock.NewKeyedMutex()
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
	s.gateway = NewMockGateway()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.WebhookEventRepo.Clear()
	s.stores.PlanRepo.Clear()
	s.stores.AgreementRepo.Clear()
	s.stores.PaymentRepo.Clear()
	s.stores.SaleRepo.Clear()
	s.stores.AuthorizationRepo.Clear()
	s.stores.CaptureRepo.Clear()
	s.stores.RefundRepo.Clear()
	s.stores.TransactionLogRepo.Clear()
	s.cache.Flush(context.Background())
	s.gateway.Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetLocker returns the per-resource locker
func (s *BaseServiceTestSuite) GetLocker() lock.Locker {
	return s.locker
}

// GetCache returns the seen-event cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetGateway returns the mock provider gateway
func (s *BaseServiceTestSuite) GetGateway() *MockGateway {
	return s.gateway
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
