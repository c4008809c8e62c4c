// internal/services/testutil_test.go
package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shackcart/backoffice/internal/config"
	"github.com/shackcart/backoffice/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.CustomerAccount{},
		&models.StoreCategory{},
		&models.Product{},
		&models.ProductModifier{},
		&models.ProductModifierItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 24,
		},
		Payment: config.PaymentConfig{
			DefaultCurrency: "usd",
			MinimumCharge:   0.5,
		},
		Email: config.EmailConfig{
			FromEmail:    "contact@shackcart.test",
			FromName:     "Arepa Venezuelan Kitchen",
			ContactEmail: "inbox@shackcart.test",
		},
		Frontend: config.FrontendConfig{
			BaseURL: "https://shop.example.com",
		},
	}
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*MailMessage
	err  error
}

func (m *fakeMailer) Send(msg *MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) last() *MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return m.sent[len(m.sent)-1]
}

type fakeGeoLocator struct {
	calls  int
	coords *models.Coordinates
	err    error
}

func (g *fakeGeoLocator) ReverseLookup(ctx context.Context, ip string) (*models.Coordinates, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.coords, nil
}

type fakeContentCache struct {
	data map[string]string
	err  error
}

func (c *fakeContentCache) Get(ctx context.Context, key string) (string, bool, error) {
	if c.err != nil {
		return "", false, c.err
	}
	value, ok := c.data[key]
	return value, ok, nil
}

func (c *fakeContentCache) Set(ctx context.Context, key, value string) error {
	if c.data == nil {
		c.data = make(map[string]string)
	}
	c.data[key] = value
	return nil
}
