//go:build integration

package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	salesapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/partner"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/pricing"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/migration"
	"github.com/bcaiza/invoicePtoducts-sub000/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway postgres container and applies the
// embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := Open(ctx, &config.DatabaseConfig{
		Host:         host,
		Port:         port.Int(),
		User:         "postgres",
		Password:     "postgres",
		DBName:       "pos_test",
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	}, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.NewFromFS(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db.DB
}

func TestPostgres_ConcurrentInvoicesNeverOversell(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	customer, err := partner.NewCustomer("Consumidor Final", "9999999999", partner.ContactInfo{})
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(ctx, customer))

	cake := seedProduct(t, db, "TORTA", "15.00", 5)

	assembler := pricing.NewInvoiceAssembler(nil, pricing.NewPromotionEngine(pricing.StackAll), dec("0.15"))
	coordinator := salesapp.NewStockFulfillmentCoordinator(NewGormTransactionScope(db), assembler, nil, zap.NewNop())

	const buyers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := coordinator.CreateInvoice(ctx, salesapp.CreateInvoiceCommand{
				Draft: pricing.AssembleInput{
					CustomerID:    customer.ID,
					InvoiceNumber: fmt.Sprintf("C-%03d", n),
					Lines:         []pricing.LineRequest{{ProductID: cake.ID, Quantity: dec("1")}},
					TaxEnabled:    true,
				},
				PaymentMethod: sales.PaymentMethodCash,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, buyers-5, rejected)
	assert.Equal(t, int64(0), stockOf(t, db, cake.ID))

	count, err := NewGormInvoiceRepository(db).Count(ctx, sales.InvoiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	err = NewGormProductRepository(db).Delete(ctx, cake.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_IN_USE", domainErr.Code)
}

func TestPostgres_MigrationsRoundTrip(t *testing.T) {
	db := newPostgresDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := migration.NewFromFS(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(4), version)

	require.NoError(t, m.Down())
	assert.False(t, db.Migrator().HasTable("invoices"))
	require.NoError(t, m.Up())
	assert.True(t, db.Migrator().HasTable("invoices"))
}
