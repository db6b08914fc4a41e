package service

import (
	"fmt"
	"testing"

	"poolside/internal/domain"
	"poolside/internal/models"
	"poolside/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// countingMailer records how many confirmations were sent; the reconciler
// must fire it exactly once per paid order no matter how many times the
// gateway delivers.
type countingMailer struct {
	confirmations int
	contacts      int
}

func (m *countingMailer) SendOrderConfirmation(order *models.Order) error {
	m.confirmations++
	return nil
}

func (m *countingMailer) SendContactNotification(msg *models.ContactMessage) error {
	m.contacts++
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// one connection, or each pooled conn would see its own empty :memory: db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuditLog{},
	))
	return db
}

type fixture struct {
	db      *gorm.DB
	svc     *OrderService
	mailer  *countingMailer
	orders  *repository.OrderRepository
	product *models.Product
	order   *models.Order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	orders := repository.NewOrderRepository(db)
	products := repository.NewProductRepository(db)
	audit := repository.NewAuditLogRepository(db)
	mailer := &countingMailer{}

	product := &models.Product{Name: "Adult Beanbag", PriceCents: 20000, StockQuantity: 5, IsActive: true}
	require.NoError(t, products.Create(product))

	order := &models.Order{
		PaymentReference: "PSB-TEST00000001",
		Provider:         domain.ProviderPayFast,
		Status:           domain.OrderStatusPending,
		AmountCents:      52900,
		ShippingCents:    12900,
		Currency:         "ZAR",
		CustomerEmail:    "shopper@example.com",
		DeliveryMethod:   domain.DeliveryMethodDelivery,
		Items: []models.OrderItem{
			{ProductID: &product.ID, Title: product.Name, UnitPriceCents: 20000, Quantity: 2},
		},
	}
	require.NoError(t, orders.Create(order))

	return &fixture{
		db:      db,
		svc:     NewOrderService(orders, products, audit, mailer),
		mailer:  mailer,
		orders:  orders,
		product: product,
		order:   order,
	}
}

func (f *fixture) reloadOrder(t *testing.T) *models.Order {
	t.Helper()
	o, err := f.orders.GetByReference(f.order.PaymentReference)
	require.NoError(t, err)
	return o
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.First(&p, f.product.ID).Error)
	return p.StockQuantity
}

func (f *fixture) auditActions(t *testing.T) []string {
	t.Helper()
	var logs []models.AuditLog
	require.NoError(t, f.db.Find(&logs).Error)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}

func TestCompleteMarksPaidOnce(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		Provider:      domain.ProviderPayFast,
		TransactionID: "1089250",
		RawStatus:     "COMPLETE",
		AmountGross:   "529.00",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)

	o := f.reloadOrder(t)
	assert.Equal(t, domain.OrderStatusPaid, o.Status)
	assert.Equal(t, "1089250", o.GatewayTransactionID)
	assert.Equal(t, "COMPLETE", o.GatewayRawStatus)
	assert.NotNil(t, o.PaidAt)
	assert.Equal(t, 3, f.stock(t), "stock decremented by ordered quantity")
	assert.Equal(t, 1, f.mailer.confirmations)
	assert.Contains(t, f.auditActions(t), "order_PAID")
}

func TestDuplicateDeliveryIsNoOp(t *testing.T) {
	f := newFixture(t)

	res := GatewayResult{Provider: domain.ProviderPayFast, TransactionID: "1089250", RawStatus: "COMPLETE", AmountGross: "529.00"}
	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, res)
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	// redelivery of the same notification
	outcome, err = f.svc.ApplyGatewayResult(f.order.PaymentReference, res)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Equal(t, 3, f.stock(t), "stock must not be decremented twice")
	assert.Equal(t, 1, f.mailer.confirmations, "confirmation must not be sent twice")

	// a conflicting late status must not overwrite the terminal state
	outcome, err = f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		Provider: domain.ProviderPayFast, RawStatus: "CANCELLED",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Equal(t, domain.OrderStatusPaid, f.reloadOrder(t).Status)
}

func TestUnknownReference(t *testing.T) {
	f := newFixture(t)
	outcome, err := f.svc.ApplyGatewayResult("PSB-DOESNOTEXIST", GatewayResult{RawStatus: "COMPLETE"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, outcome)
}

func TestAmountMismatchLeavesOrderPending(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		Provider:    domain.ProviderPayFast,
		RawStatus:   "COMPLETE",
		AmountGross: "1.00",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAmountMismatch, outcome)

	o := f.reloadOrder(t)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, 5, f.stock(t))
	assert.Equal(t, 0, f.mailer.confirmations)
	assert.Contains(t, f.auditActions(t), "payment_amount_mismatch")
}

func TestAmountWithinOneCentTolerated(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		Provider:    domain.ProviderOzow,
		RawStatus:   "Complete",
		AmountGross: "529.01",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, domain.OrderStatusPaid, f.reloadOrder(t).Status)
}

func TestUnparseableAmountIsMismatch(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		RawStatus:   "COMPLETE",
		AmountGross: "not-a-number",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAmountMismatch, outcome)
	assert.Equal(t, domain.OrderStatusPending, f.reloadOrder(t).Status)
}

func TestCancelledTransition(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		Provider:  domain.ProviderOzow,
		RawStatus: "Cancelled",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)

	o := f.reloadOrder(t)
	assert.Equal(t, domain.OrderStatusCancelled, o.Status)
	assert.Nil(t, o.PaidAt)
	assert.Equal(t, 5, f.stock(t), "cancellation never touches stock")
	assert.Equal(t, 0, f.mailer.confirmations)
}

func TestUnknownStatusRecordedOnly(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		Provider:  domain.ProviderOzow,
		RawStatus: "PendingInvestigation",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRecorded, outcome)

	o := f.reloadOrder(t)
	assert.Equal(t, domain.OrderStatusPending, o.Status, "order stays pending for a later terminal status")
	assert.Equal(t, "PendingInvestigation", o.GatewayRawStatus)

	// the terminal status can still land afterwards
	outcome, err = f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		Provider: domain.ProviderOzow, RawStatus: "Complete", AmountGross: "529.00",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, domain.OrderStatusPaid, f.reloadOrder(t).Status)
}

func TestInsufficientStockDoesNotBlockPayment(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", f.product.ID).
		Update("stock_quantity", 1).Error)

	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		RawStatus: "COMPLETE", AmountGross: "529.00",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome, "a stock shortfall is an operator problem, not a payment failure")
	assert.Equal(t, domain.OrderStatusPaid, f.reloadOrder(t).Status)
	assert.Equal(t, 1, f.stock(t), "guarded decrement never oversells")
	assert.Equal(t, 1, f.mailer.confirmations)
}

func TestMissingAmountSkipsCheck(t *testing.T) {
	// Ozow redirects can omit Amount; absence is not a mismatch.
	f := newFixture(t)

	outcome, err := f.svc.ApplyGatewayResult(f.order.PaymentReference, GatewayResult{
		Provider: domain.ProviderOzow, RawStatus: "Complete",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, domain.OrderStatusPaid, f.reloadOrder(t).Status)
}

func TestStockDecrementAcrossManyOrders(t *testing.T) {
	f := newFixture(t)
	orders := repository.NewOrderRepository(f.db)

	for i := 0; i < 2; i++ {
		ref := fmt.Sprintf("PSB-MULTI%07d", i)
		o := &models.Order{
			PaymentReference: ref,
			Provider:         domain.ProviderOzow,
			Status:           domain.OrderStatusPending,
			AmountCents:      20000,
			CustomerEmail:    "shopper@example.com",
			DeliveryMethod:   domain.DeliveryMethodPickup,
			Items: []models.OrderItem{
				{ProductID: &f.product.ID, Title: f.product.Name, UnitPriceCents: 20000, Quantity: 1},
			},
		}
		require.NoError(t, orders.Create(o))
		outcome, err := f.svc.ApplyGatewayResult(ref, GatewayResult{RawStatus: "Complete", AmountGross: "200.00"})
		require.NoError(t, err)
		require.Equal(t, OutcomeApplied, outcome)
	}
	assert.Equal(t, 3, f.stock(t))
}
