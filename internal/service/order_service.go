package service

import (
	"errors"
	"fmt"
	"log"

	"poolside/internal/domain"
	"poolside/internal/models"
	"poolside/internal/repository"
	"poolside/pkg/payment"

	"gorm.io/gorm"
)

// ReconcileOutcome classifies what a gateway notification did to an order.
// Every outcome except OutcomeNotFound is acknowledged to the gateway with
// a success response - gateways retry on anything else.
type ReconcileOutcome string

const (
	OutcomeApplied        ReconcileOutcome = "APPLIED"
	OutcomeDuplicate      ReconcileOutcome = "DUPLICATE"
	OutcomeNotFound       ReconcileOutcome = "NOT_FOUND"
	OutcomeAmountMismatch ReconcileOutcome = "AMOUNT_MISMATCH"
	OutcomeRecorded       ReconcileOutcome = "RECORDED"
)

// GatewayResult is the provider-neutral view of a verified notification.
// Signature verification happens in the handler before this is built.
type GatewayResult struct {
	Provider      string
	TransactionID string
	RawStatus     string
	AmountGross   string
}

// OrderService owns order-state reconciliation: it consumes verified gateway
// results and applies the PENDING -> terminal transition at most once,
// firing the paid side effects (stock decrement, confirmation email) only
// when its conditional update actually applied.
type OrderService struct {
	orders   *repository.OrderRepository
	products *repository.ProductRepository
	audit    *repository.AuditLogRepository
	mailer   Mailer
}

func NewOrderService(orders *repository.OrderRepository, products *repository.ProductRepository, audit *repository.AuditLogRepository, mailer Mailer) *OrderService {
	return &OrderService{orders: orders, products: products, audit: audit, mailer: mailer}
}

// ApplyGatewayResult reconciles one notification against the order it
// references. Duplicate deliveries and already-terminal orders are no-ops.
func (s *OrderService) ApplyGatewayResult(reference string, res GatewayResult) (ReconcileOutcome, error) {
	order, err := s.orders.GetByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[RECONCILE] unknown payment reference %s (provider=%s)", reference, res.Provider)
			return OutcomeNotFound, nil
		}
		return "", err
	}
	if order.Status != domain.OrderStatusPending {
		log.Printf("[RECONCILE] order %s already %s, ignoring %s notification", reference, order.Status, res.RawStatus)
		return OutcomeDuplicate, nil
	}

	// The declared gross amount is only ever compared to the server-computed
	// total, within one cent of float round-tripping slack.
	if res.AmountGross != "" {
		grossCents, err := payment.ParseAmountCents(res.AmountGross)
		if err != nil || absInt64(grossCents-order.AmountCents) > 1 {
			log.Printf("[RECONCILE] amount mismatch on %s: declared=%q expected=%d cents", reference, res.AmountGross, order.AmountCents)
			s.auditEntry("payment_amount_mismatch", reference, fmt.Sprintf(`{"declared":%q,"expected_cents":%d}`, res.AmountGross, order.AmountCents))
			return OutcomeAmountMismatch, nil
		}
	}

	target, ok := domain.MapGatewayStatus(res.RawStatus)
	if !ok {
		// Non-terminal gateway status (e.g. PENDING): audit trail only.
		if err := s.orders.RecordRawStatus(order.ID, res.RawStatus); err != nil {
			return "", err
		}
		return OutcomeRecorded, nil
	}

	applied, err := s.orders.MarkTerminal(order.ID, target, res.TransactionID, res.RawStatus)
	if err != nil {
		return "", err
	}
	if !applied {
		// Concurrent delivery won the CAS; side effects already ran there.
		log.Printf("[RECONCILE] lost transition race on %s, treating as duplicate", reference)
		return OutcomeDuplicate, nil
	}
	log.Printf("[RECONCILE] order %s: %s -> %s (txn=%s provider=%s)", reference, domain.OrderStatusPending, target, res.TransactionID, res.Provider)
	s.auditEntry("order_"+target, reference, fmt.Sprintf(`{"raw_status":%q,"transaction_id":%q}`, res.RawStatus, res.TransactionID))

	if target == domain.OrderStatusPaid {
		s.applyPaidSideEffects(order)
	}
	return OutcomeApplied, nil
}

// applyPaidSideEffects runs exactly once per order, guarded by the CAS in
// MarkTerminal. Failures here are logged for follow-up, never bubbled back
// to the gateway.
func (s *OrderService) applyPaidSideEffects(order *models.Order) {
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		if err := s.products.DecrementStock(*item.ProductID, item.Quantity); err != nil {
			log.Printf("[RECONCILE] stock decrement failed for product %d on order %s: %v", *item.ProductID, order.PaymentReference, err)
		}
	}
	if err := s.mailer.SendOrderConfirmation(order); err != nil {
		log.Printf("[RECONCILE] confirmation email failed for order %s: %v", order.PaymentReference, err)
	}
}

func (s *OrderService) auditEntry(action, reference, metadata string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Create(&models.AuditLog{
		Action:     action,
		Resource:   "order",
		ResourceID: reference,
		Metadata:   metadata,
	}); err != nil {
		log.Printf("[RECONCILE] audit write failed for %s: %v", reference, err)
	}
}

func absInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
