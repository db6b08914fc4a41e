package repository

import (
	"time"

	"poolside/internal/domain"
	"poolside/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByReference(ref string) (*models.Order, error) {
	var o models.Order
	err := r.db.Preload("Items").Where("payment_reference = ?", ref).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List(limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, err
}

// MarkTerminal performs the compare-and-set transition PENDING -> terminal.
// It returns applied=false when another delivery of the same notification
// already won the race (or the order is otherwise no longer pending), which
// callers treat as a benign duplicate. This conditional UPDATE is the only
// write path that moves an order out of PENDING.
func (r *OrderRepository) MarkTerminal(id uint, status, gatewayTxnID, rawStatus string) (applied bool, err error) {
	updates := map[string]interface{}{
		"status":             status,
		"gateway_raw_status": rawStatus,
	}
	if gatewayTxnID != "" {
		updates["gateway_transaction_id"] = gatewayTxnID
	}
	if status == domain.OrderStatusPaid {
		updates["paid_at"] = time.Now()
	}
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, domain.OrderStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RecordRawStatus stores an unmapped gateway status for audit without
// touching order state.
func (r *OrderRepository) RecordRawStatus(id uint, rawStatus string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("gateway_raw_status", rawStatus).Error
}
