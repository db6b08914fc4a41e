package repository

import (
	"poolside/internal/models"

	"gorm.io/gorm"
)

type ShippingRepository struct {
	db *gorm.DB
}

func NewShippingRepository(db *gorm.DB) *ShippingRepository {
	return &ShippingRepository{db: db}
}

func (r *ShippingRepository) GetByProvince(province string) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	err := r.db.Where("province = ?", province).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *ShippingRepository) ListAll() ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	err := r.db.Order("province ASC").Find(&rates).Error
	return rates, err
}

func (r *ShippingRepository) Upsert(rate *models.ShippingRate) error {
	existing, err := r.GetByProvince(rate.Province)
	if err == nil {
		existing.AmountCents = rate.AmountCents
		return r.db.Save(existing).Error
	}
	return r.db.Create(rate).Error
}
