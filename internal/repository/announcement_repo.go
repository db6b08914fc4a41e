package repository

import (
	"poolside/internal/models"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(a *models.Announcement) error {
	return r.db.Create(a).Error
}

func (r *AnnouncementRepository) GetByID(id uint) (*models.Announcement, error) {
	var a models.Announcement
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnnouncementRepository) ListActive() ([]models.Announcement, error) {
	var items []models.Announcement
	err := r.db.Where("is_active = ?", true).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *AnnouncementRepository) ListAll() ([]models.Announcement, error) {
	var items []models.Announcement
	err := r.db.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *AnnouncementRepository) Update(a *models.Announcement) error {
	return r.db.Save(a).Error
}

func (r *AnnouncementRepository) Delete(id uint) error {
	return r.db.Delete(&models.Announcement{}, id).Error
}
