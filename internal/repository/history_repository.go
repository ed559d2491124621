package repository

import (
	"github.com/axellelanca/urlshortener-frontend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// HistoryRepository est une interface qui définit les méthodes d'accès à l'historique local
type HistoryRepository interface {
	CreateEntries(entries []models.HistoryEntry) error
	ListEntries(limit int) ([]models.HistoryEntry, error)
	GetEntriesByBatch(batchID string) ([]models.HistoryEntry, error)
}

// GormHistoryRepository est l'implémentation de HistoryRepository utilisant GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository crée et retourne une nouvelle instance de GormHistoryRepository.
func NewHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// CreateEntries insère les liens d'une soumission en une seule transaction.
func (r *GormHistoryRepository) CreateEntries(entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.Create(&entries).Error; err != nil {
		return errors.Wrap(err, "failed to create history entries")
	}
	return nil
}

// ListEntries récupère les liens les plus récents d'abord. limit <= 0 signifie sans limite.
func (r *GormHistoryRepository) ListEntries(limit int) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	q := r.db.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list history entries")
	}
	return entries, nil
}

// GetEntriesByBatch récupère les liens créés par une même soumission, dans l'ordre d'insertion.
func (r *GormHistoryRepository) GetEntriesByBatch(batchID string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := r.db.Where("batch_id = ?", batchID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve history for batch %s", batchID)
	}
	return entries, nil
}
