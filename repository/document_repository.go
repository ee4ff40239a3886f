package repository

import (
	"context"
	"errors"

	"paperqa_backend/models"
	"paperqa_backend/pkg/logging"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("document not found")

type documentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{DB: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.DB.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) GetByID(ctx context.Context, docID string) (*models.Document, error) {
	var doc models.Document
	err := r.DB.WithContext(ctx).Where("doc_id = ?", docID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logging.Logger.Error("fail GetByID", "error", err, "doc_id", docID)
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.DB.WithContext(ctx).Order("upload_date DESC").Find(&docs).Error
	if err != nil {
		logging.Logger.Error("fail List", "error", err)
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, docID string) error {
	res := r.DB.WithContext(ctx).Where("doc_id = ?", docID).Delete(&models.Document{})
	if res.Error != nil {
		logging.Logger.Error("fail Delete", "error", res.Error, "doc_id", docID)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
