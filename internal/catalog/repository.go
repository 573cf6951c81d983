// Package catalog reads products and their display metadata. Catalog
// management lives elsewhere; checkout only reads.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/furiarock-backend/internal/repo"
	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
)

// ProductRepository loads products by id. A missing product is (nil, nil).
type ProductRepository struct {
	repo.Base
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{Base: repo.NewBase(db)}
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	ok, err := repo.FirstOrNil(r.DB(ctx).Where("id = ?", id), &product)
	if err != nil || !ok {
		return nil, err
	}
	return &product, nil
}

type ColorRepository struct {
	repo.Base
}

func NewColorRepository(db *gorm.DB) *ColorRepository {
	return &ColorRepository{Base: repo.NewBase(db)}
}

// FindByIDs returns the colors that exist among ids, in no particular order.
func (r *ColorRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Color, error) {
	if len(ids) == 0 {
		return []models.Color{}, nil
	}
	var colors []models.Color
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

type QualityRepository struct {
	repo.Base
}

func NewQualityRepository(db *gorm.DB) *QualityRepository {
	return &QualityRepository{Base: repo.NewBase(db)}
}

func (r *QualityRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quality, error) {
	var quality models.Quality
	ok, err := repo.FirstOrNil(r.DB(ctx).Where("id = ?", id), &quality)
	if err != nil || !ok {
		return nil, err
	}
	return &quality, nil
}
