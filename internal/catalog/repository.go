package catalog

import (
	"context"
	"errors"

	"github.com/greenhaven/storefront-backend/pkg/db"
	"github.com/greenhaven/storefront-backend/pkg/db/models"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository reads sellable variants from the catalog tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateVariant inserts a new sellable variant. A duplicate SKU surfaces as
// a conflict rather than a raw driver error.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		if db.IsUniqueViolation(err, "product_variants.sku") || db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "variant sku already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating variant")
	}
	return nil
}

// FindVariant loads a variant by its public merchandise ID.
func (r *Repository) FindVariant(ctx context.Context, merchandiseID string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).First(&variant, "id = ?", merchandiseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading variant")
	}
	return &variant, nil
}

// FindVariantBySKU loads a variant by SKU.
func (r *Repository) FindVariantBySKU(ctx context.Context, sku string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).First(&variant, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading variant")
	}
	return &variant, nil
}

// ListAvailable returns purchasable variants for storefront listing.
func (r *Repository) ListAvailable(ctx context.Context, limit int) ([]models.ProductVariant, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("title ASC").
		Limit(limit).
		Find(&variants).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing variants")
	}
	return variants, nil
}
