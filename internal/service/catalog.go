package service

import (
	"context"
	"errors"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogStore covers the catalog reads and writes.
type CatalogStore interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uuid.UUID, title, categoryType string) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetSizes(ctx context.Context) ([]models.Size, error)
	GetProductSizes(ctx context.Context, productID uuid.UUID) ([]models.ProductSize, error)
}

// CategoryCache caches the category listing, cache-aside.
type CategoryCache interface {
	GetCategories(ctx context.Context) ([]models.Category, bool, error)
	SetCategories(ctx context.Context, categories []models.Category) error
	InvalidateCategories(ctx context.Context) error
}

// CatalogService handles catalog browsing and admin category management
type CatalogService struct {
	catalog CatalogStore
	cache   CategoryCache
	logger  *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(catalog CatalogStore, cache CategoryCache) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		cache:   cache,
		logger:  util.GetLogger(),
	}
}

// ListCategories retrieves all categories, serving from cache when warm.
// An empty catalog is ErrNotFound.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.GetCategories(ctx)
		if err != nil {
			s.logger.Warn("Category cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	categories, err := s.catalog.GetCategories(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "loading categories", Err: err}
	}
	if len(categories) == 0 {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			s.logger.Warn("Category cache write failed", zap.Error(err))
		}
	}

	return categories, nil
}

// GetCategory retrieves one category
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.catalog.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory creates a category and invalidates the listing cache
func (s *CatalogService) CreateCategory(ctx context.Context, title, categoryType string) (*models.Category, error) {
	if title == "" {
		return nil, &InvalidInputError{Field: "title"}
	}

	category := &models.Category{Title: title, Type: categoryType}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, &PersistenceError{Op: "creating category", Err: err}
	}

	s.invalidateCategories(ctx)
	s.logger.Info("Category created", zap.String("title", title))
	return category, nil
}

// UpdateCategory updates a category and invalidates the listing cache
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, title, categoryType string) error {
	if title == "" {
		return &InvalidInputError{Field: "title"}
	}

	if err := s.catalog.UpdateCategory(ctx, id, title, categoryType); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "updating category", Err: err}
	}

	s.invalidateCategories(ctx)
	return nil
}

// DeleteCategory deletes a category and invalidates the listing cache
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.catalog.DeleteCategory(ctx, id); err != nil {
		return &PersistenceError{Op: "deleting category", Err: err}
	}

	s.invalidateCategories(ctx)
	return nil
}

// ListProducts retrieves products, optionally scoped to a category
func (s *CatalogService) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	return s.catalog.GetProducts(ctx, categoryID)
}

// ProductDetail is a product with its per-size stock
type ProductDetail struct {
	models.Product
	Sizes []models.ProductSize `json:"sizes"`
}

// GetProduct retrieves a product with its sizes and stock levels
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	product, err := s.catalog.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sizes, err := s.catalog.GetProductSizes(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{Product: *product, Sizes: sizes}, nil
}

// ListSizes retrieves all sizes
func (s *CatalogService) ListSizes(ctx context.Context) ([]models.Size, error) {
	return s.catalog.GetSizes(ctx)
}

func (s *CatalogService) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCategories(ctx); err != nil {
		s.logger.Warn("Category cache invalidation failed", zap.Error(err))
	}
}
