package services

import (
	"context"
	"errors"
	"time"

	"go-storefront/models"
	"go-storefront/repository"
	"go-storefront/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogService manages the product lifecycle: creation, edits,
// archiving, and the zero-stock sweep.
type CatalogService struct {
	products repository.ProductRepository
	log      *logrus.Logger
}

func NewCatalogService(products repository.ProductRepository, log *logrus.Logger) *CatalogService {
	return &CatalogService{products: products, log: log}
}

// CreateProductInput is the validated payload for listing a new product.
type CreateProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	StockCount  int     `json:"stock_count" validate:"gte=0"`
}

// UpdateProductInput carries the allow-listed mutable fields. Nil means
// "leave unchanged".
type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	StockCount  *int     `json:"stock_count"`
	ListedBy    *string  `json:"listed_by"`
	IsActive    *bool    `json:"is_active"`
}

// Create lists a new product. The caller's display name is recorded as the
// lister and the product starts active.
func (s *CatalogService) Create(ctx context.Context, claims *utils.Claims, input CreateProductInput) (*models.Product, error) {
	if err := RequireAdmin(claims); err != nil {
		return nil, err
	}

	_, err := s.products.FindByName(ctx, input.Name)
	if err == nil {
		return nil, E(KindConflict, "Item is already listed, just add some stocks.")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		StockCount:  input.StockCount,
		ListedBy:    claims.FullName,
		IsActive:    true,
		CreatedOn:   time.Now(),
		Orders:      []models.OrderRef{},
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"product": product.Name, "listed_by": product.ListedBy}).Info("product created")
	return product, nil
}

// Update applies the allow-listed fields to an existing product and
// returns its (possibly new) name.
func (s *CatalogService) Update(ctx context.Context, claims *utils.Claims, id primitive.ObjectID, input UpdateProductInput) (string, error) {
	if err := RequireAdmin(claims); err != nil {
		return "", err
	}

	fields := bson.M{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		fields["price"] = *input.Price
	}
	if input.StockCount != nil {
		fields["stock_count"] = *input.StockCount
	}
	if input.ListedBy != nil {
		fields["listed_by"] = *input.ListedBy
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if len(fields) == 0 {
		return "", E(KindValidation, "No valid field to update")
	}

	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", E(KindNotFound, "Product not found")
	}
	if err != nil {
		return "", err
	}

	if _, err := s.products.UpdateFields(ctx, id, fields); err != nil {
		return "", err
	}

	name := product.Name
	if input.Name != nil {
		name = *input.Name
	}
	return name, nil
}

// Archive deactivates a product. Archiving an already-inactive product is
// rejected rather than silently succeeding.
func (s *CatalogService) Archive(ctx context.Context, claims *utils.Claims, id primitive.ObjectID) (string, error) {
	if err := RequireAdmin(claims); err != nil {
		return "", err
	}
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", E(KindNotFound, "Product not found.")
	}
	if err != nil {
		return "", err
	}
	if !product.IsActive {
		return "", E(KindAlreadyInState, "%s is already archived", product.Name)
	}
	if err := s.products.SetActive(ctx, id, false); err != nil {
		return "", err
	}
	return product.Name, nil
}

// Unarchive reactivates a product, with the mirror-image guard.
func (s *CatalogService) Unarchive(ctx context.Context, claims *utils.Claims, id primitive.ObjectID) (string, error) {
	if err := RequireAdmin(claims); err != nil {
		return "", err
	}
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", E(KindNotFound, "Product not found.")
	}
	if err != nil {
		return "", err
	}
	if product.IsActive {
		return "", E(KindAlreadyInState, "%s is already active", product.Name)
	}
	if err := s.products.SetActive(ctx, id, true); err != nil {
		return "", err
	}
	return product.Name, nil
}

// Delete removes a product from the catalog entirely.
func (s *CatalogService) Delete(ctx context.Context, claims *utils.Claims, id primitive.ObjectID) error {
	if err := RequireAdmin(claims); err != nil {
		return err
	}
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return E(KindNotFound, "Product not found.")
	}
	return nil
}

// SweepZeroStock deactivates every product that is out of stock. It runs
// inline before active-product listings to self-heal stale activity flags.
func (s *CatalogService) SweepZeroStock(ctx context.Context) error {
	swept, err := s.products.DeactivateZeroStock(ctx)
	if err != nil {
		return err
	}
	if swept > 0 {
		s.log.WithField("count", swept).Info("deactivated zero-stock products")
	}
	return nil
}

// ListActive returns the public projection of every active product.
func (s *CatalogService) ListActive(ctx context.Context) ([]models.ProductView, error) {
	if err := s.SweepZeroStock(ctx); err != nil {
		return nil, err
	}

	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, E(KindNotFound, "No product found, please add one")
	}

	views, err := s.products.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, E(KindNotFound, "No active product found")
	}
	return views, nil
}

// ListAll returns full product documents for the admin catalog view.
func (s *CatalogService) ListAll(ctx context.Context, claims *utils.Claims) ([]models.Product, error) {
	if err := RequireAdmin(claims); err != nil {
		return nil, err
	}
	return s.products.FindAll(ctx)
}

// View returns the public projection of one product.
func (s *CatalogService) View(ctx context.Context, id primitive.ObjectID) (*models.ProductView, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, E(KindNotFound, "Product unavailable.")
	}
	if err != nil {
		return nil, err
	}
	return &models.ProductView{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		StockCount:  product.StockCount,
	}, nil
}
