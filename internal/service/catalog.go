package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/TimohaSheff/uch-pract-parfum/pkg/errors"
	"github.com/TimohaSheff/uch-pract-parfum/pkg/slug"

	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
	"github.com/TimohaSheff/uch-pract-parfum/internal/repository"
)

// CatalogService implements the business logic for brands, categories, and
// products.
type CatalogService struct {
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	brandRepo repository.BrandRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// CreateBrandInput holds the parameters for creating a brand.
type CreateBrandInput struct {
	Name    string
	Country string
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name string
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name            string
	Description     string
	BrandID         string
	CategoryID      string
	Gender          string
	Concentration   string
	VolumeML        int
	Price           int64
	DiscountPercent int
	InStock         bool
	ImageURL        string
}

// UpdateProductInput holds the parameters for a partial product update.
type UpdateProductInput struct {
	Name            *string
	Description     *string
	BrandID         *string
	CategoryID      *string
	Gender          *string
	Concentration   *string
	VolumeML        *int
	Price           *int64
	DiscountPercent *int
	InStock         *bool
	ImageURL        *string
}

// --- Brand Operations ---

// CreateBrand creates a new brand with a generated slug.
func (s *CatalogService) CreateBrand(ctx context.Context, input CreateBrandInput) (*domain.Brand, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("brand name is required")
	}

	brand := &domain.Brand{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Slug:      slug.Generate(input.Name),
		Country:   strings.TrimSpace(input.Country),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	s.logger.InfoContext(ctx, "brand created",
		slog.String("brand_id", brand.ID),
		slog.String("name", brand.Name),
	)

	return brand, nil
}

// ListBrands returns all brands.
func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.brandRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

// --- Category Operations ---

// CreateCategory creates a new category with a generated slug.
func (s *CatalogService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	category := &domain.Category{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Slug:      slug.Generate(input.Name),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
	)

	return category, nil
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// --- Product Operations ---

// CreateProduct creates a new catalog product.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.BrandID == "" {
		return nil, apperrors.InvalidInput("brand_id is required")
	}
	if !domain.IsValidGender(input.Gender) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid gender %q, must be one of: %s", input.Gender, strings.Join(domain.ValidGenders(), ", ")))
	}
	if !domain.IsValidConcentration(input.Concentration) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid concentration %q, must be one of: %s", input.Concentration, strings.Join(domain.ValidConcentrations(), ", ")))
	}
	if input.VolumeML <= 0 {
		return nil, apperrors.InvalidInput("volume_ml must be positive")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price cannot be negative")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, apperrors.InvalidInput("discount_percent must be between 0 and 100")
	}

	if _, err := s.brandRepo.GetByID(ctx, input.BrandID); err != nil {
		return nil, apperrors.InvalidInput("brand does not exist")
	}
	if input.CategoryID != "" {
		if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
			return nil, apperrors.InvalidInput("category does not exist")
		}
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(input.Name),
		Slug:            slug.Generate(input.Name),
		Description:     input.Description,
		BrandID:         input.BrandID,
		CategoryID:      input.CategoryID,
		Gender:          input.Gender,
		Concentration:   input.Concentration,
		VolumeML:        input.VolumeML,
		Price:           input.Price,
		DiscountPercent: input.DiscountPercent,
		InStock:         input.InStock,
		ImageURL:        input.ImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
		slog.Int64("price", product.Price),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// UpdateProduct applies partial updates to a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.InvalidInput("product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
		product.Slug = slug.Generate(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.BrandID != nil {
		if _, err := s.brandRepo.GetByID(ctx, *input.BrandID); err != nil {
			return nil, apperrors.InvalidInput("brand does not exist")
		}
		product.BrandID = *input.BrandID
	}
	if input.CategoryID != nil {
		if *input.CategoryID != "" {
			if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
				return nil, apperrors.InvalidInput("category does not exist")
			}
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Gender != nil {
		if !domain.IsValidGender(*input.Gender) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid gender %q", *input.Gender))
		}
		product.Gender = *input.Gender
	}
	if input.Concentration != nil {
		if !domain.IsValidConcentration(*input.Concentration) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid concentration %q", *input.Concentration))
		}
		product.Concentration = *input.Concentration
	}
	if input.VolumeML != nil {
		if *input.VolumeML <= 0 {
			return nil, apperrors.InvalidInput("volume_ml must be positive")
		}
		product.VolumeML = *input.VolumeML
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return nil, apperrors.InvalidInput("discount_percent must be between 0 and 100")
		}
		product.DiscountPercent = *input.DiscountPercent
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// ListProducts returns a filtered, paginated list of products.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}
