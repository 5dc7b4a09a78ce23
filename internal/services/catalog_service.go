package services

import (
	"context"
	"errors"
	"strings"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CategoryInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	OrderPosition *int   `json:"orderPosition"`
	ParentID      *uint  `json:"parentId"`
}

type ProductInput struct {
	CategoryID      uint            `json:"categoryId"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Image           string          `json:"image"`
	IsAvailable     *bool           `json:"isAvailable"`
	IsHot           bool            `json:"isHot"`
	PreparationTime *int            `json:"preparationTime"`
}

// CatalogService manages the categories and products of the caller's store.
type CatalogService interface {
	ListCategories(ctx context.Context, principal *auth.Principal) ([]models.Category, error)
	CreateCategory(ctx context.Context, principal *auth.Principal, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, principal *auth.Principal, id uint, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, principal *auth.Principal, id uint) error

	ListProducts(ctx context.Context, principal *auth.Principal, categoryID *uint) ([]models.Product, error)
	CreateProduct(ctx context.Context, principal *auth.Principal, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, principal *auth.Principal, id uint, input ProductInput) (*models.Product, error)
	SetProductAvailability(ctx context.Context, principal *auth.Principal, id uint, available bool) (*models.Product, error)
	DeleteProduct(ctx context.Context, principal *auth.Principal, id uint) error
}

type catalogService struct {
	repos  *repository.Repositories
	stores StoreService
}

func NewCatalogService(repos *repository.Repositories, stores StoreService) CatalogService {
	return &catalogService{repos: repos, stores: stores}
}

func (s *catalogService) ListCategories(ctx context.Context, principal *auth.Principal) ([]models.Category, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	categories, err := s.repos.Categories.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, internalErr("failed to load categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, principal *auth.Principal, input CategoryInput) (*models.Category, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	category := &models.Category{StoreID: store.ID}
	if err := s.applyCategory(ctx, store.ID, category, input); err != nil {
		return nil, err
	}
	if input.OrderPosition == nil {
		existing, err := s.repos.Categories.ListByStore(ctx, store.ID)
		if err != nil {
			return nil, internalErr("failed to load categories", err)
		}
		for _, c := range existing {
			if c.OrderPosition >= category.OrderPosition {
				category.OrderPosition = c.OrderPosition + 1
			}
		}
	}

	if err := s.repos.Categories.Create(ctx, category); err != nil {
		return nil, internalErr("failed to create category", err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, principal *auth.Principal, id uint, input CategoryInput) (*models.Category, error) {
	store, category, err := s.ownedCategory(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyCategory(ctx, store.ID, category, input); err != nil {
		return nil, err
	}
	if err := s.repos.Categories.Update(ctx, category); err != nil {
		return nil, internalErr("failed to update category", err)
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, principal *auth.Principal, id uint) error {
	_, category, err := s.ownedCategory(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.repos.Categories.Delete(ctx, category.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundErr("category %d not found", id)
		}
		return internalErr("failed to delete category", err)
	}
	logger.FromContext(ctx).Info("Category deleted with its products", zap.Uint("category_id", id))
	return nil
}

// applyCategory validates input and copies it onto category. Nesting is a
// single level: a parent must be top-level and a category with children
// cannot become a child.
func (s *catalogService) applyCategory(ctx context.Context, storeID uint, category *models.Category, input CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return validationErr("category name is required")
	}

	if input.ParentID != nil {
		if category.ID != 0 && *input.ParentID == category.ID {
			return validationErr("a category cannot be its own parent")
		}
		parent, err := s.repos.Categories.GetByID(ctx, *input.ParentID)
		if err != nil || parent.StoreID != storeID {
			return validationErr("parent category %d not found", *input.ParentID)
		}
		if parent.ParentID != nil {
			return validationErr("categories can only be nested one level deep")
		}
		if category.ID != 0 {
			siblings, err := s.repos.Categories.ListByStore(ctx, storeID)
			if err != nil {
				return internalErr("failed to load categories", err)
			}
			for _, c := range siblings {
				if c.ParentID != nil && *c.ParentID == category.ID {
					return validationErr("a category with subcategories cannot be nested")
				}
			}
		}
	}

	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	category.ParentID = input.ParentID
	if input.OrderPosition != nil {
		category.OrderPosition = *input.OrderPosition
	}
	return nil
}

func (s *catalogService) ownedCategory(ctx context.Context, principal *auth.Principal, id uint) (*models.Store, *models.Category, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, nil, err
	}
	category, err := s.repos.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, notFoundErr("category %d not found", id)
		}
		return nil, nil, internalErr("failed to load category", err)
	}
	if category.StoreID != store.ID {
		return nil, nil, notFoundErr("category %d not found", id)
	}
	return store, category, nil
}

func (s *catalogService) ListProducts(ctx context.Context, principal *auth.Principal, categoryID *uint) ([]models.Product, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	products, err := s.repos.Products.ListByStore(ctx, store.ID, categoryID)
	if err != nil {
		return nil, internalErr("failed to load products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, principal *auth.Principal, input ProductInput) (*models.Product, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, err
	}
	product := &models.Product{StoreID: store.ID, IsAvailable: true, PreparationTime: models.DefaultPreparationTime}
	if err := s.applyProduct(ctx, store.ID, product, input); err != nil {
		return nil, err
	}
	if err := s.repos.Products.Create(ctx, product); err != nil {
		return nil, internalErr("failed to create product", err)
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, principal *auth.Principal, id uint, input ProductInput) (*models.Product, error) {
	store, product, err := s.ownedProduct(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProduct(ctx, store.ID, product, input); err != nil {
		return nil, err
	}
	if err := s.repos.Products.Update(ctx, product); err != nil {
		return nil, internalErr("failed to update product", err)
	}
	return product, nil
}

func (s *catalogService) SetProductAvailability(ctx context.Context, principal *auth.Principal, id uint, available bool) (*models.Product, error) {
	_, product, err := s.ownedProduct(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	product.IsAvailable = available
	if err := s.repos.Products.Update(ctx, product); err != nil {
		return nil, internalErr("failed to update product", err)
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, principal *auth.Principal, id uint) error {
	_, product, err := s.ownedProduct(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.repos.Products.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundErr("product %d not found", id)
		}
		return internalErr("failed to delete product", err)
	}
	return nil
}

func (s *catalogService) applyProduct(ctx context.Context, storeID uint, product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return validationErr("product name is required")
	}
	if input.Price.IsNegative() {
		return validationErr("price must not be negative")
	}
	if input.PreparationTime != nil && *input.PreparationTime < 1 {
		return validationErr("preparationTime must be at least 1 minute")
	}

	category, err := s.repos.Categories.GetByID(ctx, input.CategoryID)
	if err != nil || category.StoreID != storeID {
		return validationErr("category %d not found", input.CategoryID)
	}

	product.CategoryID = category.ID
	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price.Round(2)
	product.Image = strings.TrimSpace(input.Image)
	product.IsHot = input.IsHot
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.PreparationTime != nil {
		product.PreparationTime = *input.PreparationTime
	}
	return nil
}

func (s *catalogService) ownedProduct(ctx context.Context, principal *auth.Principal, id uint) (*models.Store, *models.Product, error) {
	store, err := s.stores.Mine(ctx, principal)
	if err != nil {
		return nil, nil, err
	}
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, notFoundErr("product %d not found", id)
		}
		return nil, nil, internalErr("failed to load product", err)
	}
	if product.StoreID != store.ID {
		return nil, nil, notFoundErr("product %d not found", id)
	}
	return store, product, nil
}
