package services

import (
	"context"
	"fmt"
	"time"

	"github.com/terraza-app/terraza-kiosk/models"
)

// Cache keys and TTLs for menu resources. The menu changes rarely, so a
// longer window is fine; invalidation happens on any admin mutation.
const (
	cacheKeyProducts   = "menu/products"
	cacheKeyCategories = "menu/categories"
	menuCacheTTL       = 5 * time.Minute
)

// MenuServiceInterface defines read and admin operations on the menu.
type MenuServiceInterface interface {
	Products(ctx context.Context) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Subcategories(ctx context.Context, categoryID int) ([]models.Subcategory, error)
	DishesOfTheDay(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) error
	UpdateProduct(ctx context.Context, product models.Product) error
	SetStock(ctx context.Context, productID int, inStock bool) error
}

// MenuService implements MenuServiceInterface against the remote API,
// backed by the query cache for reads.
type MenuService struct {
	client APIClientInterface
	cache  *QueryCache
}

var menuServiceInstance MenuServiceInterface

// InitMenuService initializes the menu service
func InitMenuService(client APIClientInterface) MenuServiceInterface {
	menuServiceInstance = &MenuService{client: client, cache: GetQueryCache()}
	return menuServiceInstance
}

// GetMenuService returns the initialized menu service instance
func GetMenuService() MenuServiceInterface {
	return menuServiceInstance
}

// SetMenuService sets the menu service instance (primarily for testing)
func SetMenuService(service MenuServiceInterface) {
	menuServiceInstance = service
}

// Products returns the full product list, cached.
func (s *MenuService) Products(ctx context.Context) ([]models.Product, error) {
	value, err := s.cache.Fetch(cacheKeyProducts, menuCacheTTL, func() (interface{}, error) {
		var products []models.Product
		if err := s.client.Get(ctx, "/menu", &products); err != nil {
			return nil, err
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.Product), nil
}

// Categories returns the category list, cached.
func (s *MenuService) Categories(ctx context.Context) ([]models.Category, error) {
	value, err := s.cache.Fetch(cacheKeyCategories, menuCacheTTL, func() (interface{}, error) {
		var categories []models.Category
		if err := s.client.Get(ctx, "/menu/cat", &categories); err != nil {
			return nil, err
		}
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.Category), nil
}

// Subcategories returns the subcategories of one category, cached per
// category.
func (s *MenuService) Subcategories(ctx context.Context, categoryID int) ([]models.Subcategory, error) {
	key := fmt.Sprintf("menu/subcat/%d", categoryID)
	value, err := s.cache.Fetch(key, menuCacheTTL, func() (interface{}, error) {
		var subcategories []models.Subcategory
		if err := s.client.Get(ctx, fmt.Sprintf("/menu/subcat/%d", categoryID), &subcategories); err != nil {
			return nil, err
		}
		return subcategories, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.Subcategory), nil
}

// DishesOfTheDay filters the cached product list down to the products
// flagged as dish of the day.
func (s *MenuService) DishesOfTheDay(ctx context.Context) ([]models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	var dishes []models.Product
	for _, p := range products {
		if p.PlatoDelDia {
			dishes = append(dishes, p)
		}
	}
	return dishes, nil
}

// CreateProduct adds a product to the menu and invalidates the cached
// product list.
func (s *MenuService) CreateProduct(ctx context.Context, product models.Product) error {
	if err := s.client.Post(ctx, "/menu/create", product, nil); err != nil {
		return err
	}
	s.cache.Invalidate(cacheKeyProducts)
	return nil
}

// UpdateProduct updates an existing product and invalidates the cached
// product list.
func (s *MenuService) UpdateProduct(ctx context.Context, product models.Product) error {
	if err := s.client.Put(ctx, "/menu/update", product, nil); err != nil {
		return err
	}
	s.cache.Invalidate(cacheKeyProducts)
	return nil
}

// SetStock flips a product's stock flag and invalidates the cached product
// list.
func (s *MenuService) SetStock(ctx context.Context, productID int, inStock bool) error {
	body := map[string]interface{}{"id": productID, "stock": inStock}
	if err := s.client.Put(ctx, "/menu/update/stock", body, nil); err != nil {
		return err
	}
	s.cache.Invalidate(cacheKeyProducts)
	return nil
}
