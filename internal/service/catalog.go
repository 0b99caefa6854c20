package service

import (
	"context"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

// CatalogService covers products, categories and warehouses. Uniqueness
// of SKUs is enforced by the database; the duplicate surfaces as a
// conflict error.
type CatalogService struct {
	store  Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store Store) *CatalogService {
	return &CatalogService{store: store, logger: util.GetLogger()}
}

// ProductRequest describes a product create or update.
type ProductRequest struct {
	SKU          string         `json:"sku" binding:"required"`
	Name         string         `json:"name" binding:"required"`
	Description  string         `json:"description"`
	CategoryID   *string        `json:"category_id"`
	UnitPrice    float64        `json:"unit_price" binding:"min=0"`
	Weight       float64        `json:"weight" binding:"min=0"`
	Dimensions   types.JSONText `json:"dimensions"`
	MinimumStock int            `json:"minimum_stock" binding:"min=0"`
	IsActive     *bool          `json:"is_active"`
}

func (r *ProductRequest) apply(p *models.Product) {
	p.SKU = r.SKU
	p.Name = r.Name
	p.Description = r.Description
	p.CategoryID = r.CategoryID
	p.UnitPrice = r.UnitPrice
	p.Weight = r.Weight
	p.Dimensions = r.Dimensions
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	p.MinimumStock = r.MinimumStock
}

// CreateProduct registers a new SKU.
func (c *CatalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	p := &models.Product{ID: uuid.NewString(), IsActive: true}
	req.apply(p)
	if err := c.store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	c.logger.Info("Product created", zap.String("product_id", p.ID), zap.String("sku", p.SKU))
	return p, nil
}

// GetProduct retrieves a product by ID.
func (c *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return c.store.GetProduct(ctx, id)
}

// GetProductBySKU retrieves a product by its SKU.
func (c *CatalogService) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return c.store.GetProductBySKU(ctx, sku)
}

// ListProducts retrieves products matching the filter with a total count.
func (c *CatalogService) ListProducts(ctx context.Context, f models.ListFilter) ([]models.Product, int, error) {
	f.Normalize()
	return c.store.ListProducts(ctx, f)
}

// UpdateProduct overwrites a product's fields.
func (c *CatalogService) UpdateProduct(ctx context.Context, id string, req *ProductRequest) (*models.Product, error) {
	var p *models.Product
	err := c.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		req.apply(cur)
		if err := tx.UpdateProduct(ctx, cur); err != nil {
			return err
		}
		p = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product.
func (c *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return c.store.DeleteProduct(ctx, id)
}

// CategoryRequest describes a category create or update.
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// CreateCategory registers a new category.
func (c *CatalogService) CreateCategory(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	cat := &models.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if err := c.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// GetCategory retrieves a category by ID.
func (c *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return c.store.GetCategory(ctx, id)
}

// ListCategories retrieves all categories.
func (c *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return c.store.ListCategories(ctx)
}

// UpdateCategory overwrites a category's fields.
func (c *CatalogService) UpdateCategory(ctx context.Context, id string, req *CategoryRequest) (*models.Category, error) {
	var cat *models.Category
	err := c.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		cur.Name = req.Name
		cur.Description = req.Description
		cur.ParentID = req.ParentID
		if err := tx.UpdateCategory(ctx, cur); err != nil {
			return err
		}
		cat = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory removes a category.
func (c *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return c.store.DeleteCategory(ctx, id)
}

// WarehouseRequest describes a warehouse create or update.
type WarehouseRequest struct {
	Name          string         `json:"name" binding:"required"`
	Address       string         `json:"address"`
	TotalCapacity int            `json:"total_capacity" binding:"min=0"`
	UsedCapacity  int            `json:"used_capacity" binding:"min=0"`
	Zones         types.JSONText `json:"zones"`
}

// CreateWarehouse registers a new site.
func (c *CatalogService) CreateWarehouse(ctx context.Context, req *WarehouseRequest) (*models.Warehouse, error) {
	w := &models.Warehouse{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Address:       req.Address,
		TotalCapacity: req.TotalCapacity,
		UsedCapacity:  req.UsedCapacity,
		Zones:         req.Zones,
	}
	if err := c.store.CreateWarehouse(ctx, w); err != nil {
		return nil, err
	}
	c.logger.Info("Warehouse created", zap.String("warehouse_id", w.ID), zap.String("name", w.Name))
	return w, nil
}

// GetWarehouse retrieves a warehouse by ID.
func (c *CatalogService) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	return c.store.GetWarehouse(ctx, id)
}

// ListWarehouses retrieves all warehouses.
func (c *CatalogService) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	return c.store.ListWarehouses(ctx)
}

// UpdateWarehouse overwrites a warehouse's fields.
func (c *CatalogService) UpdateWarehouse(ctx context.Context, id string, req *WarehouseRequest) (*models.Warehouse, error) {
	var w *models.Warehouse
	err := c.store.WithTx(ctx, func(tx Store) error {
		cur, err := tx.GetWarehouse(ctx, id)
		if err != nil {
			return err
		}
		cur.Name = req.Name
		cur.Address = req.Address
		cur.TotalCapacity = req.TotalCapacity
		cur.UsedCapacity = req.UsedCapacity
		cur.Zones = req.Zones
		if err := tx.UpdateWarehouse(ctx, cur); err != nil {
			return err
		}
		w = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWarehouse removes a warehouse.
func (c *CatalogService) DeleteWarehouse(ctx context.Context, id string) error {
	return c.store.DeleteWarehouse(ctx, id)
}
