package store

import (
	"context"
	"fmt"

	"warehouse-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateProduct inserts a product row
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, category_id, unit_price, weight, dimensions, minimum_stock, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := s.q.GetContext(ctx, p, query,
		p.ID, p.SKU, p.Name, p.Description, p.CategoryID, p.UnitPrice,
		p.Weight, p.Dimensions, p.MinimumStock, p.IsActive)
	return mapErr(err)
}

// GetProduct retrieves a product by ID
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.getOne(ctx, &p, fmt.Sprintf("product %s", id),
		"SELECT * FROM products WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var p models.Product
	err := s.getOne(ctx, &p, fmt.Sprintf("product %s", sku),
		"SELECT * FROM products WHERE sku = $1", sku)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.q.Rebind(query)

	var products []models.Product
	if err := s.q.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, mapErr(err)
	}
	return products, nil
}

// ListProducts retrieves products matching the filter with a total count
func (s *Store) ListProducts(ctx context.Context, f models.ListFilter) ([]models.Product, int, error) {
	where, args := "", []interface{}{}
	if f.Search != "" {
		where = " WHERE name ILIKE $1 OR sku ILIKE $1"
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := s.q.GetContext(ctx, &total, "SELECT count(*) FROM products"+where, args...); err != nil {
		return nil, 0, mapErr(err)
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		where, f.Limit, f.Offset())
	var products []models.Product
	if err := s.q.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, mapErr(err)
	}
	return products, total, nil
}

// UpdateProduct updates a product row
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE products
		SET sku = $1, name = $2, description = $3, category_id = $4, unit_price = $5,
		    weight = $6, dimensions = $7, minimum_stock = $8, is_active = $9, updated_at = NOW()
		WHERE id = $10`,
		p.SKU, p.Name, p.Description, p.CategoryID, p.UnitPrice,
		p.Weight, p.Dimensions, p.MinimumStock, p.IsActive, p.ID)
	return checkAffected(res, err, "product", p.ID)
}

// DeleteProduct removes a product row
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return checkAffected(res, err, "product", id)
}

// CreateCategory inserts a category row
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (id, name, description, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := s.q.GetContext(ctx, c, query, c.ID, c.Name, c.Description, c.ParentID)
	return mapErr(err)
}

// GetCategory retrieves a category by ID
func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := s.getOne(ctx, &c, fmt.Sprintf("category %s", id),
		"SELECT * FROM categories WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories retrieves all categories
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.q.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY name")
	return categories, mapErr(err)
}

// UpdateCategory updates a category row
func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE categories SET name = $1, description = $2, parent_id = $3, updated_at = NOW()
		WHERE id = $4`,
		c.Name, c.Description, c.ParentID, c.ID)
	return checkAffected(res, err, "category", c.ID)
}

// DeleteCategory removes a category row
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	return checkAffected(res, err, "category", id)
}

// CreateWarehouse inserts a warehouse row
func (s *Store) CreateWarehouse(ctx context.Context, w *models.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, name, address, total_capacity, used_capacity, zones)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := s.q.GetContext(ctx, w, query,
		w.ID, w.Name, w.Address, w.TotalCapacity, w.UsedCapacity, w.Zones)
	return mapErr(err)
}

// GetWarehouse retrieves a warehouse by ID
func (s *Store) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	var w models.Warehouse
	err := s.getOne(ctx, &w, fmt.Sprintf("warehouse %s", id),
		"SELECT * FROM warehouses WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWarehouses retrieves all warehouses, oldest first
func (s *Store) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := s.q.SelectContext(ctx, &warehouses, "SELECT * FROM warehouses ORDER BY created_at")
	return warehouses, mapErr(err)
}

// UpdateWarehouse updates a warehouse row
func (s *Store) UpdateWarehouse(ctx context.Context, w *models.Warehouse) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE warehouses
		SET name = $1, address = $2, total_capacity = $3, used_capacity = $4, zones = $5, updated_at = NOW()
		WHERE id = $6`,
		w.Name, w.Address, w.TotalCapacity, w.UsedCapacity, w.Zones, w.ID)
	return checkAffected(res, err, "warehouse", w.ID)
}

// DeleteWarehouse removes a warehouse row
func (s *Store) DeleteWarehouse(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM warehouses WHERE id = $1", id)
	return checkAffected(res, err, "warehouse", id)
}

// FirstWarehouse returns the oldest warehouse on record
func (s *Store) FirstWarehouse(ctx context.Context) (*models.Warehouse, error) {
	var w models.Warehouse
	err := s.getOne(ctx, &w, "warehouse",
		"SELECT * FROM warehouses ORDER BY created_at LIMIT 1")
	if err != nil {
		return nil, err
	}
	return &w, nil
}
