package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/models"
	"github.com/shopspring/decimal"
)

const productSelect = `
		SELECT p.id, p.category_id, c.name, p.name, p.description, p.price, p.image_url,
		       p.stock, p.created_at, p.updated_at, p.version
		FROM products p
		JOIN categories c ON c.id = p.category_id`

func scanProduct(row interface{ Scan(...interface{}) error }, product *models.Product) error {
	category := &models.Category{}
	err := row.Scan(
		&product.ID,
		&product.CategoryID,
		&category.Name,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Version,
	)
	if err != nil {
		return err
	}
	category.ID = product.CategoryID
	product.Category = category
	return nil
}

type ProductParams struct {
	CategoryID  int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stock       int
}

func CreateProduct(ctx context.Context, q database.Querier, p ProductParams) (*models.Product, error) {
	var id int64

	err := q.QueryRowContext(ctx,
		`INSERT INTO products (category_id, name, description, price, image_url, stock, created_at, updated_at, version)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), 1)
		 RETURNING id`,
		p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL, p.Stock).Scan(&id)
	if err != nil {
		if database.IsForeignKeyViolation(err, "products_category_id_fkey") {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	return GetProduct(ctx, q, id)
}

func GetProduct(ctx context.Context, q database.Querier, id int64) (*models.Product, error) {
	product := &models.Product{}

	if err := scanProduct(q.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// LockProduct reads a product and holds a share lock on its row until the
// transaction ends, so it cannot be deleted or repriced underneath the caller.
func LockProduct(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	product := &models.Product{}

	query := productSelect + ` WHERE p.id = $1 FOR SHARE OF p`

	if err := scanProduct(tx.QueryRowContext(ctx, query, id), product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("lock product %d: %w", id, err)
	}

	return product, nil
}

func ProductExists(ctx context.Context, q database.Querier, id int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`,
		id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}
	return exists, nil
}

func UpdateProduct(ctx context.Context, q database.Querier, id int64, p ProductParams) (*models.Product, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE products
		 SET category_id = $1, name = $2, description = $3, price = $4, image_url = $5, stock = $6,
		     updated_at = NOW(), version = version + 1
		 WHERE id = $7`,
		p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL, p.Stock, id)
	if err != nil {
		if database.IsForeignKeyViolation(err, "products_category_id_fkey") {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, database.ErrProductNotFound
	}

	return GetProduct(ctx, q, id)
}

func DeleteProduct(ctx context.Context, q database.Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

// ProductFilter narrows ListProducts. Zero values mean "no restriction".
type ProductFilter struct {
	NameContains string
	CategoryID   int64
}

func (f ProductFilter) where() (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if name := strings.TrimSpace(f.NameContains); name != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(name))+"%")
		clauses = append(clauses, fmt.Sprintf(`LOWER(p.name) LIKE $%d`, len(args)))
	}
	if f.CategoryID != 0 {
		args = append(args, f.CategoryID)
		clauses = append(clauses, fmt.Sprintf(`p.category_id = $%d`, len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func ListProducts(ctx context.Context, q database.Querier, filter ProductFilter) ([]models.Product, error) {
	where, args := filter.where()

	rows, err := q.QueryContext(ctx, productSelect+where+` ORDER BY p.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func ListProductsPage(ctx context.Context, q database.Querier, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := q.QueryContext(ctx, productSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	return NewOffsetPage(products, total, page, pageSize), nil
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}
