package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

type productRepository struct {
	storage *Storage
}

const productColumns = `id, seller_id, title, price, stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(&p.ID, &p.SellerID, &p.Title, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (seller_id, title, price, stock)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id, created_at, updated_at`
	p := *product
	err := r.storage.pool.QueryRow(ctx, query, p.SellerID, p.Title, p.Price, p.Stock).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, sellerID *int64) ([]model.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products
                   WHERE $1::BIGINT IS NULL OR seller_id=$1
                   ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	const query = `UPDATE products SET title=$2, price=$3, stock=$4, updated_at=NOW()
                   WHERE id=$1
                   RETURNING ` + productColumns
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, query, product.ID, product.Title, product.Price, product.Stock))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return fmt.Errorf("product is referenced by orders: %w", domainErrors.ErrConflict)
		}
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
