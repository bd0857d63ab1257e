package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

const productColumns = `id, name, category, price, stock_quantity, requires_prescription, created_at, updated_at`

// ProductRepository хранит каталог в таблице products и ведёт по ней складской журнал.
// Списание выполняется условным UPDATE, поэтому остаток не уходит в минус даже между репликами сервиса.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию каталога и склада.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{db: store.DB()}
}

func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return result, nil
}

func (r *ProductRepository) List(ctx context.Context, limit int) ([]domain.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// Upsert добавляет товар или обновляет его карточку вместе с остатком.
func (r *ProductRepository) Upsert(ctx context.Context, product domain.Product) error {
	if errs := product.Validate(); len(errs) > 0 {
		return errors.Join(errs...)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, price, stock_quantity, requires_prescription, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    category = EXCLUDED.category,
		    price = EXCLUDED.price,
		    stock_quantity = EXCLUDED.stock_quantity,
		    requires_prescription = EXCLUDED.requires_prescription,
		    updated_at = EXCLUDED.updated_at
	`, product.ID, product.Name, product.Category, product.Price, product.StockQuantity, product.RequiresPrescription, now); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Decrement(ctx context.Context, productID string, qty int32) error {
	return r.DecrementAll(ctx, []domain.StockLine{{ProductID: productID, Qty: qty}})
}

func (r *ProductRepository) Increment(ctx context.Context, productID string, qty int32) error {
	return r.IncrementAll(ctx, []domain.StockLine{{ProductID: productID, Qty: qty}})
}

// DecrementAll списывает все строки в одной транзакции. Строки одного товара суммируются,
// товары обрабатываются в порядке ID, чтобы параллельные списания не взаимоблокировались.
func (r *ProductRepository) DecrementAll(ctx context.Context, lines []domain.StockLine) error {
	need, err := aggregateStock(lines)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, line := range need {
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock_quantity = stock_quantity - $2, updated_at = $3
				WHERE id = $1 AND stock_quantity >= $2
			`, line.ProductID, line.Qty, now)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			if affected == 1 {
				continue
			}

			var (
				name      string
				available int32
			)
			err = tx.QueryRowContext(ctx, `SELECT name, stock_quantity FROM products WHERE id = $1`, line.ProductID).Scan(&name, &available)
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrProductNotFound
			}
			if err != nil {
				return fmt.Errorf("read stock: %w", err)
			}
			return &domain.InsufficientStockError{ProductID: line.ProductID, Name: name, Requested: line.Qty, Available: available}
		}
		return nil
	})
}

func (r *ProductRepository) IncrementAll(ctx context.Context, lines []domain.StockLine) error {
	need, err := aggregateStock(lines)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, line := range need {
			res, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock_quantity = stock_quantity + $2, updated_at = $3
				WHERE id = $1
			`, line.ProductID, line.Qty, now)
			if err != nil {
				return fmt.Errorf("increment stock: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			if affected == 0 {
				return domain.ErrProductNotFound
			}
		}
		return nil
	})
}

// aggregateStock складывает строки одного товара и сортирует результат по ID.
func aggregateStock(lines []domain.StockLine) ([]domain.StockLine, error) {
	sums := make(map[string]int32, len(lines))
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, domain.ErrItemQtyInvalid
		}
		sums[line.ProductID] += line.Qty
	}

	result := make([]domain.StockLine, 0, len(sums))
	for id, qty := range sums {
		result = append(result, domain.StockLine{ProductID: id, Qty: qty})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProductID < result[j].ProductID })
	return result, nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.StockQuantity, &p.RequiresPrescription, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Product{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

var (
	_ domain.ProductCatalog  = (*ProductRepository)(nil)
	_ domain.InventoryLedger = (*ProductRepository)(nil)
)
