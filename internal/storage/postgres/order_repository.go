package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

const orderColumns = `
	id, user_id, status, shipping_address, payment_method, payment_status, payment_id,
	subtotal, shipping_fee, tax, total_amount,
	prescription_required, prescription_status, prescription_ref, prescription_note,
	stock_deduction, stock_deducted, version, created_at, updated_at`

// OrderRepository хранит заказы в таблицах orders и order_items.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{db: store.DB()}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encode shipping address: %w", err)
	}

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO orders (`+orderColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		`,
			order.ID, order.UserID, string(order.Status), address,
			string(order.PaymentMethod), string(order.PaymentStatus), order.PaymentID,
			order.Subtotal, order.ShippingFee, order.Tax, order.TotalAmount,
			order.PrescriptionRequired, string(order.PrescriptionStatus), order.PrescriptionRef, order.PrescriptionNote,
			string(order.StockDeduction), order.StockDeducted, order.Version, order.CreatedAt, order.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrOrderAlreadyExists
			}
			return fmt.Errorf("insert order: %w", err)
		}

		for i, item := range order.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, position, product_id, name, qty, price)
				VALUES ($1,$2,$3,$4,$5,$6)
			`, order.ID, i, item.ProductID, item.Name, item.Qty, item.Price); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

func (r *OrderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, []string{order.ID})
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]string, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// Save обновляет изменяемые поля заказа, если версия в базе совпадает с order.Version.
// Позиции и суммы после создания не меняются.
func (r *OrderRepository) Save(ctx context.Context, order domain.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    payment_status = $2,
		    payment_id = $3,
		    prescription_status = $4,
		    prescription_ref = $5,
		    prescription_note = $6,
		    stock_deduction = $7,
		    stock_deducted = $8,
		    updated_at = $9,
		    version = version + 1
		WHERE id = $10 AND version = $11
	`,
		string(order.Status), string(order.PaymentStatus), order.PaymentID,
		string(order.PrescriptionStatus), order.PrescriptionRef, order.PrescriptionNote,
		string(order.StockDeduction), order.StockDeducted, order.UpdatedAt,
		order.ID, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, order.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check order exists: %w", err)
	}
	if !exists {
		return domain.ErrOrderNotFound
	}
	return domain.ErrOrderVersionConflict
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, qty, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Qty, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order                                         domain.Order
		status, method, payStatus, rxStatus, dedPoint string
		address                                       []byte
	)
	if err := row.Scan(
		&order.ID, &order.UserID, &status, &address, &method, &payStatus, &order.PaymentID,
		&order.Subtotal, &order.ShippingFee, &order.Tax, &order.TotalAmount,
		&order.PrescriptionRequired, &rxStatus, &order.PrescriptionRef, &order.PrescriptionNote,
		&dedPoint, &order.StockDeducted, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
		return domain.Order{}, fmt.Errorf("decode shipping address: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	order.PaymentMethod = domain.PaymentMethod(method)
	order.PaymentStatus = domain.PaymentStatus(payStatus)
	order.PrescriptionStatus = domain.PrescriptionStatus(rxStatus)
	order.StockDeduction = domain.StockDeductionPoint(dedPoint)
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()
	return order, nil
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
