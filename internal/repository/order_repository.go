package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/order-service/internal/domain"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListCurrent(ctx context.Context) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
	AppendChatMessage(ctx context.Context, msg *domain.ChatMessage) error
	ChatMessages(ctx context.Context, orderID string) ([]domain.ChatMessage, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO orders (id, customer, phone, address, type, status, total)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		order.ID,
		order.Customer,
		order.Phone,
		order.Address,
		order.Type,
		order.Status,
		order.Total,
	).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	if err := insertItems(ctx, tx, order); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE orders SET customer=$1, phone=$2, address=$3, type=$4, total=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := tx.Exec(ctx, query,
		order.Customer,
		order.Phone,
		order.Address,
		order.Type,
		order.Total,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, order.ID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, order); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
        SELECT id, customer, phone, address, type, status, total, created_at, updated_at
        FROM orders WHERE id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.Customer,
		&order.Phone,
		&order.Address,
		&order.Type,
		&order.Status,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	chat, err := r.ChatMessages(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Chat = chat
	return &order, nil
}

// ListCurrent returns today's orders plus older ones not yet completed. Chat
// transcripts are not loaded for listings.
func (r *orderRepository) ListCurrent(ctx context.Context) ([]domain.Order, error) {
	const query = `
        SELECT id, customer, phone, address, type, status, total, created_at, updated_at
        FROM orders
        WHERE created_at >= date_trunc('day', NOW()) OR status <> $1
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, domain.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Customer,
			&order.Phone,
			&order.Address,
			&order.Type,
			&order.Status,
			&order.Total,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsFor(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) AppendChatMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO chat_messages (id, order_id, message, sender, sent_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.pool.Exec(ctx, query, msg.ID, msg.OrderID, msg.Message, msg.Sender, msg.SentAt)
	return err
}

func (r *orderRepository) ChatMessages(ctx context.Context, orderID string) ([]domain.ChatMessage, error) {
	const query = `
        SELECT id, order_id, message, sender, sent_at
        FROM chat_messages WHERE order_id=$1 ORDER BY sent_at`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.OrderID, &msg.Message, &msg.Sender, &msg.SentAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *orderRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *orderRepository) itemsFor(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const query = `
        SELECT id, product_id, product_name, quantity, price
        FROM order_items WHERE order_id=$1 ORDER BY product_name`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	const query = `
        INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price)
        VALUES ($1,$2,$3,$4,$5,$6)`
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if _, err := tx.Exec(ctx, query,
			item.ID,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
		); err != nil {
			return err
		}
	}
	return nil
}
