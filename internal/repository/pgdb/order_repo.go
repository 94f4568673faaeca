package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const orderColumns = `id, user_id, status, shipping_address, payment_method, total::text, created_at, updated_at`

// OrderRepo хранит заказы в таблицах orders и order_items.
// Create и UpdateStatus рассчитаны на вызов внутри транзакции (tr.PgTransactor).
type OrderRepo struct {
	db   DB
	conv converter.OrderConverter
}

func NewOrderRepo(db DB, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{db: db, conv: conv}
}

func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	m, items := o.conv.ToModel(order)
	q := conn(ctx, o.db)

	query := `
		INSERT INTO orders (id, user_id, status, shipping_address, payment_method, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
	`
	if _, err := q.Exec(ctx, query,
		m.ID, m.UserID, m.Status, m.ShippingAddress, m.PaymentMethod, m.Total, m.CreatedAt, m.UpdatedAt,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(items) == 0 {
		return nil
	}

	var (
		positions  = make([]int, len(items))
		productIDs = make([]string, len(items))
		quantities = make([]int, len(items))
		prices     = make([]string, len(items))
	)
	for i, it := range items {
		positions[i], productIDs[i], quantities[i], prices[i] = it.Position, it.ProductID, it.Quantity, it.Price
	}

	itemsQuery := `
		INSERT INTO order_items (order_id, position, product_id, quantity, price)
		SELECT $1::text, p.position, p.product_id, p.quantity, p.price::numeric
		FROM unnest($2::int[], $3::text[], $4::int[], $5::text[]) AS p(position, product_id, quantity, price)
	`
	if _, err := q.Exec(ctx, itemsQuery, m.ID, positions, productIDs, quantities, prices); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (o *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return o.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByIDForUpdate блокирует строку заказа до конца текущей транзакции.
func (o *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return o.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (o *OrderRepo) getOne(ctx context.Context, query, id string) (*domain.Order, error) {
	q := conn(ctx, o.db)

	var m converter.OrderModel
	err := q.QueryRow(ctx, query, id).
		Scan(&m.ID, &m.UserID, &m.Status, &m.ShippingAddress, &m.PaymentMethod, &m.Total, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := o.items(ctx, q, []string{m.ID})
	if err != nil {
		return nil, err
	}

	order, err := o.conv.ToEntity(&m, items[m.ID])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return order, nil
}

// ListByUser возвращает заказы от новых к старым.
func (o *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := conn(ctx, o.db)

	rows, err := q.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var (
		models []converter.OrderModel
		ids    []string
	)
	for rows.Next() {
		var m converter.OrderModel
		if err := rows.Scan(&m.ID, &m.UserID, &m.Status, &m.ShippingAddress, &m.PaymentMethod, &m.Total, &m.CreatedAt, &m.UpdatedAt); err != nil {
			rows.Close()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, m)
		ids = append(ids, m.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := o.items(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(models))
	for i := range models {
		order, err := o.conv.ToEntity(&models[i], items[models[i].ID])
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *order)
	}

	return result, nil
}

func (o *OrderRepo) UpdateStatus(ctx context.Context, order *domain.Order) error {
	tag, err := conn(ctx, o.db).Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		order.ID, string(order.Status), order.UpdatedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
	}

	return nil
}

func (o *OrderRepo) items(ctx context.Context, q DB, orderIDs []string) (map[string][]converter.OrderItemModel, error) {
	result := make(map[string][]converter.OrderItemModel, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := q.Query(ctx, `
		SELECT order_id, position, product_id, quantity, price::text
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, orderIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var it converter.OrderItemModel
		if err := rows.Scan(&it.OrderID, &it.Position, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result[it.OrderID] = append(result[it.OrderID], it)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
