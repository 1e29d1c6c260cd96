package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mixbar/kitstore/internal/core/domain"
)

// MySQLAdapter backs the catalog (products, kits and their ordered product
// refs) and the immutable order log. Order kit snapshots are stored as a
// JSON document so a persisted order can never be rewritten by later
// catalog changes.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, price, stock_quantity
		FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, price, stock_quantity
		FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) GetKit(ctx context.Context, id int64) (*domain.Kit, error) {
	var k domain.Kit
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, price, quantity
		FROM kits WHERE id = ?`, id,
	).Scan(&k.ID, &k.Name, &k.Price, &k.Quantity)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query kit: %w", err)
	}

	refs, err := m.kitProductRefs(ctx, id)
	if err != nil {
		return nil, err
	}
	k.ProductRefs = refs
	return &k, nil
}

func (m *MySQLAdapter) SearchKits(ctx context.Context, name string) ([]domain.Kit, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, price, quantity
		FROM kits
		WHERE LOWER(name) LIKE CONCAT('%', LOWER(?), '%')
		ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("search kits: %w", err)
	}
	defer rows.Close()

	var kits []domain.Kit
	for rows.Next() {
		var k domain.Kit
		if err := rows.Scan(&k.ID, &k.Name, &k.Price, &k.Quantity); err != nil {
			return nil, fmt.Errorf("scan kit: %w", err)
		}
		kits = append(kits, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range kits {
		refs, err := m.kitProductRefs(ctx, kits[i].ID)
		if err != nil {
			return nil, err
		}
		kits[i].ProductRefs = refs
	}
	return kits, nil
}

// kitProductRefs loads the kit's product ids in stored position order.
// Position is significant: hydrated results must line up with it.
func (m *MySQLAdapter) kitProductRefs(ctx context.Context, kitID int64) ([]int64, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT product_id FROM kit_products
		WHERE kit_id = ? ORDER BY position`, kitID)
	if err != nil {
		return nil, fmt.Errorf("query kit products: %w", err)
	}
	defer rows.Close()

	var refs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan kit product: %w", err)
		}
		refs = append(refs, id)
	}
	return refs, rows.Err()
}

func (m *MySQLAdapter) SaveOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	kitsJSON, err := json.Marshal(order.Kits)
	if err != nil {
		return nil, fmt.Errorf("marshal order kits: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user, kits, created_at)
		VALUES (?, ?, ?)`,
		order.User, kitsJSON, order.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("order id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	saved := *order
	saved.ID = id
	return &saved, nil
}

func (m *MySQLAdapter) ListOrders(ctx context.Context, user string) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user, kits, created_at
		FROM orders WHERE user = ?
		ORDER BY id DESC`, user)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var kitsJSON []byte
		if err := rows.Scan(&o.ID, &o.User, &kitsJSON, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(kitsJSON, &o.Kits); err != nil {
			return nil, fmt.Errorf("unmarshal order %d kits: %w", o.ID, err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
