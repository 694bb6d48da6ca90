package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmcosta/resaletrack/internal/status"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	Create(ctx context.Context, o *Order, userID string) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Create inserts the order and its sales record in one transaction. The
// record starts in shipping unless a delivery date is already known.
func (r *PGRepo) Create(ctx context.Context, o *Order, userID string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, product_id, brand_id, size_id, color_id, price, deliver_tax, order_date, delivery_date, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
  `, o.ID, o.ProductID, o.BrandID, o.SizeID, o.ColorID, o.Price, o.DeliverTax, o.OrderDate, o.DeliveryDate); err != nil {
		return err
	}

	o.Status = status.ForOrder(o.DeliveryDate)
	if _, err := tx.Exec(ctx, `
    INSERT INTO sales (id, order_id, user_id, status, created_at, updated_at)
    VALUES ($1,$2,$3,$4,NOW(),NOW())
  `, o.SaleID, o.ID, userID, o.Status); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
    SELECT o.id, o.product_id, o.brand_id, o.size_id, o.color_id,
           p.name, b.name, c.name, sz.name,
           o.order_date::text, o.delivery_date::text,
           o.price::text, o.deliver_tax::text,
           s.id, s.status, s.post_id
    FROM orders o
    JOIN products p ON p.id = o.product_id
    JOIN brands b ON b.id = o.brand_id
    JOIN colors c ON c.id = o.color_id
    JOIN sizes sz ON sz.id = o.size_id
    JOIN sales s ON s.order_id = o.id
    WHERE o.id=$1
  `, id).Scan(&o.ID, &o.ProductID, &o.BrandID, &o.SizeID, &o.ColorID,
		&o.ProductName, &o.BrandName, &o.ColorName, &o.SizeName,
		&o.OrderDate, &o.DeliveryDate, &o.Price, &o.DeliverTax,
		&o.SaleID, &o.Status, &o.PostID)
	if err != nil {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT o.id, o.product_id, o.brand_id, o.size_id, o.color_id,
           p.name, b.name, c.name, sz.name,
           o.order_date::text, o.delivery_date::text,
           o.price::text, o.deliver_tax::text,
           s.id, s.status, s.post_id
    FROM orders o
    JOIN products p ON p.id = o.product_id
    JOIN brands b ON b.id = o.brand_id
    JOIN colors c ON c.id = o.color_id
    JOIN sizes sz ON sz.id = o.size_id
    JOIN sales s ON s.order_id = o.id
    WHERE s.user_id=$1
    ORDER BY o.order_date DESC
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ProductID, &o.BrandID, &o.SizeID, &o.ColorID,
			&o.ProductName, &o.BrandName, &o.ColorName, &o.SizeName,
			&o.OrderDate, &o.DeliveryDate, &o.Price, &o.DeliverTax,
			&o.SaleID, &o.Status, &o.PostID); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Update rewrites the order and rederives the sales-record status from the
// (possibly changed) delivery date.
func (r *PGRepo) Update(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE orders
    SET product_id = $2, brand_id = $3, size_id = $4, color_id = $5,
        price = $6, deliver_tax = $7, order_date = $8, delivery_date = $9,
        updated_at = NOW()
    WHERE id = $1
  `, o.ID, o.ProductID, o.BrandID, o.SizeID, o.ColorID,
		o.Price, o.DeliverTax, o.OrderDate, o.DeliveryDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	// A sold record stays sold; only shipping/stock are rederived here.
	if _, err := tx.Exec(ctx, `
    UPDATE sales SET status = $2, updated_at = NOW()
    WHERE order_id = $1 AND status <> $3
  `, o.ID, status.ForOrder(o.DeliveryDate), status.Sold); err != nil {
		return err
	}
	// Report the effective status, which is not the derived one when the
	// guard above kept the row sold.
	if err := tx.QueryRow(ctx, `SELECT status FROM sales WHERE order_id=$1`, o.ID).
		Scan(&o.Status); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes the order together with its sales record and linked post.
// The product catalog row is kept.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var postID *string
	if err := tx.QueryRow(ctx, `SELECT post_id FROM sales WHERE order_id=$1`, id).Scan(&postID); err != nil {
		return ErrNotFound
	}
	// The sales row references the post, so it has to go first.
	if _, err := tx.Exec(ctx, `DELETE FROM sales WHERE order_id=$1`, id); err != nil {
		return err
	}
	if postID != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE id=$1`, *postID); err != nil {
			return err
		}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
