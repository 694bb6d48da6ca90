package post

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmcosta/resaletrack/internal/status"
)

var (
	ErrNotFound          = errors.New("post not found")
	ErrSaleNotFound      = errors.New("no sales record for order")
	ErrStillShipping     = errors.New("order is still shipping")
	ErrSellPriceRequired = errors.New("sell date set without sell price")
)

type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	ListByUser(ctx context.Context, userID string) ([]Post, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Create inserts the post and moves its sales record to stock (or straight
// to sold when sale data is already present). Posting an order that is
// still shipping is rejected.
func (r *PGRepo) Create(ctx context.Context, p *Post) error {
	if p.SellDate != nil && !p.SellPrice.Valid {
		return ErrSellPriceRequired
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var saleStatus, productID string
	if err := tx.QueryRow(ctx, `
    SELECT s.status, o.product_id
    FROM sales s JOIN orders o ON o.id = s.order_id
    WHERE s.order_id=$1
  `, p.OrderID).Scan(&saleStatus, &productID); err != nil {
		return ErrSaleNotFound
	}
	if saleStatus == status.Shipping {
		return ErrStillShipping
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO posts (id, order_id, first_price, sell_price, ad_tax, post_date, sell_date, views, likes, offers, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
  `, p.ID, p.OrderID, p.FirstPrice, p.SellPrice, p.AdTax, p.PostDate, p.SellDate, p.Views, p.Likes, p.Proposals); err != nil {
		return err
	}

	p.Status = status.ForPost(p.SellPrice, p.SellDate)
	if _, err := tx.Exec(ctx, `
    UPDATE sales SET post_id = $2, status = $3, updated_at = NOW()
    WHERE order_id = $1
  `, p.OrderID, p.ID, p.Status); err != nil {
		return err
	}
	if err := r.setProductFlag(ctx, tx, productID, p.Status); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Post
	err := r.db.QueryRow(ctx, selectPosts+` WHERE ps.id=$1`, id).Scan(scanTargets(&p)...)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectPosts+` WHERE s.user_id=$1 ORDER BY ps.post_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(scanTargets(&p)...); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the post and rederives the sales-record status from the
// new sell price/date pair.
func (r *PGRepo) Update(ctx context.Context, p *Post) error {
	if p.SellDate != nil && !p.SellPrice.Valid {
		return ErrSellPriceRequired
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE posts
    SET first_price = $2, sell_price = $3, ad_tax = $4, post_date = $5,
        sell_date = $6, views = $7, likes = $8, offers = $9, updated_at = NOW()
    WHERE id = $1
  `, p.ID, p.FirstPrice, p.SellPrice, p.AdTax, p.PostDate, p.SellDate, p.Views, p.Likes, p.Proposals)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	p.Status = status.ForPost(p.SellPrice, p.SellDate)
	if _, err := tx.Exec(ctx, `
    UPDATE sales SET status = $2, updated_at = NOW() WHERE post_id = $1
  `, p.ID, p.Status); err != nil {
		return err
	}

	var productID string
	if err := tx.QueryRow(ctx, `
    SELECT o.product_id FROM posts ps JOIN orders o ON o.id = ps.order_id WHERE ps.id=$1
  `, p.ID).Scan(&productID); err != nil {
		return err
	}
	if err := r.setProductFlag(ctx, tx, productID, p.Status); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes the post and, when it had been sold, reverts the product
// catalog flag to STOCK. The sales record's status is deliberately left
// untouched (its post_id is cleared by the schema's ON DELETE SET NULL);
// only deleting the order removes the record itself.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var saleStatus, productID string
	if err := tx.QueryRow(ctx, `
    SELECT s.status, o.product_id
    FROM posts ps
    JOIN orders o ON o.id = ps.order_id
    JOIN sales s ON s.post_id = ps.id
    WHERE ps.id=$1
  `, id).Scan(&saleStatus, &productID); err != nil {
		return ErrNotFound
	}

	tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if saleStatus == status.Sold {
		if _, err := tx.Exec(ctx, `UPDATE products SET status=$2, updated_at=NOW() WHERE id=$1`,
			productID, status.FlagStock); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) setProductFlag(ctx context.Context, tx pgx.Tx, productID, saleStatus string) error {
	flag := status.FlagStock
	if saleStatus == status.Sold {
		flag = status.FlagSold
	}
	_, err := tx.Exec(ctx, `UPDATE products SET status=$2, updated_at=NOW() WHERE id=$1`, productID, flag)
	return err
}

const selectPosts = `
    SELECT ps.id, ps.order_id,
           ps.post_date::text, ps.first_price::text, ps.sell_price::text, ps.ad_tax::text, ps.sell_date::text,
           ps.views, ps.likes, ps.offers,
           o.order_date::text, o.delivery_date::text, o.price::text, o.deliver_tax::text,
           p.name, b.name, c.name, sz.name,
           s.status
    FROM posts ps
    JOIN orders o ON o.id = ps.order_id
    JOIN products p ON p.id = o.product_id
    JOIN brands b ON b.id = o.brand_id
    JOIN colors c ON c.id = o.color_id
    JOIN sizes sz ON sz.id = o.size_id
    JOIN sales s ON s.post_id = ps.id`

func scanTargets(p *Post) []any {
	return []any{
		&p.ID, &p.OrderID,
		&p.PostDate, &p.FirstPrice, &p.SellPrice, &p.AdTax, &p.SellDate,
		&p.Views, &p.Likes, &p.Proposals,
		&p.OrderDate, &p.DeliveryDate, &p.OrderPrice, &p.OrderDeliverTax,
		&p.ProductName, &p.BrandName, &p.ColorName, &p.SizeName,
		&p.Status,
	}
}
