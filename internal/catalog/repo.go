// Package catalog provides the repository for the reference tables
// (users, products, brands, sizes, colors) and the product stock flag.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("catalog entry not found")
)

type Repository interface {
	Lookups(ctx context.Context) (*Lookups, error)
	GetUser(ctx context.Context, id string) (*Lookup, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Lookups(ctx context.Context) (*Lookups, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := &Lookups{}
	for _, t := range []struct {
		table string
		dst   *[]Lookup
	}{
		{"users", &out.Users},
		{"products", &out.Products},
		{"brands", &out.Brands},
		{"sizes", &out.Sizes},
		{"colors", &out.Colors},
	} {
		rows, err := r.db.Query(ctx, `SELECT id, name FROM `+t.table+` ORDER BY name`)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var l Lookup
			if err := rows.Scan(&l.ID, &l.Name); err != nil {
				rows.Close()
				return nil, err
			}
			*t.dst = append(*t.dst, l)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PGRepo) GetUser(ctx context.Context, id string) (*Lookup, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u Lookup
	err := r.db.QueryRow(ctx, `SELECT id, name FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Name)
	if err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}
