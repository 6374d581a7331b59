package postgres

import (
	"context"
	"database/sql"
	"strings"

	"vet-clinic/internal/domain/clients"
)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

var _ clients.Repository = (*ClientsRepo)(nil)

const clientColumns = `id, first_name, last_name, email, phone, address, created_at, updated_at`

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt)
	return mapErr(err, "client", c.ID)
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients
		SET
			first_name = $2,
			last_name = $3,
			email = $4,
			phone = $5,
			address = $6,
			updated_at = $7
		WHERE id = $1
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.UpdatedAt)
	if err != nil {
		return mapErr(err, "client", c.ID)
	}
	return expectOne(res, "client", c.ID)
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err != nil {
		return clients.Client{}, mapErr(err, "client", id)
	}
	return c, nil
}

func (r *ClientsRepo) List(ctx context.Context, filter clients.ListFilter) ([]clients.Client, error) {
	limit := sql.NullInt64{Int64: int64(filter.Limit), Valid: filter.Limit > 0}
	pattern := "%" + escapeLike(strings.TrimSpace(filter.Query)) + "%"

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`, pattern, limit, filter.Offset)
	if err != nil {
		return nil, mapErr(err, "client", "")
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, mapErr(err, "client", "")
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err(), "client", "")
}

func (r *ClientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "client", id)
	}
	return expectOne(res, "client", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (clients.Client, error) {
	var c clients.Client
	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
