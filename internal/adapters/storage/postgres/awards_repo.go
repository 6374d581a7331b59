package postgres

import (
	"context"
	"database/sql"

	"vet-clinic/internal/domain/awards"
)

type AwardsRepo struct {
	db *sql.DB
}

func NewAwardsRepo(db *sql.DB) *AwardsRepo {
	return &AwardsRepo{db: db}
}

var _ awards.Repository = (*AwardsRepo)(nil)

const awardColumns = `
	id, pet_id, title, category, description, issued_by, awarded_at,
	is_valid, revoked_at, revoke_reason, created_at, updated_at`

func (r *AwardsRepo) Create(ctx context.Context, a awards.Award) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO awards (`+awardColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID, a.PetID, a.Title, string(a.Category), a.Description, a.IssuedBy, a.AwardedAt,
		a.IsValid, toNullTime(a.RevokedAt), a.RevokeReason, a.CreatedAt, a.UpdatedAt,
	)
	return mapErr(err, "award", a.ID)
}

func (r *AwardsRepo) Update(ctx context.Context, a awards.Award) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE awards
		SET
			title = $2,
			category = $3,
			description = $4,
			issued_by = $5,
			awarded_at = $6,
			is_valid = $7,
			revoked_at = $8,
			revoke_reason = $9,
			updated_at = $10
		WHERE id = $1
	`,
		a.ID, a.Title, string(a.Category), a.Description, a.IssuedBy, a.AwardedAt,
		a.IsValid, toNullTime(a.RevokedAt), a.RevokeReason, a.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "award", a.ID)
	}
	return expectOne(res, "award", a.ID)
}

func (r *AwardsRepo) GetByID(ctx context.Context, id string) (awards.Award, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+awardColumns+` FROM awards WHERE id = $1`, id)
	a, err := scanAward(row)
	if err != nil {
		return awards.Award{}, mapErr(err, "award", id)
	}
	return a, nil
}

func (r *AwardsRepo) ListByPet(ctx context.Context, petID string, onlyValid bool) ([]awards.Award, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+awardColumns+`
		FROM awards
		WHERE pet_id = $1 AND (NOT $2 OR is_valid)
		ORDER BY awarded_at DESC, id ASC
	`, petID, onlyValid)
	if err != nil {
		return nil, mapErr(err, "award", "")
	}
	defer rows.Close()

	out := make([]awards.Award, 0)
	for rows.Next() {
		a, err := scanAward(rows)
		if err != nil {
			return nil, mapErr(err, "award", "")
		}
		out = append(out, a)
	}
	return out, mapErr(rows.Err(), "award", "")
}

func (r *AwardsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM awards WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "award", id)
	}
	return expectOne(res, "award", id)
}

func scanAward(s scanner) (awards.Award, error) {
	var (
		a        awards.Award
		category string
		revoked  sql.NullTime
	)
	err := s.Scan(
		&a.ID, &a.PetID, &a.Title, &category, &a.Description, &a.IssuedBy, &a.AwardedAt,
		&a.IsValid, &revoked, &a.RevokeReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return awards.Award{}, err
	}
	a.Category = awards.Category(category)
	a.RevokedAt = fromNullTime(revoked)
	return a, nil
}
