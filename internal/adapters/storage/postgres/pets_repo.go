package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"vet-clinic/internal/domain/pets"
	"vet-clinic/internal/platform/apperr"
)

// Vacunas e historial viven en columnas JSONB, como subdocumentos.
type vaccinationJSON struct {
	Name           string     `json:"name"`
	AdministeredAt time.Time  `json:"administeredAt"`
	NextDueAt      *time.Time `json:"nextDueAt,omitempty"`
	Veterinarian   string     `json:"veterinarian,omitempty"`
}

type historyJSON struct {
	RecordedAt   time.Time `json:"recordedAt"`
	Description  string    `json:"description"`
	Veterinarian string    `json:"veterinarian,omitempty"`
}

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

const petColumns = `
	id, client_id,
	name, species, breed, sex,
	birth_date, microchip, weight_kg,
	vaccinations, medical_history,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	vacs, hist, err := encodePetChildren(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.ClientID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		toNullTime(p.BirthDate),
		p.Microchip,
		p.WeightKg,
		vacs,
		hist,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err, "pet", p.ID)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	vacs, hist, err := encodePetChildren(p)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			sex = $5,
			birth_date = $6,
			microchip = $7,
			weight_kg = $8,
			vaccinations = $9,
			medical_history = $10,
			updated_at = $11
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		toNullTime(p.BirthDate),
		p.Microchip,
		p.WeightKg,
		vacs,
		hist,
		p.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "pet", p.ID)
	}
	return expectOne(res, "pet", p.ID)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err != nil {
		return pets.Pet{}, mapErr(err, "pet", id)
	}
	return p, nil
}

func (r *PetsRepo) ListByClient(ctx context.Context, clientID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE client_id = $1
		ORDER BY created_at ASC
	`, clientID)
	if err != nil {
		return nil, mapErr(err, "pet", "")
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, mapErr(err, "pet", "")
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err(), "pet", "")
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "pet", id)
	}
	return expectOne(res, "pet", id)
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p             pets.Pet
		species, sex  string
		bd            sql.NullTime
		vacsRaw, hist []byte
	)
	if err := s.Scan(
		&p.ID,
		&p.ClientID,
		&p.Name,
		&species,
		&p.Breed,
		&sex,
		&bd,
		&p.Microchip,
		&p.WeightKg,
		&vacsRaw,
		&hist,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)
	p.Sex = pets.Sex(sex)
	// ojo: birth_date es date, pgx lo mapea a time.Time midnight UTC
	p.BirthDate = fromNullTime(bd)

	var vacs []vaccinationJSON
	if err := json.Unmarshal(vacsRaw, &vacs); err != nil {
		return pets.Pet{}, err
	}
	for _, v := range vacs {
		p.Vaccinations = append(p.Vaccinations, pets.Vaccination(v))
	}
	var entries []historyJSON
	if err := json.Unmarshal(hist, &entries); err != nil {
		return pets.Pet{}, err
	}
	for _, h := range entries {
		p.MedicalHistory = append(p.MedicalHistory, pets.HistoryEntry(h))
	}
	return p, nil
}

func encodePetChildren(p pets.Pet) (string, string, error) {
	vacs := make([]vaccinationJSON, 0, len(p.Vaccinations))
	for _, v := range p.Vaccinations {
		vacs = append(vacs, vaccinationJSON(v))
	}
	hist := make([]historyJSON, 0, len(p.MedicalHistory))
	for _, h := range p.MedicalHistory {
		hist = append(hist, historyJSON(h))
	}

	vb, err := json.Marshal(vacs)
	if err != nil {
		return "", "", apperr.Wrap(err, "encode vaccinations")
	}
	hb, err := json.Marshal(hist)
	if err != nil {
		return "", "", apperr.Wrap(err, "encode medical history")
	}
	return string(vb), string(hb), nil
}
